package handler

import (
	"net/http"

	"github.com/matchdash-io/matchdash/internal/dash"
)

// PanelHandler serves the current rendered dashboard panels.
type PanelHandler struct {
	state *dash.State
}

// NewPanelHandler creates a PanelHandler reading from state.
func NewPanelHandler(state *dash.State) *PanelHandler {
	return &PanelHandler{state: state}
}

// Panels returns every panel's current content plus the derived last-price
// and chart views. Panels still loading or in error carry their status.
// GET /api/panels
func (h *PanelHandler) Panels(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"panels":     h.state.Panels(),
		"last_price": h.state.LastPrice(),
	}
	if chart, ok := h.state.Chart(); ok {
		resp["chart"] = chart
	}
	writeJSON(w, http.StatusOK, resp)
}
