package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/matchdash-io/matchdash/internal/dash"
	"github.com/matchdash-io/matchdash/internal/domain"
	"github.com/matchdash-io/matchdash/internal/export"
)

// ExportHandler serves the trade-history CSV download.
type ExportHandler struct {
	state    *dash.State
	filename string
	logger   *slog.Logger
}

// NewExportHandler creates an ExportHandler serving the current trade list
// from state under the given download filename.
func NewExportHandler(state *dash.State, filename string, logger *slog.Logger) *ExportHandler {
	if filename == "" {
		filename = export.DefaultFilename
	}
	return &ExportHandler{
		state:    state,
		filename: filename,
		logger:   logHandler(logger, "export"),
	}
}

// TradesCSV streams the current trade list as a CSV attachment. An empty
// list yields 409 with an explicit nothing-to-export message instead of an
// empty file.
// GET /api/export/trades.csv
func (h *ExportHandler) TradesCSV(w http.ResponseWriter, r *http.Request) {
	data, err := export.TradesCSV(h.state.Trades())
	if err != nil {
		if errors.Is(err, domain.ErrNoTrades) {
			writeError(w, http.StatusConflict, "No trades to export.")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
