package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/matchdash-io/matchdash/internal/domain"
	"github.com/matchdash-io/matchdash/internal/notify"
)

// OrderGate is the submission gate the handler forwards to.
type OrderGate interface {
	Submit(ctx context.Context, req domain.OrderRequest) error
	ClearAll(ctx context.Context) error
}

// OrderHandler accepts user-entered orders and the clear-all control.
type OrderHandler struct {
	gate     OrderGate
	notifier *notify.Notifier
	logger   *slog.Logger
}

// NewOrderHandler creates an OrderHandler. notifier may be nil.
func NewOrderHandler(gate OrderGate, notifier *notify.Notifier, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		gate:     gate,
		notifier: notifier,
		logger:   logHandler(logger, "order"),
	}
}

// SubmitOrder validates and forwards one order. Validation failures are
// rejected locally with 400 and never reach the engine; engine rejections
// surface the engine's response text with 502. Success does not refresh any
// panel; the next scheduled cycle picks the change up.
// POST /api/orders
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.gate.Submit(r.Context(), req); err != nil {
		if errors.Is(err, domain.ErrInvalidOrder) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "Order submitted!"})
}

// ClearAll asks the engine to wipe its order book and trade history.
// POST /api/clear
func (h *OrderHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.ClearAll(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if h.notifier != nil {
		h.notifier.Notify(r.Context(), notify.EventBookCleared,
			"Book cleared", "Order book and trades cleared.")
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "Order book and trades cleared!"})
}
