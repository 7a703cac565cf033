package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/matchdash-io/matchdash/internal/bot"
	"github.com/matchdash-io/matchdash/internal/domain"
	"github.com/matchdash-io/matchdash/internal/notify"
)

// BotHandler exposes start/stop/status controls for the simulated bot.
type BotHandler struct {
	engine   *bot.Engine
	notifier *notify.Notifier
	logger   *slog.Logger
}

// NewBotHandler creates a BotHandler. notifier may be nil.
func NewBotHandler(engine *bot.Engine, notifier *notify.Notifier, logger *slog.Logger) *BotHandler {
	return &BotHandler{
		engine:   engine,
		notifier: notifier,
		logger:   logHandler(logger, "bot"),
	}
}

// Start begins a bot run with the requested strategy. Starting while already
// running is a no-op and reports the active run.
// POST /api/bot/start
func (h *BotHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Strategy string `json:"strategy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	status, err := h.engine.Start(req.Strategy)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownStrategy) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.notifier != nil {
		h.notifier.Notify(r.Context(), notify.EventBotStarted,
			"Bot started", "Strategy: "+status.Strategy)
	}
	writeJSON(w, http.StatusOK, status)
}

// Stop ends the current bot run. Stopping while idle is a no-op.
// POST /api/bot/stop
func (h *BotHandler) Stop(w http.ResponseWriter, r *http.Request) {
	status := h.engine.Stop()
	if h.notifier != nil {
		h.notifier.Notify(r.Context(), notify.EventBotStopped,
			"Bot stopped", "The simulated bot is idle.")
	}
	writeJSON(w, http.StatusOK, status)
}

// Status reports the bot's mode, active strategy, and the strategies
// available to start.
// GET /api/bot/status
func (h *BotHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     h.engine.Status(),
		"strategies": h.engine.Strategies(),
	})
}
