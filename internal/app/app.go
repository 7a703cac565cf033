// Package app provides the top-level application lifecycle for matchdash. It
// wires the engine client, dashboard state, poller, bot, and server together
// and starts the goroutines for the configured operating mode.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/matchdash-io/matchdash/internal/config"
)

// App is the root application object. Every dependency it wires is
// in-process and scoped to the run context, so shutdown is driven entirely
// by context cancellation.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run wires all dependencies, selects the operating mode, starts the
// corresponding goroutines, and blocks until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("mode", a.cfg.Mode),
		slog.String("engine", a.cfg.Engine.BaseURL),
	)

	deps := Wire(a.cfg, a.logger)

	switch strings.ToLower(a.cfg.Mode) {
	case "dash":
		return a.DashMode(ctx, deps)
	case "bot":
		return a.BotMode(ctx, deps)
	case "full":
		return a.FullMode(ctx, deps)
	default:
		return fmt.Errorf("app: unsupported mode %q", a.cfg.Mode)
	}
}

// Close logs the shutdown. There are no resources to release beyond what
// context cancellation already tears down. Safe to call multiple times.
func (a *App) Close() {
	a.logger.Info("shutting down application")
}
