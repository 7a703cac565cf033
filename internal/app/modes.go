package app

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// shutdownGrace bounds how long in-flight HTTP requests may finish after the
// run context is cancelled.
const shutdownGrace = 10 * time.Second

// DashMode runs the dashboard: the panel poller, the bot engine (idle until
// started over the API), the WebSocket hub, and the HTTP server.
func (a *App) DashMode(ctx context.Context, deps *Deps) error {
	a.logger.InfoContext(ctx, "running in dash mode")
	return a.run(ctx, deps, false)
}

// BotMode runs the simulated bot headless, auto-starting the configured
// strategy. The poller still runs so operators can attach a dashboard later
// if the server is enabled.
func (a *App) BotMode(ctx context.Context, deps *Deps) error {
	a.logger.InfoContext(ctx, "running in bot mode",
		slog.String("strategy", a.cfg.Bot.Strategy),
	)
	return a.run(ctx, deps, true)
}

// FullMode runs the dashboard with the configured bot strategy auto-started.
func (a *App) FullMode(ctx context.Context, deps *Deps) error {
	a.logger.InfoContext(ctx, "running in full mode",
		slog.String("strategy", a.cfg.Bot.Strategy),
	)
	return a.run(ctx, deps, true)
}

func (a *App) run(ctx context.Context, deps *Deps, autoStartBot bool) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return deps.Poller.Run(gctx)
	})

	g.Go(func() error {
		return deps.Bot.Run(gctx)
	})

	if autoStartBot || a.cfg.Bot.AutoStart {
		if _, err := deps.Bot.Start(a.cfg.Bot.Strategy); err != nil {
			return err
		}
	}

	if deps.Hub != nil {
		g.Go(func() error {
			return deps.Hub.Run(gctx)
		})
	}

	if deps.Server != nil {
		g.Go(func() error {
			return deps.Server.Start()
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			if err := deps.Server.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn("server shutdown error", slog.String("error", err.Error()))
			}
			return gctx.Err()
		})
	}

	return g.Wait()
}
