package bot

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matchdash-io/matchdash/internal/domain"
)

// Engine runs one strategy on a fixed tick while in the running state.
//
// Lifecycle: idle at creation; Start captures the selected strategy and moves
// to running (a no-op when already running); Stop cancels the pending ticker
// and returns to idle (a no-op when idle). Only one ticker is ever active.
// Stopping does not cancel requests already in flight from the final tick.
type Engine struct {
	registry *Registry
	submit   Submitter
	bus      domain.Bus
	interval time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	mode     domain.BotMode
	strategy Strategy
	cancel   context.CancelFunc
	parent   context.Context
}

// NewEngine creates an idle Engine ticking every interval once started.
func NewEngine(registry *Registry, submit Submitter, b domain.Bus, interval time.Duration, logger *slog.Logger) *Engine {
	return &Engine{
		registry: registry,
		submit:   submit,
		bus:      b,
		interval: interval,
		logger:   logger.With(slog.String("component", "bot")),
		mode:     domain.BotIdle,
	}
}

// Run anchors the engine to the application context: strategy runs started
// later are children of ctx. Run blocks until ctx is done, then stops the
// bot. It is not required for Start/Stop to work, but without it runs are
// children of context.Background and outlive the application shutdown.
func (e *Engine) Run(ctx context.Context) error {
	e.mu.Lock()
	e.parent = ctx
	e.mu.Unlock()

	<-ctx.Done()
	e.Stop()
	return ctx.Err()
}

// Start begins a run with the named strategy. The strategy is fixed for the
// whole run; switching requires a stop and a new start. Starting while
// already running is a no-op. The returned status reflects the run that is
// now active.
func (e *Engine) Start(name string) (domain.BotStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == domain.BotRunning {
		return e.statusLocked(), nil
	}

	strat, err := e.registry.Get(name)
	if err != nil {
		return e.statusLocked(), err
	}

	parent := e.parent
	if parent == nil {
		parent = context.Background()
	}
	runCtx, cancel := context.WithCancel(parent)

	e.mode = domain.BotRunning
	e.strategy = strat
	e.cancel = cancel

	e.logger.Info("bot started", slog.String("strategy", strat.Name()))
	go e.loop(runCtx, strat)

	status := e.statusLocked()
	e.publishStatus(runCtx, status)
	return status, nil
}

// Stop ends the current run. Stopping while idle is a no-op. In-flight
// submissions from the final tick are not cancelled and may still complete.
func (e *Engine) Stop() domain.BotStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == domain.BotIdle {
		return e.statusLocked()
	}

	e.cancel()
	e.cancel = nil
	e.mode = domain.BotIdle
	e.strategy = nil

	e.logger.Info("bot stopped")
	status := e.statusLocked()
	e.publishStatus(context.Background(), status)
	return status
}

// Status reports the current mode and, when running, the active strategy.
func (e *Engine) Status() domain.BotStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statusLocked()
}

// Strategies returns the registered strategy names.
func (e *Engine) Strategies() []string {
	return e.registry.List()
}

func (e *Engine) statusLocked() domain.BotStatus {
	status := domain.BotStatus{Mode: e.mode}
	if e.strategy != nil {
		status.Strategy = e.strategy.Name()
	}
	return status
}

// loop ticks until the run context is cancelled. The strategy produces
// orders synchronously; each submission is dispatched without a continuation
// so a slow or failing engine never stalls the tick cadence.
func (e *Engine) loop(ctx context.Context, strat Strategy) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Stopping the bot cancels the ticker only. Work already
			// started by this tick, including the submissions it fans
			// out, runs on a detached context so it may still complete
			// after Stop.
			tickCtx := context.WithoutCancel(ctx)
			for _, req := range strat.Orders(tickCtx) {
				e.fireAndForget(tickCtx, strat.Name(), req)
			}
		}
	}
}

// fireAndForget submits one order in the background. Failures are discarded;
// the only trace is a debug log line. ctx must already be detached from the
// run context so a Stop cannot abort the request.
func (e *Engine) fireAndForget(ctx context.Context, strategy string, req domain.OrderRequest) {
	ref := uuid.NewString()
	go func() {
		err := e.submit.PostOrder(ctx, req)
		if err != nil {
			e.logger.DebugContext(ctx, "bot order dropped",
				slog.String("ref", ref),
				slog.String("strategy", strategy),
				slog.String("error", err.Error()),
			)
			return
		}
		e.logger.DebugContext(ctx, "bot order submitted",
			slog.String("ref", ref),
			slog.String("strategy", strategy),
			slog.String("side", string(req.Side)),
			slog.String("type", string(req.Type)),
		)
	}()
}

func (e *Engine) publishStatus(ctx context.Context, status domain.BotStatus) {
	if e.bus == nil {
		return
	}
	if data, err := json.Marshal(status); err == nil {
		_ = e.bus.Publish(ctx, domain.ChannelBot, data)
	}
}
