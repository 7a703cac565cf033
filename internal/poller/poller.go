// Package poller drives the three panel refresh cycles against the engine.
//
// Each panel (order book, trades, stats) refreshes independently at a fixed
// cadence, plus one immediate run at startup. A cycle that fails only touches
// its own panel and heals on the next successful cycle. Outstanding requests
// are never de-duplicated or cancelled: when a tick fires while the previous
// attempt is still in flight, both run and whichever completes last owns the
// panel's final content for that interval. The resulting completion order is
// recorded on dash.State so the race stays observable.
package poller

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/matchdash-io/matchdash/internal/book"
	"github.com/matchdash-io/matchdash/internal/dash"
	"github.com/matchdash-io/matchdash/internal/domain"
	"github.com/matchdash-io/matchdash/internal/platform/engine"
	"github.com/matchdash-io/matchdash/internal/render"
)

// Poller owns the three refresh cycles.
type Poller struct {
	client   *engine.Client
	state    *dash.State
	bus      domain.Bus
	interval time.Duration
	logger   *slog.Logger
}

// New creates a Poller refreshing every interval.
func New(client *engine.Client, state *dash.State, b domain.Bus, interval time.Duration, logger *slog.Logger) *Poller {
	return &Poller{
		client:   client,
		state:    state,
		bus:      b,
		interval: interval,
		logger:   logger.With(slog.String("component", "poller")),
	}
}

// Run refreshes all panels once immediately, then on every tick until ctx is
// done. Each refresh runs in its own goroutine so a slow panel never delays
// the others.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.InfoContext(ctx, "poller started", slog.Duration("interval", p.interval))
	defer p.logger.Info("poller stopped")

	p.RefreshAll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.RefreshAll(ctx)
		}
	}
}

// RefreshAll kicks off one refresh attempt per panel without waiting for any
// of them.
func (p *Poller) RefreshAll(ctx context.Context) {
	go p.RefreshBook(ctx)
	go p.RefreshTrades(ctx)
	go p.RefreshStats(ctx)
}

// RefreshBook runs one order-book cycle to completion.
func (p *Poller) RefreshBook(ctx context.Context) {
	p.state.SetLoading(dash.PanelBook)

	raw, err := p.client.OrderBook(ctx)
	if err != nil {
		p.fail(ctx, dash.PanelBook, domain.ChannelBook, err)
		return
	}

	var view render.BookView
	snap, err := book.Normalize(raw)
	if err != nil {
		// A malformed snapshot is content, not a cycle failure: the
		// panel shows the unavailable state and stays self-healing.
		view = render.BookUnavailable()
	} else {
		view = render.Book(snap)
	}
	p.state.SetContent(dash.PanelBook, view)
	p.publish(ctx, domain.ChannelBook, view)
}

// RefreshTrades runs one trade-history cycle to completion, keeping the
// last-price display and the chart in lock-step with the table.
func (p *Poller) RefreshTrades(ctx context.Context) {
	p.state.SetLoading(dash.PanelTrades)

	trades, err := p.client.Trades(ctx)
	if err != nil {
		p.state.ResetLastPrice()
		p.fail(ctx, dash.PanelTrades, domain.ChannelTrades, err)
		return
	}

	view := render.Trades(trades)
	p.state.SetTrades(trades)
	p.state.SetContent(dash.PanelTrades, view)

	p.publish(ctx, domain.ChannelTrades, view)
	p.publish(ctx, domain.ChannelLastPrice, p.state.LastPrice())
	if chart, ok := p.state.Chart(); ok {
		p.publish(ctx, domain.ChannelChart, chart)
	}
}

// RefreshStats runs one stats cycle to completion.
func (p *Poller) RefreshStats(ctx context.Context) {
	p.state.SetLoading(dash.PanelStats)

	stats, err := p.client.Stats(ctx)
	if err != nil {
		p.fail(ctx, dash.PanelStats, domain.ChannelStats, err)
		return
	}

	view := render.Stats(stats)
	p.state.SetContent(dash.PanelStats, view)
	p.publish(ctx, domain.ChannelStats, view)
}

func (p *Poller) fail(ctx context.Context, id dash.PanelID, channel string, err error) {
	msg := "Error: " + err.Error()
	p.state.SetError(id, msg)
	p.logger.WarnContext(ctx, "panel refresh failed",
		slog.String("panel", string(id)),
		slog.String("error", err.Error()),
	)
	p.publish(ctx, channel, map[string]string{"error": msg})
}

func (p *Poller) publish(ctx context.Context, channel string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = p.bus.Publish(ctx, channel, data)
}
