package poller

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matchdash-io/matchdash/internal/bus"
	"github.com/matchdash-io/matchdash/internal/dash"
	"github.com/matchdash-io/matchdash/internal/domain"
	"github.com/matchdash-io/matchdash/internal/platform/engine"
	"github.com/matchdash-io/matchdash/internal/render"
)

type engineStub struct {
	orderbook func(w http.ResponseWriter)
	trades    func(w http.ResponseWriter)
	stats     func(w http.ResponseWriter)
}

func (s *engineStub) serve(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /orderbook", func(w http.ResponseWriter, r *http.Request) { s.orderbook(w) })
	mux.HandleFunc("GET /trades", func(w http.ResponseWriter, r *http.Request) { s.trades(w) })
	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) { s.stats(w) })
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func ok(body string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) { io.WriteString(w, body) }
}

func fail(status int, body string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) { http.Error(w, body, status) }
}

func newPoller(t *testing.T, stub *engineStub) (*Poller, *dash.State, *bus.Bus) {
	t.Helper()
	srv := stub.serve(t)
	state := dash.NewState()
	b := bus.New()
	client := engine.NewClient(srv.URL, 5*time.Second)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(client, state, b, time.Second, logger), state, b
}

func TestRefreshBookRendersSnapshot(t *testing.T) {
	stub := &engineStub{
		orderbook: ok(`[{"10":[{"side":"Buy","order_type":"Limit","price":10,"quantity":1}]}, {}]`),
	}
	p, state, _ := newPoller(t, stub)

	p.RefreshBook(context.Background())

	panel := state.Panels()[dash.PanelBook]
	if panel.Status != dash.StatusReady {
		t.Fatalf("panel = %+v", panel)
	}
	view, castOK := panel.Content.(render.BookView)
	if !castOK {
		t.Fatalf("content type %T", panel.Content)
	}
	if len(view.Buys.Rows) != 1 || view.Buys.Rows[0].Price != "10.00" {
		t.Errorf("view = %+v", view)
	}
}

func TestRefreshBookMalformedSnapshotIsContent(t *testing.T) {
	stub := &engineStub{orderbook: ok(`{"not":"an array"}`)}
	p, state, _ := newPoller(t, stub)

	p.RefreshBook(context.Background())

	panel := state.Panels()[dash.PanelBook]
	if panel.Status != dash.StatusReady {
		t.Fatalf("malformed snapshot must not be a cycle failure: %+v", panel)
	}
	view := panel.Content.(render.BookView)
	if view.Unavailable != render.BookUnavailableText {
		t.Errorf("view = %+v", view)
	}
}

func TestRefreshBookTransportErrorIsPanelLocal(t *testing.T) {
	stub := &engineStub{orderbook: fail(http.StatusInternalServerError, "engine exploded")}
	p, state, _ := newPoller(t, stub)

	p.RefreshBook(context.Background())

	panel := state.Panels()[dash.PanelBook]
	if panel.Status != dash.StatusError {
		t.Fatalf("panel = %+v", panel)
	}
	if !strings.HasPrefix(panel.Error, "Error: ") || !strings.Contains(panel.Error, "engine exploded") {
		t.Errorf("panel error = %q", panel.Error)
	}
	// Other panels stay untouched.
	if state.Panels()[dash.PanelTrades].Status != dash.StatusLoading {
		t.Error("book failure leaked into the trades panel")
	}
}

func TestRefreshTradesUpdatesDerivedViews(t *testing.T) {
	stub := &engineStub{
		trades: ok(`[{"buy_order_id":1,"sell_order_id":2,"price":10,"quantity":1},
		             {"buy_order_id":3,"sell_order_id":4,"price":12,"quantity":2}]`),
	}
	p, state, b := newPoller(t, stub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	chartCh, err := b.Subscribe(ctx, domain.ChannelChart)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	p.RefreshTrades(ctx)

	panel := state.Panels()[dash.PanelTrades]
	if panel.Status != dash.StatusReady {
		t.Fatalf("panel = %+v", panel)
	}
	if lp := state.LastPrice(); lp.Price != "12.00" {
		t.Errorf("last price = %+v", lp)
	}
	chart, exists := state.Chart()
	if !exists || len(chart.Prices) != 2 {
		t.Fatalf("chart = %+v exists=%v", chart, exists)
	}

	select {
	case data := <-chartCh:
		var got dash.Chart
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("chart payload: %v", err)
		}
		if len(got.Prices) != 2 || got.Prices[1] != 12 {
			t.Errorf("published chart = %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no chart update published")
	}
}

func TestRefreshTradesFailureResetsLastPrice(t *testing.T) {
	stub := &engineStub{trades: fail(http.StatusBadGateway, "down")}
	p, state, _ := newPoller(t, stub)

	state.SetTrades([]domain.Trade{{Price: 10}})
	p.RefreshTrades(context.Background())

	if panel := state.Panels()[dash.PanelTrades]; panel.Status != dash.StatusError {
		t.Fatalf("panel = %+v", panel)
	}
	if lp := state.LastPrice(); lp.Empty != render.NoTradesText {
		t.Errorf("last price not reset: %+v", lp)
	}
	// The chart is never cleared by a failed cycle.
	if _, exists := state.Chart(); !exists {
		t.Error("chart lost on trades failure")
	}
}

func TestRefreshStats(t *testing.T) {
	stub := &engineStub{stats: ok(`{"total_trades":3}`)}
	p, state, _ := newPoller(t, stub)

	p.RefreshStats(context.Background())

	panel := state.Panels()[dash.PanelStats]
	if panel.Status != dash.StatusReady {
		t.Fatalf("panel = %+v", panel)
	}
	view := panel.Content.(render.StatsView)
	if len(view.Lines) != 1 || view.Lines[0] != "total_trades: 3" {
		t.Errorf("view = %+v", view)
	}
}

func TestRefreshRecordsCompletions(t *testing.T) {
	stub := &engineStub{
		orderbook: ok(`[{}, {}]`),
		stats:     fail(http.StatusInternalServerError, "no stats"),
	}
	p, state, _ := newPoller(t, stub)

	p.RefreshBook(context.Background())
	p.RefreshStats(context.Background())

	got := state.Completions()
	if len(got) != 2 || got[0] != dash.PanelBook || got[1] != dash.PanelStats {
		t.Errorf("completions = %v", got)
	}
}
