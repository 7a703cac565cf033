// Package dash owns the dashboard's mutable state: the three panel contents,
// the last-price display, the raw trade list, the price chart, and the log of
// refresh-cycle completions. Components get defined access instead of ambient
// globals: the poller writes panels and trades, chart sync rewrites the chart,
// everything else only reads.
package dash

import (
	"sync"
	"time"

	"github.com/matchdash-io/matchdash/internal/domain"
	"github.com/matchdash-io/matchdash/internal/render"
)

// PanelID names one independently refreshed dashboard panel.
type PanelID string

const (
	PanelBook   PanelID = "book"
	PanelTrades PanelID = "trades"
	PanelStats  PanelID = "stats"
)

// Panel status values.
const (
	StatusLoading = "loading"
	StatusReady   = "ready"
	StatusError   = "error"
)

// Panel is the current content of one dashboard panel. Exactly one refresh
// completion writes a panel at a time; overlapping cycles race and the last
// writer wins.
type Panel struct {
	Status  string    `json:"status"`
	Error   string    `json:"error,omitempty"`
	Content any       `json:"content,omitempty"`
	Updated time.Time `json:"updated"`
}

// State is the single application-state object shared by the poller, the
// handlers, and the WebSocket hub. All methods are safe for concurrent use.
type State struct {
	mu          sync.Mutex
	panels      map[PanelID]Panel
	lastPrice   render.LastPriceView
	trades      []domain.Trade
	chart       Chart
	chartExists bool
	completions []PanelID
}

// NewState returns a State with every panel in the loading status and the
// last-price display in its empty state.
func NewState() *State {
	s := &State{
		panels:    make(map[PanelID]Panel),
		lastPrice: render.LastPriceView{Empty: render.NoTradesText},
	}
	for _, id := range []PanelID{PanelBook, PanelTrades, PanelStats} {
		s.panels[id] = Panel{Status: StatusLoading}
	}
	return s
}

// SetLoading marks a panel as refreshing. Prior content stays visible to
// readers that ignore the status, matching a spinner overlay.
func (s *State) SetLoading(id PanelID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.panels[id]
	p.Status = StatusLoading
	s.panels[id] = p
}

// SetContent replaces a panel's content after a successful refresh and
// records the completion.
func (s *State) SetContent(id PanelID, content any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panels[id] = Panel{Status: StatusReady, Content: content, Updated: time.Now()}
	s.completions = append(s.completions, id)
}

// SetError replaces a panel's content with a panel-local error message and
// records the completion. Other panels are unaffected.
func (s *State) SetError(id PanelID, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panels[id] = Panel{Status: StatusError, Error: msg, Updated: time.Now()}
	s.completions = append(s.completions, id)
}

// Panels returns a copy of all current panels.
func (s *State) Panels() map[PanelID]Panel {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[PanelID]Panel, len(s.panels))
	for id, p := range s.panels {
		out[id] = p
	}
	return out
}

// SetTrades stores the latest successfully fetched trade list wholesale and
// refreshes the views derived from it: the last-price display and the chart.
func (s *State) SetTrades(trades []domain.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = trades
	s.lastPrice = render.LastPrice(trades)
	s.syncChartLocked(trades)
}

// ResetLastPrice returns the last-price display to its empty state. Called
// when a trades refresh fails.
func (s *State) ResetLastPrice() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPrice = render.LastPriceView{Empty: render.NoTradesText}
}

// Trades returns the most recently fetched trade list.
func (s *State) Trades() []domain.Trade {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Trade, len(s.trades))
	copy(out, s.trades)
	return out
}

// LastPrice returns the current last-price view.
func (s *State) LastPrice() render.LastPriceView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPrice
}

// Completions returns the order in which refresh cycles completed since
// startup. Overlapping polls are not cancelled, so under a slow engine this
// sequence is the only record of which response won a panel.
func (s *State) Completions() []PanelID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PanelID, len(s.completions))
	copy(out, s.completions)
	return out
}
