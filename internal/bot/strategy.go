// Package bot drives the simulated trading bot: a background generator that
// writes orders to the engine on a fixed tick, with an explicit idle/running
// lifecycle. Submissions are fire-and-forget; the simulation never blocks on,
// retries, or surfaces an order failure.
package bot

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/matchdash-io/matchdash/internal/domain"
)

// Strategy produces the orders to submit on one bot tick. Implementations may
// read market data but must not submit anything themselves.
type Strategy interface {
	Name() string
	Orders(ctx context.Context) []domain.OrderRequest
}

// Submitter places one order with the engine. Implemented by the engine
// client.
type Submitter interface {
	PostOrder(ctx context.Context, req domain.OrderRequest) error
}

// TradeSource provides the current trade list. Implemented by the engine
// client.
type TradeSource interface {
	Trades(ctx context.Context) ([]domain.Trade, error)
}

// Registry is a named collection of strategies, safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry returns an empty, ready-to-use Registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Strategy)}
}

// Register adds a strategy under its own name, replacing any previous one.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[s.Name()] = s
}

// Get retrieves a strategy by name.
func (r *Registry) Get(name string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, name)
	}
	return s, nil
}

// List returns all registered strategy names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for n := range r.strategies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
