package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/matchdash-io/matchdash/internal/domain"
)

type fakeEngine struct {
	orders  []domain.OrderRequest
	cleared int
	err     error
}

func (f *fakeEngine) PostOrder(_ context.Context, req domain.OrderRequest) error {
	f.orders = append(f.orders, req)
	return f.err
}

func (f *fakeEngine) Clear(context.Context) error {
	f.cleared++
	return f.err
}

func ptr(v float64) *float64 { return &v }

func newGate(engine EngineWriter) *OrderService {
	return NewOrderService(engine, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSubmitValidLimitOrder(t *testing.T) {
	engine := &fakeEngine{}
	gate := newGate(engine)

	req := domain.OrderRequest{
		Side:     domain.SideBuy,
		Type:     domain.OrderTypeLimit,
		Price:    ptr(10.5),
		Quantity: 2,
	}
	if err := gate.Submit(context.Background(), req); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(engine.orders) != 1 {
		t.Fatalf("engine received %d orders", len(engine.orders))
	}
}

func TestSubmitValidMarketOrder(t *testing.T) {
	engine := &fakeEngine{}
	gate := newGate(engine)

	req := domain.OrderRequest{Side: domain.SideSell, Type: domain.OrderTypeMarket, Quantity: 1}
	if err := gate.Submit(context.Background(), req); err != nil {
		t.Fatalf("Submit: %v", err)
	}
}

func TestSubmitRejectsInvalidOrders(t *testing.T) {
	cases := []struct {
		name string
		req  domain.OrderRequest
	}{
		{"missing side", domain.OrderRequest{Type: domain.OrderTypeLimit, Price: ptr(10), Quantity: 1}},
		{"bad side", domain.OrderRequest{Side: "buy", Type: domain.OrderTypeLimit, Price: ptr(10), Quantity: 1}},
		{"zero quantity", domain.OrderRequest{Side: domain.SideBuy, Type: domain.OrderTypeLimit, Price: ptr(10)}},
		{"negative quantity", domain.OrderRequest{Side: domain.SideBuy, Type: domain.OrderTypeLimit, Price: ptr(10), Quantity: -1}},
		{"limit without price", domain.OrderRequest{Side: domain.SideBuy, Type: domain.OrderTypeLimit, Quantity: 1}},
		{"limit zero price", domain.OrderRequest{Side: domain.SideBuy, Type: domain.OrderTypeLimit, Price: ptr(0), Quantity: 1}},
		{"market with price", domain.OrderRequest{Side: domain.SideBuy, Type: domain.OrderTypeMarket, Price: ptr(10), Quantity: 1}},
		{"bad type", domain.OrderRequest{Side: domain.SideBuy, Type: "Stop", Quantity: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := &fakeEngine{}
			gate := newGate(engine)

			err := gate.Submit(context.Background(), tc.req)
			if !errors.Is(err, domain.ErrInvalidOrder) {
				t.Fatalf("want ErrInvalidOrder, got %v", err)
			}
			if len(engine.orders) != 0 {
				t.Error("invalid order reached the engine")
			}
		})
	}
}

func TestSubmitSurfacesEngineRejection(t *testing.T) {
	engine := &fakeEngine{err: domain.ErrEngineRejected}
	gate := newGate(engine)

	req := domain.OrderRequest{Side: domain.SideBuy, Type: domain.OrderTypeMarket, Quantity: 1}
	err := gate.Submit(context.Background(), req)
	if !errors.Is(err, domain.ErrEngineRejected) {
		t.Fatalf("want ErrEngineRejected, got %v", err)
	}
	if !strings.Contains(err.Error(), "order failed") {
		t.Errorf("error = %v", err)
	}
}

func TestClearAll(t *testing.T) {
	engine := &fakeEngine{}
	gate := newGate(engine)

	if err := gate.ClearAll(context.Background()); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if engine.cleared != 1 {
		t.Errorf("clear calls = %d", engine.cleared)
	}

	engine.err = errors.New("boom")
	if err := gate.ClearAll(context.Background()); err == nil {
		t.Error("engine failure must surface")
	}
}
