package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/matchdash-io/matchdash/internal/domain"
)

type stubStrategy struct {
	name   string
	orders []domain.OrderRequest
}

func (s *stubStrategy) Name() string                                 { return s.name }
func (s *stubStrategy) Orders(context.Context) []domain.OrderRequest { return s.orders }

type recordingSubmitter struct {
	mu       sync.Mutex
	received chan domain.OrderRequest
}

func newRecordingSubmitter() *recordingSubmitter {
	return &recordingSubmitter{received: make(chan domain.OrderRequest, 64)}
}

func (r *recordingSubmitter) PostOrder(_ context.Context, req domain.OrderRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	select {
	case r.received <- req:
	default:
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, interval time.Duration) (*Engine, *recordingSubmitter) {
	t.Helper()
	reg := NewRegistry()
	reg.Register(&stubStrategy{
		name:   "stub",
		orders: []domain.OrderRequest{{Side: domain.SideBuy, Type: domain.OrderTypeMarket, Quantity: 1}},
	})
	sub := newRecordingSubmitter()
	return NewEngine(reg, sub, nil, interval, discardLogger()), sub
}

func TestEngineStartsIdle(t *testing.T) {
	e, _ := newTestEngine(t, time.Second)
	status := e.Status()
	if status.Mode != domain.BotIdle || status.Strategy != "" {
		t.Errorf("initial status = %+v", status)
	}
}

func TestEngineStartUnknownStrategy(t *testing.T) {
	e, _ := newTestEngine(t, time.Second)
	_, err := e.Start("nope")
	if !errors.Is(err, domain.ErrUnknownStrategy) {
		t.Fatalf("want ErrUnknownStrategy, got %v", err)
	}
	if e.Status().Mode != domain.BotIdle {
		t.Error("failed start must leave the engine idle")
	}
}

func TestEngineTicksAndSubmits(t *testing.T) {
	e, sub := newTestEngine(t, 10*time.Millisecond)
	defer e.Stop()

	status, err := e.Start("stub")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if status.Mode != domain.BotRunning || status.Strategy != "stub" {
		t.Fatalf("status after start = %+v", status)
	}

	select {
	case req := <-sub.received:
		if req.Side != domain.SideBuy {
			t.Errorf("submitted order = %+v", req)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no order submitted within 2s")
	}
}

func TestEngineStartWhileRunningIsNoop(t *testing.T) {
	e, _ := newTestEngine(t, time.Hour)
	defer e.Stop()

	if _, err := e.Start("stub"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// A second start, even with a bad name, changes nothing.
	status, err := e.Start("nope")
	if err != nil {
		t.Fatalf("second start returned error: %v", err)
	}
	if status.Mode != domain.BotRunning || status.Strategy != "stub" {
		t.Errorf("status after double start = %+v", status)
	}
}

func TestEngineStopHaltsTicks(t *testing.T) {
	e, sub := newTestEngine(t, 10*time.Millisecond)

	if _, err := e.Start("stub"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	select {
	case <-sub.received:
	case <-time.After(2 * time.Second):
		t.Fatal("engine never ticked")
	}

	status := e.Stop()
	if status.Mode != domain.BotIdle || status.Strategy != "" {
		t.Errorf("status after stop = %+v", status)
	}

	// Drain anything in flight from the final tick, then expect silence.
	time.Sleep(50 * time.Millisecond)
	for len(sub.received) > 0 {
		<-sub.received
	}
	select {
	case req := <-sub.received:
		t.Errorf("order submitted after stop: %+v", req)
	case <-time.After(100 * time.Millisecond):
	}
}

type blockingSubmitter struct {
	started chan struct{}
	release chan struct{}
	result  chan error
}

func newBlockingSubmitter() *blockingSubmitter {
	return &blockingSubmitter{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		result:  make(chan error, 1),
	}
}

func (b *blockingSubmitter) PostOrder(ctx context.Context, _ domain.OrderRequest) error {
	select {
	case b.started <- struct{}{}:
	default:
	}
	select {
	case <-ctx.Done():
		b.result <- ctx.Err()
		return ctx.Err()
	case <-b.release:
		b.result <- nil
		return nil
	}
}

func TestEngineStopDoesNotCancelInflightSubmissions(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubStrategy{
		name:   "stub",
		orders: []domain.OrderRequest{{Side: domain.SideBuy, Type: domain.OrderTypeMarket, Quantity: 1}},
	})
	sub := newBlockingSubmitter()
	e := NewEngine(reg, sub, nil, 10*time.Millisecond, discardLogger())

	if _, err := e.Start("stub"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-sub.started:
	case <-time.After(2 * time.Second):
		t.Fatal("no submission started")
	}

	e.Stop()

	// The submission from the final tick is still blocked. If Stop had torn
	// its context down, it would have returned context.Canceled by now.
	select {
	case err := <-sub.result:
		t.Fatalf("in-flight submission aborted by Stop: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	close(sub.release)
	select {
	case err := <-sub.result:
		if err != nil {
			t.Errorf("in-flight submission did not complete cleanly: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight submission never finished")
	}
}

func TestEngineStopWhileIdleIsNoop(t *testing.T) {
	e, _ := newTestEngine(t, time.Second)
	status := e.Stop()
	if status.Mode != domain.BotIdle {
		t.Errorf("status = %+v", status)
	}
}

func TestEngineRunStopsOnContextCancel(t *testing.T) {
	e, _ := newTestEngine(t, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	// Give Run a moment to anchor the parent context.
	time.Sleep(10 * time.Millisecond)
	if _, err := e.Start("stub"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if e.Status().Mode != domain.BotIdle {
		t.Error("engine still running after application shutdown")
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubStrategy{name: "b"})
	reg.Register(&stubStrategy{name: "a"})

	if got := reg.List(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("List = %v", got)
	}
	if _, err := reg.Get("a"); err != nil {
		t.Errorf("Get(a): %v", err)
	}
	if _, err := reg.Get("c"); !errors.Is(err, domain.ErrUnknownStrategy) {
		t.Errorf("Get(c) = %v", err)
	}
}
