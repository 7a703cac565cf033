// Package bus is an in-process pub/sub bus. It carries panel updates from the
// poller and the bot to the WebSocket hub. Each dashboard process is an
// independent client of the engine, so nothing here crosses process
// boundaries.
package bus

import (
	"context"
	"sync"
)

// subscriberBuffer is the per-subscriber channel depth. Messages beyond it
// are dropped for that subscriber rather than blocking the publisher.
const subscriberBuffer = 64

type subscriber struct {
	channel string
	ch      chan []byte
}

// Bus implements domain.Bus for a single process.
type Bus struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

// New returns an empty, ready-to-use Bus.
func New() *Bus {
	return &Bus{subs: make(map[*subscriber]struct{})}
}

// Publish delivers payload to every subscriber of channel. Slow subscribers
// have the message dropped; Publish never blocks.
func (b *Bus) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for s := range b.subs {
		if s.channel != channel {
			continue
		}
		select {
		case s.ch <- payload:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel receiving every payload published on channel.
// The subscription ends, and the returned channel closes, when ctx is done.
func (b *Bus) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	s := &subscriber{channel: channel, ch: make(chan []byte, subscriberBuffer)}

	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, s)
		b.mu.Unlock()
		close(s.ch)
	}()

	return s.ch, nil
}
