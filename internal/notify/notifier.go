// Package notify pushes operational events (bot lifecycle, book clears) to
// chat channels. Delivery failures are logged and never propagate into the
// dashboard's control flow.
package notify

import (
	"context"
	"log/slog"
	"strings"
)

// Event types emitted by matchdash.
const (
	EventBotStarted  = "bot_started"
	EventBotStopped  = "bot_stopped"
	EventBookCleared = "book_cleared"
)

// Sender is one notification channel.
type Sender interface {
	Send(ctx context.Context, title, message string) error
	Name() string
}

// Notifier fans an event out to all configured senders, filtered by an
// allow-list of event types. An empty list allows everything.
type Notifier struct {
	senders []Sender
	events  map[string]bool
	logger  *slog.Logger
}

// NewNotifier creates a Notifier delivering to senders. Only events named in
// events pass the filter; an empty slice disables filtering.
func NewNotifier(senders []Sender, events []string, logger *slog.Logger) *Notifier {
	allowed := make(map[string]bool, len(events))
	for _, e := range events {
		allowed[strings.TrimSpace(e)] = true
	}
	return &Notifier{
		senders: senders,
		events:  allowed,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// Notify delivers the message to every sender when the event type passes the
// filter. Individual sender failures do not stop delivery to the rest.
func (n *Notifier) Notify(ctx context.Context, event, title, message string) {
	if len(n.events) > 0 && !n.events[event] {
		return
	}
	for _, s := range n.senders {
		if err := s.Send(ctx, title, message); err != nil {
			n.logger.WarnContext(ctx, "notification delivery failed",
				slog.String("sender", s.Name()),
				slog.String("event", event),
				slog.String("error", err.Error()),
			)
		}
	}
}
