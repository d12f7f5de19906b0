package notify

import (
	"context"
	"log/slog"

	"github.com/aretw0/routinely/pkg/domain"
	"github.com/aretw0/routinely/pkg/ports"
)

// Slog is a ports.Notifier that logs every event through a structured
// logger. Useful as a development sink and as the audit trail in servers.
type Slog struct {
	logger *slog.Logger
}

// NewSlog creates a logging notifier.
func NewSlog(logger *slog.Logger) *Slog {
	return &Slog{logger: logger}
}

// Notify implements ports.Notifier.
func (n *Slog) Notify(ctx context.Context, ev domain.Event) {
	attrs := []any{
		"session_id", ev.SessionID,
		"routine_id", ev.RoutineID,
	}
	if ev.TaskID != "" {
		attrs = append(attrs, "task_id", ev.TaskID, "task_name", ev.TaskName)
	}
	n.logger.InfoContext(ctx, string(ev.Type), attrs...)
}

// Multi fans an event out to several notifiers in registration order.
type Multi struct {
	sinks []ports.Notifier
}

// NewMulti creates a fan-out notifier.
func NewMulti(sinks ...ports.Notifier) *Multi {
	return &Multi{sinks: sinks}
}

// Add registers another sink.
func (n *Multi) Add(sink ports.Notifier) {
	n.sinks = append(n.sinks, sink)
}

// Notify implements ports.Notifier.
func (n *Multi) Notify(ctx context.Context, ev domain.Event) {
	for _, sink := range n.sinks {
		sink.Notify(ctx, ev)
	}
}

// Channel is a ports.Notifier that forwards events to a buffered channel,
// dropping when the consumer falls behind. Event delivery must never block
// the engine.
type Channel struct {
	ch chan domain.Event
}

// NewChannel creates a channel notifier with the given buffer size.
func NewChannel(buffer int) *Channel {
	if buffer <= 0 {
		buffer = 64
	}
	return &Channel{ch: make(chan domain.Event, buffer)}
}

// Events exposes the receive side.
func (n *Channel) Events() <-chan domain.Event {
	return n.ch
}

// Notify implements ports.Notifier.
func (n *Channel) Notify(ctx context.Context, ev domain.Event) {
	select {
	case n.ch <- ev:
	default:
		// Consumer is behind; drop rather than stall a transition.
	}
}
