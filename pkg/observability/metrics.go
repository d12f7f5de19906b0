package observability

import (
	"context"

	"github.com/aretw0/routinely/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a ports.Notifier that mirrors lifecycle events into Prometheus
// collectors. Register it alongside any other notifier; observation never
// feeds back into the engine.
type Metrics struct {
	events        *prometheus.CounterVec
	sessions      *prometheus.CounterVec
	taskDurations *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. Passing
// prometheus.DefaultRegisterer is the common case.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "routinely",
			Name:      "events_total",
			Help:      "Lifecycle events emitted by the engine, by type.",
		}, []string{"type"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "routinely",
			Name:      "sessions_total",
			Help:      "Sessions reaching a terminal state, by outcome.",
		}, []string{"outcome"}),
		taskDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "routinely",
			Name:      "task_duration_seconds",
			Help:      "Actual task durations, by advancement mode.",
			Buckets:   prometheus.ExponentialBuckets(5, 2, 12),
		}, []string{"mode"}),
	}
	reg.MustRegister(m.events, m.sessions, m.taskDurations)
	return m
}

// Notify implements ports.Notifier.
func (m *Metrics) Notify(ctx context.Context, ev domain.Event) {
	m.events.WithLabelValues(string(ev.Type)).Inc()

	switch ev.Type {
	case domain.EventRoutineCompleted:
		m.sessions.WithLabelValues("completed").Inc()
	case domain.EventRoutineCancelled:
		m.sessions.WithLabelValues("cancelled").Inc()
	case domain.EventTaskCompleted:
		m.taskDurations.WithLabelValues(string(ev.Mode)).Observe(float64(ev.ActualDuration))
	}
}
