package observability

import (
	"context"
	"testing"

	"github.com/aretw0/routinely/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_CountsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	ctx := context.Background()

	m.Notify(ctx, domain.Event{Type: domain.EventRoutineStarted})
	m.Notify(ctx, domain.Event{Type: domain.EventTaskCompleted, Mode: domain.ModeAuto, ActualDuration: 120})
	m.Notify(ctx, domain.Event{Type: domain.EventRoutineCompleted})
	m.Notify(ctx, domain.Event{Type: domain.EventRoutineCancelled})

	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.events.WithLabelValues(string(domain.EventRoutineStarted))))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.events.WithLabelValues(string(domain.EventTaskCompleted))))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.sessions.WithLabelValues("completed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.sessions.WithLabelValues("cancelled")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.taskDurations))
}
