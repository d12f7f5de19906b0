package runner_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/routinely/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTicker struct {
	ticks atomic.Int64
	panic bool
}

func (c *countingTicker) Tick(ctx context.Context, now time.Time) {
	c.ticks.Add(1)
	if c.panic {
		panic("notifier blew up")
	}
}

func waitForTicks(t *testing.T, c *countingTicker, n int64) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for c.ticks.Load() < n {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d ticks, got %d", n, c.ticks.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestRunner_DeliversTicks(t *testing.T) {
	eng := &countingTicker{}
	r := runner.New(eng, runner.WithInterval(10*time.Millisecond))

	r.Start(context.Background())
	waitForTicks(t, eng, 3)
	r.Stop()

	after := eng.ticks.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, eng.ticks.Load(), "no ticks after Stop")
}

func TestRunner_StopsOnContextCancel(t *testing.T) {
	eng := &countingTicker{}
	r := runner.New(eng, runner.WithInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	waitForTicks(t, eng, 1)
	cancel()

	time.Sleep(50 * time.Millisecond)
	after := eng.ticks.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, eng.ticks.Load())
	r.Stop()
}

func TestRunner_SurvivesPanickingTick(t *testing.T) {
	eng := &countingTicker{panic: true}
	r := runner.New(eng, runner.WithInterval(10*time.Millisecond))

	r.Start(context.Background())
	waitForTicks(t, eng, 3)
	r.Stop()

	require.GreaterOrEqual(t, eng.ticks.Load(), int64(3), "loop keeps ticking past panics")
}

func TestRunner_StartTwiceIsNoop(t *testing.T) {
	eng := &countingTicker{}
	r := runner.New(eng, runner.WithInterval(10*time.Millisecond))

	r.Start(context.Background())
	r.Start(context.Background())
	waitForTicks(t, eng, 2)
	r.Stop()
	r.Stop()
}
