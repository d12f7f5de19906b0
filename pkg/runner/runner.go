package runner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/routinely/internal/logging"
	"github.com/aretw0/routinely/pkg/ports"
)

// Ticker is the engine surface the runner drives. The engine's Tick is
// idempotent for a given instant, so delivering a tick late or after the
// session ended is harmless.
type Ticker interface {
	Tick(ctx context.Context, now time.Time)
}

// Runner delivers wall-clock ticks to an engine on a fixed cadence. The
// engine recomputes everything from absolute timestamps, so the cadence
// only bounds how quickly expiries are noticed, not correctness.
type Runner struct {
	engine   Ticker
	clock    ports.Clock
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures the Runner.
type Option func(*Runner)

// WithInterval sets the tick cadence. Defaults to one second.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithClock injects a clock, mainly for tests.
func WithClock(c ports.Clock) Option {
	return func(r *Runner) { r.clock = c }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// New creates a runner for the given engine.
func New(engine Ticker, opts ...Option) *Runner {
	r := &Runner{
		engine:   engine,
		clock:    ports.WallClock{},
		interval: time.Second,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the tick loop in a goroutine. Starting a running runner is
// a no-op. The loop ends when ctx is cancelled or Stop is called.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	done := make(chan struct{})
	r.done = done

	go func() {
		defer close(done)
		r.loop(ctx)
	}()
}

// Stop halts the tick loop and waits for it to drain.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel = nil
	r.done = nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (r *Runner) loop(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Debug("tick loop started", "interval", r.interval)
	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("tick loop stopped")
			return
		case <-ticker.C:
			r.deliver(ctx)
		}
	}
}

// deliver fires one tick, isolating the loop from notifier panics.
func (r *Runner) deliver(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tick panicked", "panic", rec)
		}
	}()
	r.engine.Tick(ctx, r.clock.Now())
}
