package routinely

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/routinely/internal/logging"
	"github.com/aretw0/routinely/internal/runtime"
	"github.com/aretw0/routinely/pkg/domain"
	"github.com/aretw0/routinely/pkg/ports"
	"github.com/aretw0/routinely/pkg/runner"
)

// Version is the library version.
const Version = "0.1.0"

// StartOptions carries the pre-execution review edits for Start.
type StartOptions = runtime.StartOptions

// Engine is the high-level entry point for the routinely library. It wraps
// the internal state machine and the clock that drives it behind one API.
type Engine struct {
	runtime *runtime.Engine
	runner  *runner.Runner
	catalog ports.Catalog
	logger  *slog.Logger

	runtimeOpts []runtime.EngineOption
	interval    time.Duration
	clock       ports.Clock
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithNotifier registers a sink for lifecycle events.
func WithNotifier(n ports.Notifier) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithNotifier(n))
	}
}

// WithSessionStore enables crash-recovery persistence.
func WithSessionStore(s ports.SessionStore) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithSessionStore(s))
	}
}

// WithHistoryStore enables archiving of finished sessions.
func WithHistoryStore(h ports.HistoryStore) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithHistoryStore(h))
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithWarningThreshold sets how long before a task's expiry the
// ending-soon event fires.
func WithWarningThreshold(d time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithWarningThreshold(d))
	}
}

// WithTickInterval sets the driving clock cadence (default one second).
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) { e.interval = d }
}

// WithClock injects a clock, mainly for tests.
func WithClock(c ports.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// New creates an engine over the given catalog. Call Run to start the
// driving clock; until then time-based advancement is dormant.
func New(catalog ports.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:  catalog,
		logger:   logging.NewNop(),
		interval: time.Second,
		clock:    ports.WallClock{},
	}
	for _, opt := range opts {
		opt(e)
	}

	rtOpts := append([]runtime.EngineOption{
		runtime.WithLogger(e.logger),
		runtime.WithClock(e.clock),
	}, e.runtimeOpts...)
	e.runtime = runtime.NewEngine(catalog, rtOpts...)
	e.runner = runner.New(e.runtime,
		runner.WithInterval(e.interval),
		runner.WithClock(e.clock),
		runner.WithLogger(e.logger),
	)
	return e
}

// Run restores any persisted session and starts the driving clock. It
// returns immediately; the clock stops when ctx is cancelled or Stop is
// called.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.runtime.Restore(ctx); err != nil {
		return err
	}
	e.runner.Start(ctx)
	return nil
}

// Stop halts the driving clock. The session state is untouched: a paused
// or running session stays persisted and can be picked up again.
func (e *Engine) Stop() {
	e.runner.Stop()
}

// Runtime exposes the underlying state machine for transport adapters.
func (e *Engine) Runtime() *runtime.Engine {
	return e.runtime
}

// Catalog exposes the task and routine definitions.
func (e *Engine) Catalog() ports.Catalog {
	return e.catalog
}

// Start begins executing a routine.
func (e *Engine) Start(ctx context.Context, routineID string, opts StartOptions) (*domain.Session, error) {
	return e.runtime.Start(ctx, routineID, opts)
}

// Snapshot returns a copy of the in-flight session, or nil.
func (e *Engine) Snapshot() *domain.Session {
	return e.runtime.Snapshot()
}

// Active reports whether a session is in flight.
func (e *Engine) Active() bool {
	return e.runtime.Active()
}

// Pause freezes the running session.
func (e *Engine) Pause(ctx context.Context) error { return e.runtime.Pause(ctx) }

// Resume thaws a paused session.
func (e *Engine) Resume(ctx context.Context) error { return e.runtime.Resume(ctx) }

// Skip skips the current task.
func (e *Engine) Skip(ctx context.Context) error { return e.runtime.Skip(ctx) }

// CompleteTask manually completes the current manual or confirm task.
func (e *Engine) CompleteTask(ctx context.Context) error { return e.runtime.CompleteTask(ctx) }

// Confirm approves the current task from within its confirm window.
func (e *Engine) Confirm(ctx context.Context) error { return e.runtime.Confirm(ctx) }

// Snooze extends the open confirm window by the given seconds (or the
// default when zero).
func (e *Engine) Snooze(ctx context.Context, seconds int) error {
	return e.runtime.Snooze(ctx, seconds)
}

// AdjustTime shifts the active task's remaining time by the given seconds.
func (e *Engine) AdjustTime(ctx context.Context, seconds int) error {
	return e.runtime.AdjustTime(ctx, seconds)
}

// Cancel terminates the session.
func (e *Engine) Cancel(ctx context.Context) error { return e.runtime.Cancel(ctx) }
