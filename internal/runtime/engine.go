package runtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/routinely/internal/logging"
	"github.com/aretw0/routinely/pkg/domain"
	"github.com/aretw0/routinely/pkg/ports"
)

// Engine owns the single active session and runs its state machine.
//
// All mutating operations (Start, Pause, Resume, Skip, CompleteTask,
// Confirm, Snooze, AdjustTime, Cancel, Tick) serialize on one mutex, so a
// tick and a user command never interleave mid-transition. Events are
// collected during the transition and emitted to the Notifier only after
// the commit, outside the lock — emission can never delay or block a
// state change.
type Engine struct {
	catalog  ports.Catalog
	notifier ports.Notifier
	store    ports.SessionStore
	history  ports.HistoryStore
	clock    ports.Clock
	logger   *slog.Logger
	warning  time.Duration

	mu      sync.Mutex
	session *domain.Session
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithNotifier registers the sink for lifecycle events.
func WithNotifier(n ports.Notifier) EngineOption {
	return func(e *Engine) { e.notifier = n }
}

// WithSessionStore enables crash-recovery persistence. The session is
// written on every state-changing transition and cleared on terminal ones.
func WithSessionStore(s ports.SessionStore) EngineOption {
	return func(e *Engine) { e.store = s }
}

// WithHistoryStore enables archiving of terminal sessions.
func WithHistoryStore(h ports.HistoryStore) EngineOption {
	return func(e *Engine) { e.history = h }
}

// WithClock injects a clock, mainly for tests.
func WithClock(c ports.Clock) EngineOption {
	return func(e *Engine) { e.clock = c }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithWarningThreshold sets the task_ending_soon threshold.
func WithWarningThreshold(d time.Duration) EngineOption {
	return func(e *Engine) { e.warning = d }
}

// NewEngine creates an engine bound to a catalog.
func NewEngine(catalog ports.Catalog, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog: catalog,
		clock:   ports.WallClock{},
		logger:  logging.NewNop(),
		warning: domain.DefaultTaskEndingWarning * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now exposes the engine's clock.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// Active reports whether a session currently occupies the process-wide slot.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session != nil && e.session.Active()
}

// Snapshot returns a deep copy of the current session, or nil when no
// session is in flight. External layers (UI, HTTP) observe only snapshots.
func (e *Engine) Snapshot() *domain.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone()
}

// Restore rehydrates a persisted session after a process restart.
// Deadlines are stored absolutely, so time elapsed while the process was
// down is subtracted naturally on the next tick.
func (e *Engine) Restore(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	session, err := e.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	if !session.Active() {
		// Stale terminal snapshot; nothing to resume.
		if err := e.store.Clear(ctx); err != nil {
			e.logger.Warn("failed to clear stale session", "err", err)
		}
		return nil
	}
	e.session = session
	e.logger.Info("session restored",
		"session_id", session.ID,
		"routine_id", session.RoutineID,
		"status", session.Status,
		"task_index", session.CurrentTaskIndex,
	)
	return nil
}

// emit delivers events to the notifier, in emission order, after commit.
func (e *Engine) emit(ctx context.Context, events []domain.Event) {
	if e.notifier == nil {
		return
	}
	for _, ev := range events {
		e.notifier.Notify(ctx, ev)
	}
}

// persistLocked writes the current session snapshot. Persistence failures
// are logged, never surfaced: the in-memory transition has already
// committed.
func (e *Engine) persistLocked(ctx context.Context) {
	if e.store == nil || e.session == nil {
		return
	}
	if err := e.store.Save(ctx, e.session.Clone()); err != nil {
		e.logger.Warn("failed to persist session", "session_id", e.session.ID, "err", err)
	}
}

// archiveLocked moves a terminal session to history and clears the
// persisted copy.
func (e *Engine) archiveLocked(ctx context.Context) {
	s := e.session
	if e.history != nil {
		if err := e.history.Append(ctx, domain.NewHistoryRecord(s)); err != nil {
			e.logger.Warn("failed to archive session", "session_id", s.ID, "err", err)
		}
	}
	if e.store != nil {
		if err := e.store.Clear(ctx); err != nil {
			e.logger.Warn("failed to clear persisted session", "session_id", s.ID, "err", err)
		}
	}
}

// baseEventLocked builds an event carrying the session identity fields.
func (e *Engine) baseEventLocked(t domain.EventType, now time.Time) domain.Event {
	s := e.session
	return domain.Event{
		Type:        t,
		Timestamp:   now,
		SessionID:   s.ID,
		RoutineID:   s.RoutineID,
		RoutineName: s.RoutineName,
	}
}

// taskEventLocked builds an event for the slot at index i.
func (e *Engine) taskEventLocked(t domain.EventType, now time.Time, i int) domain.Event {
	ev := e.baseEventLocked(t, now)
	ts := e.session.TaskStates[i]
	ev.TaskID = ts.TaskID
	ev.TaskName = ts.Name
	ev.TaskIndex = i
	ev.Duration = ts.Duration
	ev.Mode = ts.Mode
	return ev
}
