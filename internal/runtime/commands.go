package runtime

import (
	"context"
	"time"

	"github.com/aretw0/routinely/pkg/domain"
	"github.com/aretw0/routinely/pkg/ports"
)

// StartOptions captures the one-time pre-execution review edits: tasks to
// pre-skip and a custom queue order. Neither can be changed once the
// session is running.
type StartOptions struct {
	SkipTaskIDs []string
	TaskOrder   []string
}

// Start builds a new session for the routine and enters the running state.
// It fails with domain.ErrSessionActive when another session is in flight:
// concurrent starts are resolved deterministically by the engine mutex,
// first wins.
func (e *Engine) Start(ctx context.Context, routineID string, opts StartOptions) (*domain.Session, error) {
	e.mu.Lock()

	if e.session != nil && e.session.Active() {
		active := e.session.RoutineID
		e.mu.Unlock()
		e.logger.Warn("cannot start routine: another session is active",
			"requested", routineID, "active", active)
		return nil, domain.ErrSessionActive
	}

	routine, err := e.catalog.GetRoutine(routineID)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}

	tasks := ports.RoutineTasks(e.catalog, routine)
	if len(opts.TaskOrder) > 0 {
		tasks = reorderTasks(tasks, opts.TaskOrder)
	}
	if len(tasks) == 0 {
		e.mu.Unlock()
		return nil, &domain.ValidationError{Field: "routine", Reason: "routine has no tasks"}
	}

	now := e.clock.Now()
	skip := make(map[string]bool, len(opts.SkipTaskIDs))
	for _, id := range opts.SkipTaskIDs {
		skip[id] = true
	}

	states := make([]domain.TaskState, len(tasks))
	for i, t := range tasks {
		st := domain.TaskState{
			TaskID:        t.ID,
			Name:          t.Name,
			Status:        domain.TaskPending,
			Duration:      t.Duration,
			Mode:          t.Mode,
			ConfirmWindow: t.ConfirmWindow,
		}
		if skip[t.ID] {
			st.Status = domain.TaskSkipped
			st.SkippedAt = &now
		}
		states[i] = st
	}

	session := &domain.Session{
		ID:          domain.NewID(),
		RoutineID:   routine.ID,
		RoutineName: routine.Name,
		Status:      domain.SessionPending,
		TaskStates:  states,
		StartedAt:   now,
	}
	e.session = session

	// Pending is instantaneous: the session enters running within start.
	session.Status = domain.SessionRunning
	session.RunningSince = &now

	var events []domain.Event
	first := nextEligible(states, 0)
	if first < 0 {
		// Every slot was pre-skipped in review.
		e.logger.Warn("all tasks pre-skipped, completing routine immediately",
			"routine_id", routineID)
		events = e.finishLocked(ctx, now)
	} else {
		session.CurrentTaskIndex = first
		startedEv := e.activateLocked(ctx, first, now)

		_, _, total, activeTotal := session.Progress()
		startEv := e.baseEventLocked(domain.EventRoutineStarted, now)
		startEv.TotalTasks = activeTotal
		startEv.SkippedTasks = total - activeTotal
		events = append(events, startEv, startedEv)

		e.persistLocked(ctx)
		e.logger.Info("routine started",
			"routine_id", routineID,
			"session_id", session.ID,
			"total_tasks", total,
			"skipped_tasks", total-activeTotal,
		)
	}

	snapshot := session.Clone()
	e.mu.Unlock()
	e.emit(ctx, events)
	return snapshot, nil
}

// Pause freezes the running session: the active task's remaining time (and
// any open confirm window) is converted from an absolute deadline to a
// frozen duration, so time spent paused never counts.
func (e *Engine) Pause(ctx context.Context) error {
	e.mu.Lock()
	s := e.session
	if s == nil || !s.Active() {
		e.mu.Unlock()
		return domain.ErrNoActiveSession
	}
	if s.Status != domain.SessionRunning {
		e.mu.Unlock()
		return domain.ErrNotRunning
	}

	now := e.clock.Now()
	s.Elapsed = int(s.ElapsedAt(now) / time.Second)
	s.RunningSince = nil
	s.Status = domain.SessionPaused
	s.PausedAt = &now
	if s.Deadline != nil {
		r := s.Deadline.Sub(now)
		s.FrozenRemaining = &r
		s.Deadline = nil
	}
	if s.ConfirmDeadline != nil {
		r := s.ConfirmDeadline.Sub(now)
		s.ConfirmFrozen = &r
		s.ConfirmDeadline = nil
	}

	ev := e.baseEventLocked(domain.EventRoutinePaused, now)
	e.persistLocked(ctx)
	e.logger.Info("routine paused", "routine_id", s.RoutineID, "elapsed", s.Elapsed)
	e.mu.Unlock()
	e.emit(ctx, []domain.Event{ev})
	return nil
}

// Resume thaws a paused session, rebasing frozen remainders onto absolute
// deadlines from the current instant.
func (e *Engine) Resume(ctx context.Context) error {
	e.mu.Lock()
	s := e.session
	if s == nil || !s.Active() {
		e.mu.Unlock()
		return domain.ErrNoActiveSession
	}
	if s.Status != domain.SessionPaused {
		e.mu.Unlock()
		return domain.ErrNotPaused
	}

	now := e.clock.Now()
	s.Status = domain.SessionRunning
	s.RunningSince = &now
	s.PausedAt = nil
	if s.FrozenRemaining != nil {
		d := now.Add(*s.FrozenRemaining)
		s.Deadline = &d
		s.FrozenRemaining = nil
	}
	if s.ConfirmFrozen != nil {
		d := now.Add(*s.ConfirmFrozen)
		s.ConfirmDeadline = &d
		s.ConfirmFrozen = nil
	}

	ev := e.baseEventLocked(domain.EventRoutineResumed, now)
	e.persistLocked(ctx)
	e.logger.Info("routine resumed", "routine_id", s.RoutineID)
	e.mu.Unlock()
	e.emit(ctx, []domain.Event{ev})
	return nil
}

// Skip marks the current task skipped and advances the queue. Allowed while
// running or paused.
func (e *Engine) Skip(ctx context.Context) error {
	e.mu.Lock()
	s := e.session
	if s == nil || !s.Active() {
		e.mu.Unlock()
		return domain.ErrNoActiveSession
	}

	now := e.clock.Now()
	i := s.CurrentTaskIndex
	ts := s.CurrentTask()
	actual := e.actualSecondsLocked(now)
	ts.Status = domain.TaskSkipped
	ts.SkippedAt = &now
	ts.ActualDuration = &actual

	ev := e.taskEventLocked(domain.EventTaskSkipped, now, i)
	ev.ActualDuration = actual
	events := append([]domain.Event{ev}, e.advanceLocked(ctx, now)...)

	e.logger.Info("task skipped", "task_id", ts.TaskID, "task_name", ts.Name, "elapsed", actual)
	e.mu.Unlock()
	e.emit(ctx, events)
	return nil
}

// CompleteTask manually completes the current task. Auto-mode tasks advance
// on their own and cannot be completed manually.
func (e *Engine) CompleteTask(ctx context.Context) error {
	e.mu.Lock()
	s := e.session
	if s == nil || !s.Active() {
		e.mu.Unlock()
		return domain.ErrNoActiveSession
	}
	ts := s.CurrentTask()
	if ts.Mode == domain.ModeAuto {
		e.mu.Unlock()
		return &domain.ValidationError{Field: "advancement_mode", Reason: "auto tasks cannot be completed manually"}
	}

	now := e.clock.Now()
	s.ConfirmDeadline = nil
	s.ConfirmFrozen = nil
	events := e.completeCurrentLocked(ctx, now, false)

	e.logger.Info("task manually completed", "task_id", ts.TaskID, "task_name", ts.Name)
	e.mu.Unlock()
	e.emit(ctx, events)
	return nil
}

// Confirm completes the current task from within its confirm window.
func (e *Engine) Confirm(ctx context.Context) error {
	e.mu.Lock()
	s := e.session
	if s == nil || !s.Active() {
		e.mu.Unlock()
		return domain.ErrNoActiveSession
	}
	if !s.InConfirmWindow() {
		e.mu.Unlock()
		return domain.ErrNotConfirming
	}

	now := e.clock.Now()
	s.ConfirmDeadline = nil
	s.ConfirmFrozen = nil
	events := e.completeCurrentLocked(ctx, now, false)

	e.mu.Unlock()
	e.emit(ctx, events)
	return nil
}

// Snooze extends the open confirm window. The task-level timer does not
// restart; only the confirm deadline moves, and it extends from the current
// deadline, not from the call time.
func (e *Engine) Snooze(ctx context.Context, seconds int) error {
	e.mu.Lock()
	s := e.session
	if s == nil || !s.Active() {
		e.mu.Unlock()
		return domain.ErrNoActiveSession
	}
	if !s.InConfirmWindow() {
		e.mu.Unlock()
		return domain.ErrNotConfirming
	}
	if seconds <= 0 {
		seconds = domain.DefaultSnoozeDuration
	}

	delta := time.Duration(seconds) * time.Second
	if s.ConfirmDeadline != nil {
		d := s.ConfirmDeadline.Add(delta)
		s.ConfirmDeadline = &d
	} else if s.ConfirmFrozen != nil {
		r := *s.ConfirmFrozen + delta
		s.ConfirmFrozen = &r
	}

	e.persistLocked(ctx)
	e.logger.Info("confirm window snoozed", "added_seconds", seconds)
	e.mu.Unlock()
	return nil
}

// AdjustTime shifts the active task's deadline by the given number of
// seconds. Positive values extend without bound; negative values are
// rejected outright when they would drop the remaining time to zero or
// below (no partial application).
func (e *Engine) AdjustTime(ctx context.Context, seconds int) error {
	e.mu.Lock()
	s := e.session
	if s == nil || !s.Active() {
		e.mu.Unlock()
		return domain.ErrNoActiveSession
	}
	if s.InConfirmWindow() {
		e.mu.Unlock()
		return &domain.ValidationError{Field: "seconds", Reason: "cannot adjust time during a confirm window"}
	}
	if seconds == 0 {
		e.mu.Unlock()
		return &domain.ValidationError{Field: "seconds", Reason: "adjustment must be non-zero"}
	}

	now := e.clock.Now()
	delta := time.Duration(seconds) * time.Second
	if seconds < 0 && s.TaskRemaining(now) <= -delta {
		e.mu.Unlock()
		return &domain.ValidationError{Field: "seconds", Reason: "adjustment exceeds remaining time"}
	}

	if s.Deadline != nil {
		d := s.Deadline.Add(delta)
		s.Deadline = &d
	} else if s.FrozenRemaining != nil {
		r := *s.FrozenRemaining + delta
		s.FrozenRemaining = &r
	}

	e.persistLocked(ctx)
	e.logger.Info("task time adjusted",
		"task_id", s.CurrentTask().TaskID,
		"adjustment", seconds,
		"remaining", int(s.TaskRemaining(now)/time.Second),
	)
	e.mu.Unlock()
	return nil
}

// Cancel terminates the session, preserving all task states as-is. The
// session is archived to history; cancelling again is a conflict, not a
// silent no-op.
func (e *Engine) Cancel(ctx context.Context) error {
	e.mu.Lock()
	s := e.session
	if s == nil || !s.Active() {
		e.mu.Unlock()
		return domain.ErrNoActiveSession
	}

	now := e.clock.Now()
	s.Elapsed = int(s.ElapsedAt(now) / time.Second)
	s.RunningSince = nil
	s.Status = domain.SessionCancelled
	s.CompletedAt = &now
	s.Deadline = nil
	s.FrozenRemaining = nil
	s.ConfirmDeadline = nil
	s.ConfirmFrozen = nil

	ev := e.baseEventLocked(domain.EventRoutineCancelled, now)
	e.archiveLocked(ctx)
	e.session = nil

	e.logger.Info("routine cancelled", "routine_id", s.RoutineID, "elapsed", s.Elapsed)
	e.mu.Unlock()
	e.emit(ctx, []domain.Event{ev})
	return nil
}

// reorderTasks applies a custom queue order: listed IDs first (unknown IDs
// ignored), then any unlisted tasks in their original routine order. A task
// ID repeated in the routine occupies several queue slots; listing it moves
// every occurrence, it never drops one.
func reorderTasks(tasks []domain.Task, order []string) []domain.Task {
	occurrences := make(map[string][]domain.Task, len(tasks))
	for _, t := range tasks {
		occurrences[t.ID] = append(occurrences[t.ID], t)
	}
	listed := make(map[string]bool, len(order))
	out := make([]domain.Task, 0, len(tasks))
	for _, id := range order {
		if occ, ok := occurrences[id]; ok && !listed[id] {
			out = append(out, occ...)
			listed[id] = true
		}
	}
	for _, t := range tasks {
		if !listed[t.ID] {
			out = append(out, t)
		}
	}
	return out
}
