package runtime

import (
	"context"
	"time"

	"github.com/aretw0/routinely/pkg/domain"
)

// Tick advances the session's temporal state to the given instant. The
// driving clock invokes it on a fixed cadence, but every duration is
// recomputed from absolute timestamps, so missed ticks, process suspension
// and forward clock jumps all settle correctly on the next invocation.
//
// A tick while paused is a no-op; a tick with no session in flight is a
// caller bug worth logging, not crashing on.
func (e *Engine) Tick(ctx context.Context, now time.Time) {
	e.mu.Lock()
	s := e.session
	if s == nil {
		e.mu.Unlock()
		e.logger.Debug("tick with no active session ignored")
		return
	}
	if s.Status != domain.SessionRunning {
		e.mu.Unlock()
		return
	}

	var events []domain.Event
	if s.ConfirmDeadline != nil {
		// Confirm window countdown. Expiry means silent approval.
		if !now.Before(*s.ConfirmDeadline) {
			s.ConfirmDeadline = nil
			events = e.completeCurrentLocked(ctx, now, true)
		}
	} else {
		events = e.taskTickLocked(ctx, now)
	}

	e.mu.Unlock()
	e.emit(ctx, events)
}

// taskTickLocked evaluates the active task's timer against now.
func (e *Engine) taskTickLocked(ctx context.Context, now time.Time) []domain.Event {
	s := e.session
	ts := s.CurrentTask()
	if ts == nil {
		e.logger.Warn("tick found no active task", "session_id", s.ID, "task_index", s.CurrentTaskIndex)
		return nil
	}

	var events []domain.Event
	remaining := s.TaskRemaining(now)

	if !s.WarningFired && remaining > 0 && remaining <= e.warning {
		s.WarningFired = true
		ev := e.taskEventLocked(domain.EventTaskEndingSoon, now, s.CurrentTaskIndex)
		ev.TimeRemaining = ceilSeconds(remaining)
		events = append(events, ev)
		e.persistLocked(ctx)
	}

	if remaining > 0 {
		return events
	}

	switch ts.Mode {
	case domain.ModeAuto:
		events = append(events, e.completeCurrentLocked(ctx, now, true)...)

	case domain.ModeManual:
		if !s.AwaitingInput {
			s.AwaitingInput = true
			events = append(events, e.taskEventLocked(domain.EventTaskAwaitingInput, now, s.CurrentTaskIndex))
			e.persistLocked(ctx)
		}
		// Overtime counts up; the session waits indefinitely for
		// CompleteTask or Skip.

	case domain.ModeConfirm:
		window := ts.ConfirmWindow
		if window <= 0 {
			window = domain.DefaultConfirmWindow
		}
		deadline := now.Add(time.Duration(window) * time.Second)
		s.ConfirmDeadline = &deadline
		ev := e.taskEventLocked(domain.EventTaskAwaitingInput, now, s.CurrentTaskIndex)
		ev.ConfirmWindow = window
		events = append(events, ev)
		e.persistLocked(ctx)
	}

	return events
}

// completeCurrentLocked finishes the active slot and advances the queue.
func (e *Engine) completeCurrentLocked(ctx context.Context, now time.Time, autoAdvanced bool) []domain.Event {
	s := e.session
	i := s.CurrentTaskIndex
	ts := s.CurrentTask()

	actual := e.actualSecondsLocked(now)
	ts.Status = domain.TaskCompleted
	ts.CompletedAt = &now
	ts.ActualDuration = &actual
	ts.WasAutoAdvanced = autoAdvanced

	ev := e.taskEventLocked(domain.EventTaskCompleted, now, i)
	ev.WasAutoAdvanced = autoAdvanced
	ev.ActualDuration = actual

	e.logger.Debug("task completed",
		"task_id", ts.TaskID,
		"task_name", ts.Name,
		"auto_advanced", autoAdvanced,
		"actual_duration", actual,
	)

	return append([]domain.Event{ev}, e.advanceLocked(ctx, now)...)
}

// advanceLocked moves to the next eligible slot or finishes the routine.
// Slots pre-skipped in the review step are hopped over.
func (e *Engine) advanceLocked(ctx context.Context, now time.Time) []domain.Event {
	s := e.session
	s.Deadline = nil
	s.FrozenRemaining = nil
	s.ConfirmDeadline = nil
	s.ConfirmFrozen = nil
	s.AwaitingInput = false
	s.WarningFired = false

	next := nextEligible(s.TaskStates, s.CurrentTaskIndex+1)
	if next < 0 {
		return e.finishLocked(ctx, now)
	}

	s.CurrentTaskIndex = next
	ev := e.activateLocked(ctx, next, now)
	e.persistLocked(ctx)
	return []domain.Event{ev}
}

// activateLocked turns a pending slot active and arms its timer. The task's
// parameters are re-read from the catalog at activation, so an edit made
// mid-session applies to tasks not yet started; if the task has vanished
// from the catalog, the start-time snapshot keeps the session going.
func (e *Engine) activateLocked(ctx context.Context, i int, now time.Time) domain.Event {
	s := e.session
	ts := &s.TaskStates[i]

	if task, err := e.catalog.GetTask(ts.TaskID); err == nil {
		ts.Name = task.Name
		ts.Duration = task.Duration
		ts.Mode = task.Mode
		ts.ConfirmWindow = task.ConfirmWindow
	}

	ts.Status = domain.TaskActive
	ts.StartedAt = &now

	// A zero-duration snapshot still activates; the very next tick
	// evaluates it for advancement.
	dur := time.Duration(ts.Duration) * time.Second
	if s.Status == domain.SessionRunning {
		deadline := now.Add(dur)
		s.Deadline = &deadline
	} else {
		s.FrozenRemaining = &dur
	}

	e.logger.Info("task started",
		"task_id", ts.TaskID,
		"task_name", ts.Name,
		"task_index", i,
		"duration", ts.Duration,
		"mode", ts.Mode,
	)
	return e.taskEventLocked(domain.EventTaskStarted, now, i)
}

// finishLocked completes the routine and releases the process-wide slot.
func (e *Engine) finishLocked(ctx context.Context, now time.Time) []domain.Event {
	s := e.session
	s.Elapsed = int(s.ElapsedAt(now) / time.Second)
	s.RunningSince = nil
	s.PausedAt = nil
	s.Status = domain.SessionCompleted
	s.CompletedAt = &now
	s.CurrentTaskIndex = len(s.TaskStates)

	completed, skipped, total, _ := s.Progress()
	ev := e.baseEventLocked(domain.EventRoutineCompleted, now)
	ev.TasksCompleted = completed
	ev.SkippedTasks = skipped
	ev.TotalTasks = total
	ev.TotalDuration = s.Elapsed

	e.archiveLocked(ctx)
	e.session = nil

	e.logger.Info("routine completed",
		"routine_id", s.RoutineID,
		"tasks_completed", completed,
		"tasks_skipped", skipped,
		"total_duration", s.Elapsed,
	)
	return []domain.Event{ev}
}

// actualSecondsLocked derives how long the active slot actually ran:
// snapshot duration minus remaining time. Overtime on manual and confirm
// tasks pushes the value past the snapshot duration.
func (e *Engine) actualSecondsLocked(now time.Time) int {
	s := e.session
	ts := s.CurrentTask()
	actual := ts.Duration - int(s.TaskRemaining(now)/time.Second)
	if actual < 0 {
		actual = 0
	}
	return actual
}

// nextEligible returns the first slot at or after from that is not
// pre-skipped, or -1 when the queue is exhausted.
func nextEligible(states []domain.TaskState, from int) int {
	for i := from; i < len(states); i++ {
		if states[i].Status != domain.TaskSkipped {
			return i
		}
	}
	return -1
}

func ceilSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}
