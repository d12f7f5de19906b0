package domain

import (
	"time"
)

// SessionStatus is the lifecycle state of a routine execution.
type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionRunning   SessionStatus = "running"
	SessionPaused    SessionStatus = "paused"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// TaskStatus is the per-slot execution state within a session.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskActive    TaskStatus = "active"
	TaskCompleted TaskStatus = "completed"
	TaskSkipped   TaskStatus = "skipped"
)

// TaskState is the execution record for one slot in the session's queue.
// Duration, Mode and ConfirmWindow are snapshots of the catalog task, taken
// at session start and refreshed at activation, so that catalog edits never
// mutate an in-flight slot.
type TaskState struct {
	TaskID        string          `json:"task_id"`
	Name          string          `json:"task_name"`
	Status        TaskStatus      `json:"status"`
	Duration      int             `json:"duration"`
	Mode          AdvancementMode `json:"advancement_mode"`
	ConfirmWindow int             `json:"confirm_window,omitempty"`

	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	SkippedAt       *time.Time `json:"skipped_at,omitempty"`
	ActualDuration  *int       `json:"actual_duration,omitempty"`
	WasAutoAdvanced bool       `json:"was_auto_advanced,omitempty"`
}

// PreSkipped reports whether the slot was marked skipped in the pre-start
// review, i.e. it was never activated.
func (ts TaskState) PreSkipped() bool {
	return ts.Status == TaskSkipped && ts.StartedAt == nil
}

// Session is the single mutable execution record. At most one session may be
// in a non-terminal state process-wide.
//
// All durations are computed from absolute timestamps, never from counters:
// while running, the active task carries an absolute Deadline; while paused,
// the remaining time is frozen in FrozenRemaining. This makes the session
// robust to missed ticks and process restarts (a reload recomputes
// remaining = deadline - now, so downtime is subtracted correctly).
type Session struct {
	ID          string        `json:"id"`
	RoutineID   string        `json:"routine_id"`
	RoutineName string        `json:"routine_name"`
	Status      SessionStatus `json:"status"`

	CurrentTaskIndex int         `json:"current_task_index"`
	TaskStates       []TaskState `json:"task_states"`

	StartedAt   time.Time  `json:"started_at"`
	PausedAt    *time.Time `json:"paused_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Elapsed is the committed active running time in seconds, excluding
	// paused intervals. While running, the live value adds now - RunningSince.
	Elapsed      int        `json:"elapsed"`
	RunningSince *time.Time `json:"running_since,omitempty"`

	// Deadline is the absolute expiry of the active task's timer (running).
	Deadline *time.Time `json:"deadline,omitempty"`
	// FrozenRemaining holds the active task's remaining time while paused.
	FrozenRemaining *time.Duration `json:"frozen_remaining,omitempty"`

	// ConfirmDeadline is set while the active task is in its confirm window.
	ConfirmDeadline *time.Time `json:"confirm_deadline,omitempty"`
	// ConfirmFrozen holds the confirm window's remaining time while paused.
	ConfirmFrozen *time.Duration `json:"confirm_frozen,omitempty"`

	// AwaitingInput is set once a manual task's timer has expired.
	AwaitingInput bool `json:"awaiting_input,omitempty"`
	// WarningFired is set once task_ending_soon has fired for the active task.
	WarningFired bool `json:"warning_fired,omitempty"`
}

// Active reports whether the session occupies the process-wide slot.
func (s *Session) Active() bool {
	return s.Status == SessionPending || s.Status == SessionRunning || s.Status == SessionPaused
}

// Terminal reports whether the session reached a final state.
func (s *Session) Terminal() bool {
	return s.Status == SessionCompleted || s.Status == SessionCancelled
}

// InConfirmWindow reports whether the active task is in its confirm sub-state.
func (s *Session) InConfirmWindow() bool {
	return s.ConfirmDeadline != nil || s.ConfirmFrozen != nil
}

// CurrentTask returns the active slot, or nil when the index is out of
// bounds (terminal sessions only, per the session invariants).
func (s *Session) CurrentTask() *TaskState {
	if s.CurrentTaskIndex < 0 || s.CurrentTaskIndex >= len(s.TaskStates) {
		return nil
	}
	return &s.TaskStates[s.CurrentTaskIndex]
}

// TaskRemaining returns the active task's remaining time at the given
// instant. Negative values mean overtime (manual and confirm tasks keep
// counting up after expiry).
func (s *Session) TaskRemaining(now time.Time) time.Duration {
	if s.FrozenRemaining != nil {
		return *s.FrozenRemaining
	}
	if s.Deadline != nil {
		return s.Deadline.Sub(now)
	}
	return 0
}

// ConfirmRemaining returns the remaining confirm window time, or zero when
// no confirm window is active.
func (s *Session) ConfirmRemaining(now time.Time) time.Duration {
	if s.ConfirmFrozen != nil {
		return *s.ConfirmFrozen
	}
	if s.ConfirmDeadline != nil {
		return s.ConfirmDeadline.Sub(now)
	}
	return 0
}

// ElapsedAt returns the total active running time at the given instant,
// excluding paused intervals.
func (s *Session) ElapsedAt(now time.Time) time.Duration {
	d := time.Duration(s.Elapsed) * time.Second
	if s.RunningSince != nil && now.After(*s.RunningSince) {
		d += now.Sub(*s.RunningSince)
	}
	return d
}

// Progress returns (completed, skipped, total, activeTotal). activeTotal
// excludes slots that were pre-skipped in the review step.
func (s *Session) Progress() (completed, skipped, total, activeTotal int) {
	for _, ts := range s.TaskStates {
		switch ts.Status {
		case TaskCompleted:
			completed++
		case TaskSkipped:
			skipped++
		}
		if !ts.PreSkipped() {
			activeTotal++
		}
	}
	return completed, skipped, len(s.TaskStates), activeTotal
}

// Clone returns a deep copy, so callers can hand out snapshots without
// exposing engine-owned state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.TaskStates = make([]TaskState, len(s.TaskStates))
	copy(out.TaskStates, s.TaskStates)
	out.PausedAt = cloneTime(s.PausedAt)
	out.CompletedAt = cloneTime(s.CompletedAt)
	out.RunningSince = cloneTime(s.RunningSince)
	out.Deadline = cloneTime(s.Deadline)
	out.ConfirmDeadline = cloneTime(s.ConfirmDeadline)
	out.FrozenRemaining = cloneDuration(s.FrozenRemaining)
	out.ConfirmFrozen = cloneDuration(s.ConfirmFrozen)
	for i := range out.TaskStates {
		ts := &out.TaskStates[i]
		ts.StartedAt = cloneTime(ts.StartedAt)
		ts.CompletedAt = cloneTime(ts.CompletedAt)
		ts.SkippedAt = cloneTime(ts.SkippedAt)
		if ts.ActualDuration != nil {
			v := *ts.ActualDuration
			ts.ActualDuration = &v
		}
	}
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneDuration(d *time.Duration) *time.Duration {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
