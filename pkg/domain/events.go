package domain

import "time"

// EventType identifies a lifecycle event emitted by the engine.
type EventType string

const (
	EventRoutineStarted    EventType = "routine_started"
	EventRoutinePaused     EventType = "routine_paused"
	EventRoutineResumed    EventType = "routine_resumed"
	EventRoutineCompleted  EventType = "routine_completed"
	EventRoutineCancelled  EventType = "routine_cancelled"
	EventTaskStarted       EventType = "task_started"
	EventTaskEndingSoon    EventType = "task_ending_soon"
	EventTaskCompleted     EventType = "task_completed"
	EventTaskSkipped       EventType = "task_skipped"
	EventTaskAwaitingInput EventType = "task_awaiting_input"
)

// Event is the payload delivered to Notifiers. Emission is fire-and-forget
// and ordered by emission time; consumers are assumed idempotent.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	SessionID   string `json:"session_id"`
	RoutineID   string `json:"routine_id"`
	RoutineName string `json:"routine_name,omitempty"`

	TaskID   string          `json:"task_id,omitempty"`
	TaskName string          `json:"task_name,omitempty"`
	// TaskIndex is the zero-based queue slot; 0 is meaningful, so it is
	// always serialized.
	TaskIndex int             `json:"task_index"`
	Duration  int             `json:"duration,omitempty"`
	Mode      AdvancementMode `json:"advancement_mode,omitempty"`

	// TimeRemaining is set on task_ending_soon (seconds).
	TimeRemaining int `json:"time_remaining,omitempty"`
	// ConfirmWindow is set on task_awaiting_input for confirm-mode tasks.
	ConfirmWindow int `json:"confirm_window,omitempty"`

	// WasAutoAdvanced and ActualDuration are set on task_completed.
	WasAutoAdvanced bool `json:"was_auto_advanced,omitempty"`
	ActualDuration  int  `json:"actual_duration,omitempty"`

	// Summary fields set on routine_started / routine_completed.
	TotalTasks     int `json:"total_tasks,omitempty"`
	SkippedTasks   int `json:"skipped_tasks,omitempty"`
	TasksCompleted int `json:"tasks_completed,omitempty"`
	TotalDuration  int `json:"total_duration,omitempty"`
}
