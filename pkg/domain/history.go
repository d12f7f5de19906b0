package domain

import "time"

// MaxHistoryEntries caps the retained history, newest first.
const MaxHistoryEntries = 100

// HistoryRecord is the read-only summary archived when a session reaches a
// terminal state.
type HistoryRecord struct {
	ID             string        `json:"id"`
	RoutineID      string        `json:"routine_id"`
	RoutineName    string        `json:"routine_name"`
	Status         SessionStatus `json:"status"`
	StartedAt      time.Time     `json:"started_at"`
	CompletedAt    time.Time     `json:"completed_at"`
	TotalDuration  int           `json:"total_duration"`
	TasksCompleted int           `json:"tasks_completed"`
	TasksSkipped   int           `json:"tasks_skipped"`
	TotalTasks     int           `json:"total_tasks"`
}

// NewHistoryRecord summarizes a terminal session.
func NewHistoryRecord(s *Session) HistoryRecord {
	completed, skipped, total, _ := s.Progress()
	rec := HistoryRecord{
		ID:             s.ID,
		RoutineID:      s.RoutineID,
		RoutineName:    s.RoutineName,
		Status:         s.Status,
		StartedAt:      s.StartedAt,
		TotalDuration:  s.Elapsed,
		TasksCompleted: completed,
		TasksSkipped:   skipped,
		TotalTasks:     total,
	}
	if s.CompletedAt != nil {
		rec.CompletedAt = *s.CompletedAt
	}
	return rec
}
