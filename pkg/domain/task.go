package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// AdvancementMode decides what happens when a task's timer reaches zero.
type AdvancementMode string

const (
	// ModeAuto completes the task and moves on without user input.
	ModeAuto AdvancementMode = "auto"
	// ModeManual leaves the task active until the user completes or skips it.
	ModeManual AdvancementMode = "manual"
	// ModeConfirm opens a bounded confirmation window before auto-advancing.
	ModeConfirm AdvancementMode = "confirm"
)

// Valid reports whether the mode is one of the known values.
func (m AdvancementMode) Valid() bool {
	switch m {
	case ModeAuto, ModeManual, ModeConfirm:
		return true
	}
	return false
}

// Validation limits for catalog entries.
const (
	MinTaskDuration  = 1
	MaxTaskDuration  = 86400
	MinConfirmWindow = 5
	MaxConfirmWindow = 300
	MaxNameLength    = 100
	MaxDescription   = 500
)

// Default timings (seconds).
const (
	DefaultConfirmWindow     = 30
	DefaultSnoozeDuration    = 30
	DefaultTaskEndingWarning = 10
)

// Task is an immutable catalog entry describing a timed unit of work.
// Durations are expressed in whole seconds, matching the wire format.
type Task struct {
	ID            string          `json:"id" yaml:"id"`
	Name          string          `json:"name" yaml:"name"`
	Duration      int             `json:"duration" yaml:"duration"`
	Icon          string          `json:"icon,omitempty" yaml:"icon,omitempty"`
	Mode          AdvancementMode `json:"advancement_mode" yaml:"advancement_mode"`
	ConfirmWindow int             `json:"confirm_window,omitempty" yaml:"confirm_window,omitempty"`
	Description   string          `json:"description,omitempty" yaml:"description,omitempty"`
}

// Validate checks the catalog limits for a task definition.
func (t Task) Validate() error {
	if t.ID == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if t.Name == "" || len(t.Name) > MaxNameLength {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("must be 1-%d characters", MaxNameLength)}
	}
	if t.Duration < MinTaskDuration || t.Duration > MaxTaskDuration {
		return &ValidationError{Field: "duration", Reason: fmt.Sprintf("must be %d-%d seconds", MinTaskDuration, MaxTaskDuration)}
	}
	if !t.Mode.Valid() {
		return &ValidationError{Field: "advancement_mode", Reason: fmt.Sprintf("unknown mode %q", t.Mode)}
	}
	if t.Mode == ModeConfirm {
		if t.ConfirmWindow < MinConfirmWindow || t.ConfirmWindow > MaxConfirmWindow {
			return &ValidationError{Field: "confirm_window", Reason: fmt.Sprintf("must be %d-%d seconds", MinConfirmWindow, MaxConfirmWindow)}
		}
	}
	if len(t.Description) > MaxDescription {
		return &ValidationError{Field: "description", Reason: fmt.Sprintf("must be at most %d characters", MaxDescription)}
	}
	return nil
}

// Routine is an immutable catalog entry: an ordered sequence of task IDs.
// Repeated IDs are allowed; each occurrence is a distinct queue slot.
type Routine struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Icon    string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	TaskIDs []string `json:"task_ids" yaml:"task_ids"`
}

// Validate checks the catalog limits for a routine definition.
func (r Routine) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if r.Name == "" || len(r.Name) > MaxNameLength {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("must be 1-%d characters", MaxNameLength)}
	}
	return nil
}

// NewID generates a short unique identifier for sessions and catalog entries.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
