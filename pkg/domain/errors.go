package domain

import (
	"errors"
	"fmt"
)

// Conflict errors: the command is well-formed but the engine is in the
// wrong state to accept it. Rejected synchronously, session unchanged.
var (
	// ErrSessionActive is returned by start when a session is already in flight.
	ErrSessionActive = errors.New("another session is already active")
	// ErrNoActiveSession is returned by commands that require an in-flight session.
	ErrNoActiveSession = errors.New("no active session")
	// ErrNotRunning is returned when a command requires a running (not paused) session.
	ErrNotRunning = errors.New("session is not running")
	// ErrNotPaused is returned by resume when the session is not paused.
	ErrNotPaused = errors.New("session is not paused")
	// ErrNotConfirming is returned by confirm/snooze outside a confirm window.
	ErrNotConfirming = errors.New("no confirm window active")
)

// Not-found errors: a referenced catalog entry is absent.
var (
	ErrRoutineNotFound = errors.New("routine not found")
	ErrTaskNotFound    = errors.New("task not found")
	// ErrSessionNotFound is returned by a SessionStore when nothing is persisted.
	ErrSessionNotFound = errors.New("session not found")
)

// ValidationError signals bad input (empty routine, invalid time adjustment,
// out-of-range catalog fields). The session is left unchanged.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is one of the engine-state conflict errors.
func IsConflict(err error) bool {
	return errors.Is(err, ErrSessionActive) ||
		errors.Is(err, ErrNoActiveSession) ||
		errors.Is(err, ErrNotRunning) ||
		errors.Is(err, ErrNotPaused) ||
		errors.Is(err, ErrNotConfirming)
}

// IsNotFound reports whether err is one of the catalog lookup errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRoutineNotFound) ||
		errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}
