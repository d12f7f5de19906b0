package ports

import (
	"context"

	"github.com/aretw0/routinely/pkg/domain"
)

// SessionStore persists the single active session for crash recovery.
// The engine writes on every state-changing transition; deadlines are
// stored absolutely so a restart recomputes remaining = deadline - now.
type SessionStore interface {
	// Save persists the session snapshot.
	Save(ctx context.Context, session *domain.Session) error

	// Load retrieves the persisted session.
	// Returns domain.ErrSessionNotFound when nothing is persisted.
	Load(ctx context.Context) (*domain.Session, error)

	// Clear removes the persisted session (called on terminal transitions).
	Clear(ctx context.Context) error
}

// HistoryStore archives terminal sessions as read-only records,
// newest first, capped at domain.MaxHistoryEntries.
type HistoryStore interface {
	// Append adds a record at the front of the history.
	Append(ctx context.Context, rec domain.HistoryRecord) error

	// List returns up to limit records, newest first. limit <= 0 means all
	// retained records.
	List(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
}
