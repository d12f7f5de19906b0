package memory

import (
	"context"
	"sync"

	"github.com/aretw0/routinely/pkg/domain"
)

// Store implements ports.SessionStore in memory. Safe for concurrent use.
// It holds at most one session, mirroring the single-active-session rule.
type Store struct {
	mu      sync.RWMutex
	session *domain.Session
}

// NewStore creates an empty in-memory session store.
func NewStore() *Store {
	return &Store{}
}

// Save persists a deep copy of the session.
func (s *Store) Save(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session.Clone()
	return nil
}

// Load returns a copy of the persisted session.
func (s *Store) Load(ctx context.Context) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, domain.ErrSessionNotFound
	}
	return s.session.Clone(), nil
}

// Clear drops the persisted session.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

// History implements ports.HistoryStore in memory, newest first, capped at
// domain.MaxHistoryEntries.
type History struct {
	mu      sync.RWMutex
	records []domain.HistoryRecord
}

// NewHistory creates an empty in-memory history store.
func NewHistory() *History {
	return &History{}
}

// Append adds a record at the front.
func (h *History) Append(ctx context.Context, rec domain.HistoryRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append([]domain.HistoryRecord{rec}, h.records...)
	if len(h.records) > domain.MaxHistoryEntries {
		h.records = h.records[:domain.MaxHistoryEntries]
	}
	return nil
}

// List returns up to limit records, newest first.
func (h *History) List(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := len(h.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.HistoryRecord, n)
	copy(out, h.records[:n])
	return out, nil
}
