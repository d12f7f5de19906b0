package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/routinely/pkg/domain"
)

// Store implements ports.SessionStore on the local filesystem. The single
// active session lives in one JSON file so a process restart can pick it
// back up.
type Store struct {
	path string
}

// NewStore creates a session store rooted at dir. If dir is empty it
// defaults to ".routinely".
func NewStore(dir string) *Store {
	if dir == "" {
		dir = ".routinely"
	}
	return &Store{path: filepath.Join(dir, "session.json")}
}

// Save persists the session atomically: write to a temp file in the same
// directory, fsync, then rename over the destination. A crash mid-write
// leaves the previous snapshot intact.
func (s *Store) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return writeAtomic(s.path, data)
}

// Load reads the persisted session.
func (s *Store) Load(ctx context.Context) (*domain.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Clear removes the persisted session. Clearing an empty store is fine.
func (s *Store) Clear(ctx context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// History implements ports.HistoryStore as a single JSON file holding the
// records newest first, capped at domain.MaxHistoryEntries.
type History struct {
	path string
}

// NewHistory creates a history store rooted at dir. If dir is empty it
// defaults to ".routinely".
func NewHistory(dir string) *History {
	if dir == "" {
		dir = ".routinely"
	}
	return &History{path: filepath.Join(dir, "history.json")}
}

// Append prepends a record, trimming to the cap, and rewrites the file
// atomically.
func (h *History) Append(ctx context.Context, rec domain.HistoryRecord) error {
	records, err := h.read()
	if err != nil {
		return err
	}

	records = append([]domain.HistoryRecord{rec}, records...)
	if len(records) > domain.MaxHistoryEntries {
		records = records[:domain.MaxHistoryEntries]
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	return writeAtomic(h.path, data)
}

// List returns up to limit records, newest first.
func (h *History) List(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	records, err := h.read()
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}

func (h *History) read() ([]domain.HistoryRecord, error) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	var records []domain.HistoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}
	return records, nil
}

// writeAtomic writes data to path via a temp file in the same directory
// (same filesystem, required for an atomic rename).
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "tmp-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
