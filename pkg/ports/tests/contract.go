package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/routinely/pkg/domain"
	"github.com/aretw0/routinely/pkg/ports"
)

// SessionStoreContract is a reusable suite that verifies an adapter
// complies with ports.SessionStore.
func SessionStoreContract(t *testing.T, store ports.SessionStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_Empty", func(t *testing.T) {
		_, err := store.Load(ctx)
		if !errors.Is(err, domain.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Save_Load_RoundTrip", func(t *testing.T) {
		deadline := time.Now().Add(90 * time.Second).Truncate(time.Millisecond)
		started := time.Now().Truncate(time.Millisecond)
		session := &domain.Session{
			ID:          "sess-1",
			RoutineID:   "morning",
			RoutineName: "Morning",
			Status:      domain.SessionRunning,
			StartedAt:   started,
			Deadline:    &deadline,
			TaskStates: []domain.TaskState{
				{TaskID: "brush", Name: "Brush teeth", Status: domain.TaskActive, Duration: 120, Mode: domain.ModeAuto, StartedAt: &started},
				{TaskID: "shower", Name: "Shower", Status: domain.TaskPending, Duration: 300, Mode: domain.ModeManual},
			},
		}
		if err := store.Save(ctx, session); err != nil {
			t.Fatalf("save: %v", err)
		}

		loaded, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if loaded.ID != session.ID || loaded.Status != session.Status {
			t.Errorf("identity mismatch: got %s/%s", loaded.ID, loaded.Status)
		}
		if len(loaded.TaskStates) != 2 {
			t.Fatalf("expected 2 task states, got %d", len(loaded.TaskStates))
		}
		if loaded.Deadline == nil || !loaded.Deadline.Equal(deadline) {
			t.Errorf("deadline not preserved absolutely: got %v, want %v", loaded.Deadline, deadline)
		}
		if loaded.TaskStates[0].Mode != domain.ModeAuto {
			t.Errorf("task snapshot mode lost: got %s", loaded.TaskStates[0].Mode)
		}
	})

	t.Run("Save_Overwrites", func(t *testing.T) {
		session := &domain.Session{ID: "sess-2", RoutineID: "evening", Status: domain.SessionPaused, StartedAt: time.Now()}
		if err := store.Save(ctx, session); err != nil {
			t.Fatalf("save: %v", err)
		}
		loaded, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if loaded.ID != "sess-2" {
			t.Errorf("expected overwrite with sess-2, got %s", loaded.ID)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		if err := store.Clear(ctx); err != nil {
			t.Fatalf("clear: %v", err)
		}
		if _, err := store.Load(ctx); !errors.Is(err, domain.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound after clear, got %v", err)
		}
		// Clearing an empty store is not an error.
		if err := store.Clear(ctx); err != nil {
			t.Fatalf("clear empty: %v", err)
		}
	})
}

// HistoryStoreContract verifies an adapter complies with ports.HistoryStore.
func HistoryStoreContract(t *testing.T, store ports.HistoryStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("List_Empty", func(t *testing.T) {
		records, err := store.List(ctx, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("expected empty history, got %d records", len(records))
		}
	})

	t.Run("Append_NewestFirst", func(t *testing.T) {
		for i, id := range []string{"a", "b", "c"} {
			rec := domain.HistoryRecord{
				ID:          id,
				RoutineID:   "r1",
				RoutineName: "Routine",
				Status:      domain.SessionCompleted,
				StartedAt:   time.Now().Add(time.Duration(i) * time.Minute),
				CompletedAt: time.Now().Add(time.Duration(i+1) * time.Minute),
			}
			if err := store.Append(ctx, rec); err != nil {
				t.Fatalf("append %s: %v", id, err)
			}
		}

		records, err := store.List(ctx, 0)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected 3 records, got %d", len(records))
		}
		if records[0].ID != "c" || records[2].ID != "a" {
			t.Errorf("expected newest first (c..a), got %s..%s", records[0].ID, records[2].ID)
		}
	})

	t.Run("List_Limit", func(t *testing.T) {
		records, err := store.List(ctx, 2)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("expected 2 records with limit, got %d", len(records))
		}
	})
}
