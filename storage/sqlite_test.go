package storage

import (
	"context"
	"testing"
)

func newTestSqlite(t *testing.T) *SqliteStorage {
	t.Helper()
	storage, err := NewSqliteInMemory()
	if err != nil {
		t.Fatalf("failed to create in-memory SQLite: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return storage
}

func TestSqliteStorageSaveAndList(t *testing.T) {
	storage := newTestSqlite(t)
	ctx := context.Background()

	first := NewOutcome("explain pydantic validators", "technical", OutcomeSuccess).
		WithDuration(1200)
	second := NewOutcome("what is the capital of france", "general", OutcomeFallback).
		WithDetail("response length 12 is below the minimum of 50")

	if err := storage.SaveOutcome(ctx, first); err != nil {
		t.Fatalf("SaveOutcome failed: %v", err)
	}
	if err := storage.SaveOutcome(ctx, second); err != nil {
		t.Fatalf("SaveOutcome failed: %v", err)
	}

	outcomes, err := storage.ListOutcomes(ctx, 0)
	if err != nil {
		t.Fatalf("ListOutcomes failed: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}

	// Newest first: same-second inserts fall back to rowid ordering.
	if outcomes[0].ID != second.ID {
		t.Errorf("expected newest outcome first, got %s", outcomes[0].ID)
	}
	if outcomes[0].Detail != second.Detail {
		t.Errorf("detail not preserved: %q", outcomes[0].Detail)
	}
	if outcomes[1].Kind != OutcomeSuccess {
		t.Errorf("expected success kind, got %s", outcomes[1].Kind)
	}
}

func TestSqliteStorageListLimit(t *testing.T) {
	storage := newTestSqlite(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := storage.SaveOutcome(ctx, NewOutcome("q", "general", OutcomeSuccess)); err != nil {
			t.Fatalf("SaveOutcome failed: %v", err)
		}
	}

	outcomes, err := storage.ListOutcomes(ctx, 2)
	if err != nil {
		t.Fatalf("ListOutcomes failed: %v", err)
	}
	if len(outcomes) != 2 {
		t.Errorf("expected 2 outcomes, got %d", len(outcomes))
	}
}

func TestSqliteStorageEmpty(t *testing.T) {
	storage := newTestSqlite(t)

	outcomes, err := storage.ListOutcomes(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListOutcomes failed: %v", err)
	}
	if len(outcomes) != 0 {
		t.Errorf("expected no outcomes, got %d", len(outcomes))
	}
}

func TestSqliteStorageFile(t *testing.T) {
	path := t.TempDir() + "/nested/outcomes.db"

	storage, err := OpenSqlite(path)
	if err != nil {
		t.Fatalf("OpenSqlite failed: %v", err)
	}
	defer storage.Close()

	ctx := context.Background()
	saved := NewOutcome("persistent", "technical", OutcomeHardFailure).
		WithDetail("gateway unreachable")
	if err := storage.SaveOutcome(ctx, saved); err != nil {
		t.Fatalf("SaveOutcome failed: %v", err)
	}

	outcomes, err := storage.ListOutcomes(ctx, 1)
	if err != nil {
		t.Fatalf("ListOutcomes failed: %v", err)
	}
	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	if outcomes[0].Kind != OutcomeHardFailure {
		t.Errorf("expected hard-failure kind, got %s", outcomes[0].Kind)
	}
}
