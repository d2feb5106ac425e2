package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"jasper-launcher/internal/domain/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	runs := []model.CommandRun{
		{ID: "r1", Command: "down", StartedAt: base, Duration: 2 * time.Second},
		{ID: "r2", Command: "up", StartedAt: base.Add(time.Minute), Duration: 15 * time.Second, ExitCode: 1, Error: "docker exited with code 1: boom"},
		{ID: "r3", Command: "pull", StartedAt: base.Add(2 * time.Minute), Duration: time.Minute},
	}
	for _, run := range runs {
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record(%s) returned error: %v", run.ID, err)
		}
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d runs, want 2", len(got))
	}
	if got[0].ID != "r3" || got[1].ID != "r2" {
		t.Errorf("order = %s, %s; want r3, r2", got[0].ID, got[1].ID)
	}
	if !got[1].StartedAt.Equal(runs[1].StartedAt) || got[1].Duration != runs[1].Duration {
		t.Errorf("times not preserved: %+v", got[1])
	}
	if got[1].Succeeded() || got[1].ExitCode != 1 {
		t.Errorf("failure not preserved: %+v", got[1])
	}

	all, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("default limit returned %d runs", len(all))
	}
}

func TestRecordDuplicateID(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	run := model.CommandRun{ID: "dup", Command: "up", StartedAt: time.Now()}
	if err := store.Record(ctx, run); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if err := store.Record(ctx, run); err == nil {
		t.Errorf("duplicate run ID should fail")
	}
}
