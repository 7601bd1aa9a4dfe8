package runs

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenPath(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBeginAndFinish(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Begin(ctx, "part.stl", "part.gif")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero run id")
	}

	if err := store.Finish(ctx, id, "done", "", 60, 3*time.Second); err != nil {
		t.Fatalf("finish: %v", err)
	}

	listed, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("runs = %d, want 1", len(listed))
	}
	run := listed[0]
	if run.Filename != "part.stl" || run.DisplayName != "part.gif" {
		t.Errorf("run names = %q/%q", run.Filename, run.DisplayName)
	}
	if run.Status != "done" || run.Frames != 60 {
		t.Errorf("run = %+v", run)
	}
	if run.Duration != 3*time.Second {
		t.Errorf("duration = %v", run.Duration)
	}
	if !run.Finished() {
		t.Error("run should be finished")
	}
	if run.StartedAt.IsZero() {
		t.Error("started_at not recorded")
	}
}

func TestFinishRecordsFailure(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Begin(ctx, "broken.obj", "broken.gif")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := store.Finish(ctx, id, "failed", "render: frame 3 of 60", 3, time.Second); err != nil {
		t.Fatalf("finish: %v", err)
	}

	listed, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if listed[0].Status != "failed" || listed[0].ErrorMessage != "render: frame 3 of 60" {
		t.Errorf("run = %+v", listed[0])
	}
}

func TestListOrdersNewestFirstAndLimits(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"one.stl", "two.stl", "three.stl"} {
		if _, err := store.Begin(ctx, name, name+".gif"); err != nil {
			t.Fatalf("begin %s: %v", name, err)
		}
	}

	listed, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("runs = %d, want 2", len(listed))
	}
	if listed[0].Filename != "three.stl" || listed[1].Filename != "two.stl" {
		t.Errorf("order = %q, %q", listed[0].Filename, listed[1].Filename)
	}
}

func TestSummarize(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doneID, _ := store.Begin(ctx, "done.stl", "done.gif")
	_ = store.Finish(ctx, doneID, "done", "", 60, time.Second)
	failedID, _ := store.Begin(ctx, "failed.stl", "failed.gif")
	_ = store.Finish(ctx, failedID, "failed", "boom", 0, time.Second)
	if _, err := store.Begin(ctx, "active.stl", "active.gif"); err != nil {
		t.Fatalf("begin active: %v", err)
	}

	summary, err := store.Summarize(ctx)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	want := Summary{Total: 3, Done: 1, Failed: 1, Active: 1}
	if summary != want {
		t.Errorf("summary = %+v, want %+v", summary, want)
	}
}

func TestPruneRemovesOnlyOldFinishedRuns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	oldID, _ := store.Begin(ctx, "old.stl", "old.gif")
	_ = store.Finish(ctx, oldID, "done", "", 60, time.Second)
	// Backdate the finished timestamp directly.
	past := time.Now().UTC().Add(-48 * time.Hour).Format(timeLayout)
	if _, err := store.db.Exec("UPDATE runs SET finished_at = ? WHERE id = ?", past, oldID); err != nil {
		t.Fatalf("backdate: %v", err)
	}

	freshID, _ := store.Begin(ctx, "fresh.stl", "fresh.gif")
	_ = store.Finish(ctx, freshID, "done", "", 60, time.Second)
	if _, err := store.Begin(ctx, "active.stl", "active.gif"); err != nil {
		t.Fatalf("begin active: %v", err)
	}

	removed, err := store.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	listed, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("remaining = %d, want 2", len(listed))
	}
}

func TestReopenVerifiesSchemaVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := OpenPath(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.Begin(context.Background(), "part.stl", "part.gif"); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenPath(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	listed, err := reopened.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list after reopen: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("runs after reopen = %d, want 1", len(listed))
	}
}
