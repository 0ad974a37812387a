package journal_test

import (
	"context"
	"testing"
	"time"

	"rigroot/internal/journal"
	"rigroot/internal/testsupport"
)

func openStore(t *testing.T) *journal.Store {
	t.Helper()
	return testsupport.MustOpenJournal(t, testsupport.NewConfig(t))
}

func TestBeginAndFinishRun(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	id, err := store.Begin(ctx, "/assets/walk.fbx")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if id == "" {
		t.Fatal("expected run id")
	}

	run, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if run == nil || run.Status != journal.StatusRunning {
		t.Fatalf("unexpected run %+v", run)
	}

	err = store.Finish(ctx, id, &journal.Run{
		AssetName:  "walk",
		AssetKind:  "motion",
		Status:     journal.StatusCompleted,
		OutputPath: "/out/Motions/walk.fbx",
	})
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	run, err = store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get after finish: %v", err)
	}
	if run.Status != journal.StatusCompleted {
		t.Fatalf("unexpected status %q", run.Status)
	}
	if run.OutputPath != "/out/Motions/walk.fbx" {
		t.Fatalf("unexpected output path %q", run.OutputPath)
	}
	if run.FinishedAt == nil {
		t.Fatal("expected finished timestamp")
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	var ids []string
	for _, source := range []string{"/a.fbx", "/b.fbx", "/c.fbx"} {
		id, err := store.Begin(ctx, source)
		if err != nil {
			t.Fatalf("Begin: %v", err)
		}
		ids = append(ids, id)
		time.Sleep(time.Millisecond)
	}

	runs, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != ids[2] {
		t.Fatalf("expected newest run first, got %s", runs[0].ID)
	}
}

func TestStatsAndClear(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	id, err := store.Begin(ctx, "/a.fbx")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := store.Finish(ctx, id, &journal.Run{Status: journal.StatusFailed, ErrorMessage: "no hip bone"}); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if _, err := store.Begin(ctx, "/b.fbx"); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats[journal.StatusFailed] != 1 || stats[journal.StatusRunning] != 1 {
		t.Fatalf("unexpected stats %v", stats)
	}

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
}

func TestGetMissingRun(t *testing.T) {
	store := openStore(t)
	run, err := store.Get(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if run != nil {
		t.Fatalf("expected nil run, got %+v", run)
	}
}
