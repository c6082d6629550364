package journal_test

import (
	"context"
	"errors"
	"testing"

	"subrename/internal/journal"
	"subrename/internal/testsupport"
)

func TestRunLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, "run-1", "/library/show")
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if run.ID() != "run-1" {
		t.Fatalf("unexpected run id %q", run.ID())
	}
	for _, rename := range [][2]string{
		{"/library/show/a.srt", "/library/show/Show.S01E01.srt"},
		{"/library/show/b.srt", "/library/show/Show.S01E02.srt"},
	} {
		if err := run.RecordRename(ctx, rename[0], rename[1]); err != nil {
			t.Fatalf("RecordRename failed: %v", err)
		}
	}
	if err := run.Finish(ctx, 2, 1); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	summary, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if summary.Root != "/library/show" || summary.Renamed != 2 || summary.Failed != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.FinishedAt == nil || summary.UndoneAt != nil {
		t.Fatalf("unexpected timestamps %+v", summary)
	}

	entries, err := store.Entries(ctx, "run-1")
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Source != "/library/show/a.srt" || entries[1].Source != "/library/show/b.srt" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if entries[0].RecordedAt.IsZero() {
		t.Fatal("expected recorded_at to be set")
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	for _, id := range []string{"first", "second", "third"} {
		if _, err := store.BeginRun(ctx, id, "/root"); err != nil {
			t.Fatalf("BeginRun(%s) failed: %v", id, err)
		}
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "third" || runs[1].ID != "second" {
		t.Fatalf("unexpected runs %+v", runs)
	}

	all, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(all))
	}
}

func TestLatestUndoableSkipsEmptyAndUndoneRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	withRenames, err := store.BeginRun(ctx, "with-renames", "/root")
	if err != nil {
		t.Fatal(err)
	}
	if err := withRenames.RecordRename(ctx, "/root/a.srt", "/root/b.srt"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.BeginRun(ctx, "dry", "/root"); err != nil {
		t.Fatal(err)
	}

	latest, err := store.LatestUndoable(ctx)
	if err != nil {
		t.Fatalf("LatestUndoable failed: %v", err)
	}
	if latest.ID != "with-renames" {
		t.Fatalf("latest undoable = %q", latest.ID)
	}

	entries, err := store.Entries(ctx, latest.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.MarkEntryUndone(ctx, entries[0].ID); err != nil {
		t.Fatalf("MarkEntryUndone failed: %v", err)
	}
	if err := store.MarkRunUndone(ctx, latest.ID); err != nil {
		t.Fatalf("MarkRunUndone failed: %v", err)
	}
	entries, err = store.Entries(ctx, latest.ID)
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].UndoneAt == nil {
		t.Fatal("expected entry to be marked undone")
	}

	if _, err := store.LatestUndoable(ctx); !errors.Is(err, journal.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestGetRunMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	if _, err := store.GetRun(context.Background(), "nope"); !errors.Is(err, journal.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestReopenExistingJournal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	store, err := journal.Open(ctx, cfg.JournalPath())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.BeginRun(ctx, "persisted", "/root"); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened := testsupport.MustOpenJournal(t, cfg)
	if _, err := reopened.GetRun(ctx, "persisted"); err != nil {
		t.Fatalf("GetRun after reopen failed: %v", err)
	}
}
