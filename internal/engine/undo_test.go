package engine_test

import (
	"context"
	"errors"
	"testing"

	"subrename/internal/engine"
	"subrename/internal/testsupport"
)

func TestUndoRestoresJournaledRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	root := t.TempDir()
	testsupport.TouchAll(t, root, "Show.S01E01.mkv", "Show.S01E02.mkv", "subs_01_eng.srt", "subs_02.srt")
	ctx := context.Background()

	report, err := engine.Run(ctx, engine.Options{Root: root}, engine.Deps{Journal: store, LockDir: cfg.LockDir()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Counts.Renamed != 2 {
		t.Fatalf("run counts = %+v", report.Counts)
	}
	runs, err := store.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != report.RunID || runs[0].Renamed != 2 {
		t.Fatalf("runs = %+v", runs)
	}

	preview, err := engine.Undo(ctx, engine.UndoOptions{DryRun: true}, engine.UndoDeps{Journal: store})
	if err != nil {
		t.Fatalf("Undo dry run: %v", err)
	}
	if preview.Counts.Renamed != 2 {
		t.Fatalf("preview counts = %+v", preview.Counts)
	}
	assertFiles(t, root, "Show.S01E01.eng.srt", "Show.S01E01.mkv", "Show.S01E02.mkv", "Show.S01E02.srt")

	undo, err := engine.Undo(ctx, engine.UndoOptions{}, engine.UndoDeps{Journal: store, LockDir: cfg.LockDir()})
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if undo.RunID != report.RunID || undo.Counts.Renamed != 2 {
		t.Fatalf("undo = %+v", undo)
	}
	assertFiles(t, root, "Show.S01E01.mkv", "Show.S01E02.mkv", "subs_01_eng.srt", "subs_02.srt")

	if _, err := engine.Undo(ctx, engine.UndoOptions{}, engine.UndoDeps{Journal: store}); !errors.Is(err, engine.ErrSetup) {
		t.Fatalf("second undo err = %v, want ErrSetup", err)
	}
	if _, err := engine.Undo(ctx, engine.UndoOptions{RunID: report.RunID}, engine.UndoDeps{Journal: store}); !errors.Is(err, engine.ErrSetup) {
		t.Fatalf("undo of undone run err = %v, want ErrSetup", err)
	}
}

func TestUndoLeavesRunOpenWhenRestoreFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	root := t.TempDir()
	testsupport.TouchAll(t, root, "Show.S01E01.mkv", "Show.S01E02.mkv", "subs_01.srt", "subs_02.srt")
	ctx := context.Background()

	report, err := engine.Run(ctx, engine.Options{Root: root}, engine.Deps{Journal: store})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Occupy one original name so its restore is refused.
	testsupport.TouchAll(t, root, "subs_01.srt")

	undo, err := engine.Undo(ctx, engine.UndoOptions{RunID: report.RunID}, engine.UndoDeps{Journal: store})
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if undo.Counts.Failed != 1 || undo.Counts.Renamed != 1 {
		t.Fatalf("undo counts = %+v", undo.Counts)
	}
	assertFiles(t, root, "Show.S01E01.mkv", "Show.S01E01.srt", "Show.S01E02.mkv", "subs_01.srt", "subs_02.srt")

	run, err := store.GetRun(ctx, report.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.UndoneAt != nil {
		t.Fatal("run marked undone after a failed restore")
	}

	// Clearing the conflict lets a second undo finish the job.
	testsupport.RemoveFile(t, root, "subs_01.srt")
	again, err := engine.Undo(ctx, engine.UndoOptions{RunID: report.RunID}, engine.UndoDeps{Journal: store})
	if err != nil {
		t.Fatalf("second Undo: %v", err)
	}
	if again.Counts.Renamed != 1 || again.Counts.Unchanged != 1 {
		t.Fatalf("second undo counts = %+v", again.Counts)
	}
	assertFiles(t, root, "Show.S01E01.mkv", "Show.S01E02.mkv", "subs_01.srt", "subs_02.srt")
}

func TestRunWithoutRenamesLeavesNoJournalRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	root := t.TempDir()
	testsupport.TouchAll(t, root, "Show.S01E01.mkv", "Show.S01E01.srt")

	if _, err := engine.Run(context.Background(), engine.Options{Root: root}, engine.Deps{Journal: store}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	runs, err := store.ListRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("runs = %+v, want none", runs)
	}
}

func TestUndoRequiresJournal(t *testing.T) {
	if _, err := engine.Undo(context.Background(), engine.UndoOptions{}, engine.UndoDeps{}); !errors.Is(err, engine.ErrSetup) {
		t.Fatalf("err = %v, want ErrSetup", err)
	}
}
