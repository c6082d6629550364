package engine_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"subrename/internal/engine"
	"subrename/internal/execute"
	"subrename/internal/fileutil"
	"subrename/internal/logging"
	"subrename/internal/runlock"
	"subrename/internal/testsupport"
)

func run(t *testing.T, opts engine.Options, deps engine.Deps) *execute.Report {
	t.Helper()
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	report, err := engine.Run(context.Background(), opts, deps)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return report
}

func assertFiles(t *testing.T, root string, want ...string) {
	t.Helper()
	got := testsupport.ListFiles(t, root)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Fatalf("files = %v, want %v", got, want)
	}
}

func TestRunRenamesEpisodesAndSecondRunIsNoop(t *testing.T) {
	root := t.TempDir()
	testsupport.TouchAll(t, root,
		"Show.S01E01.mkv", "Show.S01E02.mkv",
		"subs_01_eng.srt", "subs_02_eng.srt",
	)
	opts := engine.Options{Root: root, Recursive: true}

	first := run(t, opts, engine.Deps{})
	if first.Counts.Renamed != 2 || first.Counts.Failed != 0 {
		t.Fatalf("first run counts = %+v", first.Counts)
	}
	want := []string{"Show.S01E01.eng.srt", "Show.S01E01.mkv", "Show.S01E02.eng.srt", "Show.S01E02.mkv"}
	assertFiles(t, root, want...)

	second := run(t, opts, engine.Deps{})
	if second.Counts != (execute.Counts{Unchanged: 2}) {
		t.Fatalf("second run counts = %+v, want only 2 unchanged", second.Counts)
	}
	assertFiles(t, root, want...)
}

func TestRunOrdinalFallback(t *testing.T) {
	root := t.TempDir()
	testsupport.TouchAll(t, root, "A.mkv", "B.mkv", "2.srt", "1.srt")
	opts := engine.Options{Root: root, OrdinalFallback: true}

	report := run(t, opts, engine.Deps{})
	if report.Counts.Renamed != 2 {
		t.Fatalf("counts = %+v", report.Counts)
	}
	assertFiles(t, root, "A.mkv", "A.srt", "B.mkv", "B.srt")

	again := run(t, opts, engine.Deps{})
	if again.Counts.Renamed != 0 || again.Counts.Unchanged != 2 {
		t.Fatalf("second run counts = %+v", again.Counts)
	}
}

func TestRunOrdinalFallbackDisabled(t *testing.T) {
	root := t.TempDir()
	testsupport.TouchAll(t, root, "A.mkv", "B.mkv", "1.srt", "2.srt")

	report := run(t, engine.Options{Root: root}, engine.Deps{})
	if report.Counts.SkippedUnmatched != 2 || report.Counts.Renamed != 0 {
		t.Fatalf("counts = %+v", report.Counts)
	}
	assertFiles(t, root, "1.srt", "2.srt", "A.mkv", "B.mkv")
}

func TestRunDryRunLeavesFilesAlone(t *testing.T) {
	root := t.TempDir()
	testsupport.TouchAll(t, root, "Show.S01E02.mkv", "subs_02_eng.srt")

	report := run(t, engine.Options{Root: root, DryRun: true}, engine.Deps{})
	if !report.DryRun || report.Counts.Renamed != 1 {
		t.Fatalf("report = %+v", report)
	}
	if got := report.Items[0].Destination; got != filepath.Join(root, "Show.S01E02.eng.srt") {
		t.Fatalf("planned destination = %q", got)
	}
	assertFiles(t, root, "Show.S01E02.mkv", "subs_02_eng.srt")
}

func TestRunReportsUnmatchedAndAmbiguous(t *testing.T) {
	root := t.TempDir()
	testsupport.TouchAll(t, root,
		"Show.S01E01.mkv", "Show.S02E01.mkv",
		"subs_01.srt", "readme.srt",
	)

	report := run(t, engine.Options{Root: root}, engine.Deps{})
	if report.Counts.SkippedUnmatched != 2 {
		t.Fatalf("counts = %+v", report.Counts)
	}
	reasons := map[string]string{}
	for _, item := range report.Items {
		reasons[filepath.Base(item.Source)] = item.Reason
	}
	if reasons["subs_01.srt"] != "ambiguous: 2 videos share this key" {
		t.Fatalf("subs_01 reason = %q", reasons["subs_01.srt"])
	}
	if reasons["readme.srt"] != "no video with a matching key" {
		t.Fatalf("readme reason = %q", reasons["readme.srt"])
	}
}

func TestRunNeverOverwritesExistingFiles(t *testing.T) {
	root := t.TempDir()
	testsupport.TouchAll(t, root, "Show.S01E01.mkv", "Show.S01E01.srt", "subs_01.srt")

	report := run(t, engine.Options{Root: root}, engine.Deps{})
	if report.Counts.Renamed != 1 || report.Counts.Unchanged != 1 {
		t.Fatalf("counts = %+v", report.Counts)
	}
	assertFiles(t, root, "Show.S01E01.2.srt", "Show.S01E01.mkv", "Show.S01E01.srt")
}

func TestRunCollisionSkipPolicy(t *testing.T) {
	root := t.TempDir()
	testsupport.TouchAll(t, root, "Show.S01E01.mkv", "Show.S01E01.srt", "subs_01.srt")

	report := run(t, engine.Options{Root: root, Collision: "skip"}, engine.Deps{})
	if report.Counts.SkippedCollision != 1 || report.Counts.Renamed != 0 {
		t.Fatalf("counts = %+v", report.Counts)
	}
	assertFiles(t, root, "Show.S01E01.mkv", "Show.S01E01.srt", "subs_01.srt")
}

func TestRunNonRecursiveIgnoresSubdirectories(t *testing.T) {
	root := t.TempDir()
	testsupport.TouchAll(t, root, "Show.S01E01.mkv", "nested/subs_01.srt")

	report := run(t, engine.Options{Root: root}, engine.Deps{})
	if len(report.Items) != 0 {
		t.Fatalf("items = %+v, want none", report.Items)
	}

	report = run(t, engine.Options{Root: root, Recursive: true}, engine.Deps{})
	if report.Counts.Renamed != 1 {
		t.Fatalf("recursive counts = %+v", report.Counts)
	}
	assertFiles(t, root, "Show.S01E01.mkv", "nested/Show.S01E01.srt")
}

type failingRenamer struct {
	fileutil.OSRenamer
	fail string
}

func (r failingRenamer) Rename(from, to string) error {
	if filepath.Base(from) == r.fail {
		return &os.LinkError{Op: "rename", Old: from, New: to, Err: os.ErrPermission}
	}
	return r.OSRenamer.Rename(from, to)
}

func TestRunContinuesAfterFailedRename(t *testing.T) {
	root := t.TempDir()
	testsupport.TouchAll(t, root, "Show.S01E01.mkv", "Show.S01E02.mkv", "subs_01.srt", "subs_02.srt")

	report := run(t, engine.Options{Root: root}, engine.Deps{Renamer: failingRenamer{fail: "subs_01.srt"}})
	if !report.HasFailures() || report.Counts.Failed != 1 || report.Counts.Renamed != 1 {
		t.Fatalf("counts = %+v", report.Counts)
	}
	assertFiles(t, root, "Show.S01E01.mkv", "Show.S01E02.mkv", "Show.S01E02.srt", "subs_01.srt")
}

func TestRunSetupErrors(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.mkv")
	testsupport.Touch(t, file)

	tests := []struct {
		name string
		opts engine.Options
	}{
		{name: "empty root", opts: engine.Options{}},
		{name: "missing root", opts: engine.Options{Root: filepath.Join(root, "missing")}},
		{name: "root is a file", opts: engine.Options{Root: file}},
		{name: "bad pattern", opts: engine.Options{Root: root, VideoPatterns: []string{"("}}},
		{name: "overlapping extensions", opts: engine.Options{Root: root, VideoExtensions: []string{"mkv", "srt"}}},
		{name: "unknown policy", opts: engine.Options{Root: root, Collision: "merge"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := engine.Run(context.Background(), tt.opts, engine.Deps{Logger: logging.NewNop()})
			if !errors.Is(err, engine.ErrSetup) {
				t.Fatalf("err = %v, want ErrSetup", err)
			}
			if report != nil {
				t.Fatalf("report = %+v, want nil", report)
			}
		})
	}
}

func TestRunRefusesHeldLock(t *testing.T) {
	root := t.TempDir()
	lockDir := t.TempDir()
	testsupport.TouchAll(t, root, "Show.S01E01.mkv", "subs_01.srt")

	lock, err := runlock.Acquire(lockDir, root)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer lock.Release()

	_, err = engine.Run(context.Background(), engine.Options{Root: root}, engine.Deps{LockDir: lockDir})
	if !errors.Is(err, engine.ErrSetup) || !errors.Is(err, runlock.ErrHeld) {
		t.Fatalf("err = %v, want ErrSetup wrapping ErrHeld", err)
	}
	assertFiles(t, root, "Show.S01E01.mkv", "subs_01.srt")

	// A dry run does not need the lock.
	if _, err := engine.Run(context.Background(), engine.Options{Root: root, DryRun: true}, engine.Deps{LockDir: lockDir}); err != nil {
		t.Fatalf("dry run with held lock: %v", err)
	}
}

func TestRunCanceledBeforeExecute(t *testing.T) {
	root := t.TempDir()
	testsupport.TouchAll(t, root, "Show.S01E01.mkv", "subs_01.srt")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Run(ctx, engine.Options{Root: root}, engine.Deps{})
	if !errors.Is(err, engine.ErrCanceled) {
		t.Fatalf("err = %v, want ErrCanceled", err)
	}
	assertFiles(t, root, "Show.S01E01.mkv", "subs_01.srt")
}

func TestSharePatterns(t *testing.T) {
	video, subtitle := engine.SharePatterns(nil, []string{`E(?P<episode>\d+)`})
	if len(video) != 1 || len(subtitle) != 1 {
		t.Fatalf("subtitle patterns not shared: %v %v", video, subtitle)
	}
	video, subtitle = engine.SharePatterns([]string{"a"}, []string{"b"})
	if video[0] != "a" || subtitle[0] != "b" {
		t.Fatalf("explicit patterns changed: %v %v", video, subtitle)
	}
}

func TestWrapKeepsMarkerAndCause(t *testing.T) {
	cause := errors.New("boom")
	err := engine.Wrap(engine.ErrSetup, "setup", "root", "resolve path", cause)
	if !errors.Is(err, engine.ErrSetup) || !errors.Is(err, cause) {
		t.Fatalf("err = %v lost marker or cause", err)
	}
	if got, want := err.Error(), "setup error: setup: root: resolve path: boom"; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
	if !engine.IsSetup(err) {
		t.Fatal("IsSetup = false")
	}
}
