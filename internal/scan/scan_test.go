package scan_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"subrename/internal/logging"
	"subrename/internal/scan"
	"subrename/internal/testsupport"
)

func collectFiles(entries []scan.Entry) []string {
	var files []string
	for _, e := range entries {
		if e.IsFile {
			files = append(files, e.Path)
		}
	}
	slices.Sort(files)
	return files
}

func TestWalkListerFlat(t *testing.T) {
	root := t.TempDir()
	testsupport.Touch(t, filepath.Join(root, "a.mkv"))
	testsupport.Touch(t, filepath.Join(root, "a.srt"))
	testsupport.Touch(t, filepath.Join(root, "Subs", "b.srt"))

	lister := scan.NewWalkLister(logging.NewNop())
	entries, err := lister.List(context.Background(), root, false)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	want := []string{filepath.Join(root, "a.mkv"), filepath.Join(root, "a.srt")}
	if got := collectFiles(entries); !slices.Equal(got, want) {
		t.Fatalf("files = %v, want %v", got, want)
	}
	var sawDir bool
	for _, e := range entries {
		if e.Path == filepath.Join(root, "Subs") {
			sawDir = !e.IsFile
		}
	}
	if !sawDir {
		t.Fatal("expected Subs to be listed as a non-file entry")
	}
}

func TestWalkListerRecursive(t *testing.T) {
	root := t.TempDir()
	testsupport.Touch(t, filepath.Join(root, "a.mkv"))
	testsupport.Touch(t, filepath.Join(root, "Subs", "b.srt"))
	testsupport.Touch(t, filepath.Join(root, "Subs", "Deep", "c.srt"))

	lister := scan.NewWalkLister(nil)
	entries, err := lister.List(context.Background(), root, true)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	want := []string{
		filepath.Join(root, "Subs", "Deep", "c.srt"),
		filepath.Join(root, "Subs", "b.srt"),
		filepath.Join(root, "a.mkv"),
	}
	slices.Sort(want)
	if got := collectFiles(entries); !slices.Equal(got, want) {
		t.Fatalf("files = %v, want %v", got, want)
	}
}

func TestWalkListerMissingRoot(t *testing.T) {
	lister := scan.NewWalkLister(nil)
	root := filepath.Join(t.TempDir(), "missing")
	if _, err := lister.List(context.Background(), root, false); err == nil {
		t.Fatal("expected error for missing root (flat)")
	}
	if _, err := lister.List(context.Background(), root, true); err == nil {
		t.Fatal("expected error for missing root (recursive)")
	}
}

func TestWalkListerHonoursCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	lister := scan.NewWalkLister(nil)
	if _, err := lister.List(ctx, t.TempDir(), true); err == nil {
		t.Fatal("expected context error")
	}
}

func TestWalkListerFollowsSymlinkedFilesInBothModes(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "real.srt")
	testsupport.Touch(t, target)
	testsupport.Touch(t, filepath.Join(root, "Show.S01E01.mkv"))
	testsupport.Touch(t, filepath.Join(root, "Subs", "keep.srt"))
	for _, link := range []string{
		filepath.Join(root, "linked.srt"),
		filepath.Join(root, "Subs", "linked.srt"),
	} {
		if err := os.Symlink(target, link); err != nil {
			t.Fatalf("symlink: %v", err)
		}
	}
	if err := os.Symlink(filepath.Join(outside, "gone.srt"), filepath.Join(root, "dangling.srt")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	if err := os.Symlink(outside, filepath.Join(root, "linkdir")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	tests := []struct {
		name      string
		recursive bool
		want      []string
	}{
		{
			name: "flat",
			want: []string{
				filepath.Join(root, "Show.S01E01.mkv"),
				filepath.Join(root, "linked.srt"),
			},
		},
		{
			name:      "recursive",
			recursive: true,
			want: []string{
				filepath.Join(root, "Show.S01E01.mkv"),
				filepath.Join(root, "Subs", "keep.srt"),
				filepath.Join(root, "Subs", "linked.srt"),
				filepath.Join(root, "linked.srt"),
			},
		},
	}
	lister := scan.NewWalkLister(logging.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := lister.List(context.Background(), root, tt.recursive)
			if err != nil {
				t.Fatalf("List returned error: %v", err)
			}
			want := slices.Clone(tt.want)
			slices.Sort(want)
			if got := collectFiles(entries); !slices.Equal(got, want) {
				t.Fatalf("files = %v, want %v", got, want)
			}
			for _, e := range entries {
				if e.Path == filepath.Join(root, "dangling.srt") {
					t.Fatal("dangling symlink listed")
				}
				if e.Path == filepath.Join(root, "linkdir") && e.IsFile {
					t.Fatal("symlinked directory listed as a file")
				}
			}
		})
	}
}
