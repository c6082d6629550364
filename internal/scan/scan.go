// Package scan enumerates the files under a root directory.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"subrename/internal/logging"
)

// Entry is one discovered filesystem path.
type Entry struct {
	Path   string
	IsFile bool
}

// Lister enumerates root. Order is not guaranteed; callers that need a
// stable order sort explicitly.
type Lister interface {
	List(ctx context.Context, root string, recursive bool) ([]Entry, error)
}

// WalkLister lists entries with filepath.WalkDir (recursive) or os.ReadDir.
// Unreadable entries below root are logged and skipped; only a failure to
// read root itself is returned. Symlinks to files count as files in both
// modes; symlinked directories are listed but never descended into.
type WalkLister struct {
	Logger *slog.Logger
}

// NewWalkLister returns a lister that logs skipped entries to logger.
func NewWalkLister(logger *slog.Logger) *WalkLister {
	return &WalkLister{Logger: logging.NewComponentLogger(logger, "scan")}
}

// List implements Lister.
func (l *WalkLister) List(ctx context.Context, root string, recursive bool) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !recursive {
		return l.listFlat(root)
	}

	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			l.skip(path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		isFile, ok := l.isFile(path, d)
		if ok {
			entries = append(entries, Entry{Path: path, IsFile: isFile})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return entries, nil
}

func (l *WalkLister) listFlat(root string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", root, err)
	}
	entries := make([]Entry, 0, len(dirEntries))
	for _, d := range dirEntries {
		path := filepath.Join(root, d.Name())
		isFile, ok := l.isFile(path, d)
		if !ok {
			continue
		}
		entries = append(entries, Entry{Path: path, IsFile: isFile})
	}
	return entries, nil
}

// isFile reports whether d is a regular file, following symlinks. Symlinked
// directories are not descended into. ok is false for dangling links.
func (l *WalkLister) isFile(path string, d fs.DirEntry) (isFile, ok bool) {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular(), true
	}
	info, err := os.Stat(path)
	if err != nil {
		l.skip(path, err)
		return false, false
	}
	return info.Mode().IsRegular(), true
}

func (l *WalkLister) skip(path string, err error) {
	if l.Logger == nil || errors.Is(err, fs.ErrNotExist) {
		return
	}
	logging.WarnWithContext(l.Logger, "skipping unreadable entry", "scan_entry_skipped",
		logging.String("path", path),
		logging.Error(err),
		logging.String(logging.FieldImpact, "files below this path are not considered"),
		logging.String(logging.FieldErrorHint, "check permissions on the directory"),
	)
}
