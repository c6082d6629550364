// Package fileutil performs the filesystem moves behind a rename plan.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrDestinationExists is returned when a rename would replace a file.
var ErrDestinationExists = fmt.Errorf("destination exists: %w", fs.ErrExist)

// Renamer moves one file. Implementations must not overwrite an existing
// destination.
type Renamer interface {
	Rename(from, to string) error
}

// OSRenamer renames on the local filesystem.
type OSRenamer struct{}

// Rename moves from to to in a single step, failing with
// ErrDestinationExists rather than replacing to.
func (OSRenamer) Rename(from, to string) error {
	err := renameNoReplace(from, to)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		return &os.LinkError{Op: "rename", Old: from, New: to, Err: ErrDestinationExists}
	}
	return err
}

// renameChecked is the portable path: a destination probe followed by
// os.Rename. A file created between the two calls is replaced.
func renameChecked(from, to string) error {
	if _, err := os.Lstat(to); err == nil {
		return fs.ErrExist
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &os.LinkError{Op: "rename", Old: from, New: to, Err: err}
	}
	return os.Rename(from, to)
}
