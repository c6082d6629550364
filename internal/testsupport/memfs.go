package testsupport

import (
	"fmt"
	"io/fs"
	"os"
	"slices"
	"sync"
)

// RenameCall is one Rename invocation seen by MemFS.
type RenameCall struct {
	From string
	To   string
}

// MemFS is an in-memory stand-in for the rename executor. It refuses to
// overwrite existing paths and records every call.
type MemFS struct {
	mu    sync.Mutex
	files map[string]struct{}
	calls []RenameCall
	fail  map[string]error
}

// NewMemFS returns a filesystem containing paths.
func NewMemFS(paths ...string) *MemFS {
	m := &MemFS{files: make(map[string]struct{}), fail: make(map[string]error)}
	for _, p := range paths {
		m.files[p] = struct{}{}
	}
	return m
}

// FailRename makes renames of source return err.
func (m *MemFS) FailRename(source string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[source] = err
}

// Rename moves from to to.
func (m *MemFS) Rename(from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, RenameCall{From: from, To: to})
	if err, ok := m.fail[from]; ok {
		return &os.LinkError{Op: "rename", Old: from, New: to, Err: err}
	}
	if _, ok := m.files[from]; !ok {
		return &os.LinkError{Op: "rename", Old: from, New: to, Err: fs.ErrNotExist}
	}
	if _, ok := m.files[to]; ok {
		return &os.LinkError{Op: "rename", Old: from, New: to, Err: fmt.Errorf("destination exists: %w", fs.ErrExist)}
	}
	delete(m.files, from)
	m.files[to] = struct{}{}
	return nil
}

// Exists reports whether path is present.
func (m *MemFS) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok
}

// Paths returns the current paths in sorted order.
func (m *MemFS) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Calls returns a copy of the recorded Rename calls.
func (m *MemFS) Calls() []RenameCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}
