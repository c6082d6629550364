// Package runlock keeps two subrename processes from renaming inside the
// same directory tree at once.
package runlock

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"subrename/internal/textutil"
)

// ErrHeld is returned when another process holds the lock for a root.
var ErrHeld = errors.New("another subrename run is active for this directory")

// Lock is an acquired advisory lock. Release must be called when done.
type Lock struct {
	lock *flock.Flock
	path string
}

const maxTokenLen = 64

// PathFor returns the lock file used for root inside dir. The readable token
// is followed by a name-based UUID prefix, since sanitizing folds case and
// punctuation.
func PathFor(dir, root string) string {
	cleaned := filepath.Clean(root)
	token := textutil.SanitizeToken(cleaned)
	if len(token) > maxTokenLen {
		token = token[len(token)-maxTokenLen:]
	}
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+cleaned)).String()
	return filepath.Join(dir, token+"-"+id[:8]+".lock")
}

// Acquire takes the lock for root without blocking.
func Acquire(dir, root string) (*Lock, error) {
	path := PathFor(dir, root)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrHeld, path)
	}
	return &Lock{lock: fl, path: path}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock. It is safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
