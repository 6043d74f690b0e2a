// Package runlock keeps two headerstamp processes from revising the same
// tree at the same time.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the lock for the root.
var ErrLocked = errors.New("root is locked by another run")

// Lock is an advisory lock on one root directory. The lock file lives
// outside the tree so walks never see it.
type Lock struct {
	flock *flock.Flock
	path  string
}

// PathFor returns the lock file path for root inside dir.
func PathFor(dir, root string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(root)))
	return filepath.Join(dir, "headerstamp-"+hex.EncodeToString(sum[:8])+".lock")
}

// Acquire takes the lock for root in the OS temp directory without blocking.
func Acquire(root string) (*Lock, error) {
	return AcquireIn(os.TempDir(), root)
}

// AcquireIn takes the lock for root with the lock file placed in dir.
func AcquireIn(dir, root string) (*Lock, error) {
	path := PathFor(dir, root)
	l := &Lock{flock: flock.New(path), path: path}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to try lock on %s: %w", path, err)
	}
	if !acquired {
		return nil, fmt.Errorf("%s: %w", root, ErrLocked)
	}
	return l, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release unlocks. The lock file is left in place for the next run.
func (l *Lock) Release() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}
