package operation

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gitlab.com/tozd/go/errors"
)

// 🔒 Lock keeps two runs from rewriting the same root at once.
// The lock file lives in the OS temp dir so the tree itself is never touched.
type Lock struct {
	flock *flock.Flock
}

// LockPath returns the lock file path for a root
func LockPath(root string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(root)))
	return filepath.Join(os.TempDir(), "relocate-"+hex.EncodeToString(sum[:8])+".lock")
}

// AcquireLock takes the lock for root without blocking
func AcquireLock(root string) (*Lock, error) {
	fl := flock.New(LockPath(root))

	ok, err := fl.TryLock()
	if err != nil {
		return nil, errors.Errorf("acquiring lock %s: %w", fl.Path(), err)
	}
	if !ok {
		return nil, errors.Errorf("another run is rewriting %s (lock %s)", root, fl.Path())
	}

	return &Lock{flock: fl}, nil
}

// Release frees the lock
func (l *Lock) Release() error {
	if err := l.flock.Unlock(); err != nil {
		return errors.Errorf("releasing lock %s: %w", l.flock.Path(), err)
	}
	return nil
}
