// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	// LockFileName is created in the work directory of each target.
	LockFileName = ".sourcery-build.lock"

	lockRetryDelay = 100 * time.Millisecond
)

// RunLock is an exclusive cross-process lock on a target's work directory.
// The zero-byte lock file may outlive the process; the OS releases the lock
// itself when the holder exits.
type RunLock struct {
	lock *flock.Flock
}

// AcquireRunLock blocks until the work directory lock is held or ctx is done.
// It always works on the OS filesystem: the work directory is created there
// and the lock is an flock on a real file, whatever afero.Fs the caller uses
// elsewhere.
func AcquireRunLock(ctx context.Context, workDir string) (*RunLock, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work directory %s: %w", workDir, err)
	}

	path := filepath.Join(workDir, LockFileName)
	fl := flock.New(path)
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("lock %s: %w", path, ctx.Err())
	}
	return &RunLock{lock: fl}, nil
}

// Release unlocks. It is safe to call more than once.
func (l *RunLock) Release() {
	if l == nil || l.lock == nil {
		return
	}
	if err := l.lock.Unlock(); err != nil {
		slog.Debug("work directory unlock failed", "path", l.lock.Path(), "error", err)
	}
	l.lock = nil
}
