package store

import (
	"context"
	"time"

	"github.com/gofrs/flock"
)

// FileLock guards one report file against writers in other processes.
// *flock.Flock satisfies it as is.
type FileLock interface {
	TryLockContext(ctx context.Context, retryInterval time.Duration) (bool, error)
	Unlock() error
}

// FileLockFactory returns the lock guarding the file at path
type FileLockFactory interface {
	New(path string) FileLock
}

// flockFactory locks with advisory flock(2) locks on a sidecar file
type flockFactory struct{}

func (flockFactory) New(path string) FileLock {
	return flock.New(path)
}

var _ FileLock = (*flock.Flock)(nil)
