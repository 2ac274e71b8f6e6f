package port

import (
	"context"
	"errors"
)

// AnyVersion disables the version check on Put (last writer wins).
const AnyVersion int64 = -1

var ErrOptimisticLock = errors.New("optimistic lock conflict")

// Entry is a raw stored value and the version it was written at.
type Entry struct {
	Value   string
	Version int64
}

type KVStore interface {
	// Get returns the value under key; found is false when the key was never written.
	Get(ctx context.Context, key string) (Entry, bool, error)

	// Put overwrites key when its stored version equals expectedVersion (0 for an
	// absent key, AnyVersion to skip the check) and returns the new version.
	// A mismatch returns ErrOptimisticLock.
	Put(ctx context.Context, key, value string, expectedVersion int64) (int64, error)
}

// KVWatcher is implemented by stores that can report writes made by other processes.
type KVWatcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}
