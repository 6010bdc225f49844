package store

import (
	"context"
	"errors"
)

var (
	// ErrInvalidKey is returned when an operation receives an empty key.
	ErrInvalidKey = errors.New("key is invalid")
)

// Store is the session-scoped string store contract in its asynchronous
// calling convention. Each method issues at most one host call; the context
// is honored up to the point the call is handed to the host, after which the
// call is not cancellable.
type Store interface {
	// Set writes value under key.
	Set(ctx context.Context, key, value string) error

	// Get reads the value under key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// Length returns the current entry count.
	Length(ctx context.Context) (int, error)

	// Key returns the key at the host's ordinal index. found is false for
	// any out-of-range index, negative included. Enumeration order is
	// host-defined and not guaranteed stable across writes.
	Key(ctx context.Context, index int) (key string, found bool, err error)

	// ContainsKey reports whether key currently exists.
	ContainsKey(ctx context.Context, key string) (bool, error)
}

// SyncStore is the optional blocking calling convention. A Store handle
// implements it only when the host exposes a synchronous call path; callers
// gate on the interface once, at construction, rather than probing per call.
type SyncStore interface {
	SetSync(key, value string) error
	GetSync(key string) (value string, found bool, err error)
	RemoveSync(key string) error
	ClearSync() error
	LengthSync() (int, error)
	KeySync(index int) (key string, found bool, err error)
	ContainsKeySync(key string) (bool, error)
}
