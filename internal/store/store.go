// internal/store/store.go
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key is absent or its TTL has elapsed.
var ErrNotFound = errors.New("store: key not found")

// ErrSkipUpdate may be returned by an UpdateFunc to abort an Update without
// writing. Update reports it as success: the caller's transition was already
// performed (or no longer applies) and the record must be left untouched.
var ErrSkipUpdate = errors.New("store: skip update")

// UpdateFunc transforms the current value of a key into its next value.
// Returning (nil, nil) deletes the key. The function may be invoked more than
// once if the underlying store detects a concurrent write, so it must be free
// of side effects other than through its captured result variables.
type UpdateFunc func(current []byte) (next []byte, err error)

// Store is a keyed record store with per-key expiration. Every Set or Update
// refreshes the TTL so an active room never expires mid-session; a room with
// no writes for the TTL window is reclaimed silently.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)

	// Update performs an optimistic read-modify-write of key. If the key is
	// absent it returns ErrNotFound without calling fn. Concurrent writers
	// cannot clobber each other: the losing writer re-reads and retries.
	Update(ctx context.Context, key string, ttl time.Duration, fn UpdateFunc) error
}
