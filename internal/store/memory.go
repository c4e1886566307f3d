// internal/store/memory.go
package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used by tests and single-binary dev
// setups. Expired entries are reclaimed lazily on access.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// getUnsafe returns the live entry for key, deleting it if expired.
// Assumes the lock is held.
func (s *MemoryStore) getUnsafe(key string) ([]byte, bool) {
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.getUnsafe(key)
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k := range s.entries {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if _, ok := s.getUnsafe(k); ok {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Update holds the store lock across the read-modify-write, so fn runs at
// most once per call here (unlike the Redis implementation).
func (s *MemoryStore) Update(ctx context.Context, key string, ttl time.Duration, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.getUnsafe(key)
	if !ok {
		return ErrNotFound
	}

	next, err := fn(cur)
	if err != nil {
		if errors.Is(err, ErrSkipUpdate) {
			return nil
		}
		return err
	}

	if next == nil {
		delete(s.entries, key)
		return nil
	}
	e := memoryEntry{value: append([]byte(nil), next...)}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}
