// internal/store/memory_test.go
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetSetDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "lobby:ABC123")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "lobby:ABC123", []byte(`{"code":"ABC123"}`), time.Hour))
	val, err := s.Get(ctx, "lobby:ABC123")
	require.NoError(t, err)
	assert.Equal(t, `{"code":"ABC123"}`, string(val))

	require.NoError(t, s.Delete(ctx, "lobby:ABC123"))
	_, err = s.Get(ctx, "lobby:ABC123")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreTTL(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "game:SHORT1", []byte("x"), 30*time.Millisecond))
	_, err := s.Get(ctx, "game:SHORT1")
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)
	_, err = s.Get(ctx, "game:SHORT1")
	assert.ErrorIs(t, err, ErrNotFound, "expired entries are reclaimed silently")

	keys, err := s.ListKeys(ctx, "game:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestMemoryStoreListKeys(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "lobby:AAA111", []byte("a"), time.Hour))
	require.NoError(t, s.Set(ctx, "lobby:BBB222", []byte("b"), time.Hour))
	require.NoError(t, s.Set(ctx, "game:AAA111", []byte("g"), time.Hour))

	keys, err := s.ListKeys(ctx, "lobby:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"lobby:AAA111", "lobby:BBB222"}, keys)
}

func TestMemoryStoreUpdate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	err := s.Update(ctx, "missing", time.Hour, func(cur []byte) ([]byte, error) {
		t.Fatal("fn must not run for a missing key")
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "k", []byte("1"), time.Hour))

	// Normal rewrite.
	require.NoError(t, s.Update(ctx, "k", time.Hour, func(cur []byte) ([]byte, error) {
		assert.Equal(t, "1", string(cur))
		return []byte("2"), nil
	}))
	val, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "2", string(val))

	// ErrSkipUpdate leaves the record untouched and reports success.
	require.NoError(t, s.Update(ctx, "k", time.Hour, func(cur []byte) ([]byte, error) {
		return nil, ErrSkipUpdate
	}))
	val, _ = s.Get(ctx, "k")
	assert.Equal(t, "2", string(val))

	// Other errors pass through.
	boom := errors.New("boom")
	err = s.Update(ctx, "k", time.Hour, func(cur []byte) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	// Returning nil deletes the key.
	require.NoError(t, s.Update(ctx, "k", time.Hour, func(cur []byte) ([]byte, error) {
		return nil, nil
	}))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreUpdateRefreshesTTL(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("1"), 40*time.Millisecond))
	time.Sleep(25 * time.Millisecond)
	require.NoError(t, s.Update(ctx, "k", 40*time.Millisecond, func(cur []byte) ([]byte, error) {
		return cur, nil
	}))

	// Past the original deadline but inside the refreshed one.
	time.Sleep(25 * time.Millisecond)
	_, err := s.Get(ctx, "k")
	assert.NoError(t, err, "every write refreshes the TTL")
}
