// internal/store/redis.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// maxUpdateRetries bounds the WATCH retry loop in RedisStore.Update.
const maxUpdateRetries = 8

// RedisStore implements Store on a single Redis instance.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to Redis at addr and pings it before returning.
func NewRedisStore(addr string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan %q: %w", prefix, err)
	}
	return keys, nil
}

// Update wraps fn in a WATCH/MULTI transaction. If another client writes the
// key between the read and the EXEC, the transaction fails and the whole
// read-modify-write is retried with a fresh read.
func (s *RedisStore) Update(ctx context.Context, key string, ttl time.Duration, fn UpdateFunc) error {
	txn := func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrNotFound
		} else if err != nil {
			return err
		}

		next, err := fn(cur)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if next == nil {
				pipe.Del(ctx, key)
			} else {
				pipe.Set(ctx, key, next, ttl)
			}
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.rdb.Watch(ctx, txn, key)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrSkipUpdate):
			return nil
		case errors.Is(err, redis.TxFailedErr):
			continue // key changed under us, retry with a fresh read
		default:
			return err
		}
	}
	return fmt.Errorf("redis update %q: retries exhausted: %w", key, redis.TxFailedErr)
}
