package repositories

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a KVStore keeping each key at "<prefix>:<key>".
func NewRedisStore(client *redis.Client, prefix string) KVStore {
	if prefix == "" {
		prefix = "ledger"
	}
	return &redisStore{client: client, prefix: prefix}
}

func (s *redisStore) key(k string) string {
	return s.prefix + ":" + k
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrStorage, s.key(key), err)
	}
	return v, nil
}

// SetMany watches every touched key, compares the expected ones and writes
// all entries in a single MULTI/EXEC block. A watched key changed by another
// client aborts the block and is reported as ErrConflict.
func (s *redisStore) SetMany(ctx context.Context, entries map[string][]byte, expected map[string][]byte) error {
	keys := unionKeys(entries, expected)
	watched := make([]string, len(keys))
	for i, k := range keys {
		watched[i] = s.key(k)
	}

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		for k, want := range expected {
			current, err := tx.Get(ctx, s.key(k)).Bytes()
			if errors.Is(err, redis.Nil) {
				current = nil
			} else if err != nil {
				return fmt.Errorf("%w: reading %s: %v", ErrStorage, s.key(k), err)
			}
			if !bytes.Equal(current, want) {
				return fmt.Errorf("%w: collection %s", ErrConflict, k)
			}
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for k, v := range entries {
				pipe.Set(ctx, s.key(k), v, 0)
			}
			return nil
		})
		return err
	}, watched...)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.TxFailedErr):
		return fmt.Errorf("%w: watched keys changed", ErrConflict)
	case errors.Is(err, ErrConflict), errors.Is(err, ErrStorage):
		return err
	default:
		return fmt.Errorf("%w: writing %d keys: %v", ErrStorage, len(entries), err)
	}
}
