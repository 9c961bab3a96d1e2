package repositories

import (
	"bytes"
	"context"
	"fmt"
	"sync"
)

// KVStore is the byte-level backend behind the ledger.
// Get returns (nil, nil) for a missing key.
// SetMany applies all entries or none. Every key in expected must still hold
// the given value (nil meaning missing), otherwise nothing is written and
// ErrConflict is returned.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetMany(ctx context.Context, entries map[string][]byte, expected map[string][]byte) error
}

type memoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an in-process KVStore. Contents are lost on exit.
func NewMemoryStore() KVStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return cloneBytes(v), nil
}

func (s *memoryStore) SetMany(_ context.Context, entries map[string][]byte, expected map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkExpected(expected, func(k string) []byte { return s.data[k] }); err != nil {
		return err
	}
	for k, v := range entries {
		s.data[k] = cloneBytes(v)
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// checkExpected compares every expected key with its current value.
func checkExpected(expected map[string][]byte, current func(key string) []byte) error {
	for k, want := range expected {
		if !bytes.Equal(current(k), want) {
			return fmt.Errorf("%w: collection %s", ErrConflict, k)
		}
	}
	return nil
}
