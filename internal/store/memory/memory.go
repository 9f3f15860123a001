// Package memory implements an in-process store.Store used by tests and
// ephemeral runs. Nothing survives Close.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/alfredjeanlab/cinemap/internal/store"
)

// MemoryStore is a map-backed store.Store.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
	// FailWrites makes every Set return an error. Tests use it to
	// exercise persistence failures.
	FailWrites bool
}

var _ store.Store = (*MemoryStore)(nil)

var errWriteDisabled = errors.New("memory store: writes disabled")

// New returns an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return errWriteDisabled
	}
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
