// Package store defines the durable key/value storage the graph store
// persists to. It plays the role browser local storage plays for the map:
// one JSON document per key, read at startup and rewritten on change.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("key not found")

// Store is the persistence interface for serialized graph state.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Lifecycle
	Close() error
}
