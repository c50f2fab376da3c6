// Package scratch provides the key/value scratch store collaborators use to
// accumulate free-form notes across turns, namespaced per session.
package scratch

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("scratch: key not found")

// Store is a namespaced key/value store for cross-turn notes.
type Store interface {
	// Get returns the value, or ErrNotFound if absent.
	Get(ctx context.Context, namespace, key string) (string, error)

	// Put stores the value, replacing any previous one.
	Put(ctx context.Context, namespace, key, value string) error
}
