// Package storage provides the key-value persistence adapter.
package storage

import "context"

// Namespace prefixes every key written by this application.
const Namespace = "beatdeck"

// UserStateKey is the key the identity store persists its snapshot under.
const UserStateKey = Namespace + ":user"

// Store is a key-value storage backend.
// Values are opaque byte slices; callers handle serialization.
type Store interface {
	// Get returns the value for key. The second return is false when the
	// key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases underlying resources.
	Close() error
}
