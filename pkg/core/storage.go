package core

import "context"

// Storage defines the contract for the key-value backend the notes collection
// lives in. The whole collection is held as one serialized value under a
// single namespaced key, so adapters only need to move opaque bytes.
type Storage interface {
	// Load returns the value stored under key. ok is false when the key has
	// never been written; that is not an error.
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Store replaces the value under key. Implementations must not leave a
	// partially written value behind on failure.
	Store(ctx context.Context, key string, data []byte) error

	// Initialize ensures the underlying storage is ready (e.g., create directories, schema migration).
	Initialize(ctx context.Context) error
}

// Watchable defines an interface for storages that can report changes made
// by other processes.
type Watchable interface {
	// Watch emits an Event whenever the value under key changes on disk.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context, key string) (<-chan Event, error)
}
