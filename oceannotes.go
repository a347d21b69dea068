package oceannotes

import (
	"log/slog"

	"github.com/kavia-common/simple-notes-app-45797-45806/internal/platform"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// Note is a public alias for the stored note.
type Note = core.Note

// Fields is a public alias for the fields of a new note.
type Fields = core.Fields

// Patch is a public alias for a partial note update.
type Patch = core.Patch

// Service is a public alias for the note store.
type Service = core.Service

// --- Configuration ---

// Option defines a functional option for configuring the store.
type Option = platform.Option

// WithAdapter selects the storage adapter by name ("fs", "bolt", "sqlite", "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithStorage injects a custom storage adapter.
func WithStorage(storage core.Storage) Option {
	return platform.WithStorage(storage)
}

// WithLogger sets the logger for the store and its adapter.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStorageKey overrides the key the collection is stored under.
func WithStorageKey(key string) Option {
	return platform.WithStorageKey(key)
}

// WithFormat selects the collection encoding ("json" or "yaml").
func WithFormat(name string) Option {
	return platform.WithFormat(name)
}

// WithReadOnly opens the storage without write access.
func WithReadOnly(readOnly bool) Option {
	return platform.WithReadOnly(readOnly)
}

// WithMustExist ensures the data location already exists.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety toggles the dev sandbox that keeps `go run` and `go test`
// away from real data. Enabled by default.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// New creates a note store backed by the selected adapter.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}
