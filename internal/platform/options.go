package platform

import (
	"log/slog"

	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterBolt   = "bolt"
	AdapterSQLite = "sqlite"
	AdapterMemory = "memory"
)

// Adapters lists the supported adapter names.
var Adapters = []string{AdapterFS, AdapterBolt, AdapterSQLite, AdapterMemory}

// options holds the internal configuration for the note store.
type options struct {
	storage     core.Storage
	logger      *slog.Logger
	adapter     string
	key         string
	format      string
	serializer  core.Serializer
	serviceOpts []core.ServiceOption
	config      map[string]interface{}
}

// Option defines a functional option for configuring the note store.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: AdapterFS,
		key:     core.DefaultStorageKey,
		format:  "json",
		config:  make(map[string]interface{}),
	}
}

// WithAdapter allows specifying the storage adapter to use by name
// ("fs", "bolt", "sqlite" or "memory"). Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		if name != "" {
			o.adapter = name
		}
	}
}

// WithStorage allows injecting a custom storage (e.g. mock).
// If provided, the adapter selection is skipped.
func WithStorage(storage core.Storage) Option {
	return func(o *options) {
		o.storage = storage
	}
}

// WithLogger sets the logger for the store and its storage.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStorageKey sets the key the collection is stored under.
func WithStorageKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.key = key
		}
	}
}

// WithFormat selects a built-in serializer by name ("json" or "yaml").
// For the fs adapter it also picks the file extension.
func WithFormat(name string) Option {
	return func(o *options) {
		if name != "" {
			o.format = name
		}
	}
}

// WithSerializer registers a custom serializer, overriding WithFormat.
func WithSerializer(s core.Serializer) Option {
	return func(o *options) {
		o.serializer = s
	}
}

// WithServiceOptions passes extra options through to core.NewService.
func WithServiceOptions(opts ...core.ServiceOption) Option {
	return func(o *options) {
		o.serviceOpts = append(o.serviceOpts, opts...)
	}
}

// WithReadOnly opens the store without write access. Read-only mode is
// inherently safe, so it also bypasses the dev sandbox.
func WithReadOnly(readOnly bool) Option {
	return func(o *options) {
		o.config["read_only"] = readOnly
	}
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithDevSafety toggles re-rooting data into a temp directory when running
// under `go run` or `go test`. Enabled by default.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithIgnorePatterns sets doublestar globs the fs watcher drops.
func WithIgnorePatterns(patterns ...string) Option {
	return func(o *options) {
		o.config["ignore_patterns"] = patterns
	}
}

// WithWatcherErrorHandler registers a callback to handle errors occurring during the Watch loop.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}
