package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/adapters/boltdb"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/adapters/fs"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/adapters/memory"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/adapters/sqlite"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

// Init prepares the storage selected by the options.
// The 'uri' argument is adapter-specific: a directory for 'fs', a database
// file or directory for 'bolt' and 'sqlite', ignored for 'memory'.
//
// It returns the initialized core.Storage.
func Init(uri string, opts ...Option) (core.Storage, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initStorage(uri, o)
}

func initStorage(uri string, o *options) (core.Storage, error) {
	// 1. Check for injected storage
	if o.storage != nil {
		if err := o.storage.Initialize(context.Background()); err != nil {
			return nil, err
		}
		return o.storage, nil
	}

	// 2. Initialize based on Adapter
	var storage core.Storage
	var err error

	switch o.adapter {
	case AdapterFS:
		storage, err = initFS(uri, o)
	case AdapterBolt:
		storage = boltdb.NewStorage(boltdb.Config{
			Path:     resolvePath(uri, o),
			ReadOnly: readOnly(o),
			Logger:   o.logger,
		})
	case AdapterSQLite:
		storage = sqlite.NewStorage(sqlite.Config{
			Path:     resolvePath(uri, o),
			ReadOnly: readOnly(o),
			Logger:   o.logger,
		})
	case AdapterMemory:
		storage = memory.NewStorage()
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	if err != nil {
		return nil, err
	}

	// 3. Run Initialization
	if err := storage.Initialize(context.Background()); err != nil {
		return nil, err
	}

	return storage, nil
}

// initFS handles the initialization logic for the Filesystem adapter.
func initFS(path string, o *options) (core.Storage, error) {
	mustExist, _ := o.config["must_exist"].(bool)
	ignore, _ := o.config["ignore_patterns"].([]string)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	ext := fs.DefaultExtension
	if o.serializer == nil && o.format == "yaml" {
		ext = ".yaml"
	}

	return fs.NewStorage(fs.Config{
		Path:           resolvePath(path, o),
		MustExist:      mustExist,
		ReadOnly:       readOnly(o),
		Logger:         o.logger,
		Extension:      ext,
		IgnorePatterns: ignore,
		ErrorHandler:   errorHandler,
	}), nil
}

func readOnly(o *options) bool {
	ro, _ := o.config["read_only"].(bool)
	return ro
}

// resolvePath applies the dev sandbox rules to a user supplied path.
func resolvePath(path string, o *options) string {
	tempDir, _ := o.config["temp_dir"].(bool)
	isReadOnly := readOnly(o)
	// Default to true (safe) if not present.
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Bypass Safety if:
	// 1. ReadOnly is active (inherently safe)
	// 2. User explicitly disabled DevSafety
	bypassSafety := isReadOnly || !devSafety

	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolved := ResolveDataPath(path, useTemp)

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	if IsDevRun() {
		if bypassSafety {
			if isReadOnly {
				logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
			} else {
				logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
			}
		} else {
			logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		}
	}
	if useTemp && resolved != path {
		logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
	}
	return resolved
}

// serializerFor picks the collection encoding for the options.
func serializerFor(o *options) (core.Serializer, error) {
	if o.serializer != nil {
		return o.serializer, nil
	}
	s, ok := core.DefaultSerializers()[o.format]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", o.format)
	}
	return s, nil
}
