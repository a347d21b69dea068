package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	oceannotes "github.com/kavia-common/simple-notes-app-45797-45806"
	"github.com/kavia-common/simple-notes-app-45797-45806/internal/platform"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

// resolveDataDir returns the configured data directory, a local notebook
// above the working directory, or the per-user default.
func resolveDataDir() string {
	wd, err := os.Getwd()
	if err != nil {
		fatal("Failed to get CWD", err)
	}
	dir, err := platform.ResolveDataDir(settings.DataDir, wd)
	if err != nil {
		fatal("Failed to resolve data directory", err)
	}
	return dir
}

// withService opens the note store, runs fn and closes the store before
// returning fn's error, so callers can exit on it without leaking handles.
func withService(fn func(ctx context.Context, svc *core.Service) error) (err error) {
	svc, err := newService(nil)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := svc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close notes: %w", cerr)
		}
	}()
	return fn(context.Background(), svc)
}

// newService builds the note store from the merged settings.
func newService(logger *slog.Logger) (*core.Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := []oceannotes.Option{
		oceannotes.WithAdapter(settings.Adapter),
		oceannotes.WithFormat(settings.Format),
		oceannotes.WithReadOnly(settings.ReadOnly),
		oceannotes.WithLogger(logger),
	}
	if settings.StorageKey != "" {
		opts = append(opts, oceannotes.WithStorageKey(settings.StorageKey))
	}

	svc, err := oceannotes.New(resolveDataDir(), opts...)
	if err != nil {
		return nil, fmt.Errorf("open notes: %w", err)
	}
	return svc, nil
}
