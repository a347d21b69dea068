// Package fs stores each key as one file in a data directory.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

// DefaultExtension is appended to keys to form file names.
const DefaultExtension = ".json"

// ErrInvalidKey is returned for keys that cannot be used as file names.
var ErrInvalidKey = errors.New("invalid storage key")

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Storage implements core.Storage on the filesystem.
type Storage struct {
	Path   string
	cache  *cache
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastEvent     *time.Time
}

// Config holds the configuration for the filesystem storage.
type Config struct {
	Path      string
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger
	// Extension is appended to the key to build the file name (e.g. ".json").
	Extension string
	// FileMode is applied to written files. Defaults to 0644.
	FileMode os.FileMode
	// IgnorePatterns are doublestar globs, relative to Path, whose events the
	// watcher drops. Temp files from atomic writes are always ignored.
	IgnorePatterns []string
	// WatchDebounce coalesces bursts of events per key. Defaults to 50ms.
	WatchDebounce time.Duration
	// ErrorHandler receives watcher errors. Optional.
	ErrorHandler func(error)
}

// NewStorage creates a new filesystem-backed storage.
func NewStorage(config Config) *Storage {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Extension == "" {
		config.Extension = DefaultExtension
	}
	if config.FileMode == 0 {
		config.FileMode = 0644
	}
	if config.WatchDebounce <= 0 {
		config.WatchDebounce = 50 * time.Millisecond
	}
	return &Storage{
		Path:   config.Path,
		cache:  newCache(),
		config: config,
	}
}

// Initialize creates the data directory unless MustExist or ReadOnly is set,
// in which case it only verifies it.
func (s *Storage) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("data path does not exist: %s", s.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat data path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", s.Path)
		}
		return nil
	}

	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	n, err := removeStaleTemps(s.Path, time.Now().Add(-staleTempAge))
	if err != nil {
		s.config.Logger.Warn("could not clean up temp files", "path", s.Path, "error", err)
	} else if n > 0 {
		s.config.Logger.Info("removed leftover temp files", "path", s.Path, "count", n)
	}
	return nil
}

// Load implements core.Storage.
func (s *Storage) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	path, err := s.pathFor(key)
	if err != nil {
		return nil, false, err
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		s.cache.Delete(key)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if entry, ok := s.cache.Get(key, info.ModTime(), info.Size()); ok {
		return append([]byte(nil), entry.Data...), true, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	s.cache.Set(key, &cacheEntry{
		Data:    append([]byte(nil), data...),
		ModTime: info.ModTime(),
		Size:    info.Size(),
	})
	return data, true, nil
}

// Store implements core.Storage.
func (s *Storage) Store(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(path, data, s.config.FileMode); err != nil {
		return err
	}

	if info, err := os.Stat(path); err == nil {
		s.cache.Set(key, &cacheEntry{
			Data:    append([]byte(nil), data...),
			ModTime: info.ModTime(),
			Size:    info.Size(),
			Own:     true,
		})
	} else {
		s.cache.Delete(key)
	}

	s.config.Logger.Debug("stored key", "key", key, "bytes", len(data))
	return nil
}

// FilePath returns the file a key is stored in.
func (s *Storage) FilePath(key string) (string, error) {
	return s.pathFor(key)
}

func (s *Storage) pathFor(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.Path, key+s.config.Extension), nil
}

var _ core.Storage = (*Storage)(nil)
var _ core.Watchable = (*Storage)(nil)
