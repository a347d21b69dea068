// Package boltdb stores keys in a single bbolt database file.
package boltdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	bolt "go.etcd.io/bbolt"

	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

// DefaultFileName is used when Config.Path points at a directory.
const DefaultFileName = "oceannotes.db"

var bucketNotes = []byte("ocean-notes")

// ErrNotInitialized is returned when the database has not been opened yet.
var ErrNotInitialized = errors.New("bolt storage is not initialized")

// Config holds the configuration for the bbolt storage.
type Config struct {
	// Path is the database file, or a directory to hold DefaultFileName.
	Path     string
	ReadOnly bool
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Storage implements core.Storage on a bbolt bucket.
type Storage struct {
	config Config

	mu     sync.RWMutex
	db     *bolt.DB
	writes int
}

// NewStorage creates a bbolt-backed storage. The database is opened by Initialize.
func NewStorage(config Config) *Storage {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Second
	}
	return &Storage{config: config}
}

// Path returns the database file path.
func (s *Storage) Path() string {
	path := strings.TrimSpace(s.config.Path)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, DefaultFileName)
	}
	return path
}

// Initialize opens the database and creates the bucket.
func (s *Storage) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}
	path := s.Path()
	if path == "" {
		return errors.New("bolt database path is required")
	}
	if !s.config.ReadOnly {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout:  s.config.Timeout,
		ReadOnly: s.config.ReadOnly,
	})
	if err != nil {
		return fmt.Errorf("failed to open bolt database: %w", err)
	}

	if !s.config.ReadOnly {
		err = db.Update(func(tx *bolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(bucketNotes)
			return err
		})
		if err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	s.db = db
	s.config.Logger.Debug("bolt storage opened", "path", path)
	return nil
}

// Load implements core.Storage.
func (s *Storage) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	db, err := s.handle()
	if err != nil {
		return nil, false, err
	}

	var data []byte
	var ok bool
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b == nil {
			return nil
		}
		raw := b.Get([]byte(key))
		if raw == nil {
			return nil
		}
		// raw is only valid inside the transaction.
		data = append([]byte(nil), raw...)
		ok = true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return data, ok, nil
}

// Store implements core.Storage.
func (s *Storage) Store(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if key == "" {
		return errors.New("bolt storage key cannot be empty")
	}
	db, err := s.handle()
	if err != nil {
		return err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketNotes)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}

	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	return nil
}

// Close releases the database file lock.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Storage) handle() (*bolt.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

// StorageState exposes internal state for observability.
type StorageState struct {
	Path     string `json:"path"`
	Open     bool   `json:"open"`
	ReadOnly bool   `json:"read_only"`
	Writes   int    `json:"writes"`
}

// State implements introspection.Introspectable.
func (s *Storage) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StorageState{
		Path:     s.Path(),
		Open:     s.db != nil,
		ReadOnly: s.config.ReadOnly,
		Writes:   s.writes,
	}
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "bolt-storage"
}

var _ core.Storage = (*Storage)(nil)
var _ introspection.Introspectable = (*Storage)(nil)
var _ introspection.Component = (*Storage)(nil)
