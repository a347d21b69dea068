// Package sqlite stores keys in a key-value table of a SQLite database,
// using the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	_ "modernc.org/sqlite"

	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

// DefaultFileName is used when Config.Path points at a directory.
const DefaultFileName = "oceannotes.sqlite"

// ErrNotInitialized is returned when the database has not been opened yet.
var ErrNotInitialized = errors.New("sqlite storage is not initialized")

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TEXT NOT NULL
)`

// Config holds the configuration for the SQLite storage.
type Config struct {
	// Path is the database file, or a directory to hold DefaultFileName.
	Path     string
	ReadOnly bool
	Logger   *slog.Logger
}

// Storage implements core.Storage on a SQLite key-value table.
type Storage struct {
	config Config

	mu     sync.RWMutex
	db     *sql.DB
	writes int
}

// NewStorage creates a SQLite-backed storage. The database is opened by Initialize.
func NewStorage(config Config) *Storage {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Storage{config: config}
}

// Path returns the database file path.
func (s *Storage) Path() string {
	if info, err := os.Stat(s.config.Path); err == nil && info.IsDir() {
		return filepath.Join(s.config.Path, DefaultFileName)
	}
	return s.config.Path
}

// Initialize opens the database and creates the table.
func (s *Storage) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}
	path := s.Path()
	if path == "" {
		return errors.New("sqlite database path is required")
	}

	dsn := path + "?_pragma=busy_timeout(5000)"
	if s.config.ReadOnly {
		dsn = path + "?mode=ro&_pragma=busy_timeout(5000)"
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	// One writer at a time; SQLite serializes them anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("open database: %w", err)
	}
	if !s.config.ReadOnly {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			db.Close()
			return fmt.Errorf("init schema: %w", err)
		}
	}

	s.db = db
	s.config.Logger.Debug("sqlite storage opened", "path", path)
	return nil
}

// Load implements core.Storage.
func (s *Storage) Load(ctx context.Context, key string) ([]byte, bool, error) {
	db, err := s.handle()
	if err != nil {
		return nil, false, err
	}

	var data []byte
	err = db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query %q: %w", key, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, true, nil
}

// Store implements core.Storage.
func (s *Storage) Store(ctx context.Context, key string, data []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	db, err := s.handle()
	if err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, data, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}

	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	return nil
}

// Close closes the database connection.
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

func (s *Storage) handle() (*sql.DB, error) {
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
	return "sqlite-storage"
}

var _ core.Storage = (*Storage)(nil)
var _ introspection.Introspectable = (*Storage)(nil)
var _ introspection.Component = (*Storage)(nil)
