// Package memory provides an in-process core.Storage. Nothing survives the
// process; it backs tests and ephemeral sessions.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

// Storage implements core.Storage with a map.
type Storage struct {
	mu     sync.RWMutex
	values map[string][]byte
	writes int
}

// NewStorage creates an empty in-memory storage.
func NewStorage() *Storage {
	return &Storage{values: make(map[string][]byte)}
}

// Initialize implements core.Storage.
func (s *Storage) Initialize(ctx context.Context) error {
	return nil
}

// Load implements core.Storage.
func (s *Storage) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// Store implements core.Storage.
func (s *Storage) Store(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), data...)
	s.writes++
	return nil
}

// Writes returns how many times Store succeeded.
func (s *Storage) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// StorageState exposes internal state for observability.
type StorageState struct {
	Keys   int `json:"keys"`
	Writes int `json:"writes"`
}

// State implements introspection.Introspectable.
func (s *Storage) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StorageState{Keys: len(s.values), Writes: s.writes}
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "memory-storage"
}

var _ core.Storage = (*Storage)(nil)
var _ introspection.Introspectable = (*Storage)(nil)
var _ introspection.Component = (*Storage)(nil)
