package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// StorageState exposes internal state for observability.
type StorageState struct {
	Path           string     `json:"path"`
	Extension      string     `json:"extension"`
	ReadOnly       bool       `json:"read_only"`
	CacheSize      int        `json:"cache_size"`
	CacheHits      int        `json:"cache_hits"`
	CacheMisses    int        `json:"cache_misses"`
	IgnorePatterns []string   `json:"ignore_patterns,omitempty"`
	WatcherActive  bool       `json:"watcher_active"`
	LastEvent      *time.Time `json:"last_event,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Storage) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits, misses := s.cache.Stats()
	return StorageState{
		Path:           s.Path,
		Extension:      s.config.Extension,
		ReadOnly:       s.config.ReadOnly,
		CacheSize:      s.cache.Len(),
		CacheHits:      hits,
		CacheMisses:    misses,
		IgnorePatterns: s.config.IgnorePatterns,
		WatcherActive:  s.watcherActive,
		LastEvent:      s.lastEvent,
	}
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "fs-storage"
}

var _ introspection.Introspectable = (*Storage)(nil)
var _ introspection.Component = (*Storage)(nil)

func (s *Storage) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

func (s *Storage) recordEvent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.lastEvent = &now
}
