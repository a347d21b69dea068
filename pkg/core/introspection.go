package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	StorageKey      string `json:"storage_key"`
	StorageType     string `json:"storage_type"`
	Serializer      string `json:"serializer"`
	ReadOnly        bool   `json:"read_only"`
	Writes          int    `json:"writes"`
	LastLoadCorrupt bool   `json:"last_load_corrupt"`
	Watchable       bool   `json:"watchable"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	storageType := "unknown"
	if s.storage != nil {
		storageType = "storage"
		// Try to get component type if storage implements introspection.Component
		if comp, ok := s.storage.(introspection.Component); ok {
			storageType = comp.ComponentType()
		}
	}
	_, watchable := s.storage.(Watchable)

	return ServiceState{
		StorageKey:      s.key,
		StorageType:     storageType,
		Serializer:      s.serializer.Name(),
		ReadOnly:        s.readOnly,
		Writes:          s.writes,
		LastLoadCorrupt: s.lastCorrupt,
		Watchable:       watchable,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "note-store"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
