package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultStorageKey is the namespaced key the collection is stored under.
const DefaultStorageKey = "ocean-notes.notes"

// quarantineSuffix is appended to the storage key to keep a copy of a
// payload that failed to parse.
const quarantineSuffix = ".corrupt"

// Service is the note store. It owns the durable collection and is the only
// component that reads or writes the Storage.
//
// Every operation reloads the collection, so changes written by another
// process sharing the storage are observed on the next call. Every mutation
// persists the full collection before returning.
type Service struct {
	mu         sync.Mutex
	storage    Storage
	key        string
	serializer Serializer
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
	readOnly   bool

	writes      int
	lastCorrupt bool
	quarantined bool
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithKey sets the storage key. Defaults to DefaultStorageKey.
func WithKey(key string) ServiceOption {
	return func(s *Service) {
		if key != "" {
			s.key = key
		}
	}
}

// WithSerializer sets the collection encoding. Defaults to JSON.
func WithSerializer(ser Serializer) ServiceOption {
	return func(s *Service) {
		if ser != nil {
			s.serializer = ser
		}
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp notes.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how note IDs are minted.
func WithIDGenerator(gen func() string) ServiceOption {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithReadOnly rejects every mutation with ErrReadOnly.
func WithReadOnly(readOnly bool) ServiceOption {
	return func(s *Service) {
		s.readOnly = readOnly
	}
}

// NewService creates a new Service backed by storage.
func NewService(storage Storage, opts ...ServiceOption) *Service {
	s := &Service{
		storage:    storage,
		key:        DefaultStorageKey,
		serializer: NewJSONSerializer(),
		logger:     slog.Default(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key the collection lives under.
func (s *Service) Key() string {
	return s.key
}

// List returns every note, most recently updated first.
func (s *Service) List(ctx context.Context) ([]Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	SortByRecent(notes)
	return notes, nil
}

// Get returns the note with the given id. ok is false when no such note exists.
func (s *Service) Get(ctx context.Context, id string) (Note, bool, error) {
	if id == "" {
		return Note{}, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		return Note{}, false, err
	}
	if i := indexOf(notes, id); i >= 0 {
		return notes[i], true, nil
	}
	return Note{}, false, nil
}

// Create adds a new note with a fresh id and persists the collection.
func (s *Service) Create(ctx context.Context, fields Fields) (Note, error) {
	if s.readOnly {
		return Note{}, ErrReadOnly
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		return Note{}, err
	}

	id := s.newID()
	for id == "" || indexOf(notes, id) >= 0 {
		id = s.newID()
	}

	stamp := s.stamp()
	note := Note{
		ID:        id,
		Title:     fields.Title,
		Content:   fields.Content,
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}
	notes = append(notes, note)

	if err := s.persist(ctx, notes); err != nil {
		return Note{}, err
	}
	s.logger.Debug("note created", "id", id)
	return note, nil
}

// Update merges patch into the note with the given id, bumps its UpdatedAt
// and persists the collection. ok is false, and nothing is written, when no
// such note exists. No note has an empty id.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (Note, bool, error) {
	if id == "" {
		return Note{}, false, nil
	}
	if s.readOnly {
		return Note{}, false, ErrReadOnly
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		return Note{}, false, err
	}
	i := indexOf(notes, id)
	if i < 0 {
		return Note{}, false, nil
	}

	note := notes[i]
	patch.apply(&note)
	note.UpdatedAt = s.stamp()
	if !note.UpdatedAt.After(notes[i].UpdatedAt) {
		note.UpdatedAt = notes[i].UpdatedAt.Add(time.Millisecond)
	}
	notes[i] = note

	if err := s.persist(ctx, notes); err != nil {
		return Note{}, false, err
	}
	s.logger.Debug("note updated", "id", id)
	return note, true, nil
}

// Delete removes the note with the given id. Deleting a missing note,
// including the empty id, is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if s.readOnly {
		return ErrReadOnly
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(notes, id)
	if i < 0 {
		return nil
	}
	notes = append(notes[:i], notes[i+1:]...)

	if err := s.persist(ctx, notes); err != nil {
		return err
	}
	s.logger.Debug("note deleted", "id", id)
	return nil
}

// Watch reports changes to the stored collection made outside this Service.
// It requires a storage implementing Watchable.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.storage.(Watchable)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	return w.Watch(ctx, s.key)
}

// Close releases the storage if it holds resources (e.g. a database handle).
func (s *Service) Close() error {
	if c, ok := s.storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// load reads and decodes the collection. A missing key is an empty
// collection. A payload that cannot be decoded is logged, quarantined and
// treated as empty.
func (s *Service) load(ctx context.Context) ([]Note, error) {
	data, ok, err := s.storage.Load(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}
	s.lastCorrupt = false
	if !ok || len(bytes.TrimSpace(data)) == 0 {
		return []Note{}, nil
	}

	notes, err := s.serializer.Unmarshal(data)
	if err != nil {
		s.lastCorrupt = true
		s.logger.Warn("treating notes collection as empty",
			"key", s.key,
			"error", fmt.Errorf("%w: %v", ErrStorageCorrupt, err),
		)
		s.quarantine(ctx, data)
		return []Note{}, nil
	}
	return notes, nil
}

// quarantine keeps one copy of an undecodable payload next to the
// collection before it gets overwritten by the next mutation.
func (s *Service) quarantine(ctx context.Context, data []byte) {
	if s.readOnly || s.quarantined {
		return
	}
	backup := s.key + quarantineSuffix
	if err := s.storage.Store(ctx, backup, data); err != nil {
		s.logger.Error("failed to quarantine corrupt notes", "key", backup, "error", err)
		return
	}
	s.quarantined = true
	s.logger.Warn("corrupt notes quarantined", "key", backup)
}

func (s *Service) persist(ctx context.Context, notes []Note) error {
	data, err := s.serializer.Marshal(notes)
	if err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}
	if err := s.storage.Store(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to store notes: %w", err)
	}
	s.writes++
	s.lastCorrupt = false
	return nil
}

// stamp returns the current time at the resolution the collection is stored with.
func (s *Service) stamp() time.Time {
	return s.now().Truncate(time.Millisecond)
}

// SortByRecent orders notes by descending UpdatedAt, then descending
// CreatedAt, then ascending ID.
func SortByRecent(notes []Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		a, b := notes[i], notes[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func indexOf(notes []Note, id string) int {
	for i := range notes {
		if notes[i].ID == id {
			return i
		}
	}
	return -1
}
