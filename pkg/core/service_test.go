package core_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/adapters/memory"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

// fakeClock advances by step on every reading.
type fakeClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newFakeClock(step time.Duration) *fakeClock {
	return &fakeClock{now: time.UnixMilli(1_700_000_000_000), step: step}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func sequentialIDs() func() string {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("note-%03d", n)
	}
}

func newTestService(t *testing.T, opts ...core.ServiceOption) (*core.Service, *memory.Storage) {
	t.Helper()
	storage := memory.NewStorage()
	base := []core.ServiceOption{
		core.WithClock(newFakeClock(time.Second).Now),
		core.WithIDGenerator(sequentialIDs()),
	}
	return core.NewService(storage, append(base, opts...)...), storage
}

func ids(notes []core.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func TestService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	t.Run("Create", func(t *testing.T) {
		n, err := svc.Create(ctx, core.Fields{Title: "Groceries", Content: "milk"})
		require.NoError(t, err)
		assert.NotEmpty(t, n.ID)
		assert.Equal(t, "Groceries", n.Title)
		assert.Equal(t, "milk", n.Content)
		assert.True(t, n.CreatedAt.Equal(n.UpdatedAt))
	})

	t.Run("Get", func(t *testing.T) {
		n, ok, err := svc.Get(ctx, "note-001")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Groceries", n.Title)
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, ok, err := svc.Get(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Update", func(t *testing.T) {
		before, _, err := svc.Get(ctx, "note-001")
		require.NoError(t, err)

		n, ok, err := svc.Update(ctx, "note-001", core.SetContent("milk, eggs"))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Groceries", n.Title, "title untouched by content patch")
		assert.Equal(t, "milk, eggs", n.Content)
		assert.True(t, n.UpdatedAt.After(before.UpdatedAt))
		assert.True(t, n.CreatedAt.Equal(before.CreatedAt))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, "note-001"))
		_, ok, err := svc.Get(ctx, "note-001")
		require.NoError(t, err)
		assert.False(t, ok)

		notes, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, notes)
	})
}

func TestService_CreateAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	svc := core.NewService(memory.NewStorage())

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		n, err := svc.Create(ctx, core.Fields{Title: core.DefaultTitle})
		require.NoError(t, err)
		require.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
	}

	notes, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 50)
}

func TestService_CreateRetriesCollidingIDs(t *testing.T) {
	ctx := context.Background()
	gen := []string{"a", "a", "", "b"}
	svc := core.NewService(memory.NewStorage(), core.WithIDGenerator(func() string {
		id := gen[0]
		gen = gen[1:]
		return id
	}))

	first, err := svc.Create(ctx, core.Fields{})
	require.NoError(t, err)
	second, err := svc.Create(ctx, core.Fields{})
	require.NoError(t, err)

	assert.Equal(t, "a", first.ID)
	assert.Equal(t, "b", second.ID)
}

func TestService_ListOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Newest First", func(t *testing.T) {
		svc, _ := newTestService(t)
		a, err := svc.Create(ctx, core.Fields{Title: "A"})
		require.NoError(t, err)
		b, err := svc.Create(ctx, core.Fields{Title: "B"})
		require.NoError(t, err)

		notes, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{b.ID, a.ID}, ids(notes))
	})

	t.Run("Update Moves To Top", func(t *testing.T) {
		svc, _ := newTestService(t)
		a, err := svc.Create(ctx, core.Fields{Title: "A"})
		require.NoError(t, err)
		b, err := svc.Create(ctx, core.Fields{Title: "B"})
		require.NoError(t, err)
		_, _, err = svc.Update(ctx, a.ID, core.SetTitle("A2"))
		require.NoError(t, err)

		notes, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{a.ID, b.ID}, ids(notes))
	})

	t.Run("Ties Are Deterministic", func(t *testing.T) {
		frozen := time.UnixMilli(1_700_000_000_000)
		svc, _ := newTestService(t, core.WithClock(func() time.Time { return frozen }))
		for i := 0; i < 3; i++ {
			_, err := svc.Create(ctx, core.Fields{})
			require.NoError(t, err)
		}

		notes, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"note-001", "note-002", "note-003"}, ids(notes))
	})
}

func TestService_UpdateAlwaysAdvancesTimestamp(t *testing.T) {
	ctx := context.Background()
	frozen := time.UnixMilli(1_700_000_000_000)
	svc, _ := newTestService(t, core.WithClock(func() time.Time { return frozen }))

	n, err := svc.Create(ctx, core.Fields{Title: "frozen"})
	require.NoError(t, err)

	prev := n.UpdatedAt
	for i := 0; i < 3; i++ {
		updated, ok, err := svc.Update(ctx, n.ID, core.SetContent(fmt.Sprint(i)))
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, updated.UpdatedAt.After(prev), "update %d did not advance UpdatedAt", i)
		assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
		prev = updated.UpdatedAt
	}
}

func TestService_UpdateMissingWritesNothing(t *testing.T) {
	ctx := context.Background()
	svc, storage := newTestService(t)

	_, err := svc.Create(ctx, core.Fields{Title: "keep"})
	require.NoError(t, err)
	writes := storage.Writes()

	_, ok, err := svc.Update(ctx, "ghost", core.SetTitle("boo"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, writes, storage.Writes())

	notes, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "keep", notes[0].Title)
}

func TestService_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, storage := newTestService(t)

	n, err := svc.Create(ctx, core.Fields{Title: "doomed"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, n.ID))
	writes := storage.Writes()
	require.NoError(t, svc.Delete(ctx, n.ID))
	assert.Equal(t, writes, storage.Writes(), "second delete must not write")
}

func TestService_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewStorage()

	first := core.NewService(storage)
	created, err := first.Create(ctx, core.Fields{Title: "durable", Content: "body"})
	require.NoError(t, err)

	second := core.NewService(storage)
	got, ok, err := second.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Content, got.Content)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, created.UpdatedAt.Equal(got.UpdatedAt))
}

func TestService_CorruptStorage(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	storage := memory.NewStorage()
	require.NoError(t, storage.Store(ctx, core.DefaultStorageKey, []byte("{not json")))

	svc := core.NewService(storage, core.WithLogger(logger))

	notes, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.Contains(t, logs.String(), core.ErrStorageCorrupt.Error())
	assert.True(t, svc.State().(core.ServiceState).LastLoadCorrupt)

	backup, ok, err := storage.Load(ctx, core.DefaultStorageKey+".corrupt")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "{not json", string(backup))

	_, err = svc.Create(ctx, core.Fields{Title: "fresh"})
	require.NoError(t, err)
	notes, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
	assert.False(t, svc.State().(core.ServiceState).LastLoadCorrupt)
}

func TestService_ReadOnly(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewStorage()

	writer := core.NewService(storage)
	n, err := writer.Create(ctx, core.Fields{Title: "existing"})
	require.NoError(t, err)

	ro := core.NewService(storage, core.WithReadOnly(true))

	_, ok, err := ro.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = ro.Create(ctx, core.Fields{})
	assert.ErrorIs(t, err, core.ErrReadOnly)
	_, _, err = ro.Update(ctx, n.ID, core.SetTitle("x"))
	assert.ErrorIs(t, err, core.ErrReadOnly)
	assert.ErrorIs(t, ro.Delete(ctx, n.ID), core.ErrReadOnly)
}

type failingStorage struct {
	*memory.Storage
	err error
}

func (f *failingStorage) Store(ctx context.Context, key string, data []byte) error {
	return f.err
}

func TestService_StorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	svc := core.NewService(&failingStorage{Storage: memory.NewStorage(), err: boom})

	_, err := svc.Create(ctx, core.Fields{Title: "lost"})
	assert.ErrorIs(t, err, boom)
}

func TestService_EmptyIDIsAbsent(t *testing.T) {
	ctx := context.Background()
	svc, storage := newTestService(t)

	_, err := svc.Create(ctx, core.Fields{Title: "keep"})
	require.NoError(t, err)
	writes := storage.Writes()

	_, ok, err := svc.Get(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = svc.Update(ctx, "", core.SetContent("x"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.Delete(ctx, ""))

	assert.Equal(t, writes, storage.Writes(), "no write for an empty id")
	notes, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "keep", notes[0].Title)
}

func TestService_WatchUnsupported(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Watch(context.Background())
	assert.ErrorIs(t, err, core.ErrWatchUnsupported)
}

func TestService_State(t *testing.T) {
	svc, _ := newTestService(t, core.WithKey("custom"), core.WithSerializer(core.NewYAMLSerializer()))
	_, err := svc.Create(context.Background(), core.Fields{})
	require.NoError(t, err)

	state := svc.State().(core.ServiceState)
	assert.Equal(t, "custom", state.StorageKey)
	assert.Equal(t, "memory-storage", state.StorageType)
	assert.Equal(t, "yaml", state.Serializer)
	assert.Equal(t, 1, state.Writes)
	assert.Equal(t, "note-store", svc.ComponentType())
}
