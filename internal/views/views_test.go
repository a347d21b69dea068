package views_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavia-common/simple-notes-app-45797-45806/internal/views"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/adapters/memory"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/autosave"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/autosave/autosavetest"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

// countingStore wraps a store and counts Update calls.
type countingStore struct {
	views.NoteStore
	mu      sync.Mutex
	updates int
	fail    error
}

func (c *countingStore) Update(ctx context.Context, id string, patch core.Patch) (core.Note, bool, error) {
	c.mu.Lock()
	c.updates++
	fail := c.fail
	c.mu.Unlock()
	if fail != nil {
		return core.Note{}, false, fail
	}
	return c.NoteStore.Update(ctx, id, patch)
}

func (c *countingStore) Updates() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updates
}

func newStore(t *testing.T) *countingStore {
	t.Helper()
	var n int
	svc := core.NewService(memory.NewStorage(), core.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("n%d", n)
	}))
	return &countingStore{NoteStore: svc}
}

func newEditor(t *testing.T, store views.NoteStore, id string, opts ...autosave.Option) (*views.Editor, *autosavetest.Scheduler) {
	t.Helper()
	sched := autosavetest.NewScheduler()
	ctrl := autosave.New(autosave.DefaultDelay, append([]autosave.Option{autosave.WithScheduler(sched)}, opts...)...)
	e := views.NewEditor(store, id, ctrl, nil)
	t.Cleanup(e.Close)
	return e, sched
}

func TestList(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	list := views.NewList(store, nil)

	assert.False(t, list.Loaded())
	require.NoError(t, list.Refresh(ctx))
	assert.True(t, list.Loaded())
	assert.Empty(t, list.Visible())

	t.Run("Create", func(t *testing.T) {
		n, err := list.Create(ctx)
		require.NoError(t, err)
		assert.Equal(t, core.DefaultTitle, n.Title)
		assert.Empty(t, n.Content)
		require.Len(t, list.Visible(), 1)
	})

	t.Run("Filter", func(t *testing.T) {
		_, err := store.Create(ctx, core.Fields{Title: "Recipes", Content: "Pancakes"})
		require.NoError(t, err)
		require.NoError(t, list.Refresh(ctx))

		list.SetQuery("  PANCAKE ")
		visible := list.Visible()
		require.Len(t, visible, 1)
		assert.Equal(t, "Recipes", visible[0].Title)
		assert.Len(t, list.All(), 2)

		list.SetQuery("")
		assert.Len(t, list.Visible(), 2)
	})

	t.Run("Delete Declined", func(t *testing.T) {
		deleted, err := list.Delete(ctx, "n1", func() bool { return false })
		require.NoError(t, err)
		assert.False(t, deleted)
		assert.Len(t, list.All(), 2)
	})

	t.Run("Delete Confirmed", func(t *testing.T) {
		deleted, err := list.Delete(ctx, "n1", func() bool { return true })
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Len(t, list.All(), 1)
	})

	t.Run("Stale Until Refresh", func(t *testing.T) {
		_, err := store.Create(ctx, core.Fields{Title: "elsewhere"})
		require.NoError(t, err)
		assert.Len(t, list.All(), 1)
		require.NoError(t, list.Refresh(ctx))
		assert.Len(t, list.All(), 2)
	})
}

func TestEditor_Load(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	n, err := store.Create(ctx, core.Fields{Title: "T", Content: "C"})
	require.NoError(t, err)

	t.Run("Found", func(t *testing.T) {
		e, _ := newEditor(t, store, n.ID)
		assert.Equal(t, views.StateLoading, e.State())
		require.NoError(t, e.Load(ctx))
		assert.Equal(t, views.StateFound, e.State())
		assert.Equal(t, "T", e.Title())
		assert.Equal(t, "C", e.Content())
		assert.True(t, e.LastUpdated().Equal(n.UpdatedAt))
		assert.Equal(t, views.SavedMessage, e.StatusMessage())
	})

	t.Run("Not Found", func(t *testing.T) {
		e, _ := newEditor(t, store, "missing")
		require.NoError(t, e.Load(ctx))
		assert.Equal(t, views.StateNotFound, e.State())
		assert.Equal(t, "not-found", e.State().String())

		e.SetTitle("ignored")
		assert.Empty(t, e.Title())
	})

	t.Run("Opening Does Not Write", func(t *testing.T) {
		before := store.Updates()
		e, sched := newEditor(t, store, n.ID)
		require.NoError(t, e.Load(ctx))
		sched.Advance(time.Second)
		assert.Equal(t, before, store.Updates())
	})
}

func TestEditor_AutosaveDebounces(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	n, err := store.Create(ctx, core.Fields{Title: core.DefaultTitle})
	require.NoError(t, err)

	e, sched := newEditor(t, store, n.ID)
	require.NoError(t, e.Load(ctx))

	saved := make(chan core.Note, 4)
	e.OnSaved(func(n core.Note) { saved <- n })

	for _, title := range []string{"S", "Sh", "Sho", "Shop"} {
		e.SetTitle(title)
		sched.Advance(100 * time.Millisecond)
	}
	e.SetContent("eggs")
	assert.True(t, e.Saving())
	assert.Equal(t, views.SavingMessage, e.StatusMessage())
	assert.Zero(t, store.Updates())

	sched.Advance(400 * time.Millisecond)
	assert.Equal(t, 1, store.Updates(), "one write per quiet period")
	assert.False(t, e.Saving())

	select {
	case got := <-saved:
		assert.Equal(t, "Shop", got.Title)
		assert.Equal(t, "eggs", got.Content)
		assert.True(t, got.UpdatedAt.After(n.UpdatedAt))
	default:
		t.Fatal("OnSaved not called")
	}

	stored, ok, err := store.Get(ctx, n.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Shop", stored.Title)
	assert.True(t, e.LastUpdated().Equal(stored.UpdatedAt))
}

func TestEditor_Close(t *testing.T) {
	ctx := context.Background()

	t.Run("Drops Pending Edit", func(t *testing.T) {
		store := newStore(t)
		n, err := store.Create(ctx, core.Fields{Title: "before"})
		require.NoError(t, err)

		e, sched := newEditor(t, store, n.ID)
		require.NoError(t, e.Load(ctx))
		e.SetTitle("after")
		e.Close()
		sched.Advance(time.Second)

		stored, _, err := store.Get(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, "before", stored.Title)
		assert.Zero(t, store.Updates())
	})

	t.Run("Flushes When Configured", func(t *testing.T) {
		store := newStore(t)
		n, err := store.Create(ctx, core.Fields{Title: "before"})
		require.NoError(t, err)

		e, _ := newEditor(t, store, n.ID, autosave.WithFlushOnClose(true))
		require.NoError(t, e.Load(ctx))
		e.SetTitle("after")
		e.Close()

		stored, _, err := store.Get(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, "after", stored.Title)
	})
}

func TestEditor_Delete(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	n, err := store.Create(ctx, core.Fields{Title: "doomed"})
	require.NoError(t, err)

	e, sched := newEditor(t, store, n.ID)
	require.NoError(t, e.Load(ctx))

	t.Run("Declined", func(t *testing.T) {
		deleted, err := e.Delete(ctx, func() bool { return false })
		require.NoError(t, err)
		assert.False(t, deleted)
		assert.Equal(t, views.StateFound, e.State())

		_, ok, err := store.Get(ctx, n.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Confirmed Cancels Pending Save", func(t *testing.T) {
		e.SetContent("last words")
		deleted, err := e.Delete(ctx, func() bool { return true })
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, views.StateGone, e.State())

		sched.Advance(time.Second)
		assert.Zero(t, store.Updates())

		_, ok, err := store.Get(ctx, n.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Not Repeatable", func(t *testing.T) {
		deleted, err := e.Delete(ctx, func() bool { return true })
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestEditor_AutosaveErrors(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	n, err := store.Create(ctx, core.Fields{})
	require.NoError(t, err)

	e, sched := newEditor(t, store, n.ID)
	require.NoError(t, e.Load(ctx))

	boom := errors.New("disk full")
	store.mu.Lock()
	store.fail = boom
	store.mu.Unlock()

	e.SetTitle("x")
	sched.Advance(time.Second)
	assert.ErrorIs(t, e.Err(), boom)
	assert.Equal(t, views.StateFound, e.State())
}

func TestEditor_TargetDeletedElsewhere(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	n, err := store.Create(ctx, core.Fields{})
	require.NoError(t, err)

	e, sched := newEditor(t, store, n.ID)
	require.NoError(t, e.Load(ctx))
	require.NoError(t, store.Delete(ctx, n.ID))

	e.SetTitle("orphan")
	sched.Advance(time.Second)
	assert.Equal(t, views.StateNotFound, e.State())

	_, ok, err := store.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.False(t, ok, "update of a missing note must not recreate it")
}

func TestEditor_Flush(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	n, err := store.Create(ctx, core.Fields{})
	require.NoError(t, err)

	e, _ := newEditor(t, store, n.ID)
	require.NoError(t, e.Load(ctx))

	assert.False(t, e.Flush())
	e.SetContent("now")
	assert.True(t, e.Flush())
	assert.Equal(t, 1, store.Updates())
}
