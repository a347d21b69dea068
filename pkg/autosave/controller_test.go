package autosave_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/autosave"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/autosave/autosavetest"
)

type recorder struct {
	mu    sync.Mutex
	saves []autosave.Key
}

func (r *recorder) save(k autosave.Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, k)
}

func (r *recorder) all() []autosave.Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]autosave.Key(nil), r.saves...)
}

func newController(opts ...autosave.Option) (*autosave.Controller, *autosavetest.Scheduler, *recorder) {
	sched := autosavetest.NewScheduler()
	c := autosave.New(autosave.DefaultDelay, append([]autosave.Option{autosave.WithScheduler(sched)}, opts...)...)
	return c, sched, &recorder{}
}

func TestController_CollapsesBursts(t *testing.T) {
	c, sched, rec := newController()

	for i, title := range []string{"H", "He", "Hel", "Hell", "Hello"} {
		c.Observe(autosave.Key{NoteID: "n1", Title: title}, rec.save)
		if i < 4 {
			sched.Advance(100 * time.Millisecond)
		}
	}
	assert.Empty(t, rec.all(), "nothing written while typing")
	assert.True(t, c.Pending())

	sched.Advance(399 * time.Millisecond)
	assert.Empty(t, rec.all())

	sched.Advance(time.Millisecond)
	require.Len(t, rec.all(), 1)
	assert.Equal(t, autosave.Key{NoteID: "n1", Title: "Hello"}, rec.all()[0])
	assert.False(t, c.Pending())
}

func TestController_UnchangedKeyDoesNotReschedule(t *testing.T) {
	c, sched, rec := newController()
	key := autosave.Key{NoteID: "n1", Content: "body"}

	c.Observe(key, rec.save)
	sched.Advance(300 * time.Millisecond)
	c.Observe(key, rec.save)
	sched.Advance(100 * time.Millisecond)

	assert.Len(t, rec.all(), 1, "repeat observation must not push the deadline")

	c.Observe(key, rec.save)
	sched.Advance(time.Second)
	assert.Len(t, rec.all(), 1, "stable key writes once")
}

func TestController_ResetSetsBaseline(t *testing.T) {
	c, sched, rec := newController()
	loaded := autosave.Key{NoteID: "n1", Title: "T", Content: "C"}

	c.Reset(loaded)
	c.Observe(loaded, rec.save)
	sched.Advance(time.Second)
	assert.Empty(t, rec.all(), "loading a note is not an edit")

	c.Observe(autosave.Key{NoteID: "n1", Title: "T2", Content: "C"}, rec.save)
	sched.Advance(time.Second)
	assert.Len(t, rec.all(), 1)
}

func TestController_Close(t *testing.T) {
	t.Run("Drops Pending By Default", func(t *testing.T) {
		c, sched, rec := newController()
		c.Observe(autosave.Key{NoteID: "n1", Title: "draft"}, rec.save)
		c.Close()
		sched.Advance(time.Second)

		assert.Empty(t, rec.all())
		assert.False(t, c.Pending())
		assert.Zero(t, sched.Pending())
	})

	t.Run("Flushes When Configured", func(t *testing.T) {
		c, sched, rec := newController(autosave.WithFlushOnClose(true))
		c.Observe(autosave.Key{NoteID: "n1", Title: "draft"}, rec.save)
		c.Close()
		require.Len(t, rec.all(), 1)

		sched.Advance(time.Second)
		assert.Len(t, rec.all(), 1, "flushed write must not fire again")
	})

	t.Run("Ignores Observe After Close", func(t *testing.T) {
		c, sched, rec := newController()
		c.Close()
		c.Observe(autosave.Key{NoteID: "n1"}, rec.save)
		sched.Advance(time.Second)
		assert.Empty(t, rec.all())
	})

	t.Run("Idempotent", func(t *testing.T) {
		c, _, _ := newController()
		c.Close()
		c.Close()
	})
}

func TestController_FlushAndCancel(t *testing.T) {
	c, sched, rec := newController()

	assert.False(t, c.Flush(), "nothing to flush")

	c.Observe(autosave.Key{NoteID: "n1", Content: "a"}, rec.save)
	assert.True(t, c.Flush())
	assert.Len(t, rec.all(), 1)
	sched.Advance(time.Second)
	assert.Len(t, rec.all(), 1)

	c.Observe(autosave.Key{NoteID: "n1", Content: "ab"}, rec.save)
	c.Cancel()
	sched.Advance(time.Second)
	assert.Len(t, rec.all(), 1)
}

func TestController_SwitchingNotes(t *testing.T) {
	c, sched, rec := newController()

	c.Observe(autosave.Key{NoteID: "a", Title: "x"}, rec.save)
	sched.Advance(200 * time.Millisecond)
	c.Observe(autosave.Key{NoteID: "b", Title: "x"}, rec.save)
	sched.Advance(time.Second)

	require.Len(t, rec.all(), 1)
	assert.Equal(t, "b", rec.all()[0].NoteID)
}

func TestController_DefaultDelay(t *testing.T) {
	assert.Equal(t, 400*time.Millisecond, autosave.New(0).Delay())
	assert.Equal(t, time.Second, autosave.New(time.Second).Delay())
}

func TestController_RealTimer(t *testing.T) {
	c := autosave.New(20 * time.Millisecond)
	done := make(chan autosave.Key, 1)

	c.Observe(autosave.Key{NoteID: "n1", Title: "real"}, func(k autosave.Key) { done <- k })

	select {
	case k := <-done:
		assert.Equal(t, "real", k.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("autosave did not fire")
	}
}

func TestKey_Sum(t *testing.T) {
	a := autosave.Key{NoteID: "n", Title: "ab", Content: "c"}
	b := autosave.Key{NoteID: "n", Title: "a", Content: "bc"}
	assert.NotEqual(t, a.Sum(), b.Sum(), "field boundaries are part of the digest")
	assert.Equal(t, a.Sum(), autosave.Key{NoteID: "n", Title: "ab", Content: "c"}.Sum())
}
