package fs

import (
	"sync"
	"time"

	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

// debouncer coalesces events per key: only the last event of a burst is
// delivered, once no further event for that key arrived for the window.
type debouncer struct {
	mu       sync.Mutex
	window   time.Duration
	timers   map[string]*time.Timer
	inflight sync.WaitGroup
	stopped  bool
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{
		window: window,
		timers: make(map[string]*time.Timer),
	}
}

// add schedules deliver(event), replacing any pending event for the same key.
func (d *debouncer) add(event core.Event, deliver func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if t, ok := d.timers[event.Key]; ok && t.Stop() {
		d.inflight.Done()
	}

	d.inflight.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.window, func() {
		defer d.inflight.Done()

		d.mu.Lock()
		if d.timers[event.Key] == t {
			delete(d.timers, event.Key)
		}
		stopped := d.stopped
		d.mu.Unlock()

		if !stopped {
			deliver(event)
		}
	})
	d.timers[event.Key] = t
}

// stopAndWait drops pending events and waits, up to timeout, for deliveries
// already running to return. It reports whether they all finished.
func (d *debouncer) stopAndWait(timeout time.Duration) bool {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.inflight.Done()
		}
		delete(d.timers, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
