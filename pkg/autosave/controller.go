// Package autosave debounces edits to a note into a single deferred write.
//
// A Controller watches a composite key (note id, title, content). Each change
// of the key cancels the pending write and schedules a new one; the write
// fires only once the key has been stable for the configured delay.
package autosave

import (
	"log/slog"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// DefaultDelay is the quiet period before an edit is written.
const DefaultDelay = 400 * time.Millisecond

// Key is the composite value whose changes trigger a write.
type Key struct {
	NoteID  string
	Title   string
	Content string
}

// Sum returns a digest of the key used for change detection.
func (k Key) Sum() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(k.NoteID)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(k.Title)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(k.Content)
	return d.Sum64()
}

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler creates timers. It exists so tests can drive time by hand.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithFlushOnClose makes Close run a pending write instead of dropping it.
func WithFlushOnClose(flush bool) Option {
	return func(c *Controller) {
		c.flushOnClose = flush
	}
}

// WithLogger sets the logger for the controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller owns at most one pending write.
type Controller struct {
	mu           sync.Mutex
	delay        time.Duration
	scheduler    Scheduler
	flushOnClose bool
	logger       *slog.Logger

	baseline uint64
	primed   bool
	closed   bool

	// generation identifies the current pending write; a timer that fires
	// with a stale generation does nothing.
	generation uint64
	timer      Timer
	pending    *pendingWrite
}

type pendingWrite struct {
	key  Key
	save func(Key)
}

// New creates a Controller. A non-positive delay means DefaultDelay.
func New(delay time.Duration, opts ...Option) *Controller {
	if delay <= 0 {
		delay = DefaultDelay
	}
	c := &Controller{
		delay:     delay,
		scheduler: realScheduler{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Delay returns the debounce window.
func (c *Controller) Delay() time.Duration {
	return c.delay
}

// Reset records key as the last seen value without scheduling a write.
// Any pending write is dropped.
func (c *Controller) Reset(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked()
	c.baseline = key.Sum()
	c.primed = true
}

// Observe reports the current key. If it differs from the last observed
// key, the pending write is replaced by one that calls save(key) after the
// delay. An unchanged key leaves any pending write alone.
func (c *Controller) Observe(key Key, save func(Key)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	sum := key.Sum()
	if c.primed && sum == c.baseline {
		return
	}
	c.baseline = sum
	c.primed = true

	c.cancelLocked()
	c.generation++
	gen := c.generation
	c.pending = &pendingWrite{key: key, save: save}
	c.timer = c.scheduler.AfterFunc(c.delay, func() { c.fire(gen) })
	c.logger.Debug("autosave scheduled", "note", key.NoteID, "delay", c.delay)
}

// Pending reports whether a write is scheduled.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// Cancel drops the pending write, if any.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

// Flush runs the pending write now, if any. It returns whether a write ran.
func (c *Controller) Flush() bool {
	c.mu.Lock()
	p := c.takeLocked()
	c.mu.Unlock()

	if p == nil {
		return false
	}
	p.save(p.key)
	return true
}

// Close tears the controller down. The pending write is dropped, or run
// when the controller was built WithFlushOnClose. Later calls to Observe
// are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	var p *pendingWrite
	if c.flushOnClose {
		p = c.takeLocked()
	} else {
		c.cancelLocked()
	}
	c.mu.Unlock()

	if p != nil {
		p.save(p.key)
	}
}

func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || c.pending == nil {
		c.mu.Unlock()
		return
	}
	p := c.pending
	c.pending = nil
	c.timer = nil
	c.mu.Unlock()

	p.save(p.key)
}

// takeLocked stops the timer and hands back the pending write.
func (c *Controller) takeLocked() *pendingWrite {
	p := c.pending
	c.pending = nil
	c.cancelLocked()
	return p
}

func (c *Controller) cancelLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.pending != nil {
		c.logger.Debug("autosave cancelled", "note", c.pending.key.NoteID)
	}
	c.pending = nil
	c.generation++
}
