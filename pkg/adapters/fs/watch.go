package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

// Watch emits an event whenever the file holding key is changed by someone
// other than this Storage. The channel is closed once ctx is done.
func (s *Storage) Watch(ctx context.Context, key string) (<-chan core.Event, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory rather than the file: atomic writes replace the
	// inode, which would silently end a watch on the file itself.
	if err := watcher.Add(s.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.Path, err)
	}

	events := make(chan core.Event)
	w := &watchLoop{
		storage:   s,
		key:       key,
		target:    path,
		watcher:   watcher,
		events:    events,
		debouncer: newDebouncer(s.config.WatchDebounce),
		drain:     5 * time.Second,
		done:      make(chan struct{}),
	}

	s.setWatcherActive(true)
	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		if s.config.ErrorHandler != nil {
			s.config.ErrorHandler(fmt.Errorf("watcher failed: %w", err))
		} else {
			s.config.Logger.Error("watcher failed", "error", err)
		}
	}))

	return events, nil
}

type watchLoop struct {
	storage   *Storage
	key       string
	target    string
	watcher   *fsnotify.Watcher
	events    chan core.Event
	debouncer *debouncer
	// drain bounds the wait for running deliveries at shutdown.
	drain time.Duration
	// done is closed when the loop ends; pending deliveries give up on it.
	done chan struct{}
}

// run is the main event loop. It owns the events channel and closes it on exit.
// done closes before events does, whether the loop ended on ctx or on fsnotify.
func (w *watchLoop) run(ctx context.Context) (err error) {
	logger := w.storage.config.Logger
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer close(w.events)
	defer w.storage.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.loop(ctx)
	close(w.done)

	// Nothing may send on events once it is closed.
	if !w.debouncer.stopAndWait(w.drain) {
		logger.Warn("watcher shutdown timed out waiting for deliveries")
	}
	return err
}

func (w *watchLoop) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.handle(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.storage.config.Logger.Error("fsnotify error", "error", wErr)
			if w.storage.config.ErrorHandler != nil {
				w.storage.config.ErrorHandler(wErr)
			}
		}
	}
}

func (w *watchLoop) handle(ctx context.Context, event fsnotify.Event) {
	w.storage.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	if w.storage.shouldIgnore(event.Name) {
		return
	}
	if filepath.Clean(event.Name) != filepath.Clean(w.target) {
		return
	}

	eType := w.mapEventType(event)
	if eType == "" {
		return
	}

	w.debouncer.add(core.Event{
		Type:      eType,
		Key:       w.key,
		Timestamp: time.Now().Unix(),
	}, func(e core.Event) {
		// Our own writes are already known to this process.
		if e.Type != core.EventDelete && w.isOwnWrite() {
			return
		}
		w.storage.recordEvent()
		select {
		case w.events <- e:
		case <-w.done:
		case <-ctx.Done():
		}
	})
}

func (w *watchLoop) mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// A rename away from the target means the key is gone, unless a
		// rename onto it follows; the debouncer keeps only the last event.
		if _, err := os.Stat(w.target); err == nil {
			return core.EventModify
		}
		return core.EventDelete
	default:
		return ""
	}
}

func (w *watchLoop) isOwnWrite() bool {
	info, err := os.Stat(w.target)
	if err != nil {
		return false
	}
	return w.storage.cache.IsOwn(w.key, info.ModTime(), info.Size())
}

// shouldIgnore reports whether a path matches the temp-file prefix or one
// of the configured ignore globs.
func (s *Storage) shouldIgnore(name string) bool {
	rel, err := filepath.Rel(s.Path, name)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)

	patterns := append([]string{"**/" + TempFilePrefix + "*"}, s.config.IgnorePatterns...)
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			s.config.Logger.Debug("invalid ignore pattern", "pattern", pattern, "error", err)
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
