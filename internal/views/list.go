package views

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

// List is the sidebar: every note, newest first, narrowed by a search query.
// It only reflects the store as of the last Refresh.
type List struct {
	mu     sync.Mutex
	store  NoteStore
	logger *slog.Logger
	notes  []core.Note
	query  string
	loaded bool
}

// NewList creates a list view. Call Refresh to populate it.
func NewList(store NoteStore, logger *slog.Logger) *List {
	if logger == nil {
		logger = slog.Default()
	}
	return &List{store: store, logger: logger}
}

// Refresh re-reads the collection. Call it when the list is shown or regains focus.
func (l *List) Refresh(ctx context.Context) error {
	notes, err := l.store.List(ctx)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.notes = notes
	l.loaded = true
	return nil
}

// SetQuery replaces the search query.
func (l *List) SetQuery(q string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query = q
}

// Query returns the current search query.
func (l *List) Query() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}

// All returns the unfiltered notes from the last refresh.
func (l *List) All() []core.Note {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Note(nil), l.notes...)
}

// Visible returns the notes matching the query, in list order.
func (l *List) Visible() []core.Note {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Note(nil), core.Filter(l.notes, l.query)...)
}

// Loaded reports whether Refresh has succeeded at least once.
func (l *List) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Create adds an "Untitled" note and refreshes the list. The caller is
// expected to open the returned note in an editor.
func (l *List) Create(ctx context.Context) (core.Note, error) {
	n, err := l.store.Create(ctx, core.Fields{Title: core.DefaultTitle})
	if err != nil {
		return core.Note{}, err
	}
	l.logger.Debug("note added from list", "id", n.ID)
	return n, l.Refresh(ctx)
}

// Delete removes a note after confirm approves, then refreshes. It reports
// whether the note was deleted; a declined confirmation changes nothing.
func (l *List) Delete(ctx context.Context, id string, confirm ConfirmFunc) (bool, error) {
	if confirm != nil && !confirm() {
		return false, nil
	}
	if err := l.store.Delete(ctx, id); err != nil {
		return false, err
	}
	return true, l.Refresh(ctx)
}
