package views

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/autosave"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

// State is the editor's lifecycle stage.
type State int

const (
	// StateLoading: the note has not been fetched yet.
	StateLoading State = iota
	// StateFound: the note is open for editing.
	StateFound
	// StateNotFound: no note has this id.
	StateNotFound
	// StateGone: the note was deleted from this editor.
	StateGone
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateFound:
		return "found"
	case StateNotFound:
		return "not-found"
	case StateGone:
		return "gone"
	default:
		return "unknown"
	}
}

// Editor holds the editable fields of one note and writes them back
// through an autosave controller.
type Editor struct {
	mu       sync.Mutex
	store    NoteStore
	id       string
	autosave *autosave.Controller
	logger   *slog.Logger

	state    State
	note     core.Note
	title    string
	content  string
	inflight int
	lastErr  error
	closed   bool
	onSaved  func(core.Note)
}

// NewEditor creates an editor for the note with the given id. A nil
// controller gets one with the default delay. The editor owns the
// controller and closes it in Close.
func NewEditor(store NoteStore, id string, ctrl *autosave.Controller, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	if ctrl == nil {
		ctrl = autosave.New(autosave.DefaultDelay, autosave.WithLogger(logger))
	}
	return &Editor{
		store:    store,
		id:       id,
		autosave: ctrl,
		logger:   logger,
		state:    StateLoading,
	}
}

// OnSaved registers fn to run after each autosave write lands. It is
// called from the timer goroutine.
func (e *Editor) OnSaved(fn func(core.Note)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onSaved = fn
}

// Load fetches the note and moves to StateFound or StateNotFound. On a
// storage error the editor stays in StateLoading.
func (e *Editor) Load(ctx context.Context) error {
	n, ok, err := e.store.Get(ctx, e.id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !ok {
		e.state = StateNotFound
		return nil
	}
	e.state = StateFound
	e.note = n
	e.title = n.Title
	e.content = n.Content
	e.autosave.Reset(e.keyLocked())
	return nil
}

// ID returns the id of the note being edited.
func (e *Editor) ID() string {
	return e.id
}

// State returns the current lifecycle stage.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Title returns the title field.
func (e *Editor) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.title
}

// Content returns the content field.
func (e *Editor) Content() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.content
}

// Note returns the note as last read from or written to the store.
func (e *Editor) Note() core.Note {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.note
}

// LastUpdated returns the stored UpdatedAt of the note.
func (e *Editor) LastUpdated() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.note.UpdatedAt
}

// Err returns the error of the last failed autosave, if any.
func (e *Editor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Saving reports whether an edit has not been written yet.
func (e *Editor) Saving() bool {
	e.mu.Lock()
	inflight := e.inflight
	e.mu.Unlock()
	return inflight > 0 || e.autosave.Pending()
}

// StatusMessage returns the save indicator text.
func (e *Editor) StatusMessage() string {
	if e.Saving() {
		return SavingMessage
	}
	return SavedMessage
}

// SetTitle replaces the title field and schedules an autosave.
func (e *Editor) SetTitle(title string) {
	e.edit(func() { e.title = title })
}

// SetContent replaces the content field and schedules an autosave.
func (e *Editor) SetContent(content string) {
	e.edit(func() { e.content = content })
}

func (e *Editor) edit(apply func()) {
	e.mu.Lock()
	if e.state != StateFound || e.closed {
		e.mu.Unlock()
		return
	}
	apply()
	key := e.keyLocked()
	e.mu.Unlock()

	e.autosave.Observe(key, e.save)
}

// Flush writes pending edits immediately. It reports whether a write ran.
func (e *Editor) Flush() bool {
	return e.autosave.Flush()
}

// Delete removes the note once confirm approves and moves to StateGone.
// A declined confirmation leaves everything unchanged and reports false.
func (e *Editor) Delete(ctx context.Context, confirm ConfirmFunc) (bool, error) {
	if e.State() != StateFound {
		return false, nil
	}
	if confirm != nil && !confirm() {
		return false, nil
	}

	e.autosave.Cancel()
	if err := e.store.Delete(ctx, e.id); err != nil {
		return false, err
	}

	e.mu.Lock()
	e.state = StateGone
	e.mu.Unlock()
	e.logger.Debug("note deleted from editor", "id", e.id)
	return true, nil
}

// Close tears the editor down. Pending edits are dropped, or written when
// the controller flushes on close. The editor must not be used afterwards.
func (e *Editor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.autosave.Close()
}

func (e *Editor) keyLocked() autosave.Key {
	return autosave.Key{NoteID: e.id, Title: e.title, Content: e.content}
}

// save is the autosave callback; it runs on the controller's timer goroutine.
func (e *Editor) save(k autosave.Key) {
	e.mu.Lock()
	if e.state != StateFound {
		e.mu.Unlock()
		return
	}
	e.inflight++
	e.mu.Unlock()

	n, ok, err := e.store.Update(context.Background(), k.NoteID, core.Patch{Title: &k.Title, Content: &k.Content})

	e.mu.Lock()
	e.inflight--
	var onSaved func(core.Note)
	switch {
	case err != nil:
		e.lastErr = err
		e.logger.Error("autosave failed", "id", k.NoteID, "error", err)
	case !ok:
		e.logger.Warn("autosave target vanished", "id", k.NoteID)
		if e.state == StateFound {
			e.state = StateNotFound
		}
	default:
		e.lastErr = nil
		e.note = n
		onSaved = e.onSaved
	}
	e.mu.Unlock()

	if onSaved != nil {
		onSaved(n)
	}
}
