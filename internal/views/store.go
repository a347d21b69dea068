// Package views holds the presentation state of the notes screens: the
// filterable sidebar list and the single-note editor. It is independent of
// any renderer; the terminal UI and tests drive it directly.
package views

import (
	"context"

	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

// NoteStore is the subset of core.Service the views need.
type NoteStore interface {
	List(ctx context.Context) ([]core.Note, error)
	Get(ctx context.Context, id string) (core.Note, bool, error)
	Create(ctx context.Context, fields core.Fields) (core.Note, error)
	Update(ctx context.Context, id string, patch core.Patch) (core.Note, bool, error)
	Delete(ctx context.Context, id string) error
}

// ConfirmFunc asks the user to confirm a destructive action.
type ConfirmFunc func() bool

// Messages shown by the views.
const (
	EmptyListMessage = "No notes yet."
	NotFoundMessage  = "Note not found. It may have been deleted."
	DeletePrompt     = "Delete this note?"
	SavingMessage    = "Saving..."
	SavedMessage     = "All changes saved"
)

var _ NoteStore = (*core.Service)(nil)
