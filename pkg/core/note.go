package core

import (
	"strings"
	"time"
)

// DefaultTitle is the title given to new notes and shown for untitled ones.
const DefaultTitle = "Untitled"

// Note is the central entity of the domain.
type Note struct {
	ID        string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayTitle returns the title as it should be rendered in lists and headers.
func (n Note) DisplayTitle() string {
	if strings.TrimSpace(n.Title) == "" {
		return DefaultTitle
	}
	return n.Title
}

// Fields carries the user-editable fields of a note being created.
type Fields struct {
	Title   string
	Content string
}

// Patch describes a partial update. Nil fields are left unchanged.
type Patch struct {
	Title   *string
	Content *string
}

// SetTitle returns a Patch replacing only the title.
func SetTitle(title string) Patch {
	return Patch{Title: &title}
}

// SetContent returns a Patch replacing only the content.
func SetContent(content string) Patch {
	return Patch{Content: &content}
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil
}

func (p Patch) apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
}
