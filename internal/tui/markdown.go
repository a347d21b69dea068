package tui

import (
	"github.com/charmbracelet/glamour"
)

// markdownRenderer renders note content for the preview pane. The glamour
// renderer is rebuilt only when the wrap width changes.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

func newMarkdownRenderer() *markdownRenderer {
	return &markdownRenderer{width: 80}
}

func (r *markdownRenderer) SetWidth(width int) {
	if width <= 0 || width == r.width {
		return
	}
	r.width = width
	r.renderer = nil
}

// Render returns the styled markdown, or the raw text when rendering fails.
func (r *markdownRenderer) Render(md string) string {
	if r.renderer == nil {
		tr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(r.width),
		)
		if err != nil {
			return md
		}
		r.renderer = tr
	}
	out, err := r.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
