package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/kavia-common/simple-notes-app-45797-45806/internal/views"
)

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sidebarW := max(28, min(44, m.width/3))
	contentH := max(10, m.height-5)
	rightW := max(20, m.width-sidebarW-6)

	sidebar := m.renderSidebar(sidebarW, contentH)
	main := m.renderMain(rightW, contentH)

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	parts := []string{
		headerStyle.Render(AppName),
		taglineStyle.Render(Tagline),
	}
	if m.cfg.AppURL != "" {
		parts = append(parts, linkStyle.Render("Open App: "+m.cfg.AppURL))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderSidebar(width, height int) string {
	style := paneStyle
	if m.focus == focusList || m.focus == focusSearch {
		style = activePaneStyle
	}

	var b strings.Builder
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	visible := m.list.Visible()
	inner := width - 4

	switch {
	case len(m.list.All()) == 0:
		b.WriteString(emptyStyle.Render(views.EmptyListMessage))
	case len(visible) == 0:
		b.WriteString(emptyStyle.Render("No matches."))
	default:
		// keep the cursor on screen
		rows := max(1, (height-4)/2)
		start := 0
		if m.cursor >= rows {
			start = m.cursor - rows + 1
		}
		end := min(len(visible), start+rows)

		for i := start; i < end; i++ {
			n := visible[i]
			title := runewidth.Truncate(n.DisplayTitle(), inner-2, "…")
			line := runewidth.FillRight(title, inner-2)
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString(itemStyle.Render("  " + line))
			}
			b.WriteString("\n")
			b.WriteString(dateStyle.Render("  " + formatTime(n.UpdatedAt)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.confirming && m.confirmID != "" {
		b.WriteString(confirmStyle.Render(views.DeletePrompt + " (y/n)"))
		b.WriteString("\n")
	}
	b.WriteString(dateStyle.Render(plural(len(visible), "note")))

	return style.Width(width).Height(height).Render(b.String())
}

func (m Model) renderMain(width, height int) string {
	style := paneStyle
	if m.focus == focusTitle || m.focus == focusContent {
		style = activePaneStyle
	}

	var body string
	switch {
	case m.editor == nil:
		body = m.renderWelcome()
	case m.editor.State() == views.StateLoading:
		body = emptyStyle.Render("Loading...")
	case m.editor.State() == views.StateNotFound, m.editor.State() == views.StateGone:
		body = errorStyle.Render(views.NotFoundMessage) + "\n\n" +
			dateStyle.Render("esc: back to notes")
	default:
		body = m.renderEditor(width - 4)
	}

	return style.Width(width).Height(height).Render(body)
}

func (m Model) renderWelcome() string {
	lines := []string{
		headerStyle.Render("Welcome to " + AppName),
		"",
		"Select a note on the left or create a new one.",
		"",
		ctaStyle.Render("+ Create your first note") + dateStyle.Render("  (ctrl+n)"),
	}
	if len(m.list.All()) > 0 {
		lines[4] = ctaStyle.Render("+ New note") + dateStyle.Render("  (ctrl+n)")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderEditor(width int) string {
	var b strings.Builder

	b.WriteString(dateStyle.Render("Title"))
	b.WriteString("\n")
	b.WriteString(m.title.View())
	b.WriteString("\n\n")

	if m.preview {
		b.WriteString(dateStyle.Render("Preview"))
		b.WriteString("\n")
		b.WriteString(m.renderer.Render(m.editor.Content()))
	} else {
		b.WriteString(dateStyle.Render("Content"))
		b.WriteString("\n")
		b.WriteString(m.content.View())
	}
	b.WriteString("\n\n")

	if m.confirming && m.confirmID == "" {
		b.WriteString(confirmStyle.Render(views.DeletePrompt + " (y/n)"))
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatus(width))
	return b.String()
}

func (m Model) renderStatus(width int) string {
	var status string
	if m.editor.Saving() {
		status = savingStyle.Render(views.SavingMessage)
	} else {
		status = savedStyle.Render(views.SavedMessage)
	}
	if err := m.editor.Err(); err != nil {
		status += "  " + errorStyle.Render("save failed: "+firstLine(err.Error()))
	}

	updated := dateStyle.Render("Last updated: " + formatTime(m.editor.LastUpdated()))
	gap := width - lipgloss.Width(status) - lipgloss.Width(updated)
	if gap < 1 {
		return status + "\n" + updated
	}
	return status + strings.Repeat(" ", gap) + updated
}

func (m Model) renderFooter() string {
	var helpView string
	switch {
	case m.confirming:
		helpView = m.help.View(confirmKeyMap{m.keys})
	case m.focus == focusTitle || m.focus == focusContent:
		helpView = m.help.View(editKeyMap{m.keys})
	default:
		helpView = m.help.View(m.keys)
	}
	if m.status == "" {
		return helpView
	}
	return helpView + "  " + taglineStyle.Render(m.status)
}
