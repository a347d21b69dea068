// Package tui is the terminal front end: a sidebar of notes with search,
// and an editor pane that autosaves while you type.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kavia-common/simple-notes-app-45797-45806/internal/views"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/autosave"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

// AppName is shown in the header.
const AppName = "Ocean Notes"

// Tagline is shown under the app name.
const Tagline = "Capture ideas, fast."

type focusArea int

const (
	focusList focusArea = iota
	focusSearch
	focusTitle
	focusContent
)

// Config wires the model to its collaborators.
type Config struct {
	Store  views.NoteStore
	Logger *slog.Logger
	// Changes, when set, reports external modifications of the collection.
	Changes <-chan core.Event
	// AutosaveDelay defaults to autosave.DefaultDelay.
	AutosaveDelay time.Duration
	FlushOnClose  bool
	// Scheduler overrides the autosave timer source (tests).
	Scheduler autosave.Scheduler
	// AppURL is an optional external link shown in the header.
	AppURL string
	// Clipboard overrides the system clipboard (tests).
	Clipboard func(string) error
}

type savedMsg struct{ note core.Note }

type changedMsg struct{ event core.Event }

// Model is the bubbletea model of the whole screen.
type Model struct {
	cfg    Config
	ctx    context.Context
	logger *slog.Logger

	list   *views.List
	editor *views.Editor
	saved  chan core.Note

	width  int
	height int
	focus  focusArea
	cursor int

	search  textinput.Model
	title   textinput.Model
	content textarea.Model

	confirming bool
	// confirmID is the list entry awaiting delete confirmation; empty
	// when the open editor asked.
	confirmID string
	preview   bool
	renderer   *markdownRenderer

	help     help.Model
	keys     KeyMap
	showHelp bool

	status string
}

// New builds the model and loads the list.
func New(ctx context.Context, cfg Config) Model {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.AutosaveDelay <= 0 {
		cfg.AutosaveDelay = autosave.DefaultDelay
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = clipboard.WriteAll
	}

	search := textinput.New()
	search.Placeholder = "Search notes..."
	search.Prompt = "/ "

	title := textinput.New()
	title.Placeholder = core.DefaultTitle
	title.Prompt = ""
	title.CharLimit = 0

	content := textarea.New()
	content.Placeholder = "Start typing..."
	content.ShowLineNumbers = false
	content.Prompt = ""
	content.CharLimit = 0

	h := help.New()
	h.ShowAll = false

	m := Model{
		cfg:      cfg,
		ctx:      ctx,
		logger:   cfg.Logger,
		list:     views.NewList(cfg.Store, cfg.Logger),
		saved:    make(chan core.Note, 1),
		focus:    focusList,
		search:   search,
		title:    title,
		content:  content,
		renderer: newMarkdownRenderer(),
		help:     h,
		keys:     DefaultKeyMap(),
	}

	if err := m.list.Refresh(ctx); err != nil {
		m.status = "load error: " + err.Error()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForSaved(), m.waitForChange())
}

func (m Model) waitForSaved() tea.Cmd {
	ch := m.saved
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return savedMsg{note: n}
	}
}

func (m Model) waitForChange() tea.Cmd {
	ch := m.cfg.Changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return changedMsg{event: e}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case savedMsg:
		m.refresh()
		return m, m.waitForSaved()

	case changedMsg:
		m.logger.Debug("collection changed on disk", "event", msg.event.String())
		m.refresh()
		return m, m.waitForChange()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.closeEditor()
			return m, tea.Quit
		}

		// ---------- CONFIRM DELETE ----------
		if m.confirming {
			return m.updateConfirm(msg)
		}

		switch m.focus {
		case focusSearch:
			return m.updateSearch(msg)
		case focusTitle, focusContent:
			return m.updateEditor(msg)
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.list.Visible()

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Clear):
		m.clearSearch()
		return m, nil

	case key.Matches(msg, m.keys.New):
		return m.createNote()

	case key.Matches(msg, m.keys.Remove):
		if len(visible) == 0 {
			return m, nil
		}
		m.confirming = true
		m.confirmID = visible[m.cursor].ID
		return m, nil

	case key.Matches(msg, m.keys.Open), key.Matches(msg, m.keys.Tab):
		if m.editor != nil && key.Matches(msg, m.keys.Tab) {
			return m.focusEditor(focusTitle)
		}
		if len(visible) == 0 {
			return m, nil
		}
		return m.openNote(visible[m.cursor].ID)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Clear):
		m.clearSearch()
		m.search.Blur()
		m.focus = focusList
		return m, nil

	case key.Matches(msg, m.keys.Open), key.Matches(msg, m.keys.Tab), msg.Type == tea.KeyDown:
		m.search.Blur()
		m.focus = focusList
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.search.Blur()
		return m.createNote()
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.list.SetQuery(m.search.Value())
	m.clampCursor()
	return m, cmd
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editor == nil {
		m.focus = focusList
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.blurEditor()
		m.focus = focusList
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.New):
		return m.createNote()
	}

	if m.editor.State() != views.StateFound {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Tab):
		if m.focus == focusTitle {
			return m.focusEditor(focusContent)
		}
		return m.focusEditor(focusTitle)

	case key.Matches(msg, m.keys.Save):
		if m.editor.Flush() {
			m.status = "Saved"
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		m.confirming = true
		return m, nil

	case key.Matches(msg, m.keys.Preview):
		m.preview = !m.preview
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if err := m.cfg.Clipboard(m.editor.Content()); err != nil {
			m.status = "Copy failed: " + err.Error()
		} else {
			m.status = "Copied note content"
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusTitle {
		before := m.title.Value()
		m.title, cmd = m.title.Update(msg)
		if v := m.title.Value(); v != before {
			m.editor.SetTitle(v)
		}
		return m, cmd
	}

	if m.preview {
		return m, nil
	}
	before := m.content.Value()
	m.content, cmd = m.content.Update(msg)
	if v := m.content.Value(); v != before {
		m.editor.SetContent(v)
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.confirming = false
		if id := m.confirmID; id != "" {
			m.confirmID = ""
			return m.deleteFromList(id)
		}
		if m.editor == nil {
			return m, nil
		}
		deleted, err := m.editor.Delete(m.ctx, func() bool { return true })
		if err != nil {
			m.status = "delete error: " + err.Error()
			return m, nil
		}
		if deleted {
			m.closeEditor()
			m.focus = focusList
			m.status = "Note deleted"
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.confirming = false
		m.confirmID = ""
		return m, nil
	}
	return m, nil
}

// deleteFromList removes a sidebar entry. The editor is left when it shows
// the deleted note.
func (m Model) deleteFromList(id string) (tea.Model, tea.Cmd) {
	if m.editor != nil && m.editor.ID() == id {
		m.closeEditor()
		m.focus = focusList
	}
	deleted, err := m.list.Delete(m.ctx, id, nil)
	if err != nil {
		m.status = "delete error: " + err.Error()
		return m, nil
	}
	if deleted {
		m.status = "Note deleted"
	}
	m.clampCursor()
	return m, nil
}

// ---------- actions ----------

func (m Model) createNote() (tea.Model, tea.Cmd) {
	n, err := m.list.Create(m.ctx)
	if err != nil {
		m.status = "create error: " + err.Error()
		return m, nil
	}
	m.clearSearch()
	return m.openNote(n.ID)
}

func (m Model) openNote(id string) (tea.Model, tea.Cmd) {
	m.closeEditor()

	ctrl := autosave.New(m.cfg.AutosaveDelay,
		autosave.WithScheduler(m.cfg.Scheduler),
		autosave.WithFlushOnClose(m.cfg.FlushOnClose),
		autosave.WithLogger(m.logger),
	)
	e := views.NewEditor(m.cfg.Store, id, ctrl, m.logger)
	saved := m.saved
	e.OnSaved(func(n core.Note) {
		select {
		case saved <- n:
		default:
		}
	})
	m.editor = e
	m.preview = false
	m.status = ""

	if err := e.Load(m.ctx); err != nil {
		m.status = "load error: " + err.Error()
		return m, nil
	}
	if e.State() != views.StateFound {
		m.focus = focusList
		return m, nil
	}

	m.title.SetValue(e.Title())
	m.title.CursorEnd()
	m.content.SetValue(e.Content())
	m.selectID(id)
	return m.focusEditor(focusTitle)
}

func (m Model) focusEditor(area focusArea) (tea.Model, tea.Cmd) {
	m.blurEditor()
	m.focus = area
	var cmd tea.Cmd
	if area == focusTitle {
		cmd = m.title.Focus()
	} else {
		cmd = m.content.Focus()
	}
	return m, cmd
}

func (m *Model) blurEditor() {
	m.title.Blur()
	m.content.Blur()
}

func (m *Model) closeEditor() {
	if m.editor == nil {
		return
	}
	m.editor.Close()
	m.editor = nil
	m.confirming = false
	m.blurEditor()
	m.title.SetValue("")
	m.content.SetValue("")
}

func (m *Model) clearSearch() {
	m.search.SetValue("")
	m.list.SetQuery("")
	m.clampCursor()
}

func (m *Model) refresh() {
	var selected string
	if visible := m.list.Visible(); m.cursor < len(visible) {
		selected = visible[m.cursor].ID
	}
	if err := m.list.Refresh(m.ctx); err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	if selected != "" {
		m.selectID(selected)
	}
	m.clampCursor()
}

func (m *Model) selectID(id string) {
	for i, n := range m.list.Visible() {
		if n.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m *Model) clampCursor() {
	n := len(m.list.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) layout() {
	sidebarW := max(28, min(44, m.width/3))
	contentH := max(10, m.height-5)

	rightW := max(20, m.width-sidebarW-6)
	bodyH := max(3, contentH-8)

	m.search.Width = sidebarW - 6
	m.title.Width = rightW - 2
	m.content.SetWidth(rightW - 2)
	m.content.SetHeight(bodyH)
	m.help.Width = m.width
	m.renderer.SetWidth(rightW - 2)
}

// Editor exposes the open editor, or nil.
func (m Model) Editor() *views.Editor {
	return m.editor
}

// Close releases the open editor. Call it after the program exits.
func (m Model) Close() {
	m.closeEditor()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
