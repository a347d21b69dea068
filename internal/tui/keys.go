package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every binding the UI reacts to.
type KeyMap struct {
	// global
	Quit key.Binding
	Help key.Binding
	Tab  key.Binding
	New  key.Binding

	// list
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Search key.Binding
	Clear  key.Binding
	Remove key.Binding

	// editor
	Back    key.Binding
	Save    key.Binding
	Delete  key.Binding
	Preview key.Binding
	Copy    key.Binding

	// confirmation
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		New: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new note"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear search"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d", "delete", "ctrl+d"),
			key.WithHelp("d", "delete"),
		),

		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to notes"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save now"),
		),
		Delete: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "delete"),
		),
		Preview: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "preview"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy content"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "delete"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "keep"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Help,
		k.New,
		k.Open,
		k.Search,
		k.Remove,
		k.Quit,
	}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Remove},
		{k.Search, k.Clear},
		{k.New, k.Tab},
		{k.Save, k.Delete, k.Preview, k.Copy},
		{k.Help, k.Quit},
	}
}

func (k KeyMap) EditShortHelp() []key.Binding {
	return []key.Binding{
		k.Tab,
		k.Save,
		k.Preview,
		k.Delete,
		k.Back,
	}
}

func (k KeyMap) ConfirmShortHelp() []key.Binding {
	return []key.Binding{
		k.Confirm,
		k.Cancel,
	}
}

type editKeyMap struct{ KeyMap }

func (k editKeyMap) ShortHelp() []key.Binding { return k.KeyMap.EditShortHelp() }

type confirmKeyMap struct{ KeyMap }

func (k confirmKeyMap) ShortHelp() []key.Binding { return k.KeyMap.ConfirmShortHelp() }
