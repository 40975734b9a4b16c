package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap satisfies help.KeyMap so the status bar can render its hints.
var _ help.KeyMap = KeyMap{}

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	Up              key.Binding
	Down            key.Binding
	Expand          key.Binding
	Collapse        key.Binding
	Top             key.Binding
	Bottom          key.Binding
	ToggleHidden    key.Binding
	PreviewUp       key.Binding
	PreviewDown     key.Binding
	PreviewHalfUp   key.Binding
	PreviewHalfDown key.Binding
	Yank            key.Binding
	Quit            key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Expand: key.NewBinding(
			key.WithKeys("right", "l", "enter"),
			key.WithHelp("→/l", "expand"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		ToggleHidden: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "hidden"),
		),
		PreviewUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "preview up"),
		),
		PreviewDown: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "preview down"),
		),
		PreviewHalfUp: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "half page up"),
		),
		PreviewHalfDown: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "half page down"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yank path"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns a brief help string
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Expand, k.Collapse, k.ToggleHidden, k.Yank, k.Quit}
}

// FullHelp returns all help bindings
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Expand, k.Collapse},
		{k.Top, k.Bottom, k.ToggleHidden},
		{k.PreviewUp, k.PreviewDown, k.PreviewHalfUp, k.PreviewHalfDown},
		{k.Yank, k.Quit},
	}
}
