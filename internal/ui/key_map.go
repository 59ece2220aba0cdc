package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	menu    key.Binding
	create  key.Binding
	addAll  key.Binding
	nextTab key.Binding
	prevTab key.Binding
	yes     key.Binding
	no      key.Binding
	suspend key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		menu:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "actions")),
		create:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new playlist")),
		addAll:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add all to playlist")),
		nextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		prevTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		yes:     key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "yes")),
		no:      key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		suspend: key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "suspend")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.menu, k.create, k.nextTab, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.menu, k.create, k.addAll},
		{k.nextTab, k.prevTab, k.suspend, k.quit},
	}
}
