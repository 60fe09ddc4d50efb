package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	toggle  key.Binding
	filter  key.Binding
	search  key.Binding
	fuzzy   key.Binding
	reverse key.Binding
	sort    key.Binding
	theme   key.Binding
	open    key.Binding
	back    key.Binding
	help    key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "listened")),
		filter:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "filter")),
		search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		fuzzy:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fuzzy")),
		reverse: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reverse")),
		sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort by length")),
		theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.filter, k.search, k.reverse, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.open},
		{k.toggle, k.filter, k.search, k.fuzzy},
		{k.reverse, k.sort, k.theme},
		{k.back, k.help, k.quit},
	}
}
