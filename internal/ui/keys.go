package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Tab1    key.Binding
	Tab2    key.Binding
	Tab3    key.Binding
	Search  key.Binding
	Refresh key.Binding
	Kill    key.Binding
	Open    key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Search, k.Refresh, k.Kill, k.Open, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Tab1, k.Tab2, k.Tab3},
		{k.Search, k.Refresh, k.Kill, k.Open},
		{k.Quit},
	}
}

var defaultKeyMap = keyMap{
	NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
	PrevTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
	Tab1:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "processes")),
	Tab2:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "tasks")),
	Tab3:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "performance")),
	Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Kill:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "end")),
	Open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "run new task")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
