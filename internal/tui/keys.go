package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle    key.Binding
	Remove    key.Binding
	Add       key.Binding
	Samples   key.Binding
	MarkAll   key.Binding
	Clear     key.Binding
	Undo      key.Binding
	Filter    key.Binding
	ShowAll   key.Binding
	ShowOpen  key.Binding
	ShowDone  key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding

	// form
	Submit key.Binding
	Leave  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Remove:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
		Add:       key.NewBinding(key.WithKeys("a", "tab"), key.WithHelp("a", "add")),
		Samples:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "add samples")),
		MarkAll:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mark all")),
		Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear completed")),
		Undo:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Filter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		ShowAll:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		ShowOpen:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		ShowDone:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "done")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),

		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add task")),
		Leave:  key.NewBinding(key.WithKeys("esc", "tab"), key.WithHelp("esc", "back to list")),
	}
}

// ShortHelp and FullHelp make keyMap a help.KeyMap for the list view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Remove, k.Samples, k.MarkAll, k.Clear, k.Undo, k.Filter, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Toggle, k.Remove},
		{k.Samples, k.MarkAll, k.Clear, k.Undo},
		{k.Filter, k.ShowAll, k.ShowOpen, k.ShowDone},
		{k.Help, k.Quit},
	}
}

type formKeyMap struct{ keyMap }

func (k formKeyMap) ShortHelp() []key.Binding  { return []key.Binding{k.Submit, k.Leave} }
func (k formKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
