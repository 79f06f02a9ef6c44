package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
)

// listItem adapts model.Todo to bubbles/list.Item
type listItem struct {
	model.Todo
}

func (i listItem) Box() string {
	if i.Done {
		return boxChecked
	}
	return boxUnchecked
}

// Implement list.Item interface
func (i listItem) Title() string       { return fmt.Sprintf("%s %s", i.Box(), i.Todo.Title) }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Todo.Title }

func toListItems(todos []model.Todo) []list.Item {
	out := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		out = append(out, listItem{t})
	}
	return out
}

// itemDelegate renders one todo per line: cursor, checkbox, title.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}

	box := mutedStyle.Render(it.Box())
	text := it.Todo.Title
	if it.Done {
		box = successStyle.Render(it.Box())
		text = doneStyle.Render(text)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprint(w, prefix+box+" "+text)
}
