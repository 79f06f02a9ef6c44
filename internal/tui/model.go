// Package tui is the interactive Bubble Tea front-end over a todo.Store.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/todo"
)

type Options struct {
	Title    string
	Subtitle string
}

type focus int

const (
	focusList focus = iota
	focusForm
)

// Model implements tea.Model. All mutations go through the store; the
// model only keeps the latest snapshot and view state.
type Model struct {
	store *todo.Store
	opts  Options

	todos  []model.Todo
	filter model.Filter

	list  list.Model
	input textinput.Model
	focus focus
	keys  keyMap
	help  help.Model

	status   string
	err      error
	showHelp bool

	width, height int
}

func New(s *todo.Store, opts Options) Model {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Add a new task..."
	ti.CharLimit = 200

	m := Model{
		store:  s,
		opts:   opts,
		filter: model.FilterAll,
		list:   l,
		input:  ti,
		keys:   defaultKeyMap(),
		help:   help.New(),
		width:  80,
		height: 24,
	}
	m.sync(s.Snapshot())
	m.resize()
	return m
}

// Run starts the program and blocks until the user quits.
func Run(s *todo.Store, opts Options, progOpts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(New(s, opts), progOpts...).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

// Todos is the latest snapshot the model rendered.
func (m Model) Todos() []model.Todo { return m.todos }

// Visible is the filtered subset currently listed.
func (m Model) Visible() []model.Todo { return model.Visible(m.todos, m.filter) }

func (m Model) Filter() model.Filter { return m.filter }

func (m Model) Err() error { return m.err }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.focus == focusForm {
			return m.updateForm(msg)
		}
		if next, cmd, handled := m.updateListKeys(msg); handled {
			return next, cmd
		}
	}

	if m.focus == focusForm {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		title := m.input.Value()
		m.input.SetValue("")
		snap, err := m.store.Add(title)
		m.apply(snap, err, "")
		m.list.Select(0)
		return m, nil
	case key.Matches(msg, m.keys.Leave):
		m.focus = focusList
		m.input.Blur()
		m.resize()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateListKeys(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil, true
	case key.Matches(msg, m.keys.Add):
		m.focus = focusForm
		m.resize()
		cmd := m.input.Focus()
		return m, cmd, true
	case key.Matches(msg, m.keys.Toggle):
		if it, ok := m.selected(); ok {
			snap, err := m.store.Toggle(it.ID)
			m.apply(snap, err, "")
		}
		return m, nil, true
	case key.Matches(msg, m.keys.Remove):
		if it, ok := m.selected(); ok {
			snap, err := m.store.Remove(it.ID)
			m.apply(snap, err, "removed")
		}
		return m, nil, true
	case key.Matches(msg, m.keys.Samples):
		snap, err := m.store.SeedSamples()
		m.apply(snap, err, "added sample tasks")
		return m, nil, true
	case key.Matches(msg, m.keys.MarkAll):
		snap, err := m.store.ToggleAll()
		m.apply(snap, err, "")
		return m, nil, true
	case key.Matches(msg, m.keys.Clear):
		snap, err := m.store.ClearCompleted()
		m.apply(snap, err, "cleared completed")
		return m, nil, true
	case key.Matches(msg, m.keys.Undo):
		snap, ok, err := m.store.Undo()
		status := "undone"
		if !ok {
			status = "nothing to undo"
		}
		m.apply(snap, err, status)
		return m, nil, true
	case key.Matches(msg, m.keys.Filter):
		m.setFilter(m.filter.Next())
		return m, nil, true
	case key.Matches(msg, m.keys.ShowAll):
		m.setFilter(model.FilterAll)
		return m, nil, true
	case key.Matches(msg, m.keys.ShowOpen):
		m.setFilter(model.FilterActive)
		return m, nil, true
	case key.Matches(msg, m.keys.ShowDone):
		m.setFilter(model.FilterDone)
		return m, nil, true
	}
	return m, nil, false
}

func (m Model) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it, ok
}

// apply records the outcome of a store mutation.
func (m *Model) apply(snap todo.Snapshot, err error, status string) {
	m.sync(snap)
	m.err = err
	m.status = status
}

func (m *Model) setFilter(f model.Filter) {
	m.filter = f
	m.sync(todo.Snapshot{Todos: m.todos})
}

func (m *Model) sync(snap todo.Snapshot) {
	m.todos = snap.Todos
	visible := model.Visible(m.todos, m.filter)
	m.list.SetItems(toListItems(visible))
	if n := len(visible); m.list.Index() >= n && n > 0 {
		m.list.Select(n - 1)
	}
}

// chromeHeight is the number of lines the header, form, toolbar and footer take.
const chromeHeight = 12

func (m *Model) resize() {
	h := m.height - chromeHeight
	if h < 3 {
		h = 3
	}
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	m.list.SetSize(w, h)
	m.input.Width = w - 4
	m.help.Width = w
}
