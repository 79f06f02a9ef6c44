package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

const (
	emptyCollectionText = "No tasks yet. Add your first one!"
	emptyFilterText     = "No tasks match the current filter."
)

func (m Model) View() string {
	if m.showHelp {
		return panelStyle.Render(renderMarkdown(helpMarkdown, m.width-6) + "\n\n" + mutedStyle.Render("press any key to close"))
	}

	sections := []string{
		m.headerView(),
		m.formView(),
		m.toolbarView(),
		m.listView(),
		m.statusView(),
		m.helpView(),
	}
	return panelStyle.Render(strings.Join(sections, "\n"))
}

func (m Model) headerView() string {
	out := titleStyle.Render(m.opts.Title)
	if m.opts.Subtitle != "" {
		out += "\n" + subtitleStyle.Render(m.opts.Subtitle)
	}
	return out
}

func (m Model) formView() string {
	style := formStyle
	if m.focus == focusForm {
		style = focusedFormStyle
	}
	return style.Width(m.list.Width()).Render(m.input.View())
}

// toolbarView shows the live counts, progress and the filter selector.
func (m Model) toolbarView() string {
	done, pending := model.Count(m.todos)
	counts := fmt.Sprintf("%s  %s %d  %s %d  %s",
		countStyle.Render(fmt.Sprintf("%d tasks", len(m.todos))),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		mutedStyle.Render(ui.ProgressBar(done, len(m.todos), 16)),
	)

	var tabs []string
	for _, f := range model.Filters() {
		style := filterStyle
		if f == m.filter {
			style = activeFilterStyle
		}
		tabs = append(tabs, style.Render(f.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, counts, "   ", strings.Join(tabs, ""))
}

func (m Model) listView() string {
	if len(m.todos) == 0 {
		return emptyStyle.Render(emptyCollectionText)
	}
	if len(m.list.Items()) == 0 {
		return emptyStyle.Render(emptyFilterText)
	}
	return m.list.View()
}

func (m Model) statusView() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("✖ save failed: " + m.err.Error())
	case m.status != "":
		return accentStyle.Render(m.status)
	}
	return ""
}

func (m Model) helpView() string {
	if m.focus == focusForm {
		return m.help.View(formKeyMap{m.keys})
	}
	return m.help.View(m.keys)
}
