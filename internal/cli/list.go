package cli

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

const maxTitleWidth = 80

// entry is a todo with its 1-based position in the full collection, so
// indexes printed under a filter still work with toggle and rm.
type entry struct {
	pos int
	model.Todo
}

func printList(cmd *cobra.Command, todos []model.Todo, f model.Filter, group bool) {
	t := ui.Current()
	done, pending := model.Count(todos)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Todos"),
		ui.C(t.Success, t.SymDone), done,
		ui.C(t.Pending, t.SymPending), pending,
		ui.C(t.Accent, f.Label()), len(model.Visible(todos, f)),
	)

	lines := []string{
		header,
		ui.C(t.Muted, ui.ProgressBar(done, len(todos), 28)),
		"",
	}

	var entries []entry
	for i, td := range todos {
		if f.Match(td) {
			entries = append(entries, entry{pos: i + 1, Todo: td})
		}
	}
	switch {
	case len(todos) == 0:
		lines = append(lines, ui.C(t.Muted, "No tasks yet. Add your first one!"))
	case len(entries) == 0:
		lines = append(lines, ui.C(t.Muted, "No tasks match the current filter."))
	case group:
		lines = append(lines, groupLines(entries)...)
	default:
		lines = append(lines, flatLines(entries)...)
	}
	lines = append(lines, "", ui.C(t.Muted, "Tip: add with `tada add \"Buy milk\"`"))
	ui.Panel(cmd.OutOrStdout(), lines)
}

func flatLines(entries []entry) []string {
	t := ui.Current()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		box, color := t.BoxUnchecked, t.Muted
		title := runewidth.Truncate(e.Title, maxTitleWidth, "...")
		if e.Done {
			box, color = t.BoxChecked, t.Success
			title = ui.Strike(title)
		}
		out = append(out, fmt.Sprintf("%s %s %s", ui.Dim(fmt.Sprintf("%2d.", e.pos)), ui.C(color, box), title))
	}
	return out
}

func groupLines(entries []entry) []string {
	t := ui.Current()
	var pend, done []entry
	for _, e := range entries {
		if e.Done {
			done = append(done, e)
		} else {
			pend = append(pend, e)
		}
	}
	section := func(name string, es []entry) []string {
		lines := []string{ui.C(t.Accent, name)}
		if len(es) == 0 {
			return append(lines, ui.C(t.Muted, "(none)"))
		}
		return append(lines, flatLines(es)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}
