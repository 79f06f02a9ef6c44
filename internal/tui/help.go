package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# Keys

| key | action |
|-----|--------|
| a, tab | focus the form |
| enter | add the typed task (blank input is ignored) |
| esc | leave the form |
| space, x | toggle the selected task |
| d, delete | remove the selected task |
| s | add sample tasks |
| m | mark all: everything done, or nothing done if all already are |
| c | clear completed tasks |
| u | undo the last change |
| f | cycle the filter: all, active, done |
| 1 2 3 | show all, active or done tasks |
| ↑ ↓ | move the cursor |
| q | quit |

Every change is saved immediately.
`

func renderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(width))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
