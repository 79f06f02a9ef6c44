package ui

import (
	"fmt"
	"strings"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending string
	BoxUnchecked, BoxChecked                      string
	CornerTL, CornerTR, CornerBL, CornerBR        string
	H, V                                          string
	SymDone, SymPending                           string
	NoColor                                       bool
}

var themes = map[string]Theme{
	"classic": {
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Pending: fgYellow,
		BoxUnchecked: "☐", BoxChecked: "☑",
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
		SymDone: "✔", SymPending: "•",
	},
	"neon": {
		Title: "\033[95m", // bright magenta
		Muted: fgGray, Accent: "\033[96m",
		Success: fgGreen, Error: fgRed, Pending: "\033[93m",
		BoxUnchecked: "◻", BoxChecked: "◼",
		CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
		H: "─", V: "│",
		SymDone: "✔", SymPending: "•",
	},
	"mono": {
		BoxUnchecked: "[ ]", BoxChecked: "[x]",
		CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
		H: "-", V: "|",
		SymDone: "x", SymPending: "-",
		NoColor: true,
	},
}

var current = themes["classic"]

// SetTheme switches the theme used by every helper. mono also turns colour off.
func SetTheme(name string) error {
	t, ok := themes[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown theme %q", name)
	}
	current = t
	if t.NoColor {
		disableColor = true
	}
	return nil
}

func Current() Theme { return current }
