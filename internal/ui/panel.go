package ui

import (
	"fmt"
	"io"
	"strings"
)

// Printer writes status lines and panels with a theme.
type Printer struct {
	Out, Err io.Writer
	Theme    Theme
}

func (p Printer) OK(msg string) {
	fmt.Fprintln(p.Out, p.Theme.Success.Render(p.Theme.SymOK+" "+msg))
}

func (p Printer) Fail(msg string) {
	fmt.Fprintln(p.Err, p.Theme.Error.Render(p.Theme.SymFail+" "+msg))
}

// Hint prints a muted follow-up line to Err.
func (p Printer) Hint(msg string) {
	fmt.Fprintln(p.Err, p.Theme.Muted.Render(msg))
}

// Panel draws lines inside the theme frame.
func (p Printer) Panel(lines []string) {
	fmt.Fprintln(p.Out, p.Theme.Frame().Render(strings.Join(lines, "\n")))
}

// ProgressBar renders a bar with a percentage, e.g. "█████░░░░░  50%".
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}
