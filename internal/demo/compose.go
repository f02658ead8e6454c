package demo

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// place composites fg over bg with fg's top-left cell at row, col. Lines of
// fg that fall outside bg are dropped.
func place(bg, fg string, row, col int) string {
	if fg == "" {
		return bg
	}
	bgLines := strings.Split(bg, "\n")
	for i, line := range strings.Split(fg, "\n") {
		r := row + i
		if r < 0 || r >= len(bgLines) {
			continue
		}
		bgLines[r] = splice(bgLines[r], line, max(0, col))
	}
	return strings.Join(bgLines, "\n")
}

func splice(bg, fg string, col int) string {
	if w := ansi.StringWidth(bg); w < col {
		bg += strings.Repeat(" ", col-w)
	}
	left := ansi.Truncate(bg, col, "")
	right := ansi.TruncateLeft(bg, col+ansi.StringWidth(fg), "")
	return left + fg + right
}

// dim repaints every line of s in style, dropping the original colors, and
// pads lines to width so the scrim covers the whole screen.
func dim(s string, width int, style lipgloss.Style) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		plain := ansi.Strip(line)
		if pad := width - ansi.StringWidth(plain); pad > 0 {
			plain += strings.Repeat(" ", pad)
		}
		lines[i] = style.Render(plain)
	}
	return strings.Join(lines, "\n")
}

// padLines pads s with empty lines to exactly height lines.
func padLines(lines []string, height int) []string {
	for len(lines) < height {
		lines = append(lines, "")
	}
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	return lines
}
