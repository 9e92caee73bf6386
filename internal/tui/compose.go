package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// overlayAt splices over on top of base at cell position (x, y), preserving
// ANSI styling on the untouched parts of each base line. Used to float
// dropdown menus at the placement the registry computed; modals go through
// placeCentered instead.
func overlayAt(base string, x, y int, over string) string {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	baseLines := strings.Split(base, "\n")
	overLines := strings.Split(over, "\n")
	overW := lipgloss.Width(over)

	for i, ol := range overLines {
		row := y + i
		for row >= len(baseLines) {
			baseLines = append(baseLines, "")
		}
		line := baseLines[row]
		lineW := xansi.StringWidth(line)
		if lineW < x {
			line += strings.Repeat(" ", x-lineW)
			lineW = x
		}
		left := xansi.Cut(line, 0, x)
		right := ""
		if lineW > x+overW {
			right = xansi.Cut(line, x+overW, lineW)
		}
		// Pad the overlay line itself so the splice point is stable.
		olW := xansi.StringWidth(ol)
		if olW < overW {
			ol += strings.Repeat(" ", overW-olW)
		}
		baseLines[row] = left + ol + right
	}
	return strings.Join(baseLines, "\n")
}

// placeCentered centers content in the full window (modal placement).
func placeCentered(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
