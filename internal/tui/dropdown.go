package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// menuEntry is one row of a dropdown menu.
type menuEntry struct {
	key   string
	label string
}

const (
	menuWidth  = 24
	bellWidth  = 44
	bellHeight = toastHistoryMax + 2
)

// rowMenuEntries builds the action menu for the focused record: the page's
// bulk actions applied to this one row, plus edit and (products) favorite.
func rowMenuEntries(spec pageSpec, row rowRecord) []menuEntry {
	entries := []menuEntry{{key: "edit", label: "Edit"}}
	if spec.id == pageProducts {
		entries = append(entries, menuEntry{key: "favorite", label: "Toggle favorite"})
	}
	for _, a := range spec.actions {
		entries = append(entries, menuEntry{key: a.Key, label: a.Label})
	}
	return entries
}

func renderMenu(entries []menuEntry, focus int) string {
	item := lipgloss.NewStyle().
		Width(menuWidth).
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg)
	active := item.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		st := item
		if i == focus {
			st = active
		}
		lines = append(lines, st.Render(e.label))
	}
	return strings.Join(lines, "\n")
}

// menuSize reports the rendered extent of a row menu with n entries, for
// registry placement.
func menuSize(n int) (w, h int) {
	return menuWidth + 2, n
}

// renderBell renders the notification history dropdown under the header
// bell: the most recent toasts, newest first.
func renderBell(history []toastState) string {
	box := lipgloss.NewStyle().
		Width(bellWidth).
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg)
	if len(history) == 0 {
		return box.Render("No recent notifications.")
	}
	var b strings.Builder
	for i := len(history) - 1; i >= 0; i-- {
		t := history[i]
		line := lipgloss.NewStyle().Foreground(severityColor(t.severity)).Render(t.text)
		b.WriteString(line)
		if i > 0 {
			b.WriteString("\n")
		}
	}
	return box.Render(b.String())
}
