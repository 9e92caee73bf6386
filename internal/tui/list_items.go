package tui

import "strings"

// recordItem wraps one server row for the bubbles list.
type recordItem struct {
	row rowRecord
}

func (i recordItem) FilterValue() string { return i.row.title() }
func (i recordItem) Title() string       { return i.row.title() }
func (i recordItem) Description() string { return i.row.subtitle() }

func displayStatus(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	return s
}
