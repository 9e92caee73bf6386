package tui

import (
	"fmt"
	"io"
	"strings"

	"bazaar-cli/internal/selection"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// rowDelegate renders one record row: selection checkbox, title, status
// badge, subtitle, optional favorite star. It reads selection and favorites
// through pointers so rendering always reflects the current state without
// rebuilding the delegate.
type rowDelegate struct {
	sel  *selection.Set
	favs map[string]bool

	normal   lipgloss.Style
	cursor   lipgloss.Style
	subtitle lipgloss.Style
}

func newRowDelegate(sel *selection.Set, favs map[string]bool) rowDelegate {
	return rowDelegate{
		sel:    sel,
		favs:   favs,
		normal: lipgloss.NewStyle(),
		cursor: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		subtitle: styleMuted(),
	}
}

func (d rowDelegate) Height() int  { return 1 }
func (d rowDelegate) Spacing() int { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 8 {
		fmt.Fprint(w, "")
		return
	}

	it, ok := item.(recordItem)
	if !ok {
		fmt.Fprint(w, "")
		return
	}

	check := "[ ]"
	if d.sel != nil && d.sel.Selected(it.row.ID) {
		check = "[x]"
	}
	star := " "
	if d.favs[it.row.ID] {
		star = "*"
	}
	badge := styleStatusBadge(it.row.Status).Render(displayStatus(it.row.Status))

	line := fmt.Sprintf("%s %s %s", check, star, it.row.title())
	if sub := it.row.subtitle(); sub != "" {
		line += "  " + d.subtitle.Render(sub)
	}
	line += "  " + badge

	style := d.normal
	if index == m.Index() {
		style = d.cursor
	}

	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}
	fmt.Fprint(w, style.Render(line))
}
