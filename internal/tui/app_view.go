package tui

import (
	"fmt"
	"strings"

	"bazaar-cli/internal/listctl"
	"bazaar-cli/internal/query"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	if !m.seenWindowSize {
		return "Loading…"
	}

	ps := m.page()

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(m.viewStats(ps))
	b.WriteString("\n")
	b.WriteString(m.viewSearchLine(ps))
	b.WriteString("\n")
	b.WriteString(styleMuted().Render(strings.Repeat("─", max(1, m.width))))
	b.WriteString("\n")

	body := ps.lst.View()
	if m.showDetail && m.width >= 100 {
		detailW := m.width - lipgloss.Width(body) - 1
		if row, ok := ps.focusedRow(); ok && detailW > 20 {
			detail := renderDetail(m.tab, row, m.favs[row.ID], detailW, m.height-contentTop-footerLines)
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", detail)
		}
	}
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.viewFooter(ps))

	base := b.String()

	// Dropdown-class overlays composite onto the base at their registry
	// placement; modal-class overlays replace the center of the screen.
	if id := m.reg.ActiveDropdown(); id != "" {
		if pl, ok := m.reg.DropdownPlacement(id); ok {
			var over string
			if id == overlayBell {
				over = renderBell(m.toastHistory)
			} else {
				over = renderMenu(m.menu, m.reg.FocusIndex())
			}
			base = overlayAt(base, pl.X, pl.Y, over)
		}
	}

	switch m.modal {
	case modalConfirm:
		if m.confirm != nil {
			return placeCentered(m.width, m.height, renderConfirmModal(m.width, *m.confirm))
		}
	case modalForm:
		if m.formModal != nil {
			return placeCentered(m.width, m.height, m.formModal.view(m.width))
		}
	}
	return base
}

func (m appModel) viewHeader() string {
	active := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorAccentFg).
		Background(colorAccent).
		Padding(0, 1)
	inactive := styleMuted().Padding(0, 1)

	parts := make([]string, 0, len(pageOrder)+1)
	for i, id := range pageOrder {
		label := fmt.Sprintf("%d %s", i+1, m.pages[id].spec.title)
		if id == m.tab {
			parts = append(parts, active.Render(label))
		} else {
			parts = append(parts, inactive.Render(label))
		}
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)

	bell := "(b)"
	if len(m.toastHistory) > 0 {
		bell = fmt.Sprintf("(b %d)", len(m.toastHistory))
	}
	gap := m.width - lipgloss.Width(tabs) - lipgloss.Width(bell) - 1
	if gap < 1 {
		gap = 1
	}
	return tabs + strings.Repeat(" ", gap) + styleMuted().Render(bell)
}

func (m appModel) viewStats(ps *pageState) string {
	if len(ps.stats) == 0 {
		return styleMuted().Render(fmt.Sprintf("%d total", ps.ctrl.Query.Total))
	}
	parts := make([]string, 0, len(ps.stats))
	for _, status := range ps.spec.statusChoices {
		if status == "" {
			continue
		}
		if n, ok := ps.stats[status]; ok {
			parts = append(parts, fmt.Sprintf("%s %d", displayStatus(status), n))
		}
	}
	if total, ok := ps.stats["total"]; ok {
		parts = append([]string{fmt.Sprintf("Total %d", total)}, parts...)
	}
	return styleMuted().Render(strings.Join(parts, "   "))
}

func (m appModel) viewSearchLine(ps *pageState) string {
	if ps.searching {
		return ps.search.View()
	}
	var parts []string
	if v := ps.ctrl.Query.Filter("search"); v != "" {
		parts = append(parts, "search: "+v)
	}
	if v := ps.ctrl.Query.Filter("status"); v != "" {
		parts = append(parts, "status: "+v)
	}
	if len(parts) == 0 {
		return styleMuted().Render("/ to search")
	}
	return styleMuted().Render(strings.Join(parts, "   "))
}

func (m appModel) viewFooter(ps *pageState) string {
	q := ps.ctrl.Query

	dir := "↑"
	if q.Sort.Direction == query.Desc {
		dir = "↓"
	}
	left := fmt.Sprintf("page %d/%d   %d rows   sort %s %s",
		q.Page, max(1, q.TotalPages), q.Total, q.Sort.Field, dir)
	if n := ps.ctrl.Selection.Count(); n > 0 {
		left += fmt.Sprintf("   %d selected", n)
	}
	if ps.ctrl.ShowLoadingPlaceholder() {
		left += "   " + m.spin.View() + " loading"
	}
	if ps.ctrl.Phase() == listctl.PhaseErrored {
		left += "   " + lipgloss.NewStyle().Foreground(colorToastError).Render(ps.ctrl.LastError())
	}

	help := styleMuted().Render(
		"space select   a all   enter actions   e edit   n new   / search   s status   o sort   q quit")

	toast := m.toast.view(m.width)
	if toast == "" {
		toast = " "
	}
	return left + "\n" + toast + "\n" + help
}
