package tui

import (
	"context"
	"time"

	"bazaar-cli/internal/form"
	"bazaar-cli/internal/listctl"
	"bazaar-cli/internal/overlay"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

var pageSizeSteps = []int{10, 25, 50, 100}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadPage(m.tab, false), m.spin.Tick}
	for id, ps := range m.pages {
		if c := autoRefreshCmd(id, ps.ctrl.AutoRefreshEvery()); c != nil {
			cmds = append(cmds, c)
		}
	}
	return tea.Batch(cmds...)
}

// loadPage issues a fetch plus a summary refresh for one tab.
func (m appModel) loadPage(p pageID, silent bool) tea.Cmd {
	ps := m.pages[p]
	req, ok := ps.ctrl.Load(silent)
	if !ok {
		return nil
	}
	ps.loadedOnce = true
	return tea.Batch(m.fetchCmd(p, req), m.summaryCmd(p))
}

// collectToast drains the toast set by controller hooks during this Update
// pass into an expiry command, recording it in the bell history.
func (m *appModel) collectToast(cmds []tea.Cmd) []tea.Cmd {
	if c := m.toast.takeTick(); c != nil {
		m.rememberToast()
		cmds = append(cmds, c)
	}
	return cmds
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.seenWindowSize = true
		m.reg.SetViewport(overlay.Size{W: msg.Width, H: msg.Height})
		m.resizeLists()
		return m, nil

	case tea.FocusMsg:
		for _, ps := range m.pages {
			ps.ctrl.ResumeAutoRefresh()
		}
		return m, nil

	case tea.BlurMsg:
		for _, ps := range m.pages {
			ps.ctrl.SuspendAutoRefresh()
		}
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			m.reg.HandleOutsideClick(msg.X, msg.Y)
		}
		return m, nil

	case listResultMsg:
		ps := m.pages[msg.page]
		if msg.err != nil {
			debugLogf("list %s seq=%d err=%v", msg.page, msg.seq, msg.err)
		}
		ps.ctrl.HandleResult(msg.seq, msg.res, msg.err)
		if ps.dirty {
			ps.syncList()
		}
		return m, tea.Batch(m.collectToast(cmds)...)

	case summaryMsg:
		m.pages[msg.page].ctrl.HandleSummary(msg.stats, msg.err)
		return m, nil

	case bulkDoneMsg:
		ps := m.pages[msg.page]
		if msg.err != nil {
			debugLogf("bulk %s action=%s n=%d err=%v", msg.page, msg.req.Action, len(msg.req.IDs), msg.err)
		}
		out := ps.ctrl.HandleBulkResult(msg.req, msg.message, msg.err)
		if out.Reload != nil {
			cmds = append(cmds, m.fetchCmd(msg.page, *out.Reload))
		}
		if out.RefreshSummary {
			cmds = append(cmds, m.summaryCmd(msg.page))
		}
		if ps.dirty {
			ps.syncList()
		}
		return m, tea.Batch(m.collectToast(cmds)...)

	case searchDebounceMsg:
		ps := m.pages[msg.page]
		if req, ok := ps.ctrl.DebounceExpired(msg.token); ok {
			cmds = append(cmds, m.fetchCmd(msg.page, req))
		}
		return m, tea.Batch(cmds...)

	case autoRefreshMsg:
		ps := m.pages[msg.page]
		if c := autoRefreshCmd(msg.page, ps.ctrl.AutoRefreshEvery()); c != nil {
			cmds = append(cmds, c)
		}
		if req, ok := ps.ctrl.AutoRefreshTick(); ok {
			cmds = append(cmds, m.fetchCmd(msg.page, req), m.summaryCmd(msg.page))
		}
		return m, tea.Batch(cmds...)

	case toastDoneMsg:
		m.toast.expire(msg.seq)
		return m, nil

	case submitDoneMsg:
		return m.handleSubmitDone(msg)

	case favToggledMsg:
		if msg.err == nil {
			if msg.on {
				m.favs[msg.productID] = true
			} else {
				delete(m.favs, msg.productID)
			}
		}
		return m, nil

	case spinner.TickMsg:
		var c tea.Cmd
		m.spin, c = m.spin.Update(msg)
		return m, c

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m appModel) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	fm := m.formModal
	if fm == nil || fm.page != msg.page {
		return m, nil
	}
	out := fm.ctl.HandleResult(msg.err)
	if !out.CloseModal {
		return m, nil
	}
	m.reg.Close("form")
	m.modal = modalNone
	m.formModal = nil
	var cmds []tea.Cmd
	cmds = append(cmds, m.toast.show("Saved.", listctl.SeverityInfo))
	m.rememberToast()
	cmds = append(cmds, m.loadPage(msg.page, true))
	return m, tea.Batch(cmds...)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Modal-class overlays swallow all keys while open.
	switch m.modal {
	case modalConfirm:
		return m.handleConfirmKey(msg)
	case modalForm:
		return m.handleFormKey(msg)
	}

	// An open dropdown owns navigation keys next.
	if m.reg.ActiveDropdown() != "" {
		return m.handleDropdownKey(msg)
	}

	ps := m.page()
	if ps.searching {
		return m.handleSearchKey(msg)
	}

	var cmds []tea.Cmd
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "tab":
		return m.switchTab(1)
	case "shift+tab":
		return m.switchTab(-1)
	case "1", "2", "3":
		idx := int(msg.Runes[0] - '1')
		if idx >= 0 && idx < len(pageOrder) {
			return m.switchTo(pageOrder[idx])
		}
		return m, nil

	case "/":
		ps.searching = true
		ps.search.Focus()
		return m, nil

	case "r":
		return m, m.loadPage(m.tab, false)

	case " ":
		if row, ok := ps.focusedRow(); ok {
			ps.ctrl.Selection.Toggle(row.ID, !ps.ctrl.Selection.Selected(row.ID))
		}
		return m, nil
	case "a":
		ps.ctrl.Selection.SelectAllVisible(ps.ctrl.VisibleIDs())
		return m, nil
	case "u":
		ps.ctrl.Selection.Clear()
		return m, nil

	case "s":
		ps.statusIdx = (ps.statusIdx + 1) % len(ps.spec.statusChoices)
		if req, ok := ps.ctrl.SetFilter("status", ps.spec.statusChoices[ps.statusIdx]); ok {
			cmds = append(cmds, m.fetchCmd(m.tab, req))
		}
		return m, tea.Batch(m.collectToast(cmds)...)

	case "o":
		cur := ps.ctrl.Query.Sort
		if req, ok := ps.ctrl.SetSort(cur.Field, cur.Direction); ok {
			cmds = append(cmds, m.fetchCmd(m.tab, req))
		}
		return m, tea.Batch(cmds...)
	case "O":
		field := nextSortField(ps.spec.sortFields, ps.ctrl.Query.Sort.Field)
		if req, ok := ps.ctrl.SetSort(field, defaultDirFor(field)); ok {
			cmds = append(cmds, m.fetchCmd(m.tab, req))
		}
		return m, tea.Batch(cmds...)

	case "left", "[":
		if req, ok := ps.ctrl.SetPage(ps.ctrl.Query.Page - 1); ok {
			cmds = append(cmds, m.fetchCmd(m.tab, req))
		}
		return m, tea.Batch(cmds...)
	case "right", "]":
		if req, ok := ps.ctrl.SetPage(ps.ctrl.Query.Page + 1); ok {
			cmds = append(cmds, m.fetchCmd(m.tab, req))
		}
		return m, tea.Batch(cmds...)

	case "+", "-":
		return m.stepPageSize(msg.String() == "+")

	case "enter":
		return m.openRowMenu()
	case "b":
		return m.openBell()

	case "e":
		if row, ok := ps.focusedRow(); ok {
			return m.openForm(form.Update, row)
		}
		return m, nil
	case "n":
		return m.openForm(form.Create, rowRecord{})

	case "f":
		if m.tab == pageProducts {
			if row, ok := ps.focusedRow(); ok {
				return m, favCmd(m.prefs, row.ID)
			}
		}
		return m, nil

	case "t":
		m.showDetail = !m.showDetail
		m.resizeLists()
		return m, nil

	case "esc":
		m.reg.HandleEscape()
		return m, nil
	}

	// Bulk-action hotkeys from the page's action menu.
	for _, a := range ps.spec.actions {
		if msg.String() == a.Hotkey {
			return m.beginBulk(a.Key)
		}
	}

	// Everything else is list navigation.
	var c tea.Cmd
	ps.lst, c = ps.lst.Update(msg)
	return m, c
}

func nextSortField(fields []string, cur string) string {
	if len(fields) == 0 {
		return cur
	}
	for i, f := range fields {
		if f == cur {
			return fields[(i+1)%len(fields)]
		}
	}
	return fields[0]
}

func (m appModel) switchTab(delta int) (tea.Model, tea.Cmd) {
	cur := 0
	for i, id := range pageOrder {
		if id == m.tab {
			cur = i
		}
	}
	next := (cur + delta + len(pageOrder)) % len(pageOrder)
	return m.switchTo(pageOrder[next])
}

func (m appModel) switchTo(p pageID) (tea.Model, tea.Cmd) {
	if p == m.tab {
		return m, nil
	}
	m.reg.CloseAll()
	m.modal = modalNone
	m.confirm, m.confirmReq, m.formModal = nil, nil, nil
	m.tab = p
	cmds := []tea.Cmd{saveLastTabCmd(m.prefs, p)}
	if !m.pages[p].loadedOnce {
		cmds = append(cmds, m.loadPage(p, false))
	}
	return m, tea.Batch(cmds...)
}

func (m appModel) stepPageSize(up bool) (tea.Model, tea.Cmd) {
	ps := m.page()
	cur := ps.ctrl.Query.PageSize
	idx := 0
	for i, n := range pageSizeSteps {
		if n == cur {
			idx = i
		}
	}
	if up && idx < len(pageSizeSteps)-1 {
		idx++
	} else if !up && idx > 0 {
		idx--
	}
	n := pageSizeSteps[idx]
	if n == cur {
		return m, nil
	}
	ps.ctrl.Query.PageSize = n
	ps.ctrl.Query.Page = 1
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = m.prefs.SetPageSize(ctx, string(m.tab), n)
	return m, m.loadPage(m.tab, false)
}

func (m appModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ps := m.page()
	var cmds []tea.Cmd
	switch msg.String() {
	case "esc":
		ps.searching = false
		ps.search.Blur()
		ps.search.SetValue(ps.ctrl.CancelSearch())
		return m, nil
	case "enter":
		ps.searching = false
		ps.search.Blur()
		if req, ok := ps.ctrl.CommitSearch(); ok {
			cmds = append(cmds, m.fetchCmd(m.tab, req))
		}
		return m, tea.Batch(cmds...)
	}
	var c tea.Cmd
	ps.search, c = ps.search.Update(msg)
	cmds = append(cmds, c)
	if token, schedule := ps.ctrl.SetSearchInput(ps.search.Value()); schedule {
		cmds = append(cmds, debounceCmd(m.tab, token, ps.ctrl.SearchDebounce()))
	}
	return m, tea.Batch(cmds...)
}

func (m appModel) openRowMenu() (tea.Model, tea.Cmd) {
	ps := m.page()
	row, ok := ps.focusedRow()
	if !ok {
		return m, nil
	}
	m.menu = rowMenuEntries(ps.spec, row)
	m.menuPage = m.tab

	w, h := menuSize(len(m.menu))
	id := rowMenuID(m.tab)
	m.reg.ResizeDropdown(id, overlay.Size{W: w, H: h}, len(m.menu))

	visIdx := ps.lst.Index() - ps.lst.Paginator.Page*ps.lst.Paginator.PerPage
	m.rowAnchor.rect = overlay.Rect{X: 2, Y: contentTop + visIdx, W: 24, H: 1}
	m.rowAnchor.alive = true
	m.reg.OpenDropdown(id)
	return m, nil
}

func (m appModel) openBell() (tea.Model, tea.Cmd) {
	m.bellAnchor.rect = overlay.Rect{X: m.width - 6, Y: 0, W: 5, H: 1}
	m.bellAnchor.alive = true
	m.reg.ResizeDropdown(overlayBell, overlay.Size{W: bellWidth + 2, H: len(m.toastHistory) + 1}, len(m.toastHistory))
	m.reg.OpenDropdown(overlayBell)
	return m, nil
}

func (m appModel) handleDropdownKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.reg.HandleEscape()
		return m, nil
	case "tab":
		m.reg.CloseAll()
		return m.switchTab(1)
	case "shift+tab":
		m.reg.CloseAll()
		return m.switchTab(-1)
	case "up", "k":
		m.reg.MoveFocus(-1)
		return m, nil
	case "down", "j":
		m.reg.MoveFocus(1)
		return m, nil
	case "enter":
		if m.reg.ActiveDropdown() != rowMenuID(m.menuPage) {
			m.reg.CloseAll()
			return m, nil
		}
		idx := m.reg.FocusIndex()
		if idx < 0 || idx >= len(m.menu) {
			return m, nil
		}
		entry := m.menu[idx]
		m.reg.CloseAll()
		return m.activateMenuEntry(entry)
	}
	return m, nil
}

func (m appModel) activateMenuEntry(entry menuEntry) (tea.Model, tea.Cmd) {
	ps := m.page()
	row, ok := ps.focusedRow()
	if !ok {
		return m, nil
	}
	switch entry.key {
	case "edit":
		return m.openForm(form.Update, row)
	case "favorite":
		return m, favCmd(m.prefs, row.ID)
	}
	// Single-row variant of a bulk action: same confirmation gate, the row
	// under the cursor instead of the selection.
	req := listctl.BulkRequest{
		Collection: ps.spec.ctl.Collection,
		Action:     entry.key,
		IDs:        []string{row.ID},
	}
	if ps.ctrl.IsDestructive(entry.key) {
		return m.openConfirm(req), nil
	}
	return m, m.bulkCmd(m.tab, req)
}

func (m appModel) beginBulk(action string) (tea.Model, tea.Cmd) {
	ps := m.page()
	req, status := ps.ctrl.BeginBulk(action)
	var cmds []tea.Cmd
	switch status {
	case listctl.BulkBlocked:
		// Warning toast already queued by the controller.
	case listctl.BulkNeedsConfirm:
		return m.openConfirm(req), tea.Batch(m.collectToast(cmds)...)
	case listctl.BulkReady:
		cmds = append(cmds, m.bulkCmd(m.tab, req))
	}
	return m, tea.Batch(m.collectToast(cmds)...)
}

func (m appModel) openConfirm(req listctl.BulkRequest) appModel {
	ps := m.page()
	m.confirm = &confirmState{
		title: "Confirm " + req.Action,
		body:  ps.ctrl.ConfirmPrompt(req),
		focus: confirmFocusCancel,
	}
	r := req
	m.confirmReq = &r
	m.confirmPage = m.tab
	m.modal = modalConfirm
	m.reg.OpenModal("confirm")
	return m
}

func (m appModel) closeModal() appModel {
	if m.reg.ActiveModal() != "" {
		m.reg.Close(m.reg.ActiveModal())
	}
	m.modal = modalNone
	m.confirm, m.confirmReq, m.formModal = nil, nil, nil
	return m
}

func (m appModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.confirm
	switch msg.String() {
	case "esc":
		return m.closeModal(), nil
	case "tab", "left", "right":
		if c.focus == confirmFocusConfirm {
			c.focus = confirmFocusCancel
		} else {
			c.focus = confirmFocusConfirm
		}
		return m, nil
	case "enter":
		if c.focus == confirmFocusCancel {
			return m.closeModal(), nil
		}
		req, page := *m.confirmReq, m.confirmPage
		return m.closeModal(), m.bulkCmd(page, req)
	}
	return m, nil
}

func (m appModel) openForm(mode form.Mode, row rowRecord) (tea.Model, tea.Cmd) {
	recordID := ""
	if mode == form.Update {
		recordID = row.ID
	}
	ctl := form.New(string(m.tab), mode, recordID, formFieldsFor(m.tab, row))
	m.formModal = newFormModal(m.tab, ctl)
	m.modal = modalForm
	m.reg.OpenModal("form")
	return m, nil
}

func (m appModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fm := m.formModal
	if msg.String() == "esc" {
		if fm.ctl.InFlight() {
			return m, nil
		}
		return m.closeModal(), nil
	}
	submit, cmd := fm.handleKey(msg)
	if submit && fm.ctl.BeginSubmit() {
		return m, tea.Batch(cmd, m.submitCmd(fm.page, fm))
	}
	return m, cmd
}
