package tui

import (
	"context"
	"time"

	"bazaar-cli/internal/api"
	"bazaar-cli/internal/listctl"
	"bazaar-cli/internal/overlay"
	"bazaar-cli/internal/prefs"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// Layout constants. contentTop is the number of lines above the list body
// (tab bar, stat strip, search line, separator); row anchors for dropdown
// placement are derived from it.
const (
	contentTop   = 4
	footerLines  = 3
	minListWidth = 40
)

// anchorRef is a mutable anchor the registry resolves at open time. The
// model updates rect/alive right before opening; a row that vanished between
// the open request and positioning reads as dead and the open no-ops.
type anchorRef struct {
	rect  overlay.Rect
	alive bool
}

func (a *anchorRef) fn() overlay.AnchorFunc {
	return func() (overlay.Rect, bool) { return a.rect, a.alive }
}

// pageState is everything one collection tab owns: its controller (query +
// selection + single-flight), its rendered list, and its search input.
type pageState struct {
	spec pageSpec
	ctrl *listctl.Controller[rowRecord]

	lst       list.Model
	search    textinput.Model
	searching bool

	stats     map[string]int
	statusIdx int

	// dirty is set by the controller's render hook; Update syncs the list
	// items on the next pass.
	dirty bool

	// loadedOnce gates the first fetch when the tab becomes visible.
	loadedOnce bool
}

type appModel struct {
	client *api.Client
	prefs  prefs.Store

	width, height  int
	seenWindowSize bool

	tab   pageID
	pages map[pageID]*pageState

	reg        *overlay.Registry
	rowAnchor  *anchorRef
	bellAnchor *anchorRef
	// menu holds the open row menu's entries (registry owns focus index).
	menu     []menuEntry
	menuPage pageID

	// toast is shared by pointer so controller hooks (which see a copy of
	// the model) still write the live state.
	toast        *toastState
	toastHistory []toastState

	modal       modalKind
	confirm     *confirmState
	confirmReq  *listctl.BulkRequest
	confirmPage pageID
	formModal   *formModal

	favs map[string]bool

	spin       spinner.Model
	showDetail bool
}

func newAppModel(client *api.Client, pref prefs.Store) appModel {
	m := appModel{
		client:     client,
		prefs:      pref,
		tab:        pageCategories,
		pages:      map[pageID]*pageState{},
		reg:        overlay.NewRegistry(overlay.Size{W: 80, H: 24}),
		rowAnchor:  &anchorRef{},
		bellAnchor: &anchorRef{alive: true},
		toast:      &toastState{},
		favs:       map[string]bool{},
		showDetail: true,
	}
	// Terminal cells, not pixels: a 1-cell edge margin.
	m.reg.Margin = 1

	m.spin = spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(colorAccent)),
	)

	toast := m.toast
	for id, spec := range pageSpecs() {
		ps := &pageState{spec: spec}
		hooks := listctl.Hooks{
			Render: func() { ps.dirty = true },
			Toast: func(message, severity string) {
				toast.set(message, severity)
			},
			SummaryUpdated: func(stats map[string]int) { ps.stats = stats },
		}
		ps.ctrl = listctl.New[rowRecord](spec.ctl, hooks)
		ps.ctrl.Selection.OnChange = func() { ps.dirty = true }

		ps.lst = list.New([]list.Item{}, newRowDelegate(ps.ctrl.Selection, m.favs), minListWidth, 10)
		ps.lst.Title = spec.title
		ps.lst.SetShowTitle(false)
		ps.lst.SetShowHelp(false)
		ps.lst.SetShowStatusBar(false)
		ps.lst.SetShowPagination(false)
		ps.lst.SetFilteringEnabled(false)

		ps.search = textinput.New()
		ps.search.Placeholder = "Search " + string(id) + "…"
		ps.search.CharLimit = 120
		ps.search.Width = 32

		m.pages[id] = ps
		m.reg.RegisterDropdown(rowMenuID(id), m.rowAnchor.fn(), overlay.Size{W: menuWidth + 2, H: 1}, 0)
	}
	m.reg.RegisterDropdown(overlayBell, m.bellAnchor.fn(), overlay.Size{W: bellWidth + 2, H: bellHeight}, toastHistoryMax)

	// Best-effort: restore the tab that was open last time.
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if tab, ok := pref.LastTab(ctx); ok {
		if _, known := m.pages[pageID(tab)]; known {
			m.tab = pageID(tab)
		}
	}
	if ids, err := pref.Favorites(ctx); err == nil {
		for _, id := range ids {
			m.favs[id] = true
		}
	}
	for id, ps := range m.pages {
		if n, ok := pref.PageSize(ctx, string(id)); ok {
			ps.ctrl.Query.PageSize = n
		}
	}
	return m
}

func (m *appModel) page() *pageState { return m.pages[m.tab] }

// rememberToast records the current toast in the bell history.
func (m *appModel) rememberToast() {
	if m.toast.text == "" {
		return
	}
	m.toastHistory = append(m.toastHistory, toastState{text: m.toast.text, severity: m.toast.severity})
	if len(m.toastHistory) > toastHistoryMax {
		m.toastHistory = m.toastHistory[len(m.toastHistory)-toastHistoryMax:]
	}
}

func (m *appModel) resizeLists() {
	h := m.height - contentTop - footerLines
	if h < 5 {
		h = 5
	}
	w := m.width
	if m.showDetail && m.width >= 100 {
		w = m.width * 3 / 5
	}
	if w < minListWidth {
		w = minListWidth
	}
	for _, ps := range m.pages {
		ps.lst.SetSize(w, h)
	}
}

// syncList rebuilds the visible items from the controller's records, keeping
// the cursor near its previous position.
func (ps *pageState) syncList() {
	idx := ps.lst.Index()
	items := make([]list.Item, 0, len(ps.ctrl.Records()))
	for _, r := range ps.ctrl.Records() {
		items = append(items, recordItem{row: r})
	}
	ps.lst.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		ps.lst.Select(idx)
	}
	ps.dirty = false
}

// focusedRow returns the record under the cursor.
func (ps *pageState) focusedRow() (rowRecord, bool) {
	it, ok := ps.lst.SelectedItem().(recordItem)
	if !ok {
		return rowRecord{}, false
	}
	return it.row, true
}
