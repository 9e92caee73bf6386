package tui

import (
	"bazaar-cli/internal/api"
	"bazaar-cli/internal/listctl"
)

// Messages delivered back into Update by commands. Results that race a newer
// request carry the seq/token they were issued under; the controllers drop
// the stale ones.

type listResultMsg struct {
	page pageID
	seq  int
	res  *api.ListResult
	err  error
}

type summaryMsg struct {
	page  pageID
	stats map[string]int
	err   error
}

type bulkDoneMsg struct {
	page    pageID
	req     listctl.BulkRequest
	message string
	err     error
}

type searchDebounceMsg struct {
	page  pageID
	token int
}

type autoRefreshMsg struct {
	page pageID
}

type toastDoneMsg struct {
	seq int
}

type submitDoneMsg struct {
	page pageID
	err  error
}

type favToggledMsg struct {
	productID string
	on        bool
	err       error
}

// modalKind identifies the modal-class overlay currently open, if any.
// Modal state is ephemeral: created on open, dropped on close.
type modalKind string

const (
	modalNone    modalKind = ""
	modalConfirm modalKind = "confirm"
	modalForm    modalKind = "form"
)

// Overlay ids in the dropdown exclusion domain.
const overlayBell = "bell"

func rowMenuID(p pageID) string { return "rowmenu:" + string(p) }
