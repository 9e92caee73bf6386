// Package listctl implements the list-management controller shared by every
// admin collection page: one filterable, paginated, multi-selectable remote
// collection kept in sync with the server.
//
// The controller is a synchronous state machine. It never performs I/O
// itself: Load and friends return request descriptors, and the event loop
// (TUI or CLI) executes them and feeds completions back through
// HandleResult. That keeps the single-flight and ordering rules testable
// without a network, and keeps all state mutation on one goroutine.
package listctl

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"bazaar-cli/internal/api"
	"bazaar-cli/internal/model"
	"bazaar-cli/internal/query"
	"bazaar-cli/internal/selection"
)

// Phase is the controller's load state. The machine loops
// Idle → Loading → {Idle | Errored} → Loading → …; a fetch issued while
// Loading supersedes the in-flight one (last request wins).
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseErrored
)

// SearchMode selects how the search box commits: after a debounce window, or
// only on an explicit Enter/search action. A page uses one or the other,
// never both.
type SearchMode int

const (
	SearchDebounced SearchMode = iota
	SearchExplicit
)

// Severity levels for the toast hook.
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

const defaultSearchDebounce = 400 * time.Millisecond

// Config parameterizes one controller per collection page.
type Config struct {
	Collection  string
	FilterKeys  []string
	PageSize    int
	DefaultSort query.Sort

	SearchMode     SearchMode
	SearchDebounce time.Duration

	// AutoRefreshEvery enables silent background refresh when > 0.
	AutoRefreshEvery time.Duration

	// DestructiveActions lists bulk actions that need user confirmation
	// before dispatch (delete, archive, deactivate, …).
	DestructiveActions []string
}

// Hooks are the render/notification collaborators. Both are invoked
// synchronously in the same callback turn as the state mutation so dependent
// UI never observes a torn state.
type Hooks struct {
	// Render is called after every successful load and after selection-visible
	// changes caused by the controller.
	Render func()
	// Toast surfaces user-facing messages; fire-and-forget.
	Toast func(message, severity string)
	// SummaryUpdated receives refreshed stat-strip counts.
	SummaryUpdated func(stats map[string]int)
}

// Request describes one list fetch for the event loop to execute. Seq is the
// single-flight token: a completion whose seq is no longer the latest issued
// is discarded.
type Request struct {
	Seq        int
	Collection string
	Params     url.Values
	Silent     bool
}

// BulkRequest describes one bulk mutation.
type BulkRequest struct {
	Collection string
	Action     string
	IDs        []string
	Reason     string
}

// BulkStatus is the gate decision for a requested bulk action.
type BulkStatus int

const (
	// BulkBlocked: nothing selected; a local warning was surfaced, nothing
	// goes to the server.
	BulkBlocked BulkStatus = iota
	// BulkNeedsConfirm: destructive action; dispatch only after the user
	// confirms.
	BulkNeedsConfirm
	// BulkReady: dispatch immediately.
	BulkReady
)

// BulkOutcome is what should happen after a bulk completion.
type BulkOutcome struct {
	// Reload is the follow-up fetch after a successful bulk action.
	Reload *Request
	// RefreshSummary asks the event loop to refetch stat-strip counts.
	RefreshSummary bool
}

// Controller orchestrates QueryState + SelectionSet for one collection of R.
type Controller[R model.Record] struct {
	cfg   Config
	hooks Hooks

	Query     *query.State
	Selection *selection.Set

	phase   Phase
	silent  bool
	lastErr string

	records []R
	visible []string

	// seq is the latest issued fetch token.
	seq      int
	tornDown bool

	// Debounced search: keystrokes only update pendingSearch; the commit
	// happens when the matching debounce tick arrives (or on an explicit
	// search action).
	pendingSearch string
	searchSeq     int
	searchDirty   bool

	refreshSuspended bool

	destructive map[string]bool
}

// New builds a controller. Hooks may have nil members.
func New[R model.Record](cfg Config, hooks Hooks) *Controller[R] {
	if cfg.SearchDebounce <= 0 {
		cfg.SearchDebounce = defaultSearchDebounce
	}
	destructive := make(map[string]bool, len(cfg.DestructiveActions))
	for _, a := range cfg.DestructiveActions {
		destructive[a] = true
	}
	c := &Controller[R]{
		cfg:         cfg,
		hooks:       hooks,
		Query:       query.New(cfg.PageSize, cfg.FilterKeys, cfg.DefaultSort),
		Selection:   selection.New(),
		destructive: destructive,
	}
	return c
}

func (c *Controller[R]) Config() Config       { return c.cfg }
func (c *Controller[R]) Phase() Phase         { return c.phase }
func (c *Controller[R]) LastError() string    { return c.lastErr }
func (c *Controller[R]) Records() []R         { return c.records }
func (c *Controller[R]) VisibleIDs() []string { return c.visible }

// ShowLoadingPlaceholder reports whether the UI should render the loading
// state: silent refreshes keep the current rows on screen.
func (c *Controller[R]) ShowLoadingPlaceholder() bool {
	return c.phase == PhaseLoading && !c.silent
}

// Load issues a fetch for the current query state. ok=false after Teardown.
//
// Loads are always permitted: issuing while a fetch is in flight simply
// supersedes it (the stale completion is dropped by the seq gate), which is
// the coalescing rule: the trailing request wins.
func (c *Controller[R]) Load(silent bool) (Request, bool) {
	if c.tornDown {
		return Request{}, false
	}
	c.seq++
	c.phase = PhaseLoading
	c.silent = silent
	c.lastErr = ""
	return Request{
		Seq:        c.seq,
		Collection: c.cfg.Collection,
		Params:     c.Query.Values(),
		Silent:     silent,
	}, true
}

// HandleResult applies a fetch completion. Stale completions (superseded seq,
// or arriving after Teardown) are discarded silently: not an error, not
// logged, never rendered.
func (c *Controller[R]) HandleResult(seq int, res *api.ListResult, err error) {
	if c.tornDown || seq != c.seq {
		return
	}
	c.silent = false
	if err != nil {
		c.phase = PhaseErrored
		c.lastErr = api.UserMessage(err)
		c.toast(c.lastErr, SeverityError)
		return
	}

	c.Query.ApplyServerPagination(query.ServerPagination{
		CurrentPage: res.Pagination.CurrentPage,
		TotalPages:  res.Pagination.TotalPages,
		Total:       res.Pagination.Total,
	})

	records := make([]R, 0, len(res.Items))
	visible := make([]string, 0, len(res.Items))
	for _, raw := range res.Items {
		var rec R
		if err := json.Unmarshal(raw, &rec); err != nil {
			// One malformed row must not take the page down.
			continue
		}
		records = append(records, rec)
		visible = append(visible, rec.RecordID())
	}
	c.records = records
	c.visible = visible
	c.Selection.Prune(visible)
	c.phase = PhaseIdle
	c.lastErr = ""
	if c.hooks.Render != nil {
		c.hooks.Render()
	}
}

// SetFilter applies a filter change and issues the reload (filter changes
// always refetch from page 1; the reset happens inside QueryState).
func (c *Controller[R]) SetFilter(key, value string) (Request, bool) {
	if err := c.Query.SetFilter(key, value); err != nil {
		c.toast(err.Error(), SeverityError)
		return Request{}, false
	}
	return c.Load(false)
}

// SetPage moves to page n and reloads.
func (c *Controller[R]) SetPage(n int) (Request, bool) {
	c.Query.SetPage(n)
	return c.Load(false)
}

// SetSort re-sorts and reloads.
func (c *Controller[R]) SetSort(field string, def query.Direction) (Request, bool) {
	c.Query.SetSort(field, def)
	c.Query.Page = 1
	return c.Load(false)
}

// SetSearchInput records a keystroke-level search value without committing
// it. The returned token identifies the debounce window: the caller schedules
// a tick for SearchDebounce and feeds the token back to DebounceExpired.
// In SearchExplicit mode nothing is scheduled; the value waits for
// CommitSearch.
func (c *Controller[R]) SetSearchInput(raw string) (token int, schedule bool) {
	c.pendingSearch = raw
	c.searchDirty = true
	c.searchSeq++
	return c.searchSeq, c.cfg.SearchMode == SearchDebounced
}

// SearchDebounce returns the configured debounce window.
func (c *Controller[R]) SearchDebounce() time.Duration { return c.cfg.SearchDebounce }

// DebounceExpired commits the pending search if token is still the latest
// debounce window (later keystrokes invalidate earlier ticks).
func (c *Controller[R]) DebounceExpired(token int) (Request, bool) {
	if token != c.searchSeq || !c.searchDirty {
		return Request{}, false
	}
	return c.CommitSearch()
}

// CommitSearch applies the pending search value immediately (Enter, or the
// explicit search action).
func (c *Controller[R]) CommitSearch() (Request, bool) {
	if !c.searchDirty {
		return Request{}, false
	}
	c.searchDirty = false
	if err := c.Query.SetFilter("search", c.pendingSearch); err != nil {
		return Request{}, false
	}
	return c.Load(false)
}

// CancelSearch abandons an uncommitted search value: the pending input falls
// back to the committed filter, any in-flight debounce tick is invalidated,
// and the returned string is what the input box should show again.
func (c *Controller[R]) CancelSearch() string {
	committed := c.Query.Filter("search")
	c.pendingSearch = committed
	c.searchDirty = false
	c.searchSeq++
	return committed
}

// BeginBulk gates a bulk action on the current selection. BulkBlocked means
// a warning was already surfaced; BulkNeedsConfirm means the caller must get
// user confirmation and then dispatch the returned request unchanged.
func (c *Controller[R]) BeginBulk(action string) (BulkRequest, BulkStatus) {
	ids := c.Selection.IDs()
	if len(ids) == 0 {
		c.toast("Select at least one row first.", SeverityWarning)
		return BulkRequest{}, BulkBlocked
	}
	req := BulkRequest{Collection: c.cfg.Collection, Action: action, IDs: ids}
	if c.destructive[action] {
		return req, BulkNeedsConfirm
	}
	return req, BulkReady
}

// IsDestructive reports whether an action requires confirmation. Exposed so
// single-row actions outside the selection path use the same gate.
func (c *Controller[R]) IsDestructive(action string) bool { return c.destructive[action] }

// ConfirmPrompt is the confirmation copy for a destructive bulk action.
func (c *Controller[R]) ConfirmPrompt(req BulkRequest) string {
	return fmt.Sprintf("%s %d selected record(s)? This cannot be undone.", req.Action, len(req.IDs))
}

// HandleBulkResult applies a bulk completion. On success the selection is
// cleared and a reload plus a summary refresh are requested; on failure the
// selection is left untouched so the user can retry.
func (c *Controller[R]) HandleBulkResult(req BulkRequest, message string, err error) BulkOutcome {
	if c.tornDown {
		return BulkOutcome{}
	}
	if err != nil {
		c.toast(api.UserMessage(err), SeverityError)
		return BulkOutcome{}
	}
	if message == "" {
		message = fmt.Sprintf("%s applied to %d record(s)", req.Action, len(req.IDs))
	}
	c.toast(message, SeveritySuccess)
	c.Selection.Clear()
	reload, ok := c.Load(false)
	if !ok {
		return BulkOutcome{}
	}
	return BulkOutcome{Reload: &reload, RefreshSummary: true}
}

// HandleSummary forwards refreshed stat-strip counts to the hook.
func (c *Controller[R]) HandleSummary(stats map[string]int, err error) {
	if err != nil || c.tornDown {
		return
	}
	if c.hooks.SummaryUpdated != nil {
		c.hooks.SummaryUpdated(stats)
	}
}

// AutoRefreshEvery returns the refresh interval (0 = disabled).
func (c *Controller[R]) AutoRefreshEvery() time.Duration { return c.cfg.AutoRefreshEvery }

// SuspendAutoRefresh pauses background refresh (terminal lost focus / tab
// hidden).
func (c *Controller[R]) SuspendAutoRefresh() { c.refreshSuspended = true }

// ResumeAutoRefresh re-enables background refresh on focus regain.
func (c *Controller[R]) ResumeAutoRefresh() { c.refreshSuspended = false }

// AutoRefreshTick issues a silent reload if one is due. Skipped while
// suspended, torn down, or while another load is already in flight; the
// background path never competes with a user-initiated load.
func (c *Controller[R]) AutoRefreshTick() (Request, bool) {
	if c.cfg.AutoRefreshEvery <= 0 || c.refreshSuspended || c.tornDown {
		return Request{}, false
	}
	if c.phase == PhaseLoading {
		return Request{}, false
	}
	return c.Load(true)
}

// Teardown invalidates the controller on page navigation: pending
// completions are ignored and no further requests are issued.
func (c *Controller[R]) Teardown() {
	c.tornDown = true
}

func (c *Controller[R]) toast(message, severity string) {
	if c.hooks.Toast != nil {
		c.hooks.Toast(message, severity)
	}
}
