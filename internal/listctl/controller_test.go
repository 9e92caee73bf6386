package listctl

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"bazaar-cli/internal/api"
	"bazaar-cli/internal/model"
	"bazaar-cli/internal/query"
)

type toastRec struct {
	message  string
	severity string
}

type testHarness struct {
	ctrl    *Controller[model.Category]
	toasts  []toastRec
	renders int
	stats   map[string]int
}

func newHarness(t *testing.T, cfg Config) *testHarness {
	t.Helper()
	h := &testHarness{}
	if cfg.Collection == "" {
		cfg.Collection = "categories"
	}
	if cfg.FilterKeys == nil {
		cfg.FilterKeys = []string{"status", "search"}
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = 25
	}
	h.ctrl = New[model.Category](cfg, Hooks{
		Render: func() { h.renders++ },
		Toast: func(message, severity string) {
			h.toasts = append(h.toasts, toastRec{message, severity})
		},
		SummaryUpdated: func(stats map[string]int) { h.stats = stats },
	})
	return h
}

func page(ids []string, current, totalPages, total int) *api.ListResult {
	res := &api.ListResult{
		Pagination: api.Pagination{CurrentPage: current, TotalPages: totalPages, Total: total},
	}
	for _, id := range ids {
		res.Items = append(res.Items, json.RawMessage(fmt.Sprintf(`{"id":%q,"name":"n-%s"}`, id, id)))
	}
	return res
}

func (h *testHarness) lastToast(t *testing.T) toastRec {
	t.Helper()
	if len(h.toasts) == 0 {
		t.Fatal("no toast recorded")
	}
	return h.toasts[len(h.toasts)-1]
}

func TestLastRequestWins(t *testing.T) {
	h := newHarness(t, Config{})
	c := h.ctrl

	// Fetch for page 2 goes out…
	c.Query.ApplyServerPagination(query.ServerPagination{CurrentPage: 1, Total: 100, TotalPages: 4})
	r1, _ := c.SetPage(2)
	// …then the user changes a filter before it resolves, issuing page 1.
	r2, ok := c.SetFilter("status", "active")
	if !ok {
		t.Fatal("SetFilter load failed")
	}
	if r2.Seq <= r1.Seq {
		t.Fatalf("seq not monotonic: %d then %d", r1.Seq, r2.Seq)
	}

	// The page-2 response arrives late and must be discarded.
	c.HandleResult(r1.Seq, page([]string{"stale-a", "stale-b"}, 2, 4, 100), nil)
	if len(c.Records()) != 0 {
		t.Fatalf("stale response applied: %d records", len(c.Records()))
	}
	if c.Phase() != PhaseLoading {
		t.Fatalf("phase = %v, want still Loading for the live request", c.Phase())
	}

	c.HandleResult(r2.Seq, page([]string{"fresh"}, 1, 1, 1), nil)
	if got := c.VisibleIDs(); len(got) != 1 || got[0] != "fresh" {
		t.Fatalf("visible = %v, want [fresh]", got)
	}
	if c.Query.Page != 1 {
		t.Fatalf("page = %d, want 1", c.Query.Page)
	}
	if h.renders != 1 {
		t.Fatalf("renders = %d, want 1 (stale result must not render)", h.renders)
	}
}

func TestStaleResultIsNotAnError(t *testing.T) {
	h := newHarness(t, Config{})
	c := h.ctrl
	r1, _ := c.Load(false)
	r2, _ := c.Load(false)
	c.HandleResult(r1.Seq, nil, errors.New("superseded request failed"))
	if len(h.toasts) != 0 {
		t.Fatalf("stale failure surfaced: %v", h.toasts)
	}
	c.HandleResult(r2.Seq, page(nil, 1, 0, 0), nil)
	if c.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want Idle", c.Phase())
	}
}

func TestLoadFailureSurfacesAndResetsLoading(t *testing.T) {
	h := newHarness(t, Config{})
	c := h.ctrl
	r, _ := c.Load(false)
	if !c.ShowLoadingPlaceholder() {
		t.Fatal("expected loading placeholder during non-silent load")
	}
	c.HandleResult(r.Seq, nil, &api.APIError{Status: 500, Message: "boom"})
	if c.Phase() != PhaseErrored {
		t.Fatalf("phase = %v, want Errored", c.Phase())
	}
	if c.ShowLoadingPlaceholder() {
		t.Fatal("loading placeholder stuck after failure")
	}
	if got := h.lastToast(t); got.severity != SeverityError || got.message != "boom" {
		t.Fatalf("toast = %+v", got)
	}
}

func TestSilentLoadSuppressesPlaceholder(t *testing.T) {
	h := newHarness(t, Config{})
	c := h.ctrl
	r, _ := c.Load(true)
	if c.ShowLoadingPlaceholder() {
		t.Fatal("silent load must not show the placeholder")
	}
	c.HandleResult(r.Seq, page([]string{"a"}, 1, 1, 1), nil)
	if len(c.Records()) != 1 {
		t.Fatal("silent load must still update state")
	}
}

func TestSuccessPrunesSelection(t *testing.T) {
	h := newHarness(t, Config{})
	c := h.ctrl
	r, _ := c.Load(false)
	c.HandleResult(r.Seq, page([]string{"a", "b", "c"}, 1, 1, 3), nil)
	c.Selection.SelectAllVisible(c.VisibleIDs())

	r, _ = c.SetPage(1)
	c.HandleResult(r.Seq, page([]string{"b", "d"}, 1, 1, 2), nil)
	if got := c.Selection.IDs(); len(got) != 1 || got[0] != "b" {
		t.Fatalf("selection after prune = %v, want [b]", got)
	}
}

func TestBulkEmptySelectionIsLocalWarning(t *testing.T) {
	h := newHarness(t, Config{DestructiveActions: []string{"archive"}})
	c := h.ctrl
	_, status := c.BeginBulk("archive")
	if status != BulkBlocked {
		t.Fatalf("status = %v, want BulkBlocked", status)
	}
	if got := h.lastToast(t); got.severity != SeverityWarning {
		t.Fatalf("toast = %+v, want warning", got)
	}
}

func TestBulkDestructiveNeedsConfirm(t *testing.T) {
	h := newHarness(t, Config{DestructiveActions: []string{"delete", "archive", "deactivate"}})
	c := h.ctrl
	c.Selection.Toggle("a", true)

	req, status := c.BeginBulk("delete")
	if status != BulkNeedsConfirm {
		t.Fatalf("status = %v, want BulkNeedsConfirm", status)
	}
	if len(req.IDs) != 1 || req.Action != "delete" {
		t.Fatalf("req = %+v", req)
	}

	// Non-destructive actions dispatch immediately.
	if _, status := c.BeginBulk("export"); status != BulkReady {
		t.Fatalf("status = %v, want BulkReady", status)
	}
}

func TestBulkSuccessClearsSelectionAndReloads(t *testing.T) {
	h := newHarness(t, Config{})
	c := h.ctrl
	c.Selection.SelectAllVisible([]string{"a", "b"})

	req, status := c.BeginBulk("approve")
	if status != BulkReady {
		t.Fatalf("status = %v", status)
	}
	out := c.HandleBulkResult(req, "2 approved", nil)
	if c.Selection.Count() != 0 {
		t.Fatal("selection not cleared after successful bulk action")
	}
	if out.Reload == nil || !out.RefreshSummary {
		t.Fatalf("outcome = %+v, want reload + summary refresh", out)
	}
	if got := h.lastToast(t); got.severity != SeveritySuccess || got.message != "2 approved" {
		t.Fatalf("toast = %+v", got)
	}
}

func TestBulkFailureKeepsSelection(t *testing.T) {
	h := newHarness(t, Config{})
	c := h.ctrl
	c.Selection.SelectAllVisible([]string{"a", "b"})
	req, _ := c.BeginBulk("approve")
	out := c.HandleBulkResult(req, "", &api.APIError{Status: 409, Message: "conflict"})
	if c.Selection.Count() != 2 {
		t.Fatal("selection must survive a failed bulk action")
	}
	if out.Reload != nil {
		t.Fatal("no reload after failure")
	}
	if got := h.lastToast(t); got.severity != SeverityError {
		t.Fatalf("toast = %+v", got)
	}
}

func TestDebouncedSearchTrailingKeystrokeWins(t *testing.T) {
	h := newHarness(t, Config{SearchMode: SearchDebounced})
	c := h.ctrl

	tok1, schedule := c.SetSearchInput("va")
	if !schedule {
		t.Fatal("debounced mode must schedule a tick")
	}
	tok2, _ := c.SetSearchInput("valve")

	if _, ok := c.DebounceExpired(tok1); ok {
		t.Fatal("stale debounce tick must not commit")
	}
	r, ok := c.DebounceExpired(tok2)
	if !ok {
		t.Fatal("latest debounce tick must commit")
	}
	if got := r.Params.Get("search"); got != "valve" {
		t.Fatalf("search param = %q, want valve", got)
	}
	if got := r.Params.Get("page"); got != "1" {
		t.Fatalf("page param = %q, want 1 (filter change resets page)", got)
	}

	// Tick fires again later with the same token: already committed, no-op.
	if _, ok := c.DebounceExpired(tok2); ok {
		t.Fatal("second expiry of the same window must not re-commit")
	}
}

func TestCancelSearchDropsPendingValue(t *testing.T) {
	h := newHarness(t, Config{SearchMode: SearchDebounced})
	c := h.ctrl

	// Commit a search, then start typing a replacement and abandon it.
	c.SetSearchInput("valve")
	if _, ok := c.CommitSearch(); !ok {
		t.Fatal("CommitSearch failed")
	}
	tok, _ := c.SetSearchInput("pum")

	if got := c.CancelSearch(); got != "valve" {
		t.Fatalf("CancelSearch = %q, want committed value valve", got)
	}
	if _, ok := c.DebounceExpired(tok); ok {
		t.Fatal("debounce tick from before cancel must not commit")
	}
	if _, ok := c.CommitSearch(); ok {
		t.Fatal("commit after cancel must be a no-op")
	}
}

func TestExplicitSearchModeWaitsForCommit(t *testing.T) {
	h := newHarness(t, Config{SearchMode: SearchExplicit})
	c := h.ctrl
	_, schedule := c.SetSearchInput("pump")
	if schedule {
		t.Fatal("explicit mode must not schedule a debounce tick")
	}
	r, ok := c.CommitSearch()
	if !ok {
		t.Fatal("CommitSearch failed")
	}
	if got := r.Params.Get("search"); got != "pump" {
		t.Fatalf("search param = %q", got)
	}
}

func TestAutoRefreshGate(t *testing.T) {
	h := newHarness(t, Config{AutoRefreshEvery: 1})
	c := h.ctrl

	if _, ok := c.AutoRefreshTick(); !ok {
		t.Fatal("tick should refresh when idle")
	}
	// In flight: background refresh must not pile on.
	if _, ok := c.AutoRefreshTick(); ok {
		t.Fatal("tick during Loading must be skipped")
	}
	r, _ := c.Load(false)
	c.HandleResult(r.Seq, page(nil, 1, 0, 0), nil)

	c.SuspendAutoRefresh()
	if _, ok := c.AutoRefreshTick(); ok {
		t.Fatal("tick while suspended must be skipped")
	}
	c.ResumeAutoRefresh()
	if _, ok := c.AutoRefreshTick(); !ok {
		t.Fatal("tick after resume should refresh")
	}
}

func TestTeardownIgnoresEverything(t *testing.T) {
	h := newHarness(t, Config{AutoRefreshEvery: 1})
	c := h.ctrl
	r, _ := c.Load(false)
	c.Teardown()

	c.HandleResult(r.Seq, page([]string{"x"}, 1, 1, 1), nil)
	if len(c.Records()) != 0 || h.renders != 0 {
		t.Fatal("result applied after teardown")
	}
	if _, ok := c.Load(false); ok {
		t.Fatal("Load allowed after teardown")
	}
	if _, ok := c.AutoRefreshTick(); ok {
		t.Fatal("auto-refresh allowed after teardown")
	}
}

func TestHandleSummaryForwards(t *testing.T) {
	h := newHarness(t, Config{})
	h.ctrl.HandleSummary(map[string]int{"active": 4, "pending": 2}, nil)
	if h.stats["active"] != 4 || h.stats["pending"] != 2 {
		t.Fatalf("stats = %v", h.stats)
	}
	h.ctrl.HandleSummary(nil, errors.New("nope"))
	if h.stats == nil {
		t.Fatal("failed summary refresh must not clobber the last good stats")
	}
}
