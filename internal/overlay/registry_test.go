package overlay

import "testing"

func liveAnchor(r Rect) AnchorFunc {
	return func() (Rect, bool) { return r, true }
}

func deadAnchor() AnchorFunc {
	return func() (Rect, bool) { return Rect{}, false }
}

func newTestRegistry() *Registry {
	return NewRegistry(Size{W: 1280, H: 720})
}

func TestSingleActiveDropdown(t *testing.T) {
	r := newTestRegistry()
	r.RegisterDropdown("row-1", liveAnchor(Rect{X: 100, Y: 100, W: 30, H: 20}), Size{W: 160, H: 120}, 4)
	r.RegisterDropdown("row-2", liveAnchor(Rect{X: 100, Y: 200, W: 30, H: 20}), Size{W: 160, H: 120}, 4)
	r.RegisterDropdown("bell", liveAnchor(Rect{X: 1200, Y: 10, W: 24, H: 24}), Size{W: 300, H: 400}, 6)

	if _, ok := r.OpenDropdown("row-1"); !ok {
		t.Fatal("open row-1 failed")
	}
	if _, ok := r.OpenDropdown("row-2"); !ok {
		t.Fatal("open row-2 failed")
	}
	if _, ok := r.OpenDropdown("bell"); !ok {
		t.Fatal("open bell failed")
	}

	open := 0
	for _, id := range []string{"row-1", "row-2", "bell"} {
		if r.IsOpen(id) {
			open++
		}
	}
	if open != 1 {
		t.Fatalf("open dropdowns = %d, want exactly 1", open)
	}
	if r.ActiveDropdown() != "bell" {
		t.Fatalf("active = %q, want bell", r.ActiveDropdown())
	}
}

func TestPlacementFlipsUpward(t *testing.T) {
	r := newTestRegistry()
	// Anchor bottom at 700 in a 720-high viewport with a 300-high overlay:
	// 700 + 300 > 720 − 20, so the menu opens upward.
	anchor := Rect{X: 40, Y: 680, W: 30, H: 20}
	r.RegisterDropdown("row", liveAnchor(anchor), Size{W: 160, H: 300}, 3)

	p, ok := r.OpenDropdown("row")
	if !ok {
		t.Fatal("open failed")
	}
	if !p.OpenUp {
		t.Fatalf("placement %+v, want OpenUp", p)
	}
	if p.Y != anchor.Y-300 {
		t.Fatalf("y = %d, want %d (anchor top − overlay height)", p.Y, anchor.Y-300)
	}
}

func TestPlacementDefaultBelow(t *testing.T) {
	r := newTestRegistry()
	anchor := Rect{X: 40, Y: 100, W: 30, H: 20}
	r.RegisterDropdown("row", liveAnchor(anchor), Size{W: 160, H: 300}, 3)
	p, ok := r.OpenDropdown("row")
	if !ok {
		t.Fatal("open failed")
	}
	if p.OpenUp || p.AlignRight {
		t.Fatalf("placement %+v, want default below/left", p)
	}
	if p.X != anchor.X || p.Y != anchor.Bottom() {
		t.Fatalf("placement %+v, want below-left of anchor", p)
	}
}

func TestPlacementFlipsRightAligned(t *testing.T) {
	r := newTestRegistry()
	anchor := Rect{X: 1200, Y: 100, W: 40, H: 20}
	r.RegisterDropdown("row", liveAnchor(anchor), Size{W: 300, H: 100}, 3)
	p, ok := r.OpenDropdown("row")
	if !ok {
		t.Fatal("open failed")
	}
	if !p.AlignRight {
		t.Fatalf("placement %+v, want AlignRight", p)
	}
	if p.X != anchor.Right()-300 {
		t.Fatalf("x = %d, want %d", p.X, anchor.Right()-300)
	}
}

func TestOpenDeadAnchorIsSilentNoop(t *testing.T) {
	r := newTestRegistry()
	r.RegisterDropdown("gone", deadAnchor(), Size{W: 160, H: 120}, 3)
	if _, ok := r.OpenDropdown("gone"); ok {
		t.Fatal("expected open to fail silently for a dead anchor")
	}
	if r.ActiveDropdown() != "" {
		t.Fatalf("active = %q, want none", r.ActiveDropdown())
	}
}

func TestCloseIdempotent(t *testing.T) {
	r := newTestRegistry()
	r.RegisterDropdown("row", liveAnchor(Rect{X: 0, Y: 0, W: 10, H: 10}), Size{W: 100, H: 100}, 2)
	r.Close("row")     // not open
	r.Close("unknown") // never registered
	r.CloseAll()       // nothing open
	if _, ok := r.OpenDropdown("row"); !ok {
		t.Fatal("open after redundant closes failed")
	}
	r.Close("row")
	r.Close("row")
	if r.IsOpen("row") {
		t.Fatal("row still open after close")
	}
}

func TestModalAndDropdownAreSeparateDomains(t *testing.T) {
	r := newTestRegistry()
	r.RegisterDropdown("bell", liveAnchor(Rect{X: 10, Y: 10, W: 24, H: 24}), Size{W: 200, H: 150}, 4)

	r.OpenModal("edit-product")
	if _, ok := r.OpenDropdown("bell"); !ok {
		t.Fatal("open bell failed")
	}
	if r.ActiveModal() != "edit-product" {
		t.Fatal("modal closed by dropdown open; domains must be independent")
	}

	// Outside click dismisses the dropdown but leaves the modal alone.
	r.HandleOutsideClick(600, 600)
	if r.IsOpen("bell") {
		t.Fatal("dropdown survived outside click")
	}
	if r.ActiveModal() != "edit-product" {
		t.Fatal("modal dismissed by outside click")
	}
}

func TestOutsideClickInsideBodyKeepsOpen(t *testing.T) {
	r := newTestRegistry()
	anchor := Rect{X: 100, Y: 100, W: 30, H: 20}
	r.RegisterDropdown("row", liveAnchor(anchor), Size{W: 160, H: 120}, 4)
	p, _ := r.OpenDropdown("row")

	r.HandleOutsideClick(p.X+5, p.Y+5) // inside the menu body
	if !r.IsOpen("row") {
		t.Fatal("click inside dropdown body must not dismiss it")
	}
	r.HandleOutsideClick(anchor.X+1, anchor.Y+1) // on the anchor
	if !r.IsOpen("row") {
		t.Fatal("click on anchor must not dismiss via outside-click path")
	}
}

func TestEscapeClosesDropdownThenModal(t *testing.T) {
	r := newTestRegistry()
	r.RegisterDropdown("row", liveAnchor(Rect{X: 0, Y: 0, W: 10, H: 10}), Size{W: 100, H: 80}, 2)
	r.OpenModal("confirm")
	r.OpenDropdown("row")

	if !r.HandleEscape() {
		t.Fatal("escape handled nothing")
	}
	if r.IsOpen("row") {
		t.Fatal("dropdown open after first escape")
	}
	if r.ActiveModal() != "confirm" {
		t.Fatal("modal closed before dropdown")
	}
	if !r.HandleEscape() {
		t.Fatal("second escape handled nothing")
	}
	if r.ActiveModal() != "" {
		t.Fatal("modal open after second escape")
	}
	if r.HandleEscape() {
		t.Fatal("third escape should be a no-op")
	}
}

func TestDropdownFocusNavigation(t *testing.T) {
	r := newTestRegistry()
	r.RegisterDropdown("row", liveAnchor(Rect{X: 0, Y: 0, W: 10, H: 10}), Size{W: 100, H: 80}, 3)
	r.OpenDropdown("row")

	if got := r.FocusIndex(); got != -1 {
		t.Fatalf("focus on open = %d, want -1", got)
	}
	if got := r.MoveFocus(1); got != 0 {
		t.Fatalf("first down = %d, want 0", got)
	}
	r.MoveFocus(1)
	r.MoveFocus(1)
	if got := r.MoveFocus(1); got != 2 {
		t.Fatalf("focus = %d, want clamp at 2", got)
	}
	for i := 0; i < 5; i++ {
		r.MoveFocus(-1)
	}
	if got := r.FocusIndex(); got != 0 {
		t.Fatalf("focus = %d, want clamp at 0", got)
	}

	// Reopen resets focus.
	r.Close("row")
	r.OpenDropdown("row")
	if got := r.FocusIndex(); got != -1 {
		t.Fatalf("focus after reopen = %d, want -1", got)
	}
}
