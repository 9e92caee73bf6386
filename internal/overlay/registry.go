package overlay

import "time"

// DefaultMargin is the viewport-edge margin used for placement flips.
const DefaultMargin = 20

// Rect is an anchor rectangle in viewport coordinates.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Bottom() int { return r.Y + r.H }
func (r Rect) Right() int  { return r.X + r.W }

// Contains reports whether the point (x, y) falls inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Size is an overlay's rendered extent.
type Size struct {
	W, H int
}

// Placement is where an anchored overlay should be drawn.
type Placement struct {
	X, Y int
	// OpenUp is set when the overlay would overflow the viewport bottom and
	// flips to open above the anchor instead.
	OpenUp bool
	// AlignRight is set when the overlay would overflow the viewport's right
	// edge and flips to right-align against the anchor.
	AlignRight bool
}

// AnchorFunc resolves an overlay's anchor at open time. ok=false means the
// anchor is gone (its row was removed between the open request and
// positioning), in which case opening must silently no-op.
type AnchorFunc func() (Rect, bool)

type dropdown struct {
	anchor    AnchorFunc
	size      Size
	itemCount int

	open      bool
	openedAt  time.Time
	placement Placement
	// focus is the keyboard focus index inside the open dropdown, −1 when
	// nothing is focused. It resets on every open.
	focus int
}

// Registry tracks transient overlays for one page.
//
// Dropdown-class overlays (row menus, header bell) and modal-class overlays
// (dialog forms) are two independent exclusion domains: at most one dropdown
// is open page-wide, and at most one modal, but an open modal survives the
// outside click that dismisses a dropdown. Dismissal entry points
// (HandleOutsideClick, HandleEscape) belong to the registry and are wired
// into the event loop exactly once for the lifetime of the page, never per
// overlay, never per render.
type Registry struct {
	Viewport Size
	Margin   int

	dropdowns      map[string]*dropdown
	activeDropdown string

	activeModal   string
	modalOpenedAt time.Time

	now func() time.Time
}

func NewRegistry(viewport Size) *Registry {
	return &Registry{
		Viewport:  viewport,
		Margin:    DefaultMargin,
		dropdowns: map[string]*dropdown{},
		now:       time.Now,
	}
}

// SetViewport updates the viewport used for placement (terminal resize,
// window resize). An already-open dropdown is repositioned.
func (r *Registry) SetViewport(v Size) {
	r.Viewport = v
	if d, ok := r.dropdowns[r.activeDropdown]; ok && d.open {
		if anchor, alive := d.anchor(); alive {
			d.placement = r.place(anchor, d.size)
		}
	}
}

// RegisterDropdown registers an anchored dropdown overlay. Registration
// happens once at page init; opening and closing only flip state.
func (r *Registry) RegisterDropdown(id string, anchor AnchorFunc, size Size, itemCount int) {
	r.dropdowns[id] = &dropdown{anchor: anchor, size: size, itemCount: itemCount, focus: -1}
}

// ResizeDropdown updates a registered dropdown's extent and item count
// before opening (menus whose entries depend on the row's eligibility).
func (r *Registry) ResizeDropdown(id string, size Size, itemCount int) {
	if d, ok := r.dropdowns[id]; ok {
		d.size = size
		d.itemCount = itemCount
	}
}

// OpenDropdown opens the dropdown with the given id, closing any other open
// dropdown first. Returns ok=false (and opens nothing) for unknown ids and
// for dropdowns whose anchor has disappeared.
func (r *Registry) OpenDropdown(id string) (Placement, bool) {
	d, ok := r.dropdowns[id]
	if !ok {
		return Placement{}, false
	}
	anchor, alive := d.anchor()
	if !alive {
		return Placement{}, false
	}
	if r.activeDropdown != "" && r.activeDropdown != id {
		r.Close(r.activeDropdown)
	}
	d.open = true
	d.openedAt = r.now()
	d.focus = -1
	d.placement = r.place(anchor, d.size)
	r.activeDropdown = id
	return d.placement, true
}

func (r *Registry) place(anchor Rect, size Size) Placement {
	p := Placement{X: anchor.X, Y: anchor.Bottom()}
	if anchor.Bottom()+size.H > r.Viewport.H-r.Margin {
		p.OpenUp = true
		p.Y = anchor.Y - size.H
	}
	if anchor.X+size.W > r.Viewport.W-r.Margin {
		p.AlignRight = true
		p.X = anchor.Right() - size.W
	}
	return p
}

// IsOpen reports whether the overlay with id is currently open (either
// domain).
func (r *Registry) IsOpen(id string) bool {
	if id == "" {
		return false
	}
	if id == r.activeModal {
		return true
	}
	d, ok := r.dropdowns[id]
	return ok && d.open
}

// ActiveDropdown returns the id of the open dropdown, "" when none.
func (r *Registry) ActiveDropdown() string { return r.activeDropdown }

// ActiveModal returns the id of the open modal, "" when none.
func (r *Registry) ActiveModal() string { return r.activeModal }

// DropdownPlacement returns the computed placement of an open dropdown.
func (r *Registry) DropdownPlacement(id string) (Placement, bool) {
	d, ok := r.dropdowns[id]
	if !ok || !d.open {
		return Placement{}, false
	}
	return d.placement, true
}

// Close closes the overlay with id in either domain. Closing an unknown or
// already-closed id is a no-op, not an error.
func (r *Registry) Close(id string) {
	if id == r.activeModal && id != "" {
		r.activeModal = ""
		return
	}
	d, ok := r.dropdowns[id]
	if !ok || !d.open {
		return
	}
	d.open = false
	d.focus = -1
	if r.activeDropdown == id {
		r.activeDropdown = ""
	}
}

// CloseAll closes everything in both domains. Always safe to call.
func (r *Registry) CloseAll() {
	r.Close(r.activeDropdown)
	r.activeModal = ""
}

// OpenModal opens a modal. Modals are single-instance: opening while another
// modal is open replaces it (the closed modal's state is the caller's to
// discard; modal lifetime is ephemeral, created on open and destroyed on
// close). Dropdown state is untouched; the domains are independent.
func (r *Registry) OpenModal(id string) {
	if id == "" {
		return
	}
	r.activeModal = id
	r.modalOpenedAt = r.now()
}

// HandleOutsideClick dismisses the open dropdown when the click lands outside
// both its anchor and its rendered rect. A modal is not dismissed by outside
// clicks.
func (r *Registry) HandleOutsideClick(x, y int) {
	d, ok := r.dropdowns[r.activeDropdown]
	if !ok || !d.open {
		return
	}
	if anchor, alive := d.anchor(); alive && anchor.Contains(x, y) {
		return
	}
	body := Rect{X: d.placement.X, Y: d.placement.Y, W: d.size.W, H: d.size.H}
	if body.Contains(x, y) {
		return
	}
	r.Close(r.activeDropdown)
}

// HandleEscape dismisses the open dropdown first; with no dropdown open it
// dismisses the modal. Returns true when something was closed.
func (r *Registry) HandleEscape() bool {
	if r.activeDropdown != "" {
		r.Close(r.activeDropdown)
		return true
	}
	if r.activeModal != "" {
		r.activeModal = ""
		return true
	}
	return false
}

// FocusIndex returns the keyboard focus index of the open dropdown, −1 when
// none is focused or no dropdown is open.
func (r *Registry) FocusIndex() int {
	if d, ok := r.dropdowns[r.activeDropdown]; ok && d.open {
		return d.focus
	}
	return -1
}

// MoveFocus moves the open dropdown's focus index by delta, clamped to
// [0, itemCount−1]. Returns the resulting index.
func (r *Registry) MoveFocus(delta int) int {
	d, ok := r.dropdowns[r.activeDropdown]
	if !ok || !d.open || d.itemCount == 0 {
		return -1
	}
	next := d.focus + delta
	if next < 0 {
		next = 0
	}
	if next > d.itemCount-1 {
		next = d.itemCount - 1
	}
	d.focus = next
	return d.focus
}
