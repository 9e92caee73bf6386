package selection

import "sort"

// Set tracks which record ids on the current page are selected.
//
// Selection is page-scoped on purpose: ids that are no longer rendered are
// pruned on every refresh, so bulk actions only ever apply to rows the user
// can see. Cross-page persistent selection is an explicit non-goal.
type Set struct {
	ids map[string]bool

	// OnChange fires synchronously after every mutation so dependent UI
	// (bulk-action bar, counts) reads a fully settled state. A callback keeps
	// ordering deterministic where an event bus would not.
	OnChange func()
}

func New() *Set {
	return &Set{ids: map[string]bool{}}
}

// CheckboxState is the derived state of a page's select-all checkbox.
type CheckboxState struct {
	Checked       bool
	Indeterminate bool
}

func (s *Set) notify() {
	if s.OnChange != nil {
		s.OnChange()
	}
}

// Toggle includes or excludes a single id.
func (s *Set) Toggle(id string, included bool) {
	if id == "" {
		return
	}
	if included {
		if s.ids[id] {
			return
		}
		s.ids[id] = true
	} else {
		if !s.ids[id] {
			return
		}
		delete(s.ids, id)
	}
	s.notify()
}

// Selected reports whether id is in the set.
func (s *Set) Selected(id string) bool { return s.ids[id] }

// SelectAllVisible adds every visible id to the set.
func (s *Set) SelectAllVisible(visible []string) {
	changed := false
	for _, id := range visible {
		if id != "" && !s.ids[id] {
			s.ids[id] = true
			changed = true
		}
	}
	if changed {
		s.notify()
	}
}

// Clear empties the set.
func (s *Set) Clear() {
	if len(s.ids) == 0 {
		return
	}
	s.ids = map[string]bool{}
	s.notify()
}

// Prune drops every selected id that is not in visible. Called after each
// render so stale ids from a previous page can never leak into a bulk action.
func (s *Set) Prune(visible []string) {
	keep := make(map[string]bool, len(visible))
	for _, id := range visible {
		keep[id] = true
	}
	changed := false
	for id := range s.ids {
		if !keep[id] {
			delete(s.ids, id)
			changed = true
		}
	}
	if changed {
		s.notify()
	}
}

// Count returns the number of selected ids.
func (s *Set) Count() int { return len(s.ids) }

// IDs returns the selected ids, sorted for stable request bodies.
func (s *Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Checkbox derives the select-all checkbox state against the visible ids:
// checked iff every visible id is selected and the page is non-empty,
// indeterminate iff the selection is a non-empty proper subset.
func (s *Set) Checkbox(visible []string) CheckboxState {
	if len(visible) == 0 {
		return CheckboxState{}
	}
	selected := 0
	for _, id := range visible {
		if s.ids[id] {
			selected++
		}
	}
	switch {
	case selected == len(visible):
		return CheckboxState{Checked: true}
	case selected > 0:
		return CheckboxState{Indeterminate: true}
	default:
		return CheckboxState{}
	}
}
