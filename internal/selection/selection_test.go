package selection

import (
	"reflect"
	"testing"
)

func TestCheckboxDerivation(t *testing.T) {
	s := New()
	visible := []string{"a", "b", "c"}

	s.Toggle("a", true)
	s.Toggle("b", true)
	cb := s.Checkbox(visible)
	if cb.Checked || !cb.Indeterminate {
		t.Fatalf("got %+v, want indeterminate for proper subset", cb)
	}

	s.SelectAllVisible(visible)
	cb = s.Checkbox(visible)
	if !cb.Checked || cb.Indeterminate {
		t.Fatalf("got %+v, want checked after select-all", cb)
	}

	s.Clear()
	cb = s.Checkbox(visible)
	if cb.Checked || cb.Indeterminate {
		t.Fatalf("got %+v, want neither after clear", cb)
	}
}

func TestCheckboxEmptyVisible(t *testing.T) {
	s := New()
	s.Toggle("a", true)
	cb := s.Checkbox(nil)
	if cb.Checked || cb.Indeterminate {
		t.Fatalf("got %+v, want neither on empty visible set", cb)
	}
}

func TestPruneDropsStaleIDs(t *testing.T) {
	s := New()
	s.SelectAllVisible([]string{"a", "b", "c"})
	// Rendered page changed: only b survives.
	s.Prune([]string{"b", "d"})
	if got := s.IDs(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("IDs = %v, want [b]", got)
	}
}

func TestOnChangeFiresPerMutation(t *testing.T) {
	s := New()
	calls := 0
	s.OnChange = func() { calls++ }

	s.Toggle("a", true)                    // change
	s.Toggle("a", true)                    // no-op: already selected
	s.Toggle("a", false)                   // change
	s.Toggle("a", false)                   // no-op
	s.SelectAllVisible(nil)                // no-op
	s.SelectAllVisible([]string{"x", "y"}) // change
	s.Prune([]string{"x", "y"})            // no-op: nothing stale
	s.Prune(nil)                           // change
	s.Clear()                              // no-op: already empty

	if calls != 4 {
		t.Fatalf("OnChange calls = %d, want 4", calls)
	}
}

func TestToggleEmptyIDIgnored(t *testing.T) {
	s := New()
	s.Toggle("", true)
	if s.Count() != 0 {
		t.Fatalf("count = %d, want 0", s.Count())
	}
}
