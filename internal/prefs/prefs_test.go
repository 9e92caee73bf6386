package prefs

import (
	"context"
	"testing"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	return Store{Dir: t.TempDir()}
}

func TestLastTabRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, ok := s.LastTab(ctx); ok {
		t.Fatal("expected no last tab in a fresh store")
	}
	if err := s.SetLastTab(ctx, "inquiries"); err != nil {
		t.Fatalf("SetLastTab: %v", err)
	}
	tab, ok := s.LastTab(ctx)
	if !ok || tab != "inquiries" {
		t.Fatalf("LastTab = %q, %v", tab, ok)
	}
}

func TestPageSizeOverride(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, ok := s.PageSize(ctx, "products"); ok {
		t.Fatal("expected no override in a fresh store")
	}
	if err := s.SetPageSize(ctx, "products", 50); err != nil {
		t.Fatalf("SetPageSize: %v", err)
	}
	n, ok := s.PageSize(ctx, "products")
	if !ok || n != 50 {
		t.Fatalf("PageSize = %d, %v", n, ok)
	}
	// Other collections are unaffected.
	if _, ok := s.PageSize(ctx, "categories"); ok {
		t.Fatal("override leaked across collections")
	}
}

func TestToggleFavorite(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	on, err := s.ToggleFavorite(ctx, "p-1")
	if err != nil || !on {
		t.Fatalf("first toggle = %v, %v; want starred", on, err)
	}
	if !s.IsFavorite(ctx, "p-1") {
		t.Fatal("IsFavorite = false after star")
	}
	on, err = s.ToggleFavorite(ctx, "p-1")
	if err != nil || on {
		t.Fatalf("second toggle = %v, %v; want unstarred", on, err)
	}
	if s.IsFavorite(ctx, "p-1") {
		t.Fatal("IsFavorite = true after unstar")
	}
}

func TestFavoritesOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	for _, id := range []string{"p-1", "p-2", "p-3"} {
		if _, err := s.ToggleFavorite(ctx, id); err != nil {
			t.Fatalf("ToggleFavorite(%s): %v", id, err)
		}
	}
	favs, err := s.Favorites(ctx)
	if err != nil {
		t.Fatalf("Favorites: %v", err)
	}
	if len(favs) != 3 {
		t.Fatalf("favorites = %v, want 3 entries", favs)
	}
}
