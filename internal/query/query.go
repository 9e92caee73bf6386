package query

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort holds the active sort order for a list page.
type Sort struct {
	Field     string
	Direction Direction
}

// State holds pagination, filters and sort for one admin list page.
//
// It is pure bookkeeping: mutations never trigger a fetch. The caller decides
// when a changed state becomes a request (immediately, on debounce expiry, or
// on an explicit apply).
type State struct {
	Page       int
	PageSize   int
	Total      int
	TotalPages int

	Sort Sort

	// allowed is the fixed filter-key set for this page. Unknown keys are
	// rejected rather than silently serialized.
	allowed map[string]bool
	filters map[string]string
}

// New returns a State for a page whose filters are restricted to keys.
func New(pageSize int, keys []string, defaultSort Sort) *State {
	if pageSize <= 0 {
		pageSize = 20
	}
	allowed := make(map[string]bool, len(keys))
	for _, k := range keys {
		allowed[strings.TrimSpace(k)] = true
	}
	return &State{
		Page:     1,
		PageSize: pageSize,
		Sort:     defaultSort,
		allowed:  allowed,
		filters:  map[string]string{},
	}
}

// FilterKeys returns the allowed filter keys, sorted.
func (s *State) FilterKeys() []string {
	out := make([]string, 0, len(s.allowed))
	for k := range s.allowed {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Filter returns the current value for key ("" when not applied).
func (s *State) Filter(key string) string {
	return s.filters[key]
}

// SetFilter sets a filter value. An empty value clears the filter. Any change
// resets Page to 1 so the next load starts from the first page of the newly
// filtered collection.
func (s *State) SetFilter(key, value string) error {
	key = strings.TrimSpace(key)
	if !s.allowed[key] {
		return fmt.Errorf("unknown filter key %q", key)
	}
	value = strings.TrimSpace(value)
	if s.filters[key] == value {
		return nil
	}
	if value == "" {
		delete(s.filters, key)
	} else {
		s.filters[key] = value
	}
	s.Page = 1
	return nil
}

// SetSort sets the sort field. Re-sorting on the current field flips the
// direction; a new field starts at def. Table-header taps pass Asc, tab
// defaults pass Desc (the pages differ on purpose, so the default direction
// is the caller's to choose).
func (s *State) SetSort(field string, def Direction) {
	field = strings.TrimSpace(field)
	if field == s.Sort.Field {
		if s.Sort.Direction == Asc {
			s.Sort.Direction = Desc
		} else {
			s.Sort.Direction = Asc
		}
		return
	}
	s.Sort = Sort{Field: field, Direction: def}
}

// SetPage moves to page n, clamped to the known page range.
func (s *State) SetPage(n int) {
	s.Page = clampPage(n, s.TotalPages)
}

// ServerPagination is the trusted pagination block of a list response.
type ServerPagination struct {
	CurrentPage int
	TotalPages  int
	Total       int
}

// ApplyServerPagination overwrites page/total/totalPages from a server
// response. The server is authoritative here; optimistic local page changes
// never survive a response.
func (s *State) ApplyServerPagination(p ServerPagination) {
	if p.Total < 0 {
		p.Total = 0
	}
	s.Total = p.Total
	s.TotalPages = p.TotalPages
	if s.TotalPages <= 0 && s.Total > 0 && s.PageSize > 0 {
		// Derive when the server omits it.
		s.TotalPages = (s.Total + s.PageSize - 1) / s.PageSize
	}
	if s.TotalPages < 0 {
		s.TotalPages = 0
	}
	page := p.CurrentPage
	if page == 0 {
		page = s.Page
	}
	s.Page = clampPage(page, s.TotalPages)
}

func clampPage(n, totalPages int) int {
	max := totalPages
	if max < 1 {
		max = 1
	}
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}

// Values returns the canonical query parameters for the current state:
// pagination + sort + every non-empty filter. Same state always produces the
// same values, so Encode is safe to use as a cache key.
func (s *State) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(s.Page))
	v.Set("pageSize", strconv.Itoa(s.PageSize))
	if s.Sort.Field != "" {
		v.Set("sort", s.Sort.Field+":"+string(s.Sort.Direction))
	}
	for k, val := range s.filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// Encode returns the canonical query string. url.Values.Encode sorts keys, so
// the result is idempotent for a given state.
func (s *State) Encode() string {
	return s.Values().Encode()
}
