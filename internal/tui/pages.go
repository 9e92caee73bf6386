package tui

import (
	"strings"
	"time"

	"bazaar-cli/internal/listctl"
	"bazaar-cli/internal/query"
)

type pageID string

const (
	pageCategories pageID = "categories"
	pageProducts   pageID = "products"
	pageInquiries  pageID = "inquiries"
)

var pageOrder = []pageID{pageCategories, pageProducts, pageInquiries}

// rowRecord is the uniform decode target for list rows across all three
// collections (fields absent from a collection's payload stay zero). The
// controller only needs the id; the rest feeds row rendering and action
// eligibility.
type rowRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Subject      string `json:"subject"`
	Company      string `json:"company"`
	SKU          string `json:"sku"`
	Slug         string `json:"slug"`
	Status       string `json:"status"`
	Price        string `json:"price"`
	Stock        int    `json:"stock"`
	ProductCount int    `json:"productCount"`
	Email        string `json:"email"`
	Description  string `json:"description"`
	Message      string `json:"message"`
}

func (r rowRecord) RecordID() string { return r.ID }

// title is the primary display line of a row regardless of collection.
func (r rowRecord) title() string {
	if strings.TrimSpace(r.Name) != "" {
		return r.Name
	}
	if strings.TrimSpace(r.Subject) != "" {
		return r.Subject
	}
	return r.ID
}

func (r rowRecord) subtitle() string {
	switch {
	case r.SKU != "":
		return r.SKU
	case r.Company != "":
		return r.Company
	case r.Slug != "":
		return r.Slug
	}
	return ""
}

// bulkAction is one entry of a page's bulk-action menu / row dropdown.
type bulkAction struct {
	Key    string // action name sent to the server
	Label  string
	Hotkey string
}

// pageSpec is the static per-collection configuration: which filters exist,
// how search commits, which bulk actions are offered and which of those are
// destructive enough to confirm.
type pageSpec struct {
	id    pageID
	title string

	ctl     listctl.Config
	actions []bulkAction

	// statusChoices drives the status filter cycle key.
	statusChoices []string

	// sortFields are the columns the sort key cycles through, first is the
	// default.
	sortFields []string
}

// defaultDirFor is the direction a column starts in when it becomes the sort
// field. Timestamps sort newest-first, everything else ascending.
func defaultDirFor(field string) query.Direction {
	switch field {
	case "createdAt", "updatedAt":
		return query.Desc
	}
	return query.Asc
}

func pageSpecs() map[pageID]pageSpec {
	return map[pageID]pageSpec{
		pageCategories: {
			id:    pageCategories,
			title: "Categories",
			ctl: listctl.Config{
				Collection:  "categories",
				FilterKeys:  []string{"status", "search"},
				PageSize:    25,
				DefaultSort: query.Sort{Field: "name", Direction: query.Asc},
				// Category search commits on Enter (small collection, exact
				// lookups).
				SearchMode:         listctl.SearchExplicit,
				AutoRefreshEvery:   5 * time.Minute,
				DestructiveActions: []string{"delete", "deactivate"},
			},
			actions: []bulkAction{
				{Key: "activate", Label: "Activate", Hotkey: "v"},
				{Key: "deactivate", Label: "Deactivate", Hotkey: "x"},
				{Key: "delete", Label: "Delete", Hotkey: "d"},
			},
			statusChoices: []string{"", "active", "inactive"},
			sortFields:    []string{"name", "productCount", "createdAt"},
		},
		pageProducts: {
			id:    pageProducts,
			title: "Products",
			ctl: listctl.Config{
				Collection:  "products",
				FilterKeys:  []string{"status", "search", "category"},
				PageSize:    25,
				DefaultSort: query.Sort{Field: "updatedAt", Direction: query.Desc},
				SearchMode:  listctl.SearchDebounced,
				// The catalog changes often; refresh sooner.
				AutoRefreshEvery:   2 * time.Minute,
				DestructiveActions: []string{"delete", "archive", "deactivate"},
			},
			actions: []bulkAction{
				{Key: "publish", Label: "Publish", Hotkey: "p"},
				{Key: "deactivate", Label: "Deactivate", Hotkey: "x"},
				{Key: "archive", Label: "Archive", Hotkey: "c"},
				{Key: "delete", Label: "Delete", Hotkey: "d"},
			},
			statusChoices: []string{"", "published", "draft", "inactive"},
			sortFields:    []string{"updatedAt", "name", "price", "stock"},
		},
		pageInquiries: {
			id:    pageInquiries,
			title: "Inquiries",
			ctl: listctl.Config{
				Collection:         "inquiries",
				FilterKeys:         []string{"status", "search", "dateRange"},
				PageSize:           25,
				DefaultSort:        query.Sort{Field: "createdAt", Direction: query.Desc},
				SearchMode:         listctl.SearchDebounced,
				AutoRefreshEvery:   2 * time.Minute,
				DestructiveActions: []string{"archive"},
			},
			actions: []bulkAction{
				{Key: "markAnswered", Label: "Mark answered", Hotkey: "k"},
				{Key: "markSpam", Label: "Mark as spam", Hotkey: "!"},
				{Key: "archive", Label: "Archive", Hotkey: "c"},
			},
			statusChoices: []string{"", "new", "open", "answered", "spam"},
			sortFields:    []string{"createdAt", "company", "status"},
		},
	}
}
