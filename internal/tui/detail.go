package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Cache renderers by wrap width. Creating a renderer with WithAutoStyle
	// can trigger terminal capability queries that block on some terminals,
	// so we pin a style and cache per width.
	mdRenderers = map[int]*glamour.TermRenderer{}
)

func markdownStyle() string {
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	mdRendererMu.Lock()
	r := mdRenderers[width]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(markdownStyle()),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[width]; existing != nil {
			r = existing
		} else {
			mdRenderers[width] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// renderDetail renders the side panel for the focused row: metadata lines
// plus the long-form body (product description / inquiry message) as
// markdown.
func renderDetail(p pageID, row rowRecord, fav bool, width, height int) string {
	if width < 20 {
		width = 20
	}
	title := lipgloss.NewStyle().Bold(true).Render(row.title())

	var meta []string
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			meta = append(meta, styleMuted().Render(label+": ")+value)
		}
	}
	add("Status", displayStatus(row.Status))
	switch p {
	case pageCategories:
		add("Slug", row.Slug)
		add("Products", fmt.Sprintf("%d", row.ProductCount))
	case pageProducts:
		add("SKU", row.SKU)
		add("Price", row.Price)
		add("Stock", fmt.Sprintf("%d", row.Stock))
		if fav {
			meta = append(meta, styleMuted().Render("Favorite: ")+"yes")
		}
	case pageInquiries:
		add("Company", row.Company)
		add("Email", row.Email)
	}

	body := row.Description
	if p == pageInquiries {
		body = row.Message
	}
	md := renderMarkdown(body, width-2)

	parts := []string{title, strings.Join(meta, "\n")}
	if md != "" {
		parts = append(parts, "", md)
	}
	out := strings.Join(parts, "\n")
	return lipgloss.NewStyle().Width(width).MaxHeight(height).Render(out)
}
