package tui

import (
	"context"
	"time"

	"bazaar-cli/internal/listctl"
	"bazaar-cli/internal/prefs"

	tea "github.com/charmbracelet/bubbletea"
)

const requestTimeout = 15 * time.Second

func (m appModel) fetchCmd(p pageID, req listctl.Request) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		res, err := client.List(ctx, req.Collection, req.Params)
		return listResultMsg{page: p, seq: req.Seq, res: res, err: err}
	}
}

func (m appModel) summaryCmd(p pageID) tea.Cmd {
	client := m.client
	collection := m.pages[p].spec.ctl.Collection
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		stats, err := client.Summary(ctx, collection)
		return summaryMsg{page: p, stats: stats, err: err}
	}
}

func (m appModel) bulkCmd(p pageID, req listctl.BulkRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		msg, err := client.BulkAction(ctx, req.Collection, req.Action, req.IDs, req.Reason)
		return bulkDoneMsg{page: p, req: req, message: msg, err: err}
	}
}

func (m appModel) submitCmd(p pageID, fm *formModal) tea.Cmd {
	client := m.client
	ctl := fm.ctl
	payload := ctl.Payload()
	files := ctl.Attachments()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		var err error
		switch {
		case len(files) > 0:
			_, err = client.CreateMultipart(ctx, ctl.Collection, payload, files)
		case ctl.RecordID != "":
			_, err = client.Update(ctx, ctl.Collection, ctl.RecordID, payload)
		default:
			_, err = client.Create(ctx, ctl.Collection, payload)
		}
		return submitDoneMsg{page: p, err: err}
	}
}

func favCmd(store prefs.Store, productID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		on, err := store.ToggleFavorite(ctx, productID)
		return favToggledMsg{productID: productID, on: on, err: err}
	}
}

func debounceCmd(p pageID, token int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return searchDebounceMsg{page: p, token: token}
	})
}

func autoRefreshCmd(p pageID, every time.Duration) tea.Cmd {
	if every <= 0 {
		return nil
	}
	return tea.Tick(every, func(time.Time) tea.Msg {
		return autoRefreshMsg{page: p}
	})
}

func saveLastTabCmd(store prefs.Store, tab pageID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = store.SetLastTab(ctx, string(tab))
		return nil
	}
}
