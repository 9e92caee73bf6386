package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const toastVisibleFor = 4 * time.Second

// toastState is the one-line notification surface at the bottom of the
// screen. Each show bumps seq so a stale expiry tick can't clear a newer
// message.
type toastState struct {
	text     string
	severity string
	seq      int
	pending  bool
}

// history keeps the most recent toasts for the header bell dropdown.
const toastHistoryMax = 8

func (t *toastState) show(text, severity string) tea.Cmd {
	t.set(text, severity)
	return t.takeTick()
}

// set records a toast without scheduling its expiry. Controller hooks run
// inside Update and can't return commands, so they call set and Update
// collects the tick afterwards with takeTick.
func (t *toastState) set(text, severity string) {
	t.text = text
	t.severity = severity
	t.seq++
	t.pending = true
}

// takeTick returns the expiry command for the latest set, or nil when
// nothing new was shown.
func (t *toastState) takeTick() tea.Cmd {
	if !t.pending {
		return nil
	}
	t.pending = false
	seq := t.seq
	return tea.Tick(toastVisibleFor, func(time.Time) tea.Msg { return toastDoneMsg{seq: seq} })
}

func (t *toastState) expire(seq int) {
	if seq == t.seq {
		t.text = ""
	}
}

func (t *toastState) view(width int) string {
	if t.text == "" {
		return ""
	}
	st := lipgloss.NewStyle().
		Foreground(severityColor(t.severity)).
		Bold(t.severity == "error")
	return st.MaxWidth(width).Render(t.text)
}
