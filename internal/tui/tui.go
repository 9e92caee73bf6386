package tui

import (
	"bazaar-cli/internal/api"
	"bazaar-cli/internal/prefs"

	tea "github.com/charmbracelet/bubbletea"
)

func Run(client *api.Client, store prefs.Store) error {
	applyColorProfilePreference()
	applyThemePreference()
	m := newAppModel(client, store)
	_, err := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	).Run()
	return err
}
