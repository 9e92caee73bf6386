package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The console must stay readable on both light and dark terminal backgrounds,
// so colors are lipgloss.AdaptiveColor throughout and "faint" styling is only
// applied on dark backgrounds (faint on light terminals often becomes
// illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted    lipgloss.TerminalColor = ac("240", "243")
	colorAccent   lipgloss.TerminalColor = ac("27", "62") // blue
	colorAccentFg lipgloss.TerminalColor = ac("255", "235")

	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")

	colorSurfaceBg lipgloss.TerminalColor = ac("255", "235")
	colorSurfaceFg lipgloss.TerminalColor = ac("235", "252")
	colorControlBg lipgloss.TerminalColor = ac("252", "235")

	// Toast severities.
	colorToastInfo    lipgloss.TerminalColor = ac("27", "75")   // blue
	colorToastSuccess lipgloss.TerminalColor = ac("28", "78")   // green
	colorToastWarning lipgloss.TerminalColor = ac("130", "214") // amber
	colorToastError   lipgloss.TerminalColor = ac("124", "203") // red

	// Status badges on rows.
	colorStatusActive   lipgloss.TerminalColor = ac("28", "78")
	colorStatusPending  lipgloss.TerminalColor = ac("130", "214")
	colorStatusInactive lipgloss.TerminalColor = ac("240", "243")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleStatusBadge(status string) lipgloss.Style {
	st := lipgloss.NewStyle()
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active", "published", "answered", "approved":
		return st.Foreground(colorStatusActive)
	case "pending", "draft", "open", "new":
		return st.Foreground(colorStatusPending)
	default:
		return st.Foreground(colorStatusInactive)
	}
}

func severityColor(severity string) lipgloss.TerminalColor {
	switch severity {
	case "success":
		return colorToastSuccess
	case "warning":
		return colorToastWarning
	case "error":
		return colorToastError
	default:
		return colorToastInfo
	}
}

// applyColorProfilePreference sets Lip Gloss's color profile for the TUI.
// Only NO_COLOR is honored explicitly; otherwise the terminal's capabilities
// decide (CLICOLOR handling is for non-interactive output, not a TUI).
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures background detection for AdaptiveColor.
// Some terminals don't report their background reliably, so an explicit
// BAZAAR_TUI_THEME wins, then the COLORFGBG heuristic.
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("BAZAAR_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
