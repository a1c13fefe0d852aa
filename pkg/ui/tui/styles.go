package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	accent     = lipgloss.Color("#0096FA")
	accentPink = lipgloss.Color("#FF4D88")
	okGreen    = lipgloss.Color("#39D353")
	warnYellow = lipgloss.Color("#FFD33D")
	warnOrange = lipgloss.Color("#FF8C00")
	darkBg     = lipgloss.Color("#0A0E1A")
	panelBg    = lipgloss.Color("#161B2A")
	dimWhite   = lipgloss.Color("#B0B0B0")

	baseStyle = lipgloss.NewStyle().
			Background(darkBg).
			Foreground(dimWhite)

	logoStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			Padding(1, 0).
			Align(lipgloss.Center)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Background(panelBg).
			Padding(0, 1)

	progressEmptyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#333333"))

	statsLabelStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	statsValueStyle = lipgloss.NewStyle().
			Foreground(warnYellow)

	successStyle = lipgloss.NewStyle().
			Foreground(okGreen).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warnOrange).
			Bold(true)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(1)

	itemFailedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			PaddingLeft(1)

	logTimestampStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666"))

	logMessageStyle = lipgloss.NewStyle().
			Foreground(dimWhite)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(1, 0, 0, 2)

	titleStyle = lipgloss.NewStyle().
			Background(accentPink).
			Foreground(darkBg).
			Bold(true).
			Padding(0, 1)

	pacingNormalStyle = lipgloss.NewStyle().
				Foreground(okGreen)

	pacingWarningStyle = lipgloss.NewStyle().
				Foreground(warnOrange)

	pacingCriticalStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF0000"))
)

// GetPacingStyle picks a color for navigation window usage in percent
func GetPacingStyle(usage float64) lipgloss.Style {
	switch {
	case usage >= 90:
		return pacingCriticalStyle
	case usage >= 70:
		return pacingWarningStyle
	default:
		return pacingNormalStyle
	}
}
