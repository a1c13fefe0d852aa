package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"pixivsave/pkg/ui"
)

// View renders the entire TUI
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderLogo())

	half := (m.width - 4) / 2
	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderStatsPanel(half),
		m.renderArtworksPanel(half),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderPacingPanel(half),
		m.renderLogsPanel(half),
	)
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))

	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, helpStyle.Render("Press ? for help, q to stop"))
	}

	return baseStyle.Width(m.width).Height(m.height).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

func (m *Model) renderLogo() string {
	logo := `┌─┐┬─┐ ┬┬┬  ┬┌─┐┌─┐┬  ┬┌─┐
├─┘│┌┴┬┘│└┐┌┘└─┐├─┤└┐┌┘├┤
┴  ┴┴ └─┴ └┘ └─┘┴ ┴ └┘ └─┘`
	return logoStyle.Width(m.width).Render(logo)
}

func (m *Model) renderStatsPanel(width int) string {
	title := titleStyle.Render(" RUN ")

	phase := m.phase.String()
	if m.phase != PhaseDone {
		phase = m.spinner.View() + " " + phase
	}

	row := func(label, value string) string {
		return fmt.Sprintf("%s %s", statsLabelStyle.Render(label), statsValueStyle.Render(value))
	}

	stats := []string{
		row("Phase:", phase),
		row("Elapsed:", formatDuration(time.Since(m.startTime))),
		row("Listing pages:", fmt.Sprintf("%d/%d", m.pagesScanned, max(m.totalPages, 1))),
		row("Artworks found:", fmt.Sprintf("%d", m.linksFound)),
		row("Visited:", fmt.Sprintf("%d/%d", m.visited, m.visitTotal)),
		row("Images saved:", fmt.Sprintf("%d (%s)", m.imagesSaved, ui.FormatBytes(m.bytesSaved))),
		row("Write rate:", FormatSpeed(m.SaveRate())),
	}
	if n := m.Failures(); n > 0 {
		stats = append(stats, errorStyle.Render(fmt.Sprintf("✗ %d errors", n)))
	}
	if m.phase == PhaseCapturing {
		stats = append(stats, "", m.progress.ViewAs(m.Percent()))
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, stats...)),
	)
}

func (m *Model) renderArtworksPanel(width int) string {
	title := titleStyle.Render(" RECENT ARTWORKS ")

	if len(m.artworks) == 0 {
		content := lipgloss.NewStyle().Foreground(dimWhite).Render("Nothing visited yet")
		return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
	}

	var items []string
	for _, a := range m.artworks {
		link := truncate(a.Link, width-8)
		if a.Failed {
			items = append(items, itemFailedStyle.Render("✗ "+link))
		} else {
			items = append(items, itemStyle.Render(successStyle.Render("✓ ")+link))
		}
	}
	if m.lastImage != "" {
		items = append(items, "", statsLabelStyle.Render("Last image: ")+truncate(m.lastImage, width-20))
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, items...)),
	)
}

func (m *Model) renderPacingPanel(width int) string {
	title := titleStyle.Render(" NAVIGATION PACING ")

	if m.pacingMax <= 0 {
		content := lipgloss.NewStyle().Foreground(dimWhite).Render("Unlimited")
		return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
	}

	usage := float64(m.pacingUsed) / float64(m.pacingMax) * 100
	barWidth := max(width-8, 1)
	filled := min(int(usage*float64(barWidth)/100), barWidth)

	style := GetPacingStyle(usage)
	bar := style.Render(strings.Repeat("█", filled)) +
		progressEmptyStyle.Render(strings.Repeat("░", barWidth-filled))

	content := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Last minute:"),
			style.Render(fmt.Sprintf("%d/%d (%.0f%%)", m.pacingUsed, m.pacingMax, usage))),
		bar,
	}
	if m.pacingUsed >= m.pacingMax {
		content = append(content, warningStyle.Render("waiting for the window to slide"))
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(content, "\n")),
	)
}

func (m *Model) renderLogsPanel(width int) string {
	title := titleStyle.Render(" EVENTS ")

	start := max(len(m.logMessages)-10, 0)

	var logs []string
	for _, log := range m.logMessages[start:] {
		timestamp := logTimestampStyle.Render(log.Time.Format("15:04:05"))
		level := lipgloss.NewStyle().Foreground(log.Color).Bold(true).Render(fmt.Sprintf("[%-7s]", log.Level))
		message := logMessageStyle.Render(truncate(log.Message, width-25))
		logs = append(logs, fmt.Sprintf("%s %s %s", timestamp, level, message))
	}

	content := strings.Join(logs, "\n")
	if content == "" {
		content = lipgloss.NewStyle().Foreground(dimWhite).Render("No events yet...")
	}

	logsHeight := max(m.height-24, 5)

	return panelStyle.Width(width).Height(logsHeight).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

func (m *Model) renderHelp() string {
	help := `
  Keys:
    q/Q      - Stop the run (files already written are kept)
    ctrl+l   - Clear events
    ?        - Toggle this help

  Status:
    ` + successStyle.Render("✓") + `        - Artwork visited
    ` + errorStyle.Render("✗") + `        - Navigation failed
    ` + warningStyle.Render("Orange") + `   - Pacing window nearly full
`
	return panelStyle.Width(m.width).Render(help)
}

// truncate cuts s to n runes, marking the cut
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// formatDuration formats a duration as mm:ss or hh:mm:ss
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "00:00"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
