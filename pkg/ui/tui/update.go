package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// PageScannedMsg is sent after a listing page was collected
type PageScannedMsg struct {
	Page        int
	TotalPages  int
	Found       int
	Accumulated int
}

// VisitStartedMsg is sent when the capture phase begins
type VisitStartedMsg struct {
	Total int
}

// ArtworkVisitedMsg is sent after each artwork navigation
type ArtworkVisitedMsg struct {
	Index int
	Total int
	Link  string
	Err   error
}

// ImageSavedMsg is sent when an image was written
type ImageSavedMsg struct {
	FileName string
	Size     int
}

// ImageFailedMsg is sent when an image could not be written
type ImageFailedMsg struct {
	FileName string
	Err      error
}

// RunFinishedMsg is sent once the run returned
type RunFinishedMsg struct{}

// LogMsg is sent to add a log message
type LogMsg struct {
	Level   string
	Message string
}

// TickMsg is sent periodically to update the UI
type TickMsg time.Time

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(10, m.width/2-20)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		if m.pacing != nil {
			m.pacingUsed, m.pacingMax = m.pacing()
		}
		return m, tickCmd()

	case PageScannedMsg:
		m.ScanPage(msg.Page, msg.TotalPages, msg.Found, msg.Accumulated)
		return m, nil

	case VisitStartedMsg:
		m.StartVisits(msg.Total)
		return m, nil

	case ArtworkVisitedMsg:
		m.VisitArtwork(msg.Index, msg.Total, msg.Link, msg.Err)
		return m, nil

	case ImageSavedMsg:
		m.SaveImage(msg.FileName, msg.Size)
		return m, nil

	case ImageFailedMsg:
		m.FailImage(msg.FileName, msg.Err)
		return m, nil

	case RunFinishedMsg:
		m.Finish()
		return m, tea.Quit

	case LogMsg:
		m.AddLogMessage(msg.Level, msg.Message)
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "ctrl+l":
		m.logMessages = m.logMessages[:0]
		return m, nil
	}

	return m, nil
}

// tickCmd returns a command that sends a tick message
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*250, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
