package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pixivsave/pkg/ui"
)

// Phase is the stage a run is in
type Phase int

const (
	PhaseScanning Phase = iota
	PhaseCapturing
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseScanning:
		return "SCANNING"
	case PhaseCapturing:
		return "CAPTURING"
	case PhaseDone:
		return "DONE"
	}
	return "UNKNOWN"
}

// ArtworkItem is one visited artwork
type ArtworkItem struct {
	Link   string
	Failed bool
	Err    error
}

// PacingFunc reports navigations in the current window and the window limit
type PacingFunc func() (used, max int)

// Model is the bubbletea model for a capture run
type Model struct {
	spinner  spinner.Model
	progress progress.Model

	phase        Phase
	pagesScanned int
	totalPages   int
	linksFound   int

	visited     int
	visitTotal  int
	navFailures int
	artworks    []*ArtworkItem
	maxRecent   int

	imagesSaved  int
	imagesFailed int
	bytesSaved   int64
	lastImage    string

	pacing     PacingFunc
	pacingUsed int
	pacingMax  int

	startTime      time.Time
	width          int
	height         int
	showHelp       bool
	logMessages    []LogMessage
	maxLogMessages int
}

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.Color
}

// NewModel creates a new model. pacing may be nil.
func NewModel(pacing PacingFunc) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accent)

	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40

	return Model{
		spinner:        s,
		progress:       p,
		pacing:         pacing,
		maxRecent:      6,
		startTime:      time.Now(),
		maxLogMessages: 50,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

// ScanPage records a scanned listing page
func (m *Model) ScanPage(page, totalPages, found, accumulated int) {
	m.phase = PhaseScanning
	m.pagesScanned = page
	m.totalPages = totalPages
	m.linksFound = accumulated
	m.AddLogMessage("INFO", fmt.Sprintf("Listing page %d: %d artworks", page, found))
}

// StartVisits switches to the capture phase
func (m *Model) StartVisits(total int) {
	m.phase = PhaseCapturing
	m.visitTotal = total
	m.AddLogMessage("INFO", fmt.Sprintf("Visiting %d artworks", total))
}

// VisitArtwork records a finished artwork visit
func (m *Model) VisitArtwork(index, total int, link string, err error) {
	m.visited = index + 1
	m.visitTotal = total

	m.artworks = append(m.artworks, &ArtworkItem{Link: link, Failed: err != nil, Err: err})
	if len(m.artworks) > m.maxRecent {
		m.artworks = m.artworks[len(m.artworks)-m.maxRecent:]
	}

	if err != nil {
		m.navFailures++
		m.AddLogMessage("ERROR", "Navigation failed: "+link)
	}
}

// SaveImage records a written image
func (m *Model) SaveImage(fileName string, size int) {
	m.imagesSaved++
	m.bytesSaved += int64(size)
	m.lastImage = fileName
}

// FailImage records an image that could not be written
func (m *Model) FailImage(fileName string, err error) {
	m.imagesFailed++
	msg := "Write failed"
	if fileName != "" {
		msg += ": " + fileName
	}
	if err != nil {
		msg += " - " + err.Error()
	}
	m.AddLogMessage("ERROR", msg)
}

// Finish marks the run as done
func (m *Model) Finish() {
	m.phase = PhaseDone
	m.AddLogMessage("SUCCESS", fmt.Sprintf("Captured %d images", m.imagesSaved))
}

// Percent returns the fraction of artworks visited
func (m *Model) Percent() float64 {
	if m.visitTotal == 0 {
		if m.phase == PhaseDone {
			return 1
		}
		return 0
	}
	p := float64(m.visited) / float64(m.visitTotal)
	if p > 1 {
		p = 1
	}
	return p
}

// Failures returns failed visits plus failed image writes
func (m *Model) Failures() int {
	return m.navFailures + m.imagesFailed
}

// AddLogMessage adds a log message
func (m *Model) AddLogMessage(level, message string) {
	color := dimWhite
	switch level {
	case "ERROR":
		color = lipgloss.Color("#FF0000")
	case "WARN":
		color = warnOrange
	case "SUCCESS":
		color = okGreen
	case "INFO":
		color = accent
	}

	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   color,
	})

	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}

// SaveRate returns bytes written per second since the run started
func (m *Model) SaveRate() float64 {
	elapsed := time.Since(m.startTime).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(m.bytesSaved) / elapsed
}

// FormatSpeed formats speed in bytes per second
func FormatSpeed(bytesPerSecond float64) string {
	return fmt.Sprintf("%s/s", ui.FormatBytes(int64(bytesPerSecond)))
}
