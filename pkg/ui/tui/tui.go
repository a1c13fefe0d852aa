package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"pixivsave/pkg/ui"
)

// TUI is a full screen progress view for a capture run
type TUI struct {
	program *tea.Program
	model   *Model
}

var _ ui.Reporter = (*TUI)(nil)

// NewTUI creates a new TUI. pacing may be nil.
func NewTUI(pacing PacingFunc, opts ...tea.ProgramOption) *TUI {
	model := NewModel(pacing)
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	program := tea.NewProgram(&model, opts...)

	return &TUI{
		program: program,
		model:   &model,
	}
}

// Start runs the program until the run finishes or the user quits
func (t *TUI) Start() error {
	_, err := t.program.Run()
	return err
}

// Stop stops the TUI
func (t *TUI) Stop() {
	t.program.Quit()
}

// Send sends a message to the TUI
func (t *TUI) Send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}

func (t *TUI) PageScanned(page, totalPages, found, accumulated int) {
	t.Send(PageScannedMsg{Page: page, TotalPages: totalPages, Found: found, Accumulated: accumulated})
}

func (t *TUI) VisitStarted(total int) {
	t.Send(VisitStartedMsg{Total: total})
}

func (t *TUI) ArtworkVisited(index, total int, link string, err error) {
	t.Send(ArtworkVisitedMsg{Index: index, Total: total, Link: link, Err: err})
}

func (t *TUI) ImageSaved(fileName string, size int) {
	t.Send(ImageSavedMsg{FileName: fileName, Size: size})
}

func (t *TUI) ImageFailed(fileName string, err error) {
	t.Send(ImageFailedMsg{FileName: fileName, Err: err})
}

// Finish tells the TUI the run returned, which also quits the program
func (t *TUI) Finish() {
	t.Send(RunFinishedMsg{})
}

// Log sends an event line to the TUI
func (t *TUI) Log(level, format string, args ...interface{}) {
	t.Send(LogMsg{Level: level, Message: fmt.Sprintf(format, args...)})
}
