package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
	barWidth      = 20
)

// StatusTracker prints a single progress line for a run
type StatusTracker struct {
	mu sync.Mutex

	PagesScanned   int
	TotalPages     int
	LinksFound     int
	Visited        int
	VisitTotal     int
	ImagesSaved    int
	ImagesFailed   int
	BytesSaved     int64
	NavFailures    int
	StartTime      time.Time
	currentArtwork string
}

var _ Reporter = (*StatusTracker)(nil)

// NewStatusTracker creates a new status tracker
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{
		StartTime: time.Now(),
	}
}

func (st *StatusTracker) PageScanned(page, totalPages, found, accumulated int) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.PagesScanned = page
	st.TotalPages = totalPages
	st.LinksFound = accumulated
	printf(false, "%s page %d/%d • %d found • %d artworks\n",
		Magenta("[SCANNING]"), page, max(totalPages, 1), found, accumulated)
}

func (st *StatusTracker) VisitStarted(total int) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.VisitTotal = total
	printf(false, "%s %d artworks\n", Cyan("[CAPTURING]"), total)
}

func (st *StatusTracker) ArtworkVisited(index, total int, link string, err error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.Visited = index + 1
	st.VisitTotal = total
	st.currentArtwork = link
	if err != nil {
		st.NavFailures++
	}
	st.printProgress()
}

func (st *StatusTracker) ImageSaved(fileName string, size int) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.ImagesSaved++
	st.BytesSaved += int64(size)
	st.printProgress()
}

func (st *StatusTracker) ImageFailed(fileName string, err error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.ImagesFailed++
	st.printProgress()
}

func (st *StatusTracker) progressBar() string {
	filled := 0
	if st.VisitTotal > 0 {
		filled = st.Visited * barWidth / st.VisitTotal
	}
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat(ProgressBar, filled) + strings.Repeat(ProgressEmpty, barWidth-filled)
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.StartTime)
}

// GetSaveRate returns images saved per minute
func (st *StatusTracker) GetSaveRate() float64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	elapsed := time.Since(st.StartTime).Minutes()
	if elapsed == 0 {
		return 0
	}
	return float64(st.ImagesSaved) / elapsed
}

// Finish ends the status line with the elapsed time and save rate
func (st *StatusTracker) Finish() {
	elapsed := st.GetElapsedTime().Round(time.Second)
	printf(false, "\n%s %s • %.1f images/min\n", Dim("[DONE]"), elapsed, st.GetSaveRate())
}

func (st *StatusTracker) printProgress() {
	line := fmt.Sprintf("%s [%s] %d/%d • %d images • %s",
		Green("[CAPTURED]"),
		st.progressBar(),
		st.Visited,
		st.VisitTotal,
		st.ImagesSaved,
		FormatBytes(st.BytesSaved),
	)
	if failed := st.ImagesFailed + st.NavFailures; failed > 0 {
		line += " • " + Red(fmt.Sprintf("%d errors", failed))
	}
	printf(false, "\r%s\r%s", strings.Repeat(" ", 100), line)
}
