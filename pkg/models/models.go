package models

import "time"

// ArtworkLink is the URL of one gallery item
type ArtworkLink = string

// CapturedImage is one master image observed while an artwork page loaded
type CapturedImage struct {
	Identifier string `json:"identifier"`
	FileName   string `json:"file_name"`
	URL        string `json:"url"`
	Artwork    string `json:"artwork"`
	Body       []byte `json:"-"`
}

// Outcome is the typed result of visiting one artwork link
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeNavigationFailed Outcome = "navigationFailed"
	OutcomeWriteFailed      Outcome = "writeFailed"
	OutcomeSkipped          Outcome = "skipped"
)

// LinkResult records what happened to one artwork link
type LinkResult struct {
	Link    string   `json:"link"`
	Outcome Outcome  `json:"outcome"`
	Images  []string `json:"images,omitempty"`
	// FailedImages counts captured images of this artwork that were not written
	FailedImages int   `json:"failed_images,omitempty"`
	Err          error `json:"-"`
}

// Failed reports whether the link ended in an error
func (r LinkResult) Failed() bool {
	return r.Outcome == OutcomeNavigationFailed || r.Outcome == OutcomeWriteFailed
}

// Summary describes a finished run
type Summary struct {
	ProfileURL      string        `json:"profile_url"`
	PagesScanned    int           `json:"pages_scanned"`
	LinksDiscovered int           `json:"links_discovered"`
	Results         []LinkResult  `json:"results"`
	ImagesWritten   int           `json:"images_written"`
	ImagesFailed    int           `json:"images_failed"`
	Duration        time.Duration `json:"duration"`
}

// FailedLinks returns the results that ended in an error
func (s *Summary) FailedLinks() []LinkResult {
	var failed []LinkResult
	for _, r := range s.Results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	return failed
}

// Count returns how many results have the given outcome
func (s *Summary) Count(o Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}
