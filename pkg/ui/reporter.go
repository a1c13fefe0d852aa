package ui

// Reporter receives run progress from the scraper
type Reporter interface {
	PageScanned(page, totalPages, found, accumulated int)
	VisitStarted(total int)
	ArtworkVisited(index, total int, link string, err error)
	ImageSaved(fileName string, size int)
	ImageFailed(fileName string, err error)
}

// NopReporter discards progress
type NopReporter struct{}

func (NopReporter) PageScanned(page, totalPages, found, accumulated int)    {}
func (NopReporter) VisitStarted(total int)                                  {}
func (NopReporter) ArtworkVisited(index, total int, link string, err error) {}
func (NopReporter) ImageSaved(fileName string, size int)                    {}
func (NopReporter) ImageFailed(fileName string, err error)                  {}
