package scraper

import (
	"context"

	"pixivsave/pkg/browser"
	"pixivsave/pkg/errors"
	"pixivsave/pkg/logger"
	"pixivsave/pkg/pixiv"
	"pixivsave/pkg/ui"
)

// PaginationStats describes a finished listing scan
type PaginationStats struct {
	TotalWorks   int
	PageCount    int
	PagesScanned int
	// CounterFound is false when the works total was missing or unreadable
	CounterFound bool
}

// Paginator walks the listing pages of a profile
type Paginator struct {
	Reporter ui.Reporter
	Logger   logger.Logger
}

// RetrieveArtworks scans every listing page of the profile whose first
// page is already loaded in page.
func RetrieveArtworks(ctx context.Context, page browser.Page, baseURL string) (*pixiv.LinkSet, PaginationStats, error) {
	return (&Paginator{}).Retrieve(ctx, page, baseURL)
}

// Retrieve collects page 1, reads the works total to size the scan, then
// navigates to and collects pages 2..N. Each page is visited once and the
// links of every page end up in the returned set.
func (p *Paginator) Retrieve(ctx context.Context, page browser.Page, baseURL string) (*pixiv.LinkSet, PaginationStats, error) {
	log := p.Logger
	if log == nil {
		log = logger.GetLogger()
	}
	reporter := p.Reporter
	if reporter == nil {
		reporter = ui.NopReporter{}
	}

	var stats PaginationStats
	set := pixiv.NewLinkSet()

	snap, err := page.Snapshot(ctx)
	if err != nil {
		return set, stats, err
	}
	found := artworkLinks(snap)
	set.Add(found...)
	stats.PagesScanned = 1

	stats.TotalWorks, stats.CounterFound = worksTotal(snap, log)
	stats.PageCount = pixiv.PageCount(stats.TotalWorks)

	pages := max(stats.PageCount, 1)
	logger.LogPageScan(1, pages, len(found), set.Len())
	reporter.PageScanned(1, pages, len(found), set.Len())

	for n := 2; n <= stats.PageCount; n++ {
		if err := ctx.Err(); err != nil {
			return set, stats, err
		}

		url := pixiv.ListingPageURL(baseURL, n)
		if err := page.Navigate(ctx, url); err != nil {
			if errors.TypeOf(err) == errors.ErrorTypeUnknown {
				err = errors.Navigation(url, err)
			}
			return set, stats, err
		}

		links, err := CollectArtworks(ctx, page)
		if err != nil {
			return set, stats, err
		}
		set.Add(links...)
		stats.PagesScanned = n

		logger.LogPageScan(n, pages, len(links), set.Len())
		reporter.PageScanned(n, pages, len(links), set.Len())
	}

	return set, stats, nil
}

// worksTotal reads the "Works" counter. A missing or unreadable counter
// counts as zero, which limits the scan to the first page.
func worksTotal(snap *browser.Snapshot, log logger.Logger) (int, bool) {
	text, ok := pixiv.WorksCountText(snap.Doc)
	if !ok {
		log.WithField("url", snap.Location).Warn("Works counter not found, scanning first page only")
		return 0, false
	}

	total, err := pixiv.ParseWorksCount(text)
	if err != nil {
		log.WithError(err).WithField("url", snap.Location).Warn("Works counter unreadable, scanning first page only")
		return 0, false
	}
	return total, true
}
