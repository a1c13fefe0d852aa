package scraper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixivsave/pkg/errors"
	"pixivsave/pkg/logger"
	"pixivsave/pkg/pixiv"
	"pixivsave/pkg/ui"
)

func loadProfile(t *testing.T, page *fakePage) {
	t.Helper()
	require.NoError(t, page.Navigate(context.Background(), testProfile))
}

func TestRetrieveArtworks_VisitsEveryPageOnce(t *testing.T) {
	page := newFakePage()
	page.html[testProfile] = listingHTML("100", 1, 2, 3, 1)
	page.html[testProfile+"?p=2"] = listingHTML("100", 3, 4)
	page.html[testProfile+"?p=3"] = listingHTML("100", 5)
	loadProfile(t, page)

	set, stats, err := RetrieveArtworks(context.Background(), page, testProfile)
	require.NoError(t, err)

	assert.Equal(t, PaginationStats{TotalWorks: 100, PageCount: 3, PagesScanned: 3, CounterFound: true}, stats)
	assert.Equal(t, []string{testProfile, testProfile + "?p=2", testProfile + "?p=3"}, page.Visits())
	assert.Equal(t, 5, set.Len())
	for id := 1; id <= 5; id++ {
		assert.True(t, set.Contains(artworkURL(id)), "artwork %d", id)
	}
}

func TestRetrieveArtworks_SinglePage(t *testing.T) {
	page := newFakePage()
	page.html[testProfile] = listingHTML("48", 1, 2)
	loadProfile(t, page)

	set, stats, err := RetrieveArtworks(context.Background(), page, testProfile)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PageCount)
	assert.Equal(t, 2, set.Len())
	assert.Len(t, page.Visits(), 1)
}

func TestRetrieveArtworks_MissingCounter(t *testing.T) {
	log := logger.NewTestLogger()
	page := newFakePage()
	page.html[testProfile] = listingHTML("", 1, 2)
	loadProfile(t, page)

	p := &Paginator{Logger: log}
	set, stats, err := p.Retrieve(context.Background(), page, testProfile)
	require.NoError(t, err)

	assert.False(t, stats.CounterFound)
	assert.Equal(t, 0, stats.TotalWorks)
	assert.Equal(t, 1, stats.PagesScanned)
	assert.Equal(t, 2, set.Len())
	assert.True(t, log.HasMessage("Works counter not found, scanning first page only"))
	warnings := log.GetMessagesByLevel("WARN")
	require.Len(t, warnings, 1)
	assert.Equal(t, testProfile, warnings[0].Fields["url"])
}

func TestRetrieveArtworks_UnreadableCounter(t *testing.T) {
	log := logger.NewTestLogger()
	page := newFakePage()
	page.html[testProfile] = listingHTML("many", 7)
	loadProfile(t, page)

	p := &Paginator{Logger: log}
	set, stats, err := p.Retrieve(context.Background(), page, testProfile)
	require.NoError(t, err)

	assert.False(t, stats.CounterFound)
	assert.Equal(t, 1, set.Len())
	assert.Len(t, log.GetMessagesByLevel("WARN"), 1)
}

func TestRetrieveArtworks_NavigationErrorIsFatal(t *testing.T) {
	page := newFakePage()
	page.html[testProfile] = listingHTML("200", 1)
	page.html[testProfile+"?p=2"] = listingHTML("200", 2)
	page.failures[testProfile+"?p=3"] = 1
	loadProfile(t, page)

	set, stats, err := RetrieveArtworks(context.Background(), page, testProfile)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeNavigation))
	assert.Equal(t, 2, stats.PagesScanned)
	assert.Equal(t, 2, set.Len())

	// page 4 is never reached
	assert.NotContains(t, page.Visits(), testProfile+"?p=4")
}

type recordingReporter struct {
	ui.NopReporter
	pages []int
}

func (r *recordingReporter) PageScanned(page, totalPages, found, accumulated int) {
	r.pages = append(r.pages, page)
}

func TestRetrieveArtworks_ReportsPages(t *testing.T) {
	page := newFakePage()
	page.html[testProfile] = listingHTML("60", 1)
	page.html[testProfile+"?p=2"] = listingHTML("60", 2)
	loadProfile(t, page)

	reporter := &recordingReporter{}
	p := &Paginator{Reporter: reporter, Logger: logger.NewNopLogger()}
	_, _, err := p.Retrieve(context.Background(), page, testProfile)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, reporter.pages)
	assert.Equal(t, 2, pixiv.PageCount(60))
}
