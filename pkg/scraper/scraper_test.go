package scraper

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixivsave/pkg/browser"
	"pixivsave/pkg/config"
	"pixivsave/pkg/errors"
	"pixivsave/pkg/logger"
	"pixivsave/pkg/models"
	"pixivsave/pkg/pixiv"
)

// countingLimiter never blocks and counts how often it was consulted
type countingLimiter struct {
	mu    sync.Mutex
	waits int
}

func (l *countingLimiter) Allow() bool { return true }
func (l *countingLimiter) Reset()      {}
func (l *countingLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.waits++
	return ctx.Err()
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Output.BaseDirectory = filepath.Join(t.TempDir(), "files")
	cfg.Browser.IdleTimeout = time.Second
	return cfg
}

func testProfileOf(t *testing.T) *pixiv.Profile {
	t.Helper()
	profile, err := pixiv.ValidateProfileURL(testProfile)
	require.NoError(t, err)
	return profile
}

func TestScraperRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.CreateUserFolders = true

	page, _ := galleryPage(1, 2, 3)
	page.html[testProfile] = listingHTML("52", 1, 2)
	page.html[testProfile+"?p=2"] = listingHTML("52", 2, 3)

	limiter := &countingLimiter{}
	s := New(cfg, page, WithLimiter(limiter), WithLogger(logger.NewNopLogger()))

	summary, err := s.Run(context.Background(), testProfileOf(t))
	require.NoError(t, err)

	assert.Equal(t, testProfile, summary.ProfileURL)
	assert.Equal(t, 2, summary.PagesScanned)
	assert.Equal(t, 3, summary.LinksDiscovered)
	assert.Equal(t, 3, summary.Count(models.OutcomeSuccess))
	assert.Equal(t, 3, summary.ImagesWritten)
	assert.Empty(t, summary.FailedLinks())
	assert.Greater(t, summary.Duration, time.Duration(0))

	// profile + page 2 + three artworks
	assert.Equal(t, 5, limiter.waits)

	entries, err := os.ReadDir(filepath.Join(cfg.Output.BaseDirectory, "42"))
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestScraperRun_ZeroArtworksWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	page := newFakePage()
	page.html[testProfile] = listingHTML("0")

	summary, err := New(cfg, page, WithLimiter(&countingLimiter{})).Run(context.Background(), testProfileOf(t))
	require.NoError(t, err)

	assert.Equal(t, 0, summary.LinksDiscovered)
	assert.Empty(t, summary.Results)
	assert.NoDirExists(t, cfg.Output.BaseDirectory)
}

func TestScraperRun_ProfileNavigationFails(t *testing.T) {
	cfg := testConfig(t)
	page := newFakePage()
	page.failures[testProfile] = 1
	page.navErr = errors.Navigation(testProfile, context.DeadlineExceeded)

	summary, err := New(cfg, page, WithLimiter(&countingLimiter{})).Run(context.Background(), testProfileOf(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeNavigation))
	assert.Equal(t, 0, summary.PagesScanned)
}

func TestScraperRun_PartialFailuresAreNotErrors(t *testing.T) {
	cfg := testConfig(t)
	page, links := galleryPage(1, 2)
	page.html[testProfile] = listingHTML("2", 1, 2)
	page.failures[links[0]] = 1

	summary, err := New(cfg, page, WithLimiter(&countingLimiter{})).Run(context.Background(), testProfileOf(t))
	require.NoError(t, err)

	failed := summary.FailedLinks()
	require.Len(t, failed, 1)
	assert.Equal(t, links[0], failed[0].Link)
	assert.Equal(t, models.OutcomeNavigationFailed, failed[0].Outcome)
	assert.Equal(t, 1, summary.ImagesWritten)
}

func TestScraperRun_RetryDelayFromConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Download.RetryAttempts = 2
	cfg.Download.RetryDelay = 50 * time.Millisecond
	page, links := galleryPage(1)
	page.failures[links[0]] = 1

	start := time.Now()
	summary, err := New(cfg, page, WithLimiter(&countingLimiter{})).Run(context.Background(), testProfileOf(t))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 45*time.Millisecond)
	assert.Equal(t, 1, summary.Count(models.OutcomeSuccess))
	attempts := 0
	for _, url := range page.Visits() {
		if url == links[0] {
			attempts++
		}
	}
	assert.Equal(t, 2, attempts)
}

func TestScraperRun_MissingOutputDirectory(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.CreateDirectory = false

	page, _ := galleryPage(1)
	page.html[testProfile] = listingHTML("1", 1)

	_, err := New(cfg, page, WithLimiter(&countingLimiter{})).Run(context.Background(), testProfileOf(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeConfig))
}

func TestPaced(t *testing.T) {
	page := newFakePage()
	assert.Same(t, browser.Page(page), Paced(page, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paced := Paced(page, &countingLimiter{})
	err := paced.Navigate(ctx, testProfile)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeNavigation))
	assert.Empty(t, page.Visits())
}
