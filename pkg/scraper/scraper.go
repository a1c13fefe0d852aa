package scraper

import (
	"context"
	"path/filepath"
	"time"

	"pixivsave/pkg/browser"
	"pixivsave/pkg/config"
	"pixivsave/pkg/errors"
	"pixivsave/pkg/logger"
	"pixivsave/pkg/models"
	"pixivsave/pkg/pixiv"
	"pixivsave/pkg/ratelimit"
	"pixivsave/pkg/retry"
	"pixivsave/pkg/storage"
	"pixivsave/pkg/ui"
)

// Scraper orchestrates a capture run for one profile
type Scraper struct {
	config   *config.Config
	page     browser.Page
	limiter  ratelimit.Limiter
	reporter ui.Reporter
	logger   logger.Logger
}

// Option configures a Scraper
type Option func(*Scraper)

// WithReporter sends progress to r
func WithReporter(r ui.Reporter) Option {
	return func(s *Scraper) {
		s.reporter = r
	}
}

// WithLimiter replaces the navigation limiter built from the config
func WithLimiter(l ratelimit.Limiter) Option {
	return func(s *Scraper) {
		s.limiter = l
	}
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(s *Scraper) {
		s.logger = l
	}
}

// New creates a Scraper driving page. Every navigation it makes is paced
// by the limiter.
func New(cfg *config.Config, page browser.Page, opts ...Option) *Scraper {
	s := &Scraper{
		config:   cfg,
		reporter: ui.NopReporter{},
		logger:   logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.limiter == nil && cfg.RateLimit.RequestsPerMinute > 0 {
		s.limiter = ratelimit.PerMinute(cfg.RateLimit.RequestsPerMinute)
	}
	s.page = Paced(page, s.limiter)
	return s
}

// getOutputDir determines the output directory for a profile
func (s *Scraper) getOutputDir(profile *pixiv.Profile) string {
	if s.config.Output.CreateUserFolders {
		return filepath.Join(s.config.Output.BaseDirectory, profile.UserID)
	}
	return s.config.Output.BaseDirectory
}

// Run loads the profile, discovers its artworks and saves their images.
// The summary is returned even when err is not nil and reflects the work
// done up to that point. Per-artwork failures are not errors.
func (s *Scraper) Run(ctx context.Context, profile *pixiv.Profile) (*models.Summary, error) {
	start := time.Now()
	summary := &models.Summary{ProfileURL: profile.URL}
	finish := func(err error) (*models.Summary, error) {
		summary.Duration = time.Since(start)
		return summary, err
	}

	s.logger.InfoWithFields("Starting capture", map[string]interface{}{
		"profile": profile.URL,
		"user_id": profile.UserID,
	})

	if err := s.page.Navigate(ctx, profile.URL); err != nil {
		s.logger.WithError(err).WithField("profile", profile.URL).Error("Failed to open profile")
		return finish(err)
	}

	paginator := &Paginator{Reporter: s.reporter, Logger: s.logger}
	set, stats, err := paginator.Retrieve(ctx, s.page, profile.URL)
	summary.PagesScanned = stats.PagesScanned
	if err != nil {
		s.logger.WithError(err).Error("Listing scan failed")
		return finish(err)
	}

	links := set.Links()
	summary.LinksDiscovered = len(links)
	s.logger.InfoWithFields("Listing scan complete", map[string]interface{}{
		"total_works":   stats.TotalWorks,
		"pages":         stats.PagesScanned,
		"artworks":      len(links),
		"counter_found": stats.CounterFound,
	})

	if len(links) == 0 {
		s.logger.Info("No artworks found, nothing to save")
		return finish(nil)
	}

	outputDir := s.getOutputDir(profile)
	store, err := storage.NewManager(outputDir, s.config.Output.CreateDirectory)
	if err != nil {
		return finish(errors.Wrap(errors.ErrorTypeConfig, "output directory unusable", err))
	}

	dl := NewDownloader(store, DownloadOptions{
		MaxArtworks:      s.config.Download.MaxArtworks,
		ConcurrentWrites: s.config.Download.ConcurrentWrites,
		KeepExtension:    s.config.Output.KeepExtension,
		RetryAttempts:    s.config.Download.RetryAttempts,
		Backoff:          retry.NavigationBackoff(s.config.Download.RetryDelay, s.config.Download.RetryMaxDelay),
		DrainTimeout:     s.config.Browser.IdleTimeout,
		Reporter:         s.reporter,
		Logger:           s.logger,
	})
	summary.Results = dl.Download(ctx, s.page, links)

	for _, r := range summary.Results {
		summary.ImagesWritten += len(r.Images)
		summary.ImagesFailed += r.FailedImages
	}
	summary.Duration = time.Since(start)

	logger.LogMetrics("capture", map[string]interface{}{
		"output_dir":        store.GetOutputDir(),
		"artworks":          len(links),
		"success":           summary.Count(models.OutcomeSuccess),
		"navigation_failed": summary.Count(models.OutcomeNavigationFailed),
		"write_failed":      summary.Count(models.OutcomeWriteFailed),
		"skipped":           summary.Count(models.OutcomeSkipped),
		"images_written":    summary.ImagesWritten,
		"bytes_written":     store.GetWrittenBytes(),
		"duration_ms":       summary.Duration.Milliseconds(),
	})

	if err := ctx.Err(); err != nil {
		return finish(err)
	}
	return finish(nil)
}
