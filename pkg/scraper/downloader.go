package scraper

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"pixivsave/internal/downloader"
	"pixivsave/pkg/browser"
	"pixivsave/pkg/errors"
	"pixivsave/pkg/logger"
	"pixivsave/pkg/models"
	"pixivsave/pkg/pixiv"
	"pixivsave/pkg/retry"
	"pixivsave/pkg/ui"
)

const defaultDrainTimeout = 30 * time.Second

// DownloadOptions tunes a Downloader
type DownloadOptions struct {
	// MaxArtworks bounds how many links are visited, 0 means all
	MaxArtworks      int
	ConcurrentWrites int
	// KeepExtension names files "<id>.<ext>" instead of "<id>"
	KeepExtension bool
	RetryAttempts int
	// Backoff spaces navigation retries
	Backoff retry.Backoff
	// DrainTimeout bounds each wait for pending response bodies
	DrainTimeout time.Duration
	Reporter     ui.Reporter
	Logger       logger.Logger
}

// Downloader visits artwork pages and writes the master images they load
type Downloader struct {
	storage downloader.ImageStorage
	opts    DownloadOptions
	logger  logger.Logger
}

// NewDownloader creates a Downloader writing through storage
func NewDownloader(storage downloader.ImageStorage, opts DownloadOptions) *Downloader {
	if opts.ConcurrentWrites < 1 {
		opts.ConcurrentWrites = 2
	}
	if opts.RetryAttempts < 1 {
		opts.RetryAttempts = 1
	}
	if opts.Backoff == nil {
		opts.Backoff = retry.NavigationBackoff(2*time.Second, 30*time.Second)
	}
	if opts.DrainTimeout <= 0 {
		opts.DrainTimeout = defaultDrainTimeout
	}
	if opts.Reporter == nil {
		opts.Reporter = ui.NopReporter{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}

	return &Downloader{
		storage: storage,
		opts:    opts,
		logger:  opts.Logger,
	}
}

// visitState collects what happened while one link was current
type visitState struct {
	visited   bool
	navErr    error
	images    []string
	failed    int
	lastError error
}

// Download visits links in order and returns one result per link. Links
// past the visit limit, or not reached before ctx ended, are skipped.
//
// A single response subscription is registered before the first
// navigation. Images are attributed to the link being visited when their
// response arrives. Before returning, every pending body is drained and
// every queued write is flushed.
func (d *Downloader) Download(ctx context.Context, page browser.Page, links []string) []models.LinkResult {
	results := make([]models.LinkResult, len(links))
	for i, link := range links {
		results[i] = models.LinkResult{Link: link, Outcome: models.OutcomeSkipped}
	}

	limit := len(links)
	if d.opts.MaxArtworks > 0 && d.opts.MaxArtworks < limit {
		limit = d.opts.MaxArtworks
	}
	if limit == 0 {
		return results
	}

	pool := downloader.NewWorkerPool(d.opts.ConcurrentWrites, d.storage, d.logger)
	pool.Start()

	logger.LogComponentStart("downloader", map[string]interface{}{
		"links":             len(links),
		"visit_limit":       limit,
		"concurrent_writes": pool.GetActiveWorkers(),
		"retry_attempts":    d.opts.RetryAttempts,
	})

	var (
		mu      sync.Mutex
		current = -1
		closed  bool
		states  = make([]visitState, limit)
	)

	recordFailure := func(idx int, err error) {
		mu.Lock()
		defer mu.Unlock()
		states[idx].failed++
		states[idx].lastError = err
	}

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		for res := range pool.Results() {
			idx := res.Job.Index
			if res.Success {
				mu.Lock()
				states[idx].images = append(states[idx].images, res.Job.Image.FileName)
				mu.Unlock()
				d.opts.Reporter.ImageSaved(res.Job.Image.FileName, res.Size)
				continue
			}
			recordFailure(idx, res.Error)
			d.opts.Reporter.ImageFailed(res.Job.Image.FileName, res.Error)
		}
	}()

	unsubscribe := page.OnResponse(pixiv.IsMasterImage, func(resp browser.Response) {
		mu.Lock()
		idx := current
		if closed {
			idx = -1
		}
		mu.Unlock()
		if idx < 0 {
			return
		}

		if resp.Err != nil {
			d.logger.WithError(resp.Err).WithField("url", resp.URL).Warn("Image body unavailable")
			recordFailure(idx, resp.Err)
			d.opts.Reporter.ImageFailed("", resp.Err)
			return
		}

		id, name, err := pixiv.ExtractImageName(resp.URL)
		if err != nil {
			d.logger.WithError(err).Warn("Image url has no file name")
			recordFailure(idx, err)
			d.opts.Reporter.ImageFailed("", err)
			return
		}
		if !d.opts.KeepExtension {
			name = id
		}

		job := downloader.WriteJob{
			Image: models.CapturedImage{
				Identifier: id,
				FileName:   name,
				URL:        resp.URL,
				Artwork:    links[idx],
				Body:       resp.Body,
			},
			Index: idx,
		}
		if err := pool.Submit(job); err != nil {
			recordFailure(idx, errors.Write(name, err))
			return
		}
		d.logger.DebugWithFields("Image queued", map[string]interface{}{
			"file":   name,
			"queued": pool.GetQueueSize(),
		})
	})

	retryCfg := &retry.Config{
		MaxAttempts: d.opts.RetryAttempts,
		Backoff:     d.opts.Backoff,
		RetryIf:     retry.DefaultRetryIf,
		Logger:      d.logger,
	}

	d.opts.Reporter.VisitStarted(limit)

	for i := 0; i < limit; i++ {
		if ctx.Err() != nil {
			break
		}
		link := links[i]

		mu.Lock()
		current = i
		mu.Unlock()

		err := retry.Do(ctx, func(ctx context.Context) error {
			return page.Navigate(ctx, link)
		}, retryCfg)
		if err != nil && ctx.Err() != nil {
			// interrupted, leave the link skipped
			break
		}

		mu.Lock()
		states[i].visited = true
		states[i].navErr = err
		mu.Unlock()

		// Settle this artwork's bodies before moving on so they are
		// attributed to it. A failed navigation may still have loaded some.
		d.drain(ctx, page)

		if err != nil {
			d.logger.WithError(err).WithField("link", link).Warn("Artwork navigation failed, continuing")
		}
		d.opts.Reporter.ArtworkVisited(i, limit, link, err)
	}

	// Barrier: pending bodies, then queued writes.
	d.drain(context.WithoutCancel(ctx), page)
	mu.Lock()
	closed = true
	mu.Unlock()
	unsubscribe()
	pool.Stop()
	<-consumerDone

	mu.Lock()
	defer mu.Unlock()

	for i := 0; i < limit; i++ {
		st := states[i]
		if !st.visited {
			continue
		}
		r := &results[i]
		r.Images = st.images
		r.FailedImages = st.failed

		switch {
		case st.navErr != nil:
			r.Outcome = models.OutcomeNavigationFailed
			r.Err = st.navErr
		case st.failed > 0:
			r.Outcome = models.OutcomeWriteFailed
			r.Err = st.lastError
		default:
			r.Outcome = models.OutcomeSuccess
		}
	}

	logger.LogComponentStop("downloader", "completed")
	return results
}

func (d *Downloader) drain(ctx context.Context, page browser.Page) {
	drainCtx, cancel := context.WithTimeout(ctx, d.opts.DrainTimeout)
	defer cancel()

	if err := page.Drain(drainCtx); err != nil {
		if stderrors.Is(err, context.Canceled) {
			return
		}
		d.logger.WithError(err).Warn("Timed out waiting for image responses")
	}
}
