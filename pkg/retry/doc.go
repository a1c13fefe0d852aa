// Package retry provides backoff and retry logic for transient failures,
// mainly artwork page navigations that time out.
//
//	cfg := &retry.Config{
//		MaxAttempts: cfg.Download.RetryAttempts,
//		Backoff:     retry.NavigationBackoff(cfg.Download.RetryDelay, cfg.Download.RetryMaxDelay),
//		RetryIf:     retry.DefaultRetryIf,
//		Logger:      logger.GetLogger(),
//	}
//	err := retry.Do(ctx, func(ctx context.Context) error {
//		return page.Navigate(ctx, link)
//	}, cfg)
//
// Typed errors from pkg/errors decide retryability: navigation and browser
// failures are retried, validation, parsing and write failures are not.
// MaxAttempts of 1 runs the operation once.
package retry
