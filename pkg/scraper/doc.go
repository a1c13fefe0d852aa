// Package scraper saves the master images of one pixiv artist gallery.
//
// A run has three stages, all driven through a single browser.Page:
//
//   - the profile illustrations tab is loaded and every listing page is
//     scanned for artwork links (Paginator)
//   - each artwork page is visited in turn while one response subscription
//     picks master images out of the network traffic (Downloader)
//   - captured bodies are written by a bounded pool of workers
//
// Usage:
//
//	profile, err := pixiv.ValidateProfileURL(rawURL)
//	if err != nil {
//	    return err
//	}
//	session, err := browser.NewSession(ctx, browser.OptionsFromConfig(cfg))
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	summary, err := scraper.New(cfg, session).Run(ctx, profile)
//
// Navigation is paced by a sliding window limiter and optionally retried.
// A failed artwork never stops the run; its outcome is recorded in the
// returned models.Summary instead.
package scraper
