// Package ratelimit paces page navigations so a long gallery does not
// hammer pixiv.
//
// SlidingWindow tracks request times within a moving window and blocks
// callers once the window is full:
//
//	limiter := ratelimit.PerMinute(cfg.RateLimit.RequestsPerMinute)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
//	// navigate
package ratelimit
