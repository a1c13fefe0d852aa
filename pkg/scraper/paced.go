package scraper

import (
	"context"

	"pixivsave/pkg/browser"
	"pixivsave/pkg/errors"
	"pixivsave/pkg/ratelimit"
)

// pacedPage waits on a limiter before every navigation
type pacedPage struct {
	browser.Page
	limiter ratelimit.Limiter
}

// Paced wraps page so that navigations go through limiter
func Paced(page browser.Page, limiter ratelimit.Limiter) browser.Page {
	if limiter == nil {
		return page
	}
	return &pacedPage{Page: page, limiter: limiter}
}

func (p *pacedPage) Navigate(ctx context.Context, url string) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return errors.Navigation(url, err)
	}
	return p.Page.Navigate(ctx, url)
}
