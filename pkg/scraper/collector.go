package scraper

import (
	"context"

	"pixivsave/pkg/browser"
	"pixivsave/pkg/pixiv"
)

// CollectArtworks returns the artwork links on the currently loaded page.
// A page without any returns an empty slice.
func CollectArtworks(ctx context.Context, page browser.Page) ([]string, error) {
	snap, err := page.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return artworkLinks(snap), nil
}

func artworkLinks(snap *browser.Snapshot) []string {
	links := []string{}
	for _, href := range snap.Links() {
		if pixiv.IsArtworkLink(href) {
			links = append(links, href)
		}
	}
	return links
}
