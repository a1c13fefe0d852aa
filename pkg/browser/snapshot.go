package browser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Snapshot is a parsed copy of a page's DOM at one point in time
type Snapshot struct {
	Location string
	Doc      *goquery.Document

	base *url.URL
}

// NewSnapshot parses html captured at location
func NewSnapshot(location, html string) (*Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page html: %w", err)
	}

	base, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid page location %q: %w", location, err)
	}

	// A <base href> changes how the browser resolves relative links
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if u, err := base.Parse(strings.TrimSpace(href)); err == nil {
			base = u
		}
	}

	return &Snapshot{Location: location, Doc: doc, base: base}, nil
}

// Links returns the absolute href of every anchor in document order
func (s *Snapshot) Links() []string {
	var links []string
	s.Doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if abs, ok := s.Resolve(href); ok {
			links = append(links, abs)
		}
	})
	return links
}

// Resolve turns href into an absolute URL relative to the page
func (s *Snapshot) Resolve(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "javascript:") {
		return "", false
	}
	u, err := s.base.Parse(href)
	if err != nil {
		return "", false
	}
	return u.String(), true
}
