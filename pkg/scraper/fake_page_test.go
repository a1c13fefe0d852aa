package scraper

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"pixivsave/pkg/browser"
)

const (
	testProfile = "https://www.pixiv.net/en/users/42/illustrations"
	testHost    = "https://www.pixiv.net"
)

type fakeSub struct {
	filter  browser.ResponseFilter
	handler browser.ResponseHandler
}

// fakePage serves static HTML per URL and replays scripted responses on
// navigation, the way a tab would emit them while the page loads.
type fakePage struct {
	mu        sync.Mutex
	html      map[string]string
	responses map[string][]browser.Response
	// failures is how many times navigating to a URL fails before it works
	failures map[string]int
	navErr   error
	// partial is what a URL loads before its navigation fails
	partial map[string][]browser.Response
	// delay holds back each delivery, as a slow body fetch would
	delay time.Duration

	current string
	visits  []string
	subs    map[int]fakeSub
	nextSub int
	pending sync.WaitGroup
}

func newFakePage() *fakePage {
	return &fakePage{
		html:      make(map[string]string),
		responses: make(map[string][]browser.Response),
		failures:  make(map[string]int),
		partial:   make(map[string][]browser.Response),
		navErr:    fmt.Errorf("net::ERR_TIMED_OUT"),
		subs:      make(map[int]fakeSub),
	}
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	p.visits = append(p.visits, url)
	var navErr error
	loaded := p.responses[url]
	if p.failures[url] > 0 {
		p.failures[url]--
		navErr = p.navErr
		loaded = p.partial[url]
	} else {
		p.current = url
	}

	var deliveries []func()
	for _, resp := range loaded {
		for _, sub := range p.subs {
			if sub.filter(resp.ResourceType, resp.URL) {
				h, r := sub.handler, resp
				deliveries = append(deliveries, func() { h(r) })
			}
		}
	}
	p.pending.Add(len(deliveries))
	delay := p.delay
	p.mu.Unlock()

	for _, deliver := range deliveries {
		deliver := deliver
		go func() {
			defer p.pending.Done()
			time.Sleep(delay)
			deliver()
		}()
	}
	return navErr
}

func (p *fakePage) Snapshot(ctx context.Context) (*browser.Snapshot, error) {
	p.mu.Lock()
	current := p.current
	html, ok := p.html[current]
	p.mu.Unlock()

	if !ok {
		html = "<html><body></body></html>"
	}
	return browser.NewSnapshot(current, html)
}

func (p *fakePage) OnResponse(filter browser.ResponseFilter, handler browser.ResponseHandler) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextSub
	p.nextSub++
	p.subs[id] = fakeSub{filter: filter, handler: handler}
	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *fakePage) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *fakePage) Visits() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.visits...)
}

func (p *fakePage) Subscriptions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

// listingHTML renders a listing page. An empty total omits the works counter.
func listingHTML(total string, ids ...int) string {
	var b strings.Builder
	b.WriteString(`<html><body><nav><a href="/en/users/42/bookmarks">Bookmarks</a></nav>`)
	if total != "" {
		fmt.Fprintf(&b, `<section><h2>Works</h2><div><div><span>%s</span></div></div></section>`, total)
	}
	b.WriteString("<ul>")
	for _, id := range ids {
		fmt.Fprintf(&b, `<li><a href="/en/artworks/%d"><img src="thumb.jpg"></a></li>`, id)
	}
	b.WriteString("</ul></body></html>")
	return b.String()
}

func artworkURL(id int) string {
	return fmt.Sprintf("%s/en/artworks/%d", testHost, id)
}

func masterImage(id, page int) browser.Response {
	return browser.Response{
		URL:          fmt.Sprintf("https://i.pximg.net/img-master/img/2024/01/02/03/04/05/%d_p%d_master1200.jpg", id, page),
		ResourceType: "Image",
		Body:         []byte(fmt.Sprintf("image-%d-%d", id, page)),
	}
}

// thumbnail is an image response outside img-master
func thumbnail(id int) browser.Response {
	return browser.Response{
		URL:          fmt.Sprintf("https://i.pximg.net/c/250x250_80_a2/img-master/img/2024/01/02/03/04/05/%d_p0_square1200.jpg", id),
		ResourceType: "Image",
		Body:         []byte("thumb"),
	}
}
