package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"pixivsave/pkg/errors"
	"pixivsave/pkg/logger"
)

// Lifecycle event names reported by Chrome for the main frame
const (
	lifecycleInit              = "init"
	lifecycleNetworkAlmostIdle = "networkAlmostIdle"
)

// Session is one controlled browser with a single page target
type Session struct {
	opts Options
	log  logger.Logger

	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	closeOnce   sync.Once

	fetchBody func(ctx context.Context, id network.RequestID) ([]byte, error)

	mu        sync.Mutex
	subs      map[int]subscription
	nextSub   int
	pending   map[network.RequestID]pendingResponse
	mainFrame cdp.FrameID
	idle      *idleWaiter

	// inflight counts accepted responses whose handlers have not returned
	inflight int
	drained  chan struct{}
}

type subscription struct {
	filter  ResponseFilter
	handler ResponseHandler
}

type pendingResponse struct {
	url          string
	resourceType string
	handlers     []ResponseHandler
}

type idleWaiter struct {
	loading bool
	closed  bool
	done    chan struct{}
}

var _ Page = (*Session)(nil)

func newSession(opts Options) *Session {
	drained := make(chan struct{})
	close(drained)
	return &Session{
		opts:    opts,
		log:     logger.GetLogger().WithField("component", "browser"),
		subs:    make(map[int]subscription),
		pending: make(map[network.RequestID]pendingResponse),
		drained: drained,
	}
}

// NewSession launches a browser, opens its page and enables the network
// and lifecycle events the session relies on.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	s := newSession(opts)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, BuildAllocatorOptions(opts)...)
	tabCtx, cancel := chromedp.NewContext(allocCtx)
	s.ctx, s.cancel, s.allocCancel = tabCtx, cancel, allocCancel
	s.fetchBody = s.cdpFetchBody

	chromedp.ListenTarget(tabCtx, s.handleEvent)

	actions := []chromedp.Action{
		network.Enable(),
		page.SetLifecycleEventsEnabled(true),
	}
	if opts.SessionID != "" {
		actions = append(actions, network.SetCookies([]*network.CookieParam{{
			Name:     "PHPSESSID",
			Value:    opts.SessionID,
			Domain:   opts.CookieDomain,
			Path:     "/",
			Secure:   true,
			HTTPOnly: true,
		}}))
	}

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		s.Close()
		return nil, errors.Browser("failed to start browser", err)
	}

	if c := chromedp.FromContext(tabCtx); c != nil && c.Target != nil {
		s.mu.Lock()
		s.mainFrame = cdp.FrameID(c.Target.TargetID)
		s.mu.Unlock()
	}

	s.log.WithFields(map[string]interface{}{
		"headless":      opts.Headless,
		"authenticated": opts.SessionID != "",
	}).Debug("Browser session started")

	return s, nil
}

// Navigate loads url, then waits for the main frame to report
// networkAlmostIdle and brings the page to the front.
func (s *Session) Navigate(ctx context.Context, url string) error {
	start := time.Now()
	idle := s.armIdle()
	defer s.disarmIdle()

	runCtx, cancel := s.runContext(ctx, s.opts.NavigationTimeout)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		navErr := errors.Navigation(url, err)
		logger.LogNavigation(url, time.Since(start), navErr)
		return navErr
	}

	if err := s.awaitIdle(ctx, url, idle, start); err != nil {
		return err
	}

	if err := chromedp.Run(runCtx, page.BringToFront()); err != nil {
		s.log.WithError(err).Warn("Failed to bring page to front")
	}

	logger.LogNavigation(url, time.Since(start), nil)
	return nil
}

// awaitIdle waits for the armed idle signal, the idle timeout or ctx,
// logging the navigation when it fails
func (s *Session) awaitIdle(ctx context.Context, url string, idle <-chan struct{}, start time.Time) error {
	timer := time.NewTimer(s.opts.IdleTimeout)
	defer timer.Stop()

	var navErr error
	select {
	case <-idle:
		return nil
	case <-timer.C:
		navErr = errors.Navigation(url, fmt.Errorf("network not idle after %s", s.opts.IdleTimeout))
	case <-ctx.Done():
		navErr = errors.Navigation(url, ctx.Err())
	}
	logger.LogNavigation(url, time.Since(start), navErr)
	return navErr
}

// Snapshot captures the current document and its location
func (s *Session) Snapshot(ctx context.Context) (*Snapshot, error) {
	runCtx, cancel := s.runContext(ctx, s.opts.NavigationTimeout)
	defer cancel()

	var location, html string
	err := chromedp.Run(runCtx,
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, errors.Browser("failed to capture page", err)
	}

	snap, err := NewSnapshot(location, html)
	if err != nil {
		return nil, errors.Parsing("failed to parse page", location, err)
	}
	return snap, nil
}

func (s *Session) OnResponse(filter ResponseFilter, handler ResponseHandler) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = subscription{filter: filter, handler: handler}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Drain waits until every accepted response has reached its handlers,
// or ctx ends.
func (s *Session) Drain(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.inflight == 0 {
			s.mu.Unlock()
			return nil
		}
		n, drained := s.inflight, s.drained
		s.mu.Unlock()

		select {
		case <-drained:
		case <-ctx.Done():
			return fmt.Errorf("%d responses still pending: %w", n, ctx.Err())
		}
	}
}

// Close shuts the browser down. It is safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.ctx != nil {
			err = chromedp.Cancel(s.ctx)
		}
		if s.cancel != nil {
			s.cancel()
		}
		if s.allocCancel != nil {
			s.allocCancel()
		}
	})
	return err
}

// runContext derives a context that carries the chromedp target, is
// bounded by timeout and also ends when ctx does.
func (s *Session) runContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (s *Session) cdpFetchBody(ctx context.Context, id network.RequestID) ([]byte, error) {
	c := chromedp.FromContext(s.ctx)
	if c == nil || c.Target == nil {
		return nil, chromedp.ErrInvalidContext
	}
	return network.GetResponseBody(id).Do(cdp.WithExecutor(ctx, c.Target))
}

// handleEvent runs on the chromedp event loop and must not block
func (s *Session) handleEvent(ev interface{}) {
	switch ev := ev.(type) {
	case *network.EventResponseReceived:
		if ev.Response != nil {
			s.onResponseReceived(ev.RequestID, string(ev.Type), ev.Response.URL)
		}
	case *network.EventLoadingFinished:
		s.onLoadingFinished(ev.RequestID)
	case *network.EventLoadingFailed:
		s.onLoadingFailed(ev.RequestID, ev.ErrorText)
	case *page.EventLifecycleEvent:
		s.onLifecycle(ev.FrameID, ev.Name)
	}
}

func (s *Session) onResponseReceived(id network.RequestID, resourceType, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var handlers []ResponseHandler
	for _, sub := range s.subs {
		if sub.filter(resourceType, url) {
			handlers = append(handlers, sub.handler)
		}
	}
	if len(handlers) == 0 {
		return
	}
	if _, dup := s.pending[id]; !dup {
		s.addInflightLocked()
	}
	s.pending[id] = pendingResponse{url: url, resourceType: resourceType, handlers: handlers}
}

func (s *Session) onLoadingFinished(id network.RequestID) {
	s.mu.Lock()
	p, ok := s.pending[id]
	delete(s.pending, id)
	s.mu.Unlock()
	if !ok {
		return
	}

	go func() {
		defer s.doneInflight()

		ctx, cancel := context.WithTimeout(s.baseContext(), s.opts.NavigationTimeout)
		defer cancel()

		resp := Response{URL: p.url, ResourceType: p.resourceType}
		resp.Body, resp.Err = s.fetchBody(ctx, id)
		if resp.Err != nil {
			resp.Err = errors.Browser("failed to read response body", resp.Err)
		}
		for _, h := range p.handlers {
			h(resp)
		}
	}()
}

func (s *Session) onLoadingFailed(id network.RequestID, reason string) {
	s.mu.Lock()
	p, ok := s.pending[id]
	delete(s.pending, id)
	s.mu.Unlock()
	if !ok {
		return
	}

	s.log.WithFields(map[string]interface{}{
		"url":    p.url,
		"reason": reason,
	}).Debug("Matched response failed to load")
	s.doneInflight()
}

func (s *Session) onLifecycle(frame cdp.FrameID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.idle
	if w == nil || w.closed {
		return
	}
	if s.mainFrame != "" && frame != s.mainFrame {
		return
	}

	switch name {
	case lifecycleInit:
		w.loading = true
	case lifecycleNetworkAlmostIdle:
		// only idle events from the newly loading document count
		if w.loading {
			w.closed = true
			close(w.done)
		}
	}
}

func (s *Session) armIdle() <-chan struct{} {
	w := &idleWaiter{done: make(chan struct{})}
	s.mu.Lock()
	s.idle = w
	s.mu.Unlock()
	return w.done
}

func (s *Session) disarmIdle() {
	s.mu.Lock()
	s.idle = nil
	s.mu.Unlock()
}

func (s *Session) addInflightLocked() {
	if s.inflight == 0 {
		s.drained = make(chan struct{})
	}
	s.inflight++
}

func (s *Session) doneInflight() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if s.inflight == 0 {
		close(s.drained)
	}
}

func (s *Session) baseContext() context.Context {
	if s.ctx != nil {
		return s.ctx
	}
	return context.Background()
}
