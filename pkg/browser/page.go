package browser

import "context"

// Page is the part of a browser tab the scraper needs
type Page interface {
	// Navigate loads url and waits until the network is almost idle
	Navigate(ctx context.Context, url string) error

	// Snapshot captures the current DOM and location
	Snapshot(ctx context.Context) (*Snapshot, error)

	// OnResponse subscribes to finished responses accepted by filter.
	// The returned func removes the subscription.
	OnResponse(filter ResponseFilter, handler ResponseHandler) func()

	// Drain blocks until every accepted response has been delivered
	Drain(ctx context.Context) error
}

// ResponseFilter decides from the resource type and URL whether a body is wanted
type ResponseFilter func(resourceType, url string) bool

// ResponseHandler receives a matched response. It runs on a background
// goroutine and must not call back into the Page.
type ResponseHandler func(Response)

// Response is a matched network response and its body
type Response struct {
	URL          string
	ResourceType string
	Body         []byte
	Err          error
}
