package scholarly

import "context"

// Fetcher retrieves a page through an intermediary endpoint.
type Fetcher interface {
	// Fetch retrieves target through endpoint and returns the raw HTML.
	// Failures are classified by code: ETIMEOUT when the connection could
	// not be established in time, EREJECTED when the endpoint refused,
	// closed or blocked the request. Any other code is unclassified.
	Fetch(ctx context.Context, target string, endpoint string) (html string, err error)
}

// RateLimiter bounds the request rate of a harvest. Every request targets
// the same search host whichever endpoint carries it.
type RateLimiter interface {
	// Wait blocks until the next request may be sent.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context) error
}
