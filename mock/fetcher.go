package mock

import (
	"context"

	"github.com/fwojciec/scholarly"
)

var (
	_ scholarly.Fetcher     = (*Fetcher)(nil)
	_ scholarly.RateLimiter = (*RateLimiter)(nil)
)

// Fetcher is a mock implementation of scholarly.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, target, endpoint string) (string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, target, endpoint string) (string, error) {
	return f.FetchFn(ctx, target, endpoint)
}

// RateLimiter is a mock implementation of scholarly.RateLimiter.
type RateLimiter struct {
	WaitFn func(ctx context.Context) error
}

func (l *RateLimiter) Wait(ctx context.Context) error {
	return l.WaitFn(ctx)
}
