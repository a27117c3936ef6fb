package crawl

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/fwojciec/scholarly"
	"golang.org/x/time/rate"
)

var _ scholarly.RateLimiter = (*rate.Limiter)(nil)

// NewRateLimiter returns a token bucket admitting rps requests per second
// with no burst, so consecutive requests are spaced by 1/rps.
// The first request passes immediately.
func NewRateLimiter(rps float64) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// PauseFunc blocks between requests. It returns ctx.Err() if the
// context is canceled before the pause ends.
type PauseFunc func(ctx context.Context) error

// DefaultMinPause and DefaultMaxPause bound the randomized pause taken
// after every retrieved page.
const (
	DefaultMinPause = 1 * time.Second
	DefaultMaxPause = 5 * time.Second
)

// Jitter returns a PauseFunc sleeping a uniformly random duration in [lo, hi).
// When hi <= lo it always sleeps lo.
func Jitter(lo, hi time.Duration) PauseFunc {
	return func(ctx context.Context) error {
		d := lo
		if hi > lo {
			d += time.Duration(rand.Int64N(int64(hi - lo)))
		}
		return sleep(ctx, d)
	}
}

// NoPause is a PauseFunc that returns immediately unless ctx is done.
func NoPause(ctx context.Context) error {
	return ctx.Err()
}
