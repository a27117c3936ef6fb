package crawl

import (
	"context"
	"time"
)

// DefaultMaxAttempts is the per-page retry budget. A page still failing
// after this many timeouts or unclassified failures is abandoned.
const DefaultMaxAttempts = 25

// DefaultSweepDelays returns the backoff applied after sweeps that retrieved
// nothing: 1s, 2s, 4s, 8s, 16s, then 16s for every further idle sweep.
func DefaultSweepDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second}
}

// backoff returns the delay for the n-th consecutive idle sweep (0-based).
// The last delay repeats once the schedule is exhausted.
func backoff(delays []time.Duration, n int) time.Duration {
	if len(delays) == 0 {
		return 0
	}
	if n >= len(delays) {
		return delays[len(delays)-1]
	}
	return delays[n]
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
