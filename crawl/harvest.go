// Package crawl provides the harvest loop: proxy rotation, paginated
// retrieval with retry sweeps, result aggregation and checkpointing.
package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/scholarly"
)

// Harvester drains a set of page locators, routing every request through
// the next endpoint of the pool. Pages are retried across sweeps until
// they are retrieved or their retry budget runs out.
//
// Retrieval is strictly sequential.
type Harvester struct {
	Fetcher   scholarly.Fetcher
	Extractor scholarly.Extractor
	Pool      *EndpointPool
	Results   *Aggregator

	// Limiter, if set, bounds the request rate of the whole run.
	Limiter scholarly.RateLimiter

	// Pause runs after every retrieved page. Defaults to Jitter(DefaultMinPause, DefaultMaxPause).
	Pause PauseFunc

	// MaxAttempts is the per-page retry budget. Timeouts and unclassified
	// failures count against it; rejections do not. Zero means
	// DefaultMaxAttempts; a negative value disables the budget.
	MaxAttempts int

	// SweepDelays is the backoff applied after sweeps that retrieved nothing.
	// Defaults to DefaultSweepDelays().
	SweepDelays []time.Duration

	// Progress, if set, is called after every attempt.
	Progress scholarly.ProgressFunc
}

// Result holds the outcome of a harvest.
type Result struct {
	Retrieved int
	Records   int
	Sweeps    int

	// Abandoned lists the pages dropped after exhausting their retry budget.
	Abandoned []scholarly.Locator
}

// pending is a locator waiting to be retrieved.
type pending struct {
	locator  scholarly.Locator
	attempts int
}

// harvest is the state of a single Run.
type harvest struct {
	*Harvester
	pause     PauseFunc
	total     int
	remaining int
	result    *Result
}

// Run retrieves every locator and appends the extracted records to Results.
// It returns when no page is pending, when the pool is exhausted (EEXHAUSTED),
// or when ctx is canceled (ctx.Err()). The partial Result is returned in all cases.
func (h *Harvester) Run(ctx context.Context, locators []scholarly.Locator) (*Result, error) {
	queue := make([]*pending, 0, len(locators))
	for _, loc := range locators {
		queue = append(queue, &pending{locator: loc})
	}

	run := &harvest{
		Harvester: h,
		pause:     h.Pause,
		total:     len(queue),
		remaining: len(queue),
		result:    &Result{},
	}
	if run.pause == nil {
		run.pause = Jitter(DefaultMinPause, DefaultMaxPause)
	}
	delays := h.SweepDelays
	if delays == nil {
		delays = DefaultSweepDelays()
	}
	budget := h.MaxAttempts
	if budget == 0 {
		budget = DefaultMaxAttempts
	}

	idle := 0
	for len(queue) > 0 {
		run.result.Sweeps++
		retrieved := run.result.Retrieved

		// Iterate over a snapshot; the queue shrinks as pages complete.
		sweep := queue
		queue = make([]*pending, 0, len(sweep))
		for _, p := range sweep {
			if err := ctx.Err(); err != nil {
				return run.result, err
			}

			outcome, err := run.attempt(ctx, p)
			if err != nil {
				return run.result, err
			}
			if outcome == scholarly.OutcomeRetrieved {
				continue
			}

			// Rejections shrink the pool instead of the budget.
			if outcome == scholarly.OutcomeRejected {
				queue = append(queue, p)
				continue
			}
			p.attempts++
			if budget > 0 && p.attempts >= budget {
				run.remaining--
				run.result.Abandoned = append(run.result.Abandoned, p.locator)
				run.report(scholarly.Progress{
					Outcome: scholarly.OutcomeAbandoned,
					Locator: p.locator,
				})
				continue
			}
			queue = append(queue, p)
		}

		if len(queue) == 0 {
			break
		}
		if run.result.Retrieved > retrieved {
			idle = 0
			continue
		}
		if err := sleep(ctx, backoff(delays, idle)); err != nil {
			return run.result, err
		}
		idle++
	}

	return run.result, nil
}

// attempt tries to retrieve one page. It returns an error only for
// conditions that must stop the harvest: pool exhaustion and cancellation.
func (run *harvest) attempt(ctx context.Context, p *pending) (scholarly.Outcome, error) {
	endpoint, err := run.Pool.Next()
	if err != nil {
		return scholarly.OutcomeFailed, err
	}

	if run.Limiter != nil {
		if err := run.Limiter.Wait(ctx); err != nil {
			return scholarly.OutcomeFailed, err
		}
	}

	event := scholarly.Progress{
		Locator:  p.locator,
		Endpoint: endpoint,
	}

	html, err := run.Fetcher.Fetch(ctx, p.locator.URL, endpoint)
	if err != nil {
		if ctx.Err() != nil {
			return scholarly.OutcomeFailed, ctx.Err()
		}
		switch scholarly.ErrorCode(err) {
		case scholarly.ETIMEOUT:
			event.Outcome = scholarly.OutcomeTimeout
		case scholarly.EREJECTED:
			event.Outcome = scholarly.OutcomeRejected
			run.Pool.DiscardLastReturned()
		default:
			event.Outcome = scholarly.OutcomeFailed
		}
		event.Err = err
		run.report(event)
		return event.Outcome, nil
	}

	// The page is not appended if the pause is interrupted.
	if err := run.pause(ctx); err != nil {
		return scholarly.OutcomeFailed, err
	}

	records := run.Extractor.Extract(html)
	run.Results.Append(records)

	run.remaining--
	run.result.Retrieved++
	run.result.Records += len(records)

	event.Outcome = scholarly.OutcomeRetrieved
	event.Records = len(records)
	run.report(event)
	return scholarly.OutcomeRetrieved, nil
}

func (run *harvest) report(event scholarly.Progress) {
	if run.Progress == nil {
		return
	}
	event.Remaining = run.remaining
	event.Total = run.total
	event.Sweep = run.result.Sweeps
	run.Progress(event)
}
