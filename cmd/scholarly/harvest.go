package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/scholarly"
	"github.com/fwojciec/scholarly/crawl"
)

// Run executes the harvest. An interrupt flushes the partial results and
// returns nil; pool exhaustion flushes them and returns the error.
func (c *HarvestCmd) Run(deps *Dependencies) error {
	locators, err := c.Query.Locators()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scholarly.ErrorMessage(err))
		return err
	}

	endpoints, err := deps.Endpoints.Load(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error loading endpoints: %v\n", err)
		return err
	}
	if len(endpoints) == 0 {
		return scholarly.Errorf(scholarly.EEXHAUSTED, "no endpoints available")
	}

	fmt.Fprintln(deps.Stdout, "Press CTRL + C anytime to interrupt and save current results.")

	results := crawl.NewAggregator()
	checkpoint := &crawl.Checkpoint{
		Results: results,
		Writers: deps.Writers,
		Stdout:  deps.Stdout,
	}
	harvester := &crawl.Harvester{
		Fetcher:     deps.Fetcher,
		Extractor:   deps.Extractor,
		Pool:        crawl.NewEndpointPool(endpoints),
		Results:     results,
		Limiter:     deps.Limiter,
		Pause:       deps.Pause,
		MaxAttempts: deps.MaxAttempts,
		SweepDelays: deps.SweepDelays,
		Progress: func(p scholarly.Progress) {
			fmt.Fprintf(deps.Stdout, "\r%s", crawl.FormatStatus(p.Done(), p.Total))
			for _, observe := range deps.Observers {
				observe(p)
			}
		},
	}

	fmt.Fprintf(deps.Stdout, "\r%s", crawl.FormatStatus(0, len(locators)))
	result, err := harvester.Run(deps.Ctx, locators)

	// Flushing must outlive cancellation of the harvest.
	flushCtx := context.WithoutCancel(deps.Ctx)

	switch {
	case err != nil && deps.Ctx.Err() != nil:
		return checkpoint.OnInterrupt(flushCtx)
	case err != nil:
		fmt.Fprintf(deps.Stderr, "\nerror: %s\n", scholarly.ErrorMessage(err))
		if _, ferr := checkpoint.Flush(flushCtx); ferr != nil {
			fmt.Fprintf(deps.Stderr, "error writing results: %v\n", ferr)
		}
		return err
	}

	if err := checkpoint.Complete(flushCtx); err != nil {
		fmt.Fprintf(deps.Stderr, "error writing results: %v\n", err)
		return err
	}

	if n := len(result.Abandoned); n > 0 {
		fmt.Fprintf(deps.Stderr, "%d of %d pages abandoned after repeated failures\n", n, len(locators))
		for _, loc := range result.Abandoned {
			fmt.Fprintf(deps.Stderr, "  %s\n", crawl.TruncateURL(loc.URL, 72))
		}
	}

	if c.Top > 0 {
		ranked := results.Flush()
		if out := scholarly.FormatRecords(ranked[:min(c.Top, len(ranked))]); out != "" {
			fmt.Fprintln(deps.Stdout, out)
		}
	}

	return nil
}
