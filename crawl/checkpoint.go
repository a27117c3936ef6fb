package crawl

import (
	"context"
	"fmt"
	"io"

	"github.com/fwojciec/scholarly"
	"golang.org/x/sync/errgroup"
)

// Checkpoint writes the aggregated results to every configured writer.
// The interrupt path and the normal-completion path share Flush, so
// partial results are written exactly like complete ones.
type Checkpoint struct {
	Results *Aggregator
	Writers []scholarly.ResultWriter

	// Stdout receives confirmation messages. Defaults to io.Discard.
	Stdout io.Writer
}

// Flush ranks the accumulated records and hands them to every writer.
// Writers run concurrently; the first error is returned after all finish.
func (c *Checkpoint) Flush(ctx context.Context) ([]*scholarly.Record, error) {
	records := c.Results.Flush()

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range c.Writers {
		g.Go(func() error {
			return w.WriteResults(gctx, records)
		})
	}
	if err := g.Wait(); err != nil {
		return records, fmt.Errorf("write results: %w", err)
	}
	return records, nil
}

// OnInterrupt flushes whatever has been aggregated so far. Partial results
// are a valid outcome: the caller returns normally and the process exits
// with status 0. A flush error is returned.
//
// The context passed in must not be the canceled harvest context.
func (c *Checkpoint) OnInterrupt(ctx context.Context) error {
	fmt.Fprintf(c.stdout(), "\nCatching forced exit, writing %d results...\n", c.Results.Len())

	_, err := c.Flush(ctx)
	return err
}

// Complete flushes the final results after the harvest finished.
func (c *Checkpoint) Complete(ctx context.Context) error {
	if _, err := c.Flush(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout(), "\nDone!")
	return nil
}

func (c *Checkpoint) stdout() io.Writer {
	if c.Stdout == nil {
		return io.Discard
	}
	return c.Stdout
}
