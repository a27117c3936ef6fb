package mock

import (
	"context"

	"github.com/fwojciec/scholarly"
)

var _ scholarly.ResultWriter = (*ResultWriter)(nil)

// ResultWriter is a mock implementation of scholarly.ResultWriter.
type ResultWriter struct {
	WriteResultsFn func(ctx context.Context, records []*scholarly.Record) error
}

func (w *ResultWriter) WriteResults(ctx context.Context, records []*scholarly.Record) error {
	return w.WriteResultsFn(ctx, records)
}
