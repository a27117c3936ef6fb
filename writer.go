package scholarly

import "context"

// ResultWriter persists a ranked result set.
// Writers may be called more than once per run; each call replaces
// the previous output.
type ResultWriter interface {
	WriteResults(ctx context.Context, records []*Record) error
}
