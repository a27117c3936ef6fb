package mock

import "github.com/fwojciec/scholarly"

var _ scholarly.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of scholarly.Extractor.
type Extractor struct {
	ExtractFn func(html string) []*scholarly.Record
}

func (e *Extractor) Extract(html string) []*scholarly.Record {
	return e.ExtractFn(html)
}
