package crawl

import (
	"cmp"
	"slices"
	"sync"

	"github.com/fwojciec/scholarly"
)

// Aggregator accumulates the records of a whole run.
// It is safe for concurrent use so an interrupt path can flush while
// the harvest is still appending.
type Aggregator struct {
	mu      sync.Mutex
	records []*scholarly.Record
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Append adds the records of one page in arrival order.
// All records of the call become visible together.
func (a *Aggregator) Append(records []*scholarly.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, records...)
}

// Flush returns every record accumulated so far, ranked by citation count
// descending. Ties keep their arrival order. Internal state is not cleared.
func (a *Aggregator) Flush() []*scholarly.Record {
	a.mu.Lock()
	ranked := slices.Clone(a.records)
	a.mu.Unlock()

	slices.SortStableFunc(ranked, func(x, y *scholarly.Record) int {
		return cmp.Compare(y.Citations, x.Citations)
	})
	return ranked
}

// Len returns the number of records accumulated so far.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}
