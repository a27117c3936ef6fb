package scholarly

// Outcome classifies a single retrieval attempt.
type Outcome int

const (
	OutcomeRetrieved Outcome = iota
	OutcomeTimeout
	OutcomeRejected
	OutcomeFailed
	OutcomeAbandoned
)

// String returns a short label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeRetrieved:
		return "retrieved"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	case OutcomeAbandoned:
		return "abandoned"
	}
	return "unknown"
}

// Progress reports the result of one retrieval attempt.
type Progress struct {
	Outcome  Outcome
	Locator  Locator
	Endpoint string

	// Records is the number of records extracted, for retrieved pages.
	Records int

	// Remaining is the number of pages still pending after this attempt.
	Remaining int
	Total     int
	Sweep     int

	Err error
}

// Done returns the number of pages no longer pending.
func (p Progress) Done() int {
	return p.Total - p.Remaining
}

// ProgressFunc is called after every retrieval attempt.
type ProgressFunc func(Progress)
