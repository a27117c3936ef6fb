package scholarly

// Extractor turns a result page into records.
type Extractor interface {
	// Extract returns the records found on the page, in page order.
	// Missing fields are filled with fallback values rather than reported.
	// A page without result blocks yields an empty slice.
	Extract(html string) []*Record
}
