package scholarly

import (
	"encoding/json"
	"strconv"
)

// Placeholder stands in for a link that could not be determined.
const Placeholder = "#"

// Year is a publication year.
type Year int

// YearUnknown marks a year that could not be parsed from the byline.
// It never collides with a real year, nor with zero.
const YearUnknown Year = -1

// Known reports whether the year was determined.
func (y Year) Known() bool {
	return y != YearUnknown
}

// String returns the year, or "?" when unknown.
func (y Year) String() string {
	if !y.Known() {
		return "?"
	}
	return strconv.Itoa(int(y))
}

// MarshalJSON encodes an unknown year as null.
func (y Year) MarshalJSON() ([]byte, error) {
	if !y.Known() {
		return []byte("null"), nil
	}
	return json.Marshal(int(y))
}

// UnmarshalJSON decodes null as YearUnknown.
func (y *Year) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*y = YearUnknown
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*y = Year(v)
	return nil
}

// Record is one bibliographic entry extracted from a result page.
// Records carry no identity: two equal records are still distinct entries.
type Record struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Citations int    `json:"citations"`
	Document  string `json:"document"`
	Year      Year   `json:"year"`
}

// HasLink reports whether the record links to its landing page.
func (r *Record) HasLink() bool {
	return r.Link != "" && r.Link != Placeholder
}

// HasDocument reports whether the record links to a full-text document.
func (r *Record) HasDocument() bool {
	return r.Document != "" && r.Document != Placeholder
}
