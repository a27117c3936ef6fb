package scholarly

import (
	"net/url"
	"strconv"
)

// Query defaults.
const (
	DefaultBaseURL  = "https://scholar.google.fr/scholar"
	DefaultLanguage = "fr"
	DefaultSDT      = "0,5"
	DefaultPageSize = 10
	DefaultItems    = 1000
)

// Query describes one search to harvest.
type Query struct {
	// Text is the search expression.
	Text string

	// YearLow excludes results published before this year. Zero disables the bound.
	YearLow int

	// Items is the number of results to request.
	Items int

	// Language is the display language of the result pages. It also selects
	// the cited-by marker used during extraction.
	Language string

	// SDT is the as_sdt search parameter.
	SDT string

	BaseURL  string
	PageSize int
}

// Validate returns an error if the query contains invalid fields.
func (q *Query) Validate() error {
	if q.Text == "" {
		return Errorf(EINVALID, "query text required")
	}
	if q.Items <= 0 {
		return Errorf(EINVALID, "item count must be positive")
	}
	if q.YearLow < 0 {
		return Errorf(EINVALID, "lower year bound must not be negative")
	}
	if q.PageSize < 0 {
		return Errorf(EINVALID, "page size must not be negative")
	}
	return nil
}

// Locator is one paginated retrieval target.
type Locator struct {
	URL    string
	Offset int
}

// Locators returns one locator per result page, for offsets
// 0, PageSize, 2*PageSize... below Items.
func (q *Query) Locators() ([]Locator, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	base, err := url.Parse(orDefault(q.BaseURL, DefaultBaseURL))
	if err != nil {
		return nil, Errorf(EINVALID, "invalid base URL: %v", err)
	}

	pageSize := q.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}

	params := url.Values{}
	params.Set("hl", orDefault(q.Language, DefaultLanguage))
	params.Set("as_sdt", orDefault(q.SDT, DefaultSDT))
	params.Set("q", q.Text)
	if q.YearLow > 0 {
		params.Set("ylo", strconv.Itoa(q.YearLow))
	}

	locators := make([]Locator, 0, (q.Items+pageSize-1)/pageSize)
	for offset := 0; offset < q.Items; offset += pageSize {
		page := url.Values{}
		for k, v := range params {
			page[k] = v
		}
		if offset > 0 {
			page.Set("start", strconv.Itoa(offset))
		}

		u := *base
		u.RawQuery = page.Encode()
		locators = append(locators, Locator{URL: u.String(), Offset: offset})
	}
	return locators, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
