package crawl_test

import (
	"testing"

	"github.com/fwojciec/scholarly/crawl"
	"github.com/stretchr/testify/assert"
)

func TestFormatStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Status : 0/3", crawl.FormatStatus(0, 3))
	assert.Equal(t, "Status : 3/3", crawl.FormatStatus(3, 3))
}

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	const long = "https://scholar.google.fr/scholar?hl=fr&q=graph&start=40"

	tests := []struct {
		name   string
		url    string
		maxLen int
		want   string
	}{
		{"keeps short URL", "https://x.com", 50, "https://x.com"},
		{"keeps URL of exact length", "https://x.com", 13, "https://x.com"},
		{"keeps the informative tail", long, 20, "...&q=graph&start=40"},
		{"returns empty for zero length", long, 0, ""},
		{"returns empty for negative length", long, -1, ""},
		{"returns prefix when too short for ellipsis", long, 3, "htt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := crawl.TruncateURL(tt.url, tt.maxLen)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), max(tt.maxLen, 0))
		})
	}
}
