package scholarly_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/scholarly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYear(t *testing.T) {
	t.Parallel()

	t.Run("unknown year is distinct from zero", func(t *testing.T) {
		t.Parallel()

		assert.NotEqual(t, scholarly.Year(0), scholarly.YearUnknown)
		assert.False(t, scholarly.YearUnknown.Known())
		assert.True(t, scholarly.Year(0).Known())
	})

	t.Run("renders unknown year as question mark", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "?", scholarly.YearUnknown.String())
		assert.Equal(t, "2019", scholarly.Year(2019).String())
	})

	t.Run("encodes unknown year as null", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(scholarly.Record{Title: "T", Link: "#", Document: "#", Year: scholarly.YearUnknown})
		require.NoError(t, err)
		assert.JSONEq(t, `{"title":"T","link":"#","citations":0,"document":"#","year":null}`, string(data))
	})

	t.Run("decodes null back to unknown year", func(t *testing.T) {
		t.Parallel()

		var r scholarly.Record
		require.NoError(t, json.Unmarshal([]byte(`{"title":"T","year":null}`), &r))
		assert.Equal(t, scholarly.YearUnknown, r.Year)

		require.NoError(t, json.Unmarshal([]byte(`{"title":"T","year":2001}`), &r))
		assert.Equal(t, scholarly.Year(2001), r.Year)
	})
}

func TestRecord_Links(t *testing.T) {
	t.Parallel()

	r := &scholarly.Record{Link: scholarly.Placeholder, Document: "https://example.com/paper.pdf"}

	assert.False(t, r.HasLink())
	assert.True(t, r.HasDocument())
}
