package crawl_test

import (
	"testing"

	"github.com/fwojciec/scholarly"
	"github.com/fwojciec/scholarly/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, pool *crawl.EndpointPool, n int) []string {
	t.Helper()
	got := make([]string, 0, n)
	for range n {
		e, err := pool.Next()
		require.NoError(t, err)
		got = append(got, e)
	}
	return got
}

func TestEndpointPool_Next(t *testing.T) {
	t.Parallel()

	t.Run("yields every endpoint once in original order before repeating", func(t *testing.T) {
		t.Parallel()

		pool := crawl.NewEndpointPool([]string{"a:1", "b:2", "c:3"})

		assert.Equal(t, []string{"a:1", "b:2", "c:3"}, drain(t, pool, 3))
		assert.Equal(t, []string{"a:1", "b:2", "c:3"}, drain(t, pool, 3))
	})

	t.Run("fails with EEXHAUSTED when empty", func(t *testing.T) {
		t.Parallel()

		pool := crawl.NewEndpointPool(nil)

		_, err := pool.Next()

		assert.Equal(t, scholarly.EEXHAUSTED, scholarly.ErrorCode(err))
	})
}

func TestEndpointPool_DiscardLastReturned(t *testing.T) {
	t.Parallel()

	t.Run("removes the endpoint just returned and never yields it again", func(t *testing.T) {
		t.Parallel()

		pool := crawl.NewEndpointPool([]string{"a", "b", "c", "d"})
		drain(t, pool, 1) // a

		x, err := pool.Next()
		require.NoError(t, err)
		require.Equal(t, "b", x)
		pool.DiscardLastReturned()

		assert.Equal(t, 3, pool.Len())
		got := drain(t, pool, 9)
		assert.NotContains(t, got, "b")
		assert.Equal(t, []string{"c", "d", "a"}, got[:3])
	})

	t.Run("preserves rotation order of untouched endpoints", func(t *testing.T) {
		t.Parallel()

		pool := crawl.NewEndpointPool([]string{"a", "b", "c"})
		drain(t, pool, 1)
		pool.DiscardLastReturned()

		assert.Equal(t, []string{"b", "c", "b", "c"}, drain(t, pool, 4))
	})

	t.Run("is a no-op before anything was returned", func(t *testing.T) {
		t.Parallel()

		pool := crawl.NewEndpointPool([]string{"a", "b"})
		pool.DiscardLastReturned()

		assert.Equal(t, 2, pool.Len())
	})

	t.Run("discards only once per returned endpoint", func(t *testing.T) {
		t.Parallel()

		pool := crawl.NewEndpointPool([]string{"a", "b", "c"})
		drain(t, pool, 1)
		pool.DiscardLastReturned()
		pool.DiscardLastReturned()

		assert.Equal(t, 2, pool.Len())
	})

	t.Run("is a no-op on an empty pool", func(t *testing.T) {
		t.Parallel()

		pool := crawl.NewEndpointPool([]string{"a"})
		drain(t, pool, 1)
		pool.DiscardLastReturned()
		pool.DiscardLastReturned()

		assert.Equal(t, 0, pool.Len())
		_, err := pool.Next()
		assert.Equal(t, scholarly.EEXHAUSTED, scholarly.ErrorCode(err))
	})
}
