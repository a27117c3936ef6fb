package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/scholarly"
	"github.com/fwojciec/scholarly/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestResultStore_WriteResults(t *testing.T) {
	t.Parallel()

	t.Run("stores records in ranked order", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := sqlite.NewResultStore(openDB(t), "graph")
		records := []*scholarly.Record{
			{Title: "B", Link: "https://example.com/b", Citations: 10, Document: scholarly.Placeholder, Year: 2019},
			{Title: "A", Link: scholarly.Placeholder, Citations: 5, Document: "https://example.com/a.pdf", Year: scholarly.YearUnknown},
		}

		require.NoError(t, store.WriteResults(ctx, records))

		runs, err := store.FindRuns(ctx, 0, 0)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "graph", runs[0].Query)
		assert.Equal(t, 2, runs[0].Records)
		assert.NotEmpty(t, runs[0].ID)
		assert.False(t, runs[0].CreatedAt.IsZero())

		got, err := store.FindRecords(ctx, runs[0].ID)
		require.NoError(t, err)
		assert.Equal(t, records, got)
	})

	t.Run("stores every checkpoint as a separate run", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := sqlite.NewResultStore(openDB(t), "graph")

		require.NoError(t, store.WriteResults(ctx, []*scholarly.Record{{Title: "A", Year: 2001}}))
		require.NoError(t, store.WriteResults(ctx, []*scholarly.Record{{Title: "A", Year: 2001}, {Title: "B", Year: 2002}}))

		runs, err := store.FindRuns(ctx, 0, 0)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, 2, runs[0].Records)
		assert.Equal(t, 1, runs[1].Records)

		limited, err := store.FindRuns(ctx, 1, 1)
		require.NoError(t, err)
		require.Len(t, limited, 1)
		assert.Equal(t, runs[1].ID, limited[0].ID)
	})

	t.Run("keeps duplicate records", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := sqlite.NewResultStore(openDB(t), "graph")
		dup := &scholarly.Record{Title: "Same", Link: "https://example.com/s", Citations: 3, Document: scholarly.Placeholder, Year: 2010}
		other := &scholarly.Record{Title: "Other", Link: "https://example.com/o", Citations: 3, Document: scholarly.Placeholder, Year: 2010}

		require.NoError(t, store.WriteResults(ctx, []*scholarly.Record{dup, dup, other}))

		runs, err := store.FindRuns(ctx, 0, 0)
		require.NoError(t, err)
		got, err := store.FindRecords(ctx, runs[0].ID)
		require.NoError(t, err)
		assert.Len(t, got, 3)

		n, err := store.CountDuplicates(ctx, runs[0].ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("stores an empty result set", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := sqlite.NewResultStore(openDB(t), "graph")

		require.NoError(t, store.WriteResults(ctx, nil))

		runs, err := store.FindRuns(ctx, 0, 0)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		got, err := store.FindRecords(ctx, runs[0].ID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestResultStore_FindRecords(t *testing.T) {
	t.Parallel()

	t.Run("returns not found for an unknown run", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewResultStore(openDB(t), "graph")

		_, err := store.FindRecords(context.Background(), "missing")

		require.Error(t, err)
		assert.Equal(t, scholarly.ENOTFOUND, scholarly.ErrorCode(err))
	})
}
