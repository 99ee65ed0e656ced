package sqlite

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gooosetavo/dod-prohibited/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testRecord(t *testing.T, doc string) domain.Record {
	t.Helper()
	var r domain.Record
	require.NoError(t, json.Unmarshal([]byte(doc), &r))
	return r
}

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestStore_UpsertAndExport(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	err := store.Upsert(ctx, []domain.Record{
		testRecord(t, `{"Name": "Ephedra", "Reason": "banned"}`),
		testRecord(t, `{"Name": "DMAA"}`),
	})
	require.NoError(t, err)

	records, err := store.Export(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Export is ordered by identity key.
	assert.Equal(t, "DMAA", records[0].Name())
	assert.Equal(t, "Ephedra", records[1].Name())

	// Every exported record carries its first-seen stamp.
	for _, rec := range records {
		added := rec.AddedDate()
		require.NotEmpty(t, added)
		_, err := time.Parse(time.RFC3339, added)
		assert.NoError(t, err)
	}
}

func TestStore_UpsertPreservesFirstSeen(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	store.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, store.Upsert(ctx, []domain.Record{
		testRecord(t, `{"Name": "Ephedra", "Reason": "old"}`),
	}))

	store.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, store.Upsert(ctx, []domain.Record{
		testRecord(t, `{"Name": "Ephedra", "Reason": "new"}`),
	}))

	records, err := store.Export(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// first_seen survives the re-upsert, the data does not.
	assert.Equal(t, "2024-01-01T00:00:00Z", records[0].AddedDate())
	assert.Equal(t, "new", records[0].Reason())
}

func TestStore_ExportKeepsRecordsNoLongerPublished(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []domain.Record{
		testRecord(t, `{"Name": "Ephedra"}`),
		testRecord(t, `{"Name": "DMAA"}`),
	}))

	// A later fetch no longer includes DMAA; the cache still does.
	require.NoError(t, store.Upsert(ctx, []domain.Record{
		testRecord(t, `{"Name": "Ephedra"}`),
	}))

	records, err := store.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Upsert(ctx, []domain.Record{
		testRecord(t, `{"Name": "Ephedra"}`),
	}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.Export(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Ephedra", records[0].Name())
}
