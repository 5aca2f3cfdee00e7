package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyrussmadrigal/seo-ai/internal/storage/models"
	"github.com/soyrussmadrigal/seo-ai/internal/storage/sqlite"
)

type mockInvalidator struct {
	calls int
}

func (m *mockInvalidator) Invalidate(ctx context.Context) error {
	m.calls++
	return nil
}

func newTestDB(t *testing.T) *sqlite.Client {
	t.Helper()

	client, err := sqlite.NewClient(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.InitSchema())
	return client
}

func TestIngestIdempotence(t *testing.T) {
	db := newTestDB(t)
	dedup := NewDeduplicator(db, nil)
	ctx := context.Background()

	rows := make([]models.AnalyticsRow, 0, 8)
	for i := 0; i < 8; i++ {
		rows = append(rows, models.AnalyticsRow{
			Keyword:     fmt.Sprintf("keyword %d", i),
			Date:        "2024-01-01",
			Clicks:      i,
			Impressions: i * 10,
		})
	}

	first, err := dedup.Ingest(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, Summary{Inserted: 8, Skipped: 0}, first)

	second, err := dedup.Ingest(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, Summary{Inserted: 0, Skipped: 8}, second)
}

func TestIngestDuplicateLeavesStoredMetricsUntouched(t *testing.T) {
	db := newTestDB(t)
	dedup := NewDeduplicator(db, nil)
	ctx := context.Background()

	_, err := dedup.Ingest(ctx, []models.AnalyticsRow{
		{Keyword: "loan calculator", Date: "2024-01-01", Clicks: 10, Impressions: 200, CTR: 0.05, Position: 4.5},
	})
	require.NoError(t, err)

	// Same dedup key, different metrics: no upsert.
	summary, err := dedup.Ingest(ctx, []models.AnalyticsRow{
		{Keyword: "loan calculator", Date: "2024-01-01", Clicks: 999, Impressions: 1, CTR: 0.9, Position: 1.0},
	})
	require.NoError(t, err)
	assert.Equal(t, Summary{Inserted: 0, Skipped: 1}, summary)

	records, err := db.ListHistory(ctx, models.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 10, records[0].Clicks)
	assert.Equal(t, 200, records[0].Impressions)
	assert.InDelta(t, 0.05, records[0].CTR, 1e-9)
	assert.InDelta(t, 4.5, records[0].Position, 1e-9)
}

func TestIngestMixedBatchCountsBothOutcomes(t *testing.T) {
	db := newTestDB(t)
	dedup := NewDeduplicator(db, nil)
	ctx := context.Background()

	_, err := dedup.Ingest(ctx, []models.AnalyticsRow{
		{Keyword: "existing", Date: "2024-01-01"},
	})
	require.NoError(t, err)

	summary, err := dedup.Ingest(ctx, []models.AnalyticsRow{
		{Keyword: "existing", Date: "2024-01-01"},
		{Keyword: "existing", Date: "2024-01-02"},
		{Keyword: "fresh", Date: "2024-01-01"},
	})
	require.NoError(t, err)
	assert.Equal(t, Summary{Inserted: 2, Skipped: 1}, summary)
}

func TestIngestInvalidatesCacheOnlyWhenRowsLand(t *testing.T) {
	db := newTestDB(t)
	cache := &mockInvalidator{}
	dedup := NewDeduplicator(db, cache)
	ctx := context.Background()

	_, err := dedup.Ingest(ctx, []models.AnalyticsRow{
		{Keyword: "kw", Date: "2024-01-01"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.calls)

	// All-duplicate run changes nothing, so the cache stays warm.
	_, err = dedup.Ingest(ctx, []models.AnalyticsRow{
		{Keyword: "kw", Date: "2024-01-01"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.calls)
}
