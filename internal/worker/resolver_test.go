package worker

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyrussmadrigal/seo-ai/internal/classify"
	"github.com/soyrussmadrigal/seo-ai/internal/progress"
	"github.com/soyrussmadrigal/seo-ai/internal/storage/models"
	"github.com/soyrussmadrigal/seo-ai/internal/storage/sqlite"
)

// stubClassifier mimics the adapter's total-function contract: keywords
// listed in failing come back as the unknown/other sentinel.
type stubClassifier struct {
	failing map[string]bool
	calls   []string
}

func (s *stubClassifier) Classify(ctx context.Context, query string) classify.Result {
	s.calls = append(s.calls, query)
	if s.failing[query] {
		return classify.Fallback()
	}
	return classify.Result{Intent: classify.IntentInformational, RecommendedFormat: "article"}
}

type countingPacer struct {
	waits int
}

func (p *countingPacer) Wait(ctx context.Context) error {
	p.waits++
	return ctx.Err()
}

func newTestDB(t *testing.T) *sqlite.Client {
	t.Helper()

	client, err := sqlite.NewClient(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.InitSchema())
	return client
}

func seedPending(t *testing.T, db *sqlite.Client, n int) []string {
	t.Helper()

	rows := make([]models.AnalyticsRow, 0, n)
	keywords := make([]string, 0, n)
	for i := 0; i < n; i++ {
		kw := fmt.Sprintf("keyword %02d", i)
		keywords = append(keywords, kw)
		rows = append(rows, models.AnalyticsRow{Keyword: kw, Date: "2024-01-01"})
	}

	_, _, err := db.InsertHistoryRows(context.Background(), rows)
	require.NoError(t, err)
	return keywords
}

func TestResolvePendingBoundedBatch(t *testing.T) {
	db := newTestDB(t)
	seedPending(t, db, 25)

	classifier := &stubClassifier{}
	pacer := &countingPacer{}
	resolver := NewResolver(db, classifier, pacer, nil, nil)
	ctx := context.Background()

	resolved, err := resolver.ResolvePending(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, resolved)
	assert.Equal(t, 10, pacer.waits)

	remaining, err := db.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, remaining)

	// The next call deterministically picks up the next window.
	resolved, err = resolver.ResolvePending(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, resolved)

	remaining, err = db.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)
}

func TestResolvePendingNewestFirst(t *testing.T) {
	db := newTestDB(t)
	keywords := seedPending(t, db, 5)

	classifier := &stubClassifier{}
	resolver := NewResolver(db, classifier, &countingPacer{}, nil, nil)

	resolved, err := resolver.ResolvePending(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, 2, resolved)

	// Most recently created records go first.
	assert.Equal(t, []string{keywords[4], keywords[3]}, classifier.calls)
}

func TestResolvePendingFailureIsolation(t *testing.T) {
	db := newTestDB(t)
	keywords := seedPending(t, db, 6)

	classifier := &stubClassifier{failing: map[string]bool{keywords[2]: true}}
	resolver := NewResolver(db, classifier, &countingPacer{}, nil, nil)
	ctx := context.Background()

	resolved, err := resolver.ResolvePending(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, resolved)

	remaining, err := db.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	records, err := db.ListHistory(ctx, models.HistoryFilter{})
	require.NoError(t, err)
	for _, r := range records {
		if r.Keyword == keywords[2] {
			// The failed record still left the pending state, via the sentinel pair.
			assert.Equal(t, classify.IntentUnknown, r.Intent)
			assert.Equal(t, classify.FormatOther, r.Format)
		} else {
			assert.Equal(t, classify.IntentInformational, r.Intent)
			assert.Equal(t, "article", r.Format)
		}
	}
}

func TestResolvePendingIdempotent(t *testing.T) {
	db := newTestDB(t)
	seedPending(t, db, 3)

	classifier := &stubClassifier{}
	resolver := NewResolver(db, classifier, &countingPacer{}, nil, nil)
	ctx := context.Background()

	resolved, err := resolver.ResolvePending(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, resolved)

	// Everything already resolved: nothing is reprocessed.
	resolved, err = resolver.ResolvePending(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, resolved)
	assert.Len(t, classifier.calls, 3)
}

func TestResolvePendingRejectsNonPositiveLimit(t *testing.T) {
	db := newTestDB(t)
	resolver := NewResolver(db, &stubClassifier{}, &countingPacer{}, nil, nil)

	_, err := resolver.ResolvePending(context.Background(), 0)
	assert.Error(t, err)
}

func TestResolvePendingPublishesProgress(t *testing.T) {
	db := newTestDB(t)
	seedPending(t, db, 2)

	hub := progress.NewHub()
	events := hub.Subscribe()
	defer hub.Unsubscribe(events)

	resolver := NewResolver(db, &stubClassifier{}, &countingPacer{}, hub, nil)

	resolved, err := resolver.ResolvePending(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, 2, resolved)

	types := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		types = append(types, (<-events).Type)
	}
	assert.Equal(t, []string{"batch_started", "record_classified", "record_classified", "batch_committed"}, types)
}

func TestResolvePendingStopsOnCancelledContext(t *testing.T) {
	db := newTestDB(t)
	seedPending(t, db, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := NewResolver(db, &stubClassifier{}, &countingPacer{}, nil, nil)

	_, err := resolver.ResolvePending(ctx, 3)
	assert.Error(t, err)
}
