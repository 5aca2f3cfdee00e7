package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/soyrussmadrigal/seo-ai/internal/metrics"
	"github.com/soyrussmadrigal/seo-ai/internal/storage/models"
	"github.com/soyrussmadrigal/seo-ai/internal/storage/sqlite"
	"github.com/soyrussmadrigal/seo-ai/pkg/logger"
)

// Invalidator drops cached history reads after a write. May be absent.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Summary reports the outcome of one ingestion call.
type Summary struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// Deduplicator merges fetched analytics rows into the keyword history.
// A (keyword, date) pair that already exists is skipped; its stored
// metrics and labels are never touched. New records land in the pending
// label state and wait for the classification worker.
type Deduplicator struct {
	db    *sqlite.Client
	cache Invalidator
}

func NewDeduplicator(db *sqlite.Client, cache Invalidator) *Deduplicator {
	return &Deduplicator{db: db, cache: cache}
}

// Ingest persists the rows in input order inside a single transaction:
// a partial ingest either fully lands or is fully retried by the caller.
func (d *Deduplicator) Ingest(ctx context.Context, rows []models.AnalyticsRow) (Summary, error) {
	runID := uuid.New().String()

	inserted, skipped, err := d.db.InsertHistoryRows(ctx, rows)
	if err != nil {
		return Summary{}, fmt.Errorf("ingest failed: %w", err)
	}

	metrics.RowsIngested.WithLabelValues("inserted").Add(float64(inserted))
	metrics.RowsIngested.WithLabelValues("skipped").Add(float64(skipped))

	logger.Info("Analytics rows ingested",
		zap.String("run_id", runID),
		zap.Int("rows", len(rows)),
		zap.Int("inserted", inserted),
		zap.Int("skipped", skipped),
	)

	if d.cache != nil && inserted > 0 {
		if err := d.cache.Invalidate(ctx); err != nil {
			logger.Warn("History cache invalidation failed", zap.String("run_id", runID), zap.Error(err))
		}
	}

	return Summary{Inserted: inserted, Skipped: skipped}, nil
}
