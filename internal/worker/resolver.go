package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/soyrussmadrigal/seo-ai/internal/classify"
	"github.com/soyrussmadrigal/seo-ai/internal/metrics"
	"github.com/soyrussmadrigal/seo-ai/internal/progress"
	"github.com/soyrussmadrigal/seo-ai/internal/storage/models"
	"github.com/soyrussmadrigal/seo-ai/internal/storage/sqlite"
	"github.com/soyrussmadrigal/seo-ai/pkg/logger"
	"github.com/soyrussmadrigal/seo-ai/pkg/pacing"
)

// Classifier resolves one keyword into a label pair. Implementations are
// total: they signal failure through sentinel labels, not errors.
type Classifier interface {
	Classify(ctx context.Context, query string) classify.Result
}

// Invalidator drops cached history reads after labels change.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Resolver drains pending history records through the classification
// adapter. Calls are strictly sequential and paced to respect the
// external service's request-rate ceiling; all label updates of one batch
// commit together at the end.
type Resolver struct {
	db         *sqlite.Client
	classifier Classifier
	pacer      pacing.Pacer
	hub        *progress.Hub
	cache      Invalidator
}

// NewResolver builds the worker. hub and cache may be nil.
func NewResolver(db *sqlite.Client, classifier Classifier, pacer pacing.Pacer, hub *progress.Hub, cache Invalidator) *Resolver {
	return &Resolver{
		db:         db,
		classifier: classifier,
		pacer:      pacer,
		hub:        hub,
		cache:      cache,
	}
}

// ResolvePending classifies up to batchLimit pending records, newest
// first, and returns how many transitioned out of the pending state. A
// record whose classification call fails still resolves, to the
// unknown/other sentinel, so it is not retried forever. Repeated calls
// only ever touch records still pending on both labels.
func (r *Resolver) ResolvePending(ctx context.Context, batchLimit int) (int, error) {
	if batchLimit <= 0 {
		return 0, fmt.Errorf("batch limit must be positive, got %d", batchLimit)
	}

	records, err := r.db.SelectPending(ctx, batchLimit)
	if err != nil {
		return 0, fmt.Errorf("failed to select pending records: %w", err)
	}

	if len(records) == 0 {
		logger.Info("No pending records to classify")
		return 0, nil
	}

	logger.Info("Classifying pending records", zap.Int("batch_size", len(records)))
	r.publish(progress.Event{Type: "batch_started", Total: len(records)})

	updates := make([]models.LabelUpdate, 0, len(records))
	for i, record := range records {
		// The pacer is the only cancellation point: once a record's
		// classification has started it is carried to the batch commit.
		if err := r.pacer.Wait(ctx); err != nil {
			return 0, fmt.Errorf("pacing interrupted before record %d: %w", record.ID, err)
		}

		result := r.classifier.Classify(ctx, record.Keyword)

		updates = append(updates, models.LabelUpdate{
			ID:     record.ID,
			Intent: result.Intent,
			Format: result.RecommendedFormat,
		})

		logger.Debug("Record classified",
			zap.Int64("record_id", record.ID),
			zap.String("keyword", record.Keyword),
			zap.String("intent", result.Intent),
			zap.String("format", result.RecommendedFormat),
		)

		r.publish(progress.Event{
			Type:      "record_classified",
			Keyword:   record.Keyword,
			Intent:    result.Intent,
			Format:    result.RecommendedFormat,
			Processed: i + 1,
			Total:     len(records),
		})
	}

	if err := r.db.UpdateLabels(ctx, updates); err != nil {
		return 0, fmt.Errorf("failed to commit label updates: %w", err)
	}

	metrics.WorkerBatchesTotal.Inc()
	if pending, err := r.db.CountPending(ctx); err == nil {
		metrics.PendingRecords.Set(float64(pending))
	}

	r.publish(progress.Event{Type: "batch_committed", Processed: len(updates), Total: len(records)})

	if r.cache != nil {
		if err := r.cache.Invalidate(ctx); err != nil {
			logger.Warn("History cache invalidation failed", zap.Error(err))
		}
	}

	logger.Info("Pending batch committed", zap.Int("resolved", len(updates)))

	return len(updates), nil
}

func (r *Resolver) publish(event progress.Event) {
	if r.hub != nil {
		r.hub.Publish(event)
	}
}
