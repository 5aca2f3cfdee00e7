package history

import (
	"context"
	"crypto/md5"
	"fmt"

	"go.uber.org/zap"

	"github.com/soyrussmadrigal/seo-ai/internal/metrics"
	"github.com/soyrussmadrigal/seo-ai/internal/storage/models"
	"github.com/soyrussmadrigal/seo-ai/internal/storage/sqlite"
	"github.com/soyrussmadrigal/seo-ai/pkg/logger"
)

// Cache is the optional read-through cache in front of history reads.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// Service is the read-only query layer over the keyword history.
type Service struct {
	db    *sqlite.Client
	cache Cache
}

// NewService builds the query service. cache may be nil; reads then go
// straight to storage.
func NewService(db *sqlite.Client, cache Cache) *Service {
	return &Service{db: db, cache: cache}
}

// List returns history records matching the filter, newest gsc_date
// first. Absent filter fields are ignored; present ones are combined
// conjunctively. No matches is an empty slice, not an error.
func (s *Service) List(ctx context.Context, filter models.HistoryFilter) ([]models.KeywordHistoryRecord, error) {
	key := cacheKey("list", filter.StartDate, filter.EndDate, filter.Intent, filter.Format)

	if s.cache != nil {
		var cached []models.KeywordHistoryRecord
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn("History cache read failed", zap.Error(err))
		} else if hit {
			metrics.HistoryCache.WithLabelValues("hit").Inc()
			return cached, nil
		}
		metrics.HistoryCache.WithLabelValues("miss").Inc()
	}

	records, err := s.db.ListHistory(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, records); err != nil {
			logger.Warn("History cache write failed", zap.Error(err))
		}
	}

	return records, nil
}

// Timeseries returns one keyword's daily trend, ascending by date.
func (s *Service) Timeseries(ctx context.Context, keyword string) ([]models.TimeseriesPoint, error) {
	key := cacheKey("timeseries", keyword)

	if s.cache != nil {
		var cached []models.TimeseriesPoint
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn("History cache read failed", zap.Error(err))
		} else if hit {
			metrics.HistoryCache.WithLabelValues("hit").Inc()
			return cached, nil
		}
		metrics.HistoryCache.WithLabelValues("miss").Inc()
	}

	points, err := s.db.KeywordTimeseries(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to load timeseries: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, points); err != nil {
			logger.Warn("History cache write failed", zap.Error(err))
		}
	}

	return points, nil
}

func cacheKey(parts ...string) string {
	joined := ""
	for _, p := range parts {
		joined += p + "|"
	}
	return fmt.Sprintf("%x", md5.Sum([]byte(joined)))
}
