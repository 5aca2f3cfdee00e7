package gsc

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	searchconsole "google.golang.org/api/searchconsole/v1"
	"google.golang.org/api/option"

	"github.com/soyrussmadrigal/seo-ai/internal/metrics"
	"github.com/soyrussmadrigal/seo-ai/internal/storage/models"
	"github.com/soyrussmadrigal/seo-ai/pkg/config"
	"github.com/soyrussmadrigal/seo-ai/pkg/logger"
)

const dateLayout = "2006-01-02"

// Fetcher pulls search-analytics rows from the Google Search Console API
// for one property. Failures here are connectivity/config problems and
// surface as errors to the caller; nothing is retried automatically.
type Fetcher struct {
	service  *searchconsole.Service
	siteURL  string
	rowLimit int64
}

func NewFetcher(ctx context.Context, cfg config.GSCConfig) (*Fetcher, error) {
	if cfg.SiteURL == "" {
		return nil, fmt.Errorf("gsc site URL is not configured")
	}
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("gsc credentials file is not configured")
	}

	service, err := searchconsole.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(searchconsole.WebmastersReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create search console service: %w", err)
	}

	rowLimit := int64(cfg.RowLimit)
	if rowLimit <= 0 {
		rowLimit = 25000
	}

	logger.Info("GSC fetcher initialized", zap.String("site_url", cfg.SiteURL))

	return &Fetcher{
		service:  service,
		siteURL:  cfg.SiteURL,
		rowLimit: rowLimit,
	}, nil
}

// Fetch returns query-by-date rows covering the last days days including
// today, mapped 1:1 into ingestion rows.
func (f *Fetcher) Fetch(ctx context.Context, days int) ([]models.AnalyticsRow, error) {
	if days <= 0 {
		days = 1
	}

	today := time.Now()
	request := &searchconsole.SearchAnalyticsQueryRequest{
		StartDate:  today.AddDate(0, 0, -(days - 1)).Format(dateLayout),
		EndDate:    today.Format(dateLayout),
		Dimensions: []string{"query", "date"},
		RowLimit:   f.rowLimit,
	}

	resp, err := f.service.Searchanalytics.Query(f.siteURL, request).Context(ctx).Do()
	if err != nil {
		metrics.GSCFetchTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("search console query failed: %w", err)
	}

	rows := make([]models.AnalyticsRow, 0, len(resp.Rows))
	for _, apiRow := range resp.Rows {
		if len(apiRow.Keys) < 2 {
			continue
		}
		rows = append(rows, models.AnalyticsRow{
			Keyword:     apiRow.Keys[0],
			Date:        apiRow.Keys[1],
			Clicks:      int(apiRow.Clicks),
			Impressions: int(apiRow.Impressions),
			CTR:         apiRow.Ctr,
			Position:    apiRow.Position,
		})
	}

	metrics.GSCFetchTotal.WithLabelValues("success").Inc()
	metrics.GSCRowsFetched.Add(float64(len(rows)))

	logger.Info("GSC data fetched",
		zap.Int("days", days),
		zap.Int("rows", len(rows)),
	)

	return rows, nil
}
