package models

import "time"

// LabelPending marks a history record that has been ingested but not yet
// classified. The worker replaces it on both fields at once.
const LabelPending = "pending"

// KeywordHistoryRecord is one observation of a keyword's performance on
// one day. At most one record exists per (Keyword, GSCDate) pair.
type KeywordHistoryRecord struct {
	ID          int64     `json:"id"`
	Keyword     string    `json:"keyword"`
	Intent      string    `json:"intent"`
	Format      string    `json:"format"`
	Clicks      int       `json:"clicks"`
	Impressions int       `json:"impressions"`
	CTR         float64   `json:"ctr"`
	Position    float64   `json:"position"`
	GSCDate     string    `json:"gsc_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// AnalyticsRow is one freshly fetched search-analytics observation, the
// ingestion input shape. Date is formatted YYYY-MM-DD.
type AnalyticsRow struct {
	Keyword     string  `json:"keyword"`
	Date        string  `json:"date"`
	Clicks      int     `json:"clicks"`
	Impressions int     `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

// LabelUpdate carries the worker's resolved label pair for one record.
type LabelUpdate struct {
	ID     int64
	Intent string
	Format string
}

// HistoryFilter narrows a history listing. Empty fields are ignored;
// present fields are combined conjunctively.
type HistoryFilter struct {
	StartDate string
	EndDate   string
	Intent    string
	Format    string
}

// TimeseriesPoint is one day of a single keyword's trend.
type TimeseriesPoint struct {
	GSCDate  string  `json:"gsc_date"`
	Clicks   int     `json:"clicks"`
	CTR      float64 `json:"ctr"`
	Position float64 `json:"position"`
}
