package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RowsIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seo_ai_rows_ingested_total",
			Help: "History rows processed by ingestion",
		},
		[]string{"outcome"}, // inserted | skipped
	)

	ClassificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seo_ai_classifications_total",
			Help: "Classification adapter calls",
		},
		[]string{"outcome"}, // ok | fallback
	)

	ClassificationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "seo_ai_classification_duration_seconds",
			Help:    "Classification adapter call duration",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	PendingRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "seo_ai_pending_records",
			Help: "History records still awaiting classification",
		},
	)

	WorkerBatchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seo_ai_worker_batches_total",
			Help: "Pending-classification batches committed",
		},
	)

	GSCFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seo_ai_gsc_fetch_total",
			Help: "Search Console fetch attempts",
		},
		[]string{"status"}, // success | error
	)

	GSCRowsFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seo_ai_gsc_rows_fetched_total",
			Help: "Rows returned by Search Console",
		},
	)

	HistoryCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seo_ai_history_cache_total",
			Help: "History cache lookups",
		},
		[]string{"result"}, // hit | miss
	)
)

func Init() {
	prometheus.MustRegister(RowsIngested)
	prometheus.MustRegister(ClassificationsTotal)
	prometheus.MustRegister(ClassificationDuration)
	prometheus.MustRegister(PendingRecords)
	prometheus.MustRegister(WorkerBatchesTotal)
	prometheus.MustRegister(GSCFetchTotal)
	prometheus.MustRegister(GSCRowsFetched)
	prometheus.MustRegister(HistoryCache)
}

func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
