package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Query pipeline metrics
	QueriesTotal         *prometheus.CounterVec
	QueryDurationSeconds *prometheus.HistogramVec
	DocsRetrieved        prometheus.Histogram

	// Classification metrics
	ClassificationsTotal *prometheus.CounterVec

	// LLM metrics
	LLMRequestsTotal   *prometheus.CounterVec
	LLMDurationSeconds *prometheus.HistogramVec

	// Retrieval metrics
	RetrievalErrorsTotal *prometheus.CounterVec

	// Bot metrics
	BotUpdatesTotal    *prometheus.CounterVec
	RateLimiterDropped prometheus.Counter
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		QueriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "mee_queries_total",
				Help: "Total number of answered queries by category and status",
			},
			[]string{"category", "status"}, // status: answered, no_docs, error
		),

		QueryDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mee_query_duration_seconds",
				Help:    "End-to-end query processing duration in seconds by category",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30}, // LLM-bound latencies
			},
			[]string{"category"},
		),

		DocsRetrieved: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mee_docs_retrieved",
				Help:    "Number of documents returned by hybrid retrieval per query",
				Buckets: []float64{0, 1, 2, 4, 6, 8, 10},
			},
		),

		ClassificationsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "mee_classifications_total",
				Help: "Total query classifications by method and category",
			},
			[]string{"method", "category"}, // method: keyword, llm, default
		),

		LLMRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "mee_llm_requests_total",
				Help: "Total LLM API requests by operation and status",
			},
			[]string{"operation", "status"}, // operation: categorize, generate, embed
		),

		LLMDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mee_llm_duration_seconds",
				Help:    "LLM API request duration in seconds by operation",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20},
			},
			[]string{"operation"},
		),

		RetrievalErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "mee_retrieval_errors_total",
				Help: "Total retrieval errors by index and kind",
			},
			[]string{"index", "kind"}, // index: vector, lexical; kind: filter_rejected, search_failed
		),

		BotUpdatesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "mee_bot_updates_total",
				Help: "Total Telegram updates by type and status",
			},
			[]string{"type", "status"}, // type: message, command, callback
		),

		RateLimiterDropped: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "mee_rate_limiter_dropped_total",
				Help: "Total messages dropped by the per-user rate limiter",
			},
		),
	}

	return m
}
