package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propchat",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "propchat",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Filter extraction, by strategy that produced the answer
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propchat",
			Name:      "extractions_total",
			Help:      "Filter extractions by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	MergeDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propchat",
			Name:      "merge_decisions_total",
			Help:      "Context merge decisions",
		},
		[]string{"decision"},
	)

	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "propchat",
			Name:      "search_results",
			Help:      "Number of properties matched per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		},
	)

	Sessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "propchat",
			Name:      "sessions",
			Help:      "Conversation sessions currently held",
		},
	)
)

// Handler returns the Prometheus metrics handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordExtraction records which extractor answered and whether it was a fallback
func RecordExtraction(strategy, outcome string) {
	ExtractionsTotal.WithLabelValues(strategy, outcome).Inc()
}

// RecordMergeDecision records the context merge decision of a turn
func RecordMergeDecision(decision string) {
	MergeDecisionsTotal.WithLabelValues(decision).Inc()
}

// RecordSearch records the number of matches of one search
func RecordSearch(matches int) {
	SearchResults.Observe(float64(matches))
}

// SetSessions sets the sessions gauge
func SetSessions(n int) {
	Sessions.Set(float64(n))
}
