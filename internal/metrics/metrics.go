// Package metrics exposes Prometheus instrumentation for lookups, corpus builds,
// the metadata provider and the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	// Lookup metrics
	SuggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_suggestions_total",
			Help: "Total number of similarity lookups",
		},
		[]string{"mode", "outcome"},
	)

	SuggestionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_suggestion_duration_seconds",
			Help:    "Similarity lookup latency in seconds",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
		[]string{"mode"},
	)

	// Corpus metrics
	CorpusEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_corpus_entries",
			Help: "Number of entries in the active corpus snapshot",
		},
	)

	SnapshotBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelmatch_snapshot_build_duration_seconds",
			Help:    "Time to vectorize the corpus and build similarity matrices",
			Buckets: prometheus.DefBuckets,
		},
	)

	MatrixCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_matrix_cache_total",
			Help: "Similarity matrix cache lookups by result",
		},
		[]string{"mode", "result"}, // "hit", "miss", "stale"
	)

	CorpusReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_corpus_reloads_total",
			Help: "Corpus hot reloads by result",
		},
		[]string{"result"},
	)

	// Metadata provider metrics
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_provider_requests_total",
			Help: "Requests to the movie metadata provider",
		},
		[]string{"result"}, // "ok", "error", "cache_hit", "circuit_open"
	)

	ProviderRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelmatch_provider_request_duration_seconds",
			Help:    "Metadata provider request latency in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reelmatch_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)
)

// RecordSuggestion records one lookup.
func RecordSuggestion(mode, outcome string, duration time.Duration) {
	SuggestionsTotal.WithLabelValues(mode, outcome).Inc()
	SuggestionDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordSnapshot records a completed snapshot build.
func RecordSnapshot(entries int, duration time.Duration) {
	CorpusEntries.Set(float64(entries))
	SnapshotBuildDuration.Observe(duration.Seconds())
}

// RecordReload records a corpus reload attempt.
func RecordReload(err error) {
	if err != nil {
		CorpusReloadsTotal.WithLabelValues("error").Inc()
		return
	}
	CorpusReloadsTotal.WithLabelValues("ok").Inc()
}

// RecordProviderRequest records a metadata provider call.
func RecordProviderRequest(result string, duration time.Duration) {
	ProviderRequestsTotal.WithLabelValues(result).Inc()
	if duration > 0 {
		ProviderRequestDuration.Observe(duration.Seconds())
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
