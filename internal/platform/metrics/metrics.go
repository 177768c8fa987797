// Package metrics exposes Prometheus counters for the lookup and review
// paths, served over promhttp from cmd/server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	wordLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milon_word_lookups_total",
			Help: "Total number of word lookups by cache outcome",
		},
		[]string{"source"},
	)

	providerErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milon_provider_errors_total",
			Help: "Total number of failed dictionary provider calls",
		},
		[]string{"reason"},
	)

	providerFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "milon_provider_fetch_duration_seconds",
			Help:    "Dictionary provider fetch duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
	)

	reviewsGradedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milon_reviews_graded_total",
			Help: "Total number of graded reviews by outcome",
		},
		[]string{"outcome"},
	)

	dictionaryChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milon_dictionary_changes_total",
			Help: "Total number of dictionary add and remove operations",
		},
		[]string{"op"},
	)
)

// Lookup sources.
const (
	SourceCache    = "cache"
	SourceRedis    = "redis"
	SourceProvider = "provider"
)

// Provider error reasons.
const (
	ReasonNotFound    = "not_found"
	ReasonUnavailable = "unavailable"
)

// RecordLookup counts one word lookup resolved from the given source.
func RecordLookup(source string) {
	wordLookupsTotal.WithLabelValues(source).Inc()
}

// RecordProviderError counts one failed provider call.
func RecordProviderError(reason string) {
	providerErrorsTotal.WithLabelValues(reason).Inc()
}

// ObserveProviderFetch records the duration of a provider call in seconds.
func ObserveProviderFetch(seconds float64) {
	providerFetchDuration.Observe(seconds)
}

// RecordReview counts one graded review.
func RecordReview(outcome string) {
	reviewsGradedTotal.WithLabelValues(outcome).Inc()
}

// RecordDictionaryChange counts one add or remove operation.
func RecordDictionaryChange(op string) {
	dictionaryChangesTotal.WithLabelValues(op).Inc()
}

// Handler returns the scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
