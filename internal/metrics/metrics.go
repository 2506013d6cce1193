// Package metrics provides Prometheus metrics for the DSTU client.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Cache invalidation metrics
	invalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dstu_cache_invalidations_total",
			Help: "Total cache invalidations triggered",
		},
		[]string{"scope"}, // item | all
	)

	keyExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dstu_cache_key_extractions_total",
			Help: "Total fallback identifier extractions from path strings",
		},
		[]string{"result"}, // exact | degraded | rejected
	)

	// RPC metrics
	rpcCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dstu_rpc_calls_total",
			Help: "Total remote backend calls",
		},
		[]string{"method", "status"},
	)

	rpcCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dstu_rpc_call_duration_seconds",
			Help:    "Remote backend call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// Watch metrics
	watchEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dstu_watch_events_total",
			Help: "Total change events received on the watch stream",
		},
		[]string{"kind"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordInvalidation records cache invalidations for n identifiers.
func RecordInvalidation(n int) {
	invalidationsTotal.WithLabelValues("item").Add(float64(n))
}

// RecordInvalidateAll records a bulk whole-cache invalidation.
func RecordInvalidateAll() {
	invalidationsTotal.WithLabelValues("all").Inc()
}

// RecordKeyExtraction records the outcome of a path-to-identifier extraction.
func RecordKeyExtraction(result string) {
	keyExtractionsTotal.WithLabelValues(result).Inc()
}

// RecordRPCCall records a remote backend call outcome.
func RecordRPCCall(method string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	rpcCallsTotal.WithLabelValues(method, status).Inc()
	rpcCallDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordWatchEvent records a received change event.
func RecordWatchEvent(kind string) {
	watchEventsTotal.WithLabelValues(kind).Inc()
}
