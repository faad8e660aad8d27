// Package metrics exposes Prometheus instrumentation for the HTTP API and
// the signal engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "praktijk_http_requests_total",
		Help: "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "pattern", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "praktijk_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "pattern"})

	signalEvaluations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "praktijk_signal_evaluations_total",
		Help: "Reimbursement signal engine evaluations.",
	})

	signalsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "praktijk_signals_emitted_total",
		Help: "Reimbursement signals emitted across all evaluations.",
	})

	entriesSynced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "praktijk_entries_synced_total",
		Help: "Bookkeeping entries mirrored to Google Sheets, by kind and result.",
	}, []string{"kind", "result"})
)

// Handler serves the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one handled HTTP request.
func ObserveRequest(method, pattern string, status int, elapsed time.Duration) {
	requestsTotal.WithLabelValues(method, pattern, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(method, pattern).Observe(elapsed.Seconds())
}

// ObserveSignalEvaluation records one run of the signal engine and how many
// signals it produced.
func ObserveSignalEvaluation(emitted int) {
	signalEvaluations.Inc()
	signalsEmitted.Add(float64(emitted))
}

// ObserveEntrySync records the outcome of mirroring one entry.
func ObserveEntrySync(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	entriesSynced.WithLabelValues(kind, result).Inc()
}
