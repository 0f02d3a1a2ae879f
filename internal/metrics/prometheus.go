package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DecisionsTotal counts decisions returned to callers, by severity.
	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inovspin_decisions_total",
			Help: "Total number of risk decisions, by severity",
		},
		[]string{"severity"},
	)

	// PredictFailures counts predictions that returned an error.
	PredictFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inovspin_predict_failures_total",
			Help: "Total number of failed predictions, by error kind",
		},
		[]string{"kind"},
	)

	// InferenceLatency covers classifier, overlay and ledger append.
	InferenceLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inovspin_predict_latency_seconds",
			Help:    "Prediction latency in seconds, including the ledger append",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// LedgerOperations counts ledger reads and writes.
	LedgerOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inovspin_ledger_operations_total",
			Help: "Total number of ledger operations",
		},
		[]string{"operation", "status"},
	)

	// CacheRequests counts history cache lookups.
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inovspin_history_cache_requests_total",
			Help: "History cache lookups, by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	// RequestDuration observes HTTP handler latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inovspin_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// ModelLoaded is 1 when a classifier is available.
	ModelLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inovspin_model_loaded",
			Help: "Whether a trained classifier is loaded (1) or not (0)",
		},
	)
)

// Status returns the label value for an operation outcome.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
