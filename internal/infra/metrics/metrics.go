// Package metrics holds the Prometheus collectors shared by the API and the
// services behind it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cointrack"

var (
	// HTTPRequestsTotal counts served requests by route pattern and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by route pattern
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	// LedgerMutationsTotal counts ledger writes by operation and outcome
	LedgerMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_mutations_total",
			Help:      "Total number of ledger mutations",
		},
		[]string{"operation", "status"},
	)

	// MalformedRecordsTotal counts records skipped by a computation because
	// their date could not be parsed
	MalformedRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_records_total",
			Help:      "Total number of records skipped due to malformed input",
		},
		[]string{"computation"},
	)

	// StoreErrorsTotal counts failed profile store calls by backend and operation
	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Total number of failed profile store operations",
		},
		[]string{"backend", "operation"},
	)
)

// RecordMutation increments the mutation counter for an operation result.
func RecordMutation(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	LedgerMutationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordSkipped adds n skipped records for a computation.
func RecordSkipped(computation string, n int) {
	if n > 0 {
		MalformedRecordsTotal.WithLabelValues(computation).Add(float64(n))
	}
}

// RecordStoreError counts one failed store call.
func RecordStoreError(backend, operation string) {
	StoreErrorsTotal.WithLabelValues(backend, operation).Inc()
}
