package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LedgerOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Ledger simulate and confirm calls by kind, step and outcome",
		},
		[]string{"kind", "step", "status"},
	)

	LedgerOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Ledger simulate and confirm latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind", "step"},
	)

	PendingSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pending_operations_swept_total",
			Help: "Expired pending operations removed by the sweeper",
		},
	)

	BNPLInstallments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bnpl_installments_total",
			Help: "BNPL installment payments by outcome",
		},
		[]string{"status"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)
)

// Outcome labels
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ObserveOperation records the outcome and latency of one ledger call.
func ObserveOperation(kind, step string, elapsed time.Duration, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	LedgerOperations.WithLabelValues(kind, step, status).Inc()
	LedgerOperationDuration.WithLabelValues(kind, step).Observe(elapsed.Seconds())
}
