package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_http_requests_total",
			Help: "HTTP requests by route template and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "admin_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// AdminOperations counts service mutations by area, operation and outcome.
	AdminOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_operations_total",
			Help: "Administrative operations by category, operation and result",
		},
		[]string{"category", "operation", "result"},
	)

	AuditFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "admin_audit_failures_total",
			Help: "Operation log entries that could not be stored",
		},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_login_attempts_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)
)

// ObserveOperation records the outcome of one service operation.
func ObserveOperation(category, operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	AdminOperations.WithLabelValues(category, operation, result).Inc()
}
