// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActivitySignups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_signups_total",
			Help: "Total number of successful activity sign-ups",
		},
		[]string{"activity"},
	)

	ActivityUnregistrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_unregistrations_total",
			Help: "Total number of successful activity unregistrations",
		},
		[]string{"activity"},
	)

	ActivityOperationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_operation_failures_total",
			Help: "Total number of rejected roster operations",
		},
		[]string{"operation", "error_code"},
	)

	ActivityParticipants = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "activity_participants",
			Help: "Current roster size per activity",
		},
		[]string{"activity"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP request handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
