package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_logins_total",
			Help: "Total login attempts by result",
		},
		[]string{"result"},
	)

	EmployeesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_employees_created_total",
			Help: "Total employee records created",
		},
	)

	EmployeesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_employees_deleted_total",
			Help: "Total employee records marked for deletion",
		},
	)

	EventPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_event_publish_failures_total",
			Help: "Total outbound event publish failures by detail type",
		},
		[]string{"detail_type"},
	)
)
