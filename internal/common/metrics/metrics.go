// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "livest_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "livest_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ApplicationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "livest_application_decisions_total",
			Help: "Applications decided, by resulting status",
		},
		[]string{"status"},
	)

	ApplicationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "livest_applications_created_total",
			Help: "Application submissions, by outcome",
		},
		[]string{"outcome"},
	)

	SearchQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "livest_search_queries_total",
			Help: "Property searches, by backend and whether a geo filter was present",
		},
		[]string{"backend", "geo"},
	)

	PropertyCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "livest_property_cache_lookups_total",
			Help: "Property cache lookups by result",
		},
		[]string{"result"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)
)
