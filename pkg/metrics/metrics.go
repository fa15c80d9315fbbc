package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CandidatesCreated counts successful candidate intake operations.
	CandidatesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "talentrail_candidates_created_total",
			Help: "Total number of candidates created",
		},
	)

	// SchedulesCreated counts interview slots persisted by the schedule manager.
	SchedulesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "talentrail_schedules_created_total",
			Help: "Total number of interview slots created",
		},
	)

	// BulkSubOperations counts bulk executor sub-updates by operation and result (success|failure).
	BulkSubOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "talentrail_bulk_sub_operations_total",
			Help: "Total number of bulk executor sub-operations",
		},
		[]string{"operation", "result"},
	)

	// PermissionChecks counts permission evaluations and their outcome (allowed|denied|error).
	PermissionChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "talentrail_permission_checks_total",
			Help: "Total number of permission checks",
		},
		[]string{"permission", "result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "talentrail_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
