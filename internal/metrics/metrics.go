// Package metrics holds the Prometheus collectors shared by the HTTP layer,
// the document service and reconciliation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdfvault_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pdfvault_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// OperationsTotal counts document operations; result is "success" or an error kind.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdfvault_operations_total",
			Help: "Document operations by operation and result",
		},
		[]string{"operation", "result"},
	)

	UploadedBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pdfvault_upload_bytes_total",
			Help: "Bytes written to the object store by successful uploads",
		},
	)

	ReconcileRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pdfvault_reconcile_runs_total",
			Help: "Completed reconciliation runs",
		},
	)

	ReconcileIssuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdfvault_reconcile_issues_total",
			Help: "Reconciliation findings by type",
		},
		[]string{"type"},
	)
)
