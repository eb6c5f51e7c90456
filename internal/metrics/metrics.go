// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var registerOnce sync.Once

var (
	// HTTPRequestsTotal counts requests by method, route pattern and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency in seconds.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "studio",
			Name:      "http_request_duration_seconds",
			Help:      "Request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// StorageOperationsTotal counts object-store calls by operation and outcome.
	StorageOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "storage_operations_total",
			Help:      "Object storage operations.",
		},
		[]string{"operation", "status"},
	)

	// UploadedBytesTotal sums the declared size of uploaded photos.
	UploadedBytesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "studio",
		Name:      "uploaded_bytes_total",
		Help:      "Bytes of photo content accepted for upload.",
	})
)

// Register registers all collectors with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			StorageOperationsTotal,
			UploadedBytesTotal,
		)
	})
}

// ObserveStorage records the outcome of a storage call.
func ObserveStorage(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StorageOperationsTotal.WithLabelValues(op, status).Inc()
}
