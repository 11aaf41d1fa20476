package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latency of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	OrdersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders committed successfully",
	})

	OrderCreateFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_create_failures_total",
		Help: "Rejected or failed order creations by reason",
	}, []string{"reason"})

	StorageUploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storage_uploads_total",
		Help: "File uploads by result",
	}, []string{"result"})
)

const (
	ReasonNotFound          = "not_found"
	ReasonInsufficientStock = "insufficient_stock"
	ReasonInvalid           = "invalid"
	ReasonInternal          = "internal"

	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

var once sync.Once

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			OrdersCreated,
			OrderCreateFailures,
			StorageUploads,
		)
	})
}
