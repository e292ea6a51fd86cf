package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP-level Prometheus metrics for the server
type Metrics struct {
	// Requests by method, route pattern and status code
	RequestsTotal *prometheus.CounterVec

	RequestDuration *prometheus.HistogramVec

	// Requests rejected before reaching a handler (auth, admin gate)
	AccessDenied *prometheus.CounterVec
}

// New creates and registers all HTTP metrics
func New() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "africonnect_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "africonnect_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		AccessDenied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "africonnect_http_access_denied_total",
			Help: "Total requests rejected with 401 or 403 by status",
		}, []string{"status"}),
	}
}

// ObserveRequest records a completed request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.RequestsTotal.WithLabelValues(method, route, code).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
	if status == 401 || status == 403 {
		m.AccessDenied.WithLabelValues(code).Inc()
	}
}
