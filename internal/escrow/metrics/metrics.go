package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the escrow ledger.
type Metrics struct {
	// Ledger operations by type (deposit, release) and outcome
	// (completed, failed, cancelled, rejected)
	Operations *prometheus.CounterVec

	// Minor units moved by completed operations, per currency
	Volume *prometheus.CounterVec

	// External collaborator latency by collaborator and outcome
	ExternalLatency *prometheus.HistogramVec

	// Calls skipped because the gateway breaker was open
	BreakerRejections prometheus.Counter
	BreakerOpen       prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		Operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "africonnect_escrow_operations_total",
			Help: "Escrow ledger operations by type and outcome",
		}, []string{"type", "outcome"}),

		Volume: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "africonnect_escrow_volume_minor_units_total",
			Help: "Amount moved by completed escrow operations in minor units",
		}, []string{"type", "currency"}),

		ExternalLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "africonnect_escrow_external_call_duration_seconds",
			Help:    "Latency of payment gateway, blockchain and rate source calls",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"collaborator", "outcome"}),

		BreakerRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "africonnect_escrow_gateway_breaker_rejections_total",
			Help: "Gateway calls rejected while the circuit breaker was open",
		}),

		BreakerOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "africonnect_escrow_gateway_breaker_open",
			Help: "1 while the payment gateway circuit breaker is open",
		}),
	}
}

func (m *Metrics) IncrementOperation(txType, outcome string) {
	if m != nil {
		m.Operations.WithLabelValues(txType, outcome).Inc()
	}
}

func (m *Metrics) AddVolume(txType, currency string, amount int64) {
	if m != nil && amount > 0 {
		m.Volume.WithLabelValues(txType, currency).Add(float64(amount))
	}
}

func (m *Metrics) ObserveExternalCall(collaborator, outcome string, d time.Duration) {
	if m != nil {
		m.ExternalLatency.WithLabelValues(collaborator, outcome).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementBreakerRejection() {
	if m != nil {
		m.BreakerRejections.Inc()
	}
}

func (m *Metrics) SetBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerOpen.Set(1)
		return
	}
	m.BreakerOpen.Set(0)
}
