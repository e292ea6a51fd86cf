package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Decisions by endpoint class, limit type (ip|user) and outcome
	Decisions *prometheus.CounterVec

	// Primary limiter (Redis) errors
	LimiterErrors prometheus.Counter

	// 1 while requests are served by the in-memory fallback
	Degraded prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "africonnect_ratelimit_decisions_total",
			Help: "Rate limit decisions by endpoint class, limit type and outcome",
		}, []string{"class", "limit_type", "outcome"}),
		LimiterErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "africonnect_ratelimit_limiter_errors_total",
			Help: "Total errors from the primary rate limit store",
		}),
		Degraded: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "africonnect_ratelimit_degraded",
			Help: "Whether rate limiting is running on the in-memory fallback",
		}),
	}
}

func (m *Metrics) RecordDecision(class, limitType string, allowed bool) {
	if m == nil {
		return
	}
	outcome := "allowed"
	if !allowed {
		outcome = "denied"
	}
	m.Decisions.WithLabelValues(class, limitType, outcome).Inc()
}

func (m *Metrics) IncrementLimiterErrors() {
	if m != nil {
		m.LimiterErrors.Inc()
	}
}

func (m *Metrics) SetDegraded(degraded bool) {
	if m == nil {
		return
	}
	if degraded {
		m.Degraded.Set(1)
		return
	}
	m.Degraded.Set(0)
}
