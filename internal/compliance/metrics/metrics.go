package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the compliance module.
type Metrics struct {
	// Verdicts by subject ("contract", "provider") and aggregate status
	Evaluations *prometheus.CounterVec

	// Regulations matched per evaluation
	RegulationsMatched prometheus.Histogram

	EvaluateLatency *prometheus.HistogramVec

	// Monitor runs and the status changes they found
	MonitorRuns    prometheus.Counter
	MonitorChanges prometheus.Counter
	MonitorLatency prometheus.Histogram
}

// New creates a new Metrics instance with all compliance metrics registered.
func New() *Metrics {
	return &Metrics{
		Evaluations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "africonnect_compliance_evaluations_total",
			Help: "Total compliance evaluations by subject and aggregate status",
		}, []string{"subject", "status"}),

		RegulationsMatched: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "africonnect_compliance_regulations_matched",
			Help:    "Number of applicable regulations per evaluation",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
		}),

		EvaluateLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "africonnect_compliance_evaluate_duration_seconds",
			Help:    "Duration of a compliance evaluation including lookups",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"subject"}),

		MonitorRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "africonnect_compliance_monitor_runs_total",
			Help: "Total regulatory monitor runs",
		}),

		MonitorChanges: promauto.NewCounter(prometheus.CounterOpts{
			Name: "africonnect_compliance_monitor_changes_total",
			Help: "Total contract compliance status changes found by the monitor",
		}),

		MonitorLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "africonnect_compliance_monitor_duration_seconds",
			Help:    "Duration of a full regulatory monitor run",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}),
	}
}

func (m *Metrics) IncrementEvaluation(subject, status string) {
	if m != nil {
		m.Evaluations.WithLabelValues(subject, status).Inc()
	}
}

func (m *Metrics) ObserveRegulationsMatched(n int) {
	if m != nil {
		m.RegulationsMatched.Observe(float64(n))
	}
}

func (m *Metrics) ObserveEvaluateLatency(subject string, d time.Duration) {
	if m != nil {
		m.EvaluateLatency.WithLabelValues(subject).Observe(d.Seconds())
	}
}

// ObserveMonitorRun records one monitor pass and how many contracts changed.
func (m *Metrics) ObserveMonitorRun(changes int, d time.Duration) {
	if m != nil {
		m.MonitorRuns.Inc()
		m.MonitorChanges.Add(float64(changes))
		m.MonitorLatency.Observe(d.Seconds())
	}
}
