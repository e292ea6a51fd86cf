package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the contract state machine.
type Metrics struct {
	ContractsCreated prometheus.Counter

	// Successful contract transitions by from/to status
	Transitions *prometheus.CounterVec

	// Rejected transitions by error code
	Rejections *prometheus.CounterVec

	MilestoneTransitions *prometheus.CounterVec

	// Optimistic write conflicts on the contract document
	WriteConflicts prometheus.Counter
}

// New creates a new Metrics instance with all contract metrics registered.
func New() *Metrics {
	return &Metrics{
		ContractsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "africonnect_contracts_created_total",
			Help: "Total contracts created",
		}),

		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "africonnect_contract_transitions_total",
			Help: "Total contract status transitions by from and to status",
		}, []string{"from", "to"}),

		Rejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "africonnect_contract_transition_rejections_total",
			Help: "Total rejected contract or milestone transitions by error code",
		}, []string{"code"}),

		MilestoneTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "africonnect_milestone_transitions_total",
			Help: "Total milestone status transitions by from and to status",
		}, []string{"from", "to"}),

		WriteConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "africonnect_contract_write_conflicts_total",
			Help: "Total contract updates rejected because the document changed underneath",
		}),
	}
}

func (m *Metrics) IncrementCreated() {
	if m != nil {
		m.ContractsCreated.Inc()
	}
}

func (m *Metrics) IncrementTransition(from, to string) {
	if m != nil {
		m.Transitions.WithLabelValues(from, to).Inc()
	}
}

func (m *Metrics) IncrementRejection(code string) {
	if m != nil {
		m.Rejections.WithLabelValues(code).Inc()
	}
}

func (m *Metrics) IncrementMilestoneTransition(from, to string) {
	if m != nil {
		m.MilestoneTransitions.WithLabelValues(from, to).Inc()
	}
}

func (m *Metrics) IncrementWriteConflict() {
	if m != nil {
		m.WriteConflicts.Inc()
	}
}
