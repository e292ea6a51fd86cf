package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"africonnect/internal/compliance/metrics"
	"africonnect/internal/compliance/models"
	"africonnect/internal/compliance/ports"
	dErrors "africonnect/pkg/domain-errors"
	"africonnect/pkg/platform/audit"
)

const defaultMonitorConcurrency = 8

// Evaluator is the part of Service the monitor drives.
type Evaluator interface {
	EvaluateContract(ctx context.Context, subject models.ContractSubject) (models.Evaluation, error)
}

// Monitor re-evaluates active contracts and persists status changes. A run
// against unchanged data performs no writes.
type Monitor struct {
	evaluator   Evaluator
	source      ports.ContractSource
	concurrency int

	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher ports.AuditPublisher
}

type MonitorOption func(*Monitor)

func WithMonitorLogger(logger *slog.Logger) MonitorOption {
	return func(m *Monitor) {
		m.logger = logger
	}
}

func WithMonitorMetrics(mt *metrics.Metrics) MonitorOption {
	return func(m *Monitor) {
		m.metrics = mt
	}
}

func WithMonitorAuditPublisher(publisher ports.AuditPublisher) MonitorOption {
	return func(m *Monitor) {
		m.auditPublisher = publisher
	}
}

// WithConcurrency bounds how many contracts are evaluated at once.
func WithConcurrency(n int) MonitorOption {
	return func(m *Monitor) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

func NewMonitor(evaluator Evaluator, source ports.ContractSource, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		evaluator:   evaluator,
		source:      source,
		concurrency: defaultMonitorConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MonitorRegulatoryChanges returns the contracts whose aggregate status
// changed, in the order the source listed them. A contract that fails to
// evaluate is logged and skipped so one bad document cannot stall the run.
func (m *Monitor) MonitorRegulatoryChanges(ctx context.Context) ([]models.Change, error) {
	start := time.Now()

	contracts, err := m.source.ListForMonitoring(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list active contracts")
	}

	results := make([]*models.Change, len(contracts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, c := range contracts {
		g.Go(func() error {
			eval, err := m.evaluator.EvaluateContract(gctx, c.ContractSubject)
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeInternal) {
					return err
				}
				m.logger.WarnContext(gctx, "skipping contract in compliance monitor",
					"contract_id", c.ID,
					"error", err,
				)
				return nil
			}
			if eval.Status == c.Status {
				return nil
			}
			applied, err := m.source.ApplyMonitoredEvaluation(gctx, c.ID, c.Status, eval)
			if err != nil {
				return err
			}
			if applied {
				results[i] = &models.Change{
					ContractID:     c.ID,
					PreviousStatus: c.Status,
					NewStatus:      eval.Status,
					Records:        eval.Records,
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "compliance monitor failed")
	}

	changes := make([]models.Change, 0)
	for _, ch := range results {
		if ch == nil {
			continue
		}
		changes = append(changes, *ch)
		m.emit(ctx, audit.Event{
			Action:   string(audit.EventComplianceStatusChanged),
			Subject:  ch.ContractID.String(),
			Decision: string(ch.NewStatus),
			Reason:   "previous status " + string(ch.PreviousStatus),
		})
	}

	m.metrics.ObserveMonitorRun(len(changes), time.Since(start))
	m.logger.InfoContext(ctx, "compliance monitor completed",
		"contracts", len(contracts),
		"changes", len(changes),
		"duration", time.Since(start),
	)
	return changes, nil
}

func (m *Monitor) emit(ctx context.Context, event audit.Event) {
	if m.auditPublisher == nil {
		return
	}
	if err := m.auditPublisher.Emit(ctx, event); err != nil {
		m.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err,
		)
	}
}
