// Package ports defines the collaborators the compliance engine depends on.
// Contract storage stays behind ContractSource so this module never imports
// the contract module.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/ports_mock.go -package=mocks

import (
	"context"

	"africonnect/internal/compliance/models"
	dirmodels "africonnect/internal/directory/models"
	id "africonnect/pkg/domain"
	"africonnect/pkg/platform/audit"
)

// RegulationQuery is pushed down to storage. Empty Sector or ProfessionalType
// means the filter is not applied.
type RegulationQuery struct {
	Countries        []string
	Sector           string
	ProfessionalType string
}

// RegulationStore returns active regulations matching the query.
type RegulationStore interface {
	FindActive(ctx context.Context, q RegulationQuery) ([]models.Regulation, error)
}

type ServiceLookup interface {
	GetService(ctx context.Context, serviceID id.ServiceID) (*dirmodels.Service, error)
}

type UserLookup interface {
	GetUser(ctx context.Context, userID id.UserID) (*dirmodels.User, error)
}

// ContractSource feeds the regulatory monitor.
type ContractSource interface {
	// ListForMonitoring returns every active contract with its stored status.
	ListForMonitoring(ctx context.Context) ([]models.MonitoredContract, error)
	// ApplyMonitoredEvaluation persists eval as a new compliance round only if
	// the stored status still equals previous and the contract is still
	// active. It reports whether anything was written.
	ApplyMonitoredEvaluation(ctx context.Context, contractID id.ContractID, previous models.Status, eval models.Evaluation) (bool, error)
}

// AuditPublisher defines the interface for emitting audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
