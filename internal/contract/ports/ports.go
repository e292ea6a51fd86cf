// Package ports defines the collaborators of the contract state machine.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/ports_mock.go -package=mocks

import (
	"context"

	compmodels "africonnect/internal/compliance/models"
	"africonnect/internal/contract/models"
	dirmodels "africonnect/internal/directory/models"
	escrowmodels "africonnect/internal/escrow/models"
	escrowservice "africonnect/internal/escrow/service"
	id "africonnect/pkg/domain"
	"africonnect/pkg/platform/audit"
)

// ContractStore persists contracts as single documents. Update succeeds only
// when c.Version matches the stored version and then increments it; a stale
// version yields sentinel.ErrConflict.
type ContractStore interface {
	Create(ctx context.Context, c *models.Contract) error
	Get(ctx context.Context, contractID id.ContractID) (*models.Contract, error)
	Update(ctx context.Context, c *models.Contract) error
	List(ctx context.Context, filter models.ListFilter) ([]*models.Contract, int, error)
	ListByStatus(ctx context.Context, status models.Status) ([]*models.Contract, error)
}

type Directory interface {
	GetUser(ctx context.Context, userID id.UserID) (*dirmodels.User, error)
	GetService(ctx context.Context, serviceID id.ServiceID) (*dirmodels.Service, error)
}

type ComplianceEvaluator interface {
	EvaluateContract(ctx context.Context, subject compmodels.ContractSubject) (compmodels.Evaluation, error)
}

// Escrow is the part of the ledger driven by contract transitions.
type Escrow interface {
	FundEscrow(ctx context.Context, contract escrowmodels.ContractView, req escrowservice.DepositRequest) (*escrowmodels.Transaction, error)
	Release(ctx context.Context, contract escrowmodels.ContractView, milestoneID *id.MilestoneID, releasedBy id.UserID) (*escrowmodels.Transaction, error)
	HasCompletedDeposit(ctx context.Context, contractID id.ContractID, milestoneID *id.MilestoneID) (bool, error)
	HasRefundableEscrow(ctx context.Context, contractID id.ContractID, milestoneID *id.MilestoneID) (bool, error)
	Refund(ctx context.Context, contract escrowmodels.ContractView, milestoneID *id.MilestoneID) (*escrowmodels.Transaction, error)
}

// AuditPublisher defines the interface for emitting audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
