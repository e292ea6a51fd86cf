// Package ports defines the collaborators of the escrow ledger: the external
// payment, blockchain and rate services, and the stores it writes to.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/ports_mock.go -package=mocks

import (
	"context"
	"errors"

	dirmodels "africonnect/internal/directory/models"
	"africonnect/internal/escrow/models"
	id "africonnect/pkg/domain"
	"africonnect/pkg/platform/audit"
)

// ChargeRequest asks the gateway to move money. IdempotencyKey is the
// transaction id; a retried charge with the same key must not move money twice.
type ChargeRequest struct {
	IdempotencyKey string
	Amount         int64
	Currency       string
	Method         string
	PayerRef       string
	PayeeRef       string
}

type ChargeResult struct {
	SettlementID string
}

// PaymentGateway settles charges with the external processor.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

// Blockchain is told when an on-chain contract releases a milestone.
type Blockchain interface {
	NotifyMilestoneComplete(ctx context.Context, contractAddress string, milestoneID string, amount int64) error
}

// ErrRateNotFound is returned by a RateSource that has no quote for a pair.
var ErrRateNotFound = errors.New("exchange rate not found")

// RateSource quotes how many units of quote one unit of base buys.
type RateSource interface {
	Rate(ctx context.Context, base, quote string) (float64, error)
}

type UserLookup interface {
	GetUser(ctx context.Context, userID id.UserID) (*dirmodels.User, error)
}

// TransactionStore persists ledger entries. CommitSettlement must mark tx
// completed and apply the wallet deltas as one atomic unit; it returns
// sentinel.ErrConflict when a completed entry of the same type already
// exists for the pair.
type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	Get(ctx context.Context, txID id.TransactionID) (*models.Transaction, error)
	ListByContract(ctx context.Context, contractID id.ContractID) ([]*models.Transaction, error)
	FindCompleted(ctx context.Context, contractID id.ContractID, milestoneID *id.MilestoneID, txType models.TransactionType) (*models.Transaction, error)
	MarkTerminal(ctx context.Context, txID id.TransactionID, status models.TransactionStatus, reason string) error
	CommitSettlement(ctx context.Context, tx *models.Transaction, deltas []dirmodels.WalletDelta) error
	AttachSettlement(ctx context.Context, txID id.TransactionID, ref models.BlockchainRef) (*models.Transaction, error)
}

// FlowProjector mirrors completed money movements into an analytics store.
type FlowProjector interface {
	ProjectTransaction(ctx context.Context, tx *models.Transaction) error
}

// AuditPublisher defines the interface for emitting audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
