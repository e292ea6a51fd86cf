package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	dirmodels "africonnect/internal/directory/models"
	"africonnect/internal/escrow/models"
	id "africonnect/pkg/domain"
	"africonnect/pkg/platform/sentinel"
)

var (
	ErrNotFound = sentinel.ErrNotFound
	ErrConflict = sentinel.ErrConflict
)

// WalletApplier applies balance changes all-or-nothing.
type WalletApplier interface {
	ApplyWalletDeltas(ctx context.Context, deltas []dirmodels.WalletDelta) error
}

// InMemory keeps transactions in a map. CommitSettlement holds the store lock
// across the wallet update and the status change, so no reader ever sees one
// without the other.
type InMemory struct {
	mu      sync.RWMutex
	txs     map[id.TransactionID]*models.Transaction
	wallets WalletApplier
	now     func() time.Time
}

func NewInMemory(wallets WalletApplier) *InMemory {
	return &InMemory{
		txs:     make(map[id.TransactionID]*models.Transaction),
		wallets: wallets,
		now:     time.Now,
	}
}

func clone(tx *models.Transaction) *models.Transaction {
	c := *tx
	if tx.Blockchain != nil {
		ref := *tx.Blockchain
		c.Blockchain = &ref
	}
	return &c
}

func samePair(tx *models.Transaction, contractID id.ContractID, milestoneID *id.MilestoneID) bool {
	if tx.ContractID == nil || *tx.ContractID != contractID {
		return false
	}
	if milestoneID == nil {
		return tx.MilestoneID == nil
	}
	return tx.MilestoneID != nil && *tx.MilestoneID == *milestoneID
}

func (s *InMemory) Create(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.txs[tx.ID]; exists {
		return fmt.Errorf("transaction %s: %w", tx.ID, ErrConflict)
	}
	s.txs[tx.ID] = clone(tx)
	return nil
}

func (s *InMemory) Get(_ context.Context, txID id.TransactionID) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.txs[txID]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(tx), nil
}

// ListByContract returns the contract's transactions, newest first.
func (s *InMemory) ListByContract(_ context.Context, contractID id.ContractID) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Transaction, 0)
	for _, tx := range s.txs {
		if tx.ContractID != nil && *tx.ContractID == contractID {
			out = append(out, clone(tx))
		}
	}
	slices.SortFunc(out, func(a, b *models.Transaction) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (s *InMemory) FindCompleted(_ context.Context, contractID id.ContractID, milestoneID *id.MilestoneID, txType models.TransactionType) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findCompletedLocked(contractID, milestoneID, txType)
}

func (s *InMemory) findCompletedLocked(contractID id.ContractID, milestoneID *id.MilestoneID, txType models.TransactionType) (*models.Transaction, error) {
	for _, tx := range s.txs {
		if tx.Type == txType && tx.Status == models.StatusCompleted && samePair(tx, contractID, milestoneID) {
			return clone(tx), nil
		}
	}
	return nil, ErrNotFound
}

// exclusiveWith lists the completed types that block completing a txType for
// the same pair: one deposit per pair, and one payout, release or refund.
func exclusiveWith(txType models.TransactionType) []models.TransactionType {
	switch txType {
	case models.TypeEscrowDeposit:
		return []models.TransactionType{models.TypeEscrowDeposit}
	case models.TypeEscrowRelease, models.TypeRefund:
		return []models.TransactionType{models.TypeEscrowRelease, models.TypeRefund}
	}
	return nil
}

// MarkTerminal moves a pending transaction to failed or cancelled.
func (s *InMemory) MarkTerminal(_ context.Context, txID id.TransactionID, status models.TransactionStatus, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[txID]
	if !ok {
		return ErrNotFound
	}
	if tx.Status != models.StatusPending {
		return fmt.Errorf("transaction %s already %s: %w", txID, tx.Status, ErrConflict)
	}
	tx.Status = status
	tx.FailureReason = reason
	tx.UpdatedAt = s.now()
	return nil
}

func (s *InMemory) CommitSettlement(ctx context.Context, tx *models.Transaction, deltas []dirmodels.WalletDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.txs[tx.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Status != models.StatusPending {
		return fmt.Errorf("transaction %s already %s: %w", tx.ID, stored.Status, ErrConflict)
	}
	if tx.ContractID != nil {
		for _, existing := range exclusiveWith(tx.Type) {
			if _, err := s.findCompletedLocked(*tx.ContractID, tx.MilestoneID, existing); err == nil {
				return fmt.Errorf("completed %s exists for pair: %w", existing, ErrConflict)
			} else if !errors.Is(err, ErrNotFound) {
				return err
			}
		}
	}
	if len(deltas) > 0 {
		if err := s.wallets.ApplyWalletDeltas(ctx, deltas); err != nil {
			return fmt.Errorf("apply wallet deltas: %w", err)
		}
	}
	committed := clone(tx)
	committed.Status = models.StatusCompleted
	committed.UpdatedAt = s.now()
	s.txs[tx.ID] = committed
	tx.Status = committed.Status
	tx.UpdatedAt = committed.UpdatedAt
	return nil
}

// AttachSettlement records chain metadata. It is the only change allowed on
// a terminal transaction.
func (s *InMemory) AttachSettlement(_ context.Context, txID id.TransactionID, ref models.BlockchainRef) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[txID]
	if !ok {
		return nil, ErrNotFound
	}
	r := ref
	tx.Blockchain = &r
	tx.UpdatedAt = s.now()
	return clone(tx), nil
}
