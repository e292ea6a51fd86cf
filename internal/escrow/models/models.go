package models

import (
	"time"

	id "africonnect/pkg/domain"
)

type TransactionType string

const (
	TypePayment       TransactionType = "payment"
	TypeEscrowDeposit TransactionType = "escrow_deposit"
	TypeEscrowRelease TransactionType = "escrow_release"
	TypeRefund        TransactionType = "refund"
	TypeWithdrawal    TransactionType = "withdrawal"
	TypeFee           TransactionType = "fee"
)

// TransactionStatus is pending until the gateway answers, then exactly one
// of the terminal states.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusCancelled TransactionStatus = "cancelled"
)

func (s TransactionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Fee is the processor charge taken from a transaction, in minor units.
type Fee struct {
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Processor string `json:"processor"`
}

// BlockchainRef is settlement metadata attached after the fact.
type BlockchainRef struct {
	Network     string `json:"network"`
	TxHash      string `json:"transaction_hash"`
	BlockNumber uint64 `json:"block_number"`
}

// Transaction is one movement of money. Amounts are minor units.
type Transaction struct {
	ID            id.TransactionID  `json:"id"`
	Type          TransactionType   `json:"type"`
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	SenderID      id.UserID         `json:"sender"`
	RecipientID   id.UserID         `json:"recipient"`
	ContractID    *id.ContractID    `json:"contract,omitempty"`
	MilestoneID   *id.MilestoneID   `json:"milestone,omitempty"`
	Status        TransactionStatus `json:"status"`
	PaymentMethod string            `json:"payment_method"`
	Fee           Fee               `json:"fee"`
	Description   string            `json:"description,omitempty"`
	SettlementID  string            `json:"settlement_id,omitempty"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Blockchain    *BlockchainRef    `json:"blockchain,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// NetAmount is what reaches the recipient.
func (t Transaction) NetAmount() int64 {
	return t.Amount - t.Fee.Amount
}

// Involves reports whether user is the sender or the recipient.
func (t Transaction) Involves(user id.UserID) bool {
	return t.SenderID == user || t.RecipientID == user
}

// PairKey identifies the escrow slot a transaction belongs to: a milestone,
// or the whole contract when no milestone is given.
func PairKey(contractID id.ContractID, milestoneID *id.MilestoneID) string {
	if milestoneID == nil {
		return contractID.String() + ":contract"
	}
	return contractID.String() + ":" + milestoneID.String()
}

// ContractStatus mirrors the contract lifecycle states the ledger cares about.
type ContractStatus string

const (
	ContractPending ContractStatus = "pending"
	ContractActive  ContractStatus = "active"
)

// MilestoneView is the slice of a milestone the ledger needs.
type MilestoneView struct {
	ID     id.MilestoneID `json:"id"`
	Status string         `json:"status"`
	Amount int64          `json:"amount"`
}

// ContractView is the slice of a contract the ledger needs. It is built by
// the contract module so the ledger never depends on it.
type ContractView struct {
	ID             id.ContractID
	ClientID       id.UserID
	ProviderID     id.UserID
	Status         ContractStatus
	Amount         int64
	Currency       string
	OnChainAddress string
	Milestones     []MilestoneView
}

func (c ContractView) IsParty(user id.UserID) bool {
	return c.ClientID == user || c.ProviderID == user
}

func (c ContractView) Milestone(milestoneID id.MilestoneID) (MilestoneView, bool) {
	for _, m := range c.Milestones {
		if m.ID == milestoneID {
			return m, true
		}
	}
	return MilestoneView{}, false
}

// MilestoneCompleted is the milestone status that unlocks a release.
const MilestoneCompleted = "completed"

// Conversion is the result of converting an amount between currencies.
type Conversion struct {
	OriginalAmount    int64     `json:"original_amount"`
	OriginalCurrency  string    `json:"original_currency"`
	ConvertedAmount   int64     `json:"converted_amount"`
	ConvertedCurrency string    `json:"converted_currency"`
	Rate              float64   `json:"exchange_rate"`
	Timestamp         time.Time `json:"timestamp"`
}

// FeeQuote breaks an amount into fee and net for one payment method.
type FeeQuote struct {
	Method    string `json:"method"`
	Processor string `json:"processor"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Fee       int64  `json:"fee"`
	NetAmount int64  `json:"net_amount"`
}
