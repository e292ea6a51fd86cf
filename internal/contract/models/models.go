package models

import (
	"slices"
	"time"

	compmodels "africonnect/internal/compliance/models"
	escrowmodels "africonnect/internal/escrow/models"
	id "africonnect/pkg/domain"
)

// Status is the lifecycle state of a contract.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusDisputed  Status = "disputed"
	StatusCancelled Status = "cancelled"
)

var contractTransitions = map[Status][]Status{
	StatusDraft:    {StatusPending, StatusCancelled},
	StatusPending:  {StatusActive, StatusCancelled},
	StatusActive:   {StatusCompleted, StatusDisputed},
	StatusDisputed: {StatusCompleted, StatusCancelled},
}

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusActive, StatusCompleted, StatusDisputed, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether to is reachable from s in one step.
func (s Status) CanTransition(to Status) bool {
	return slices.Contains(contractTransitions[s], to)
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return len(contractTransitions[s]) == 0
}

type MilestoneStatus string

const (
	MilestonePending   MilestoneStatus = "pending"
	MilestoneCompleted MilestoneStatus = "completed"
	MilestoneApproved  MilestoneStatus = "approved"
	MilestoneDisputed  MilestoneStatus = "disputed"
)

var milestoneTransitions = map[MilestoneStatus][]MilestoneStatus{
	MilestonePending:   {MilestoneCompleted, MilestoneDisputed},
	MilestoneCompleted: {MilestoneApproved, MilestoneDisputed},
	MilestoneDisputed:  {MilestoneCompleted, MilestoneApproved},
}

func (s MilestoneStatus) IsValid() bool {
	switch s {
	case MilestonePending, MilestoneCompleted, MilestoneApproved, MilestoneDisputed:
		return true
	}
	return false
}

func (s MilestoneStatus) CanTransition(to MilestoneStatus) bool {
	return slices.Contains(milestoneTransitions[s], to)
}

// Milestone is an escrow-backed slice of a contract. Amount is in the
// contract's currency, minor units.
type Milestone struct {
	ID          id.MilestoneID  `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Amount      int64           `json:"amount"`
	Status      MilestoneStatus `json:"status"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Dispute struct {
	Reason     string     `json:"reason"`
	RaisedBy   id.UserID  `json:"raised_by"`
	RaisedAt   time.Time  `json:"raised_at"`
	Resolution string     `json:"resolution,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// OnChain links a contract to its smart-contract deployment.
type OnChain struct {
	ContractAddress string `json:"contract_address"`
	TransactionHash string `json:"transaction_hash,omitempty"`
	Network         string `json:"network,omitempty"`
}

// Contract is the aggregate the state machine mutates. Version increments on
// every successful write and guards concurrent updates.
type Contract struct {
	ID            id.ContractID `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	ClientID      id.UserID     `json:"client"`
	ProviderID    id.UserID     `json:"provider"`
	ServiceID     id.ServiceID  `json:"service"`
	Terms         string        `json:"terms"`
	StartDate     time.Time     `json:"start_date"`
	EndDate       *time.Time    `json:"end_date,omitempty"`
	Amount        int64         `json:"amount"`
	Currency      string        `json:"currency"`
	PaymentTerms  string        `json:"payment_terms"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	Milestones    []Milestone   `json:"milestones"`
	Status        Status        `json:"status"`
	Jurisdictions []string      `json:"jurisdictions"`
	Dispute       *Dispute      `json:"dispute,omitempty"`
	OnChain       *OnChain      `json:"blockchain,omitempty"`

	ComplianceStatus  compmodels.Status   `json:"compliance_status"`
	ComplianceRecords []compmodels.Record `json:"compliance_details"`
	ComplianceRound   int                 `json:"compliance_round"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Contract) IsParty(userID id.UserID) bool {
	return userID == c.ClientID || userID == c.ProviderID
}

// Milestone returns a pointer into c.Milestones so callers can mutate it.
func (c *Contract) Milestone(milestoneID id.MilestoneID) *Milestone {
	for i := range c.Milestones {
		if c.Milestones[i].ID == milestoneID {
			return &c.Milestones[i]
		}
	}
	return nil
}

// Subject is what the compliance evaluator sees of the contract.
func (c *Contract) Subject() compmodels.ContractSubject {
	return compmodels.ContractSubject{
		ID:            c.ID,
		ServiceID:     c.ServiceID,
		Terms:         c.Terms,
		Jurisdictions: c.Jurisdictions,
	}
}

// EscrowView is what the ledger sees of the contract.
func (c *Contract) EscrowView() escrowmodels.ContractView {
	view := escrowmodels.ContractView{
		ID:         c.ID,
		ClientID:   c.ClientID,
		ProviderID: c.ProviderID,
		Status:     escrowmodels.ContractStatus(c.Status),
		Amount:     c.Amount,
		Currency:   c.Currency,
		Milestones: make([]escrowmodels.MilestoneView, 0, len(c.Milestones)),
	}
	if c.OnChain != nil {
		view.OnChainAddress = c.OnChain.ContractAddress
	}
	for _, m := range c.Milestones {
		view.Milestones = append(view.Milestones, escrowmodels.MilestoneView{
			ID:     m.ID,
			Status: string(m.Status),
			Amount: m.Amount,
		})
	}
	return view
}

// AppendComplianceRound stores eval as the next round of the append-only
// history and makes its aggregate the current status.
func (c *Contract) AppendComplianceRound(eval compmodels.Evaluation) {
	c.ComplianceRound++
	for _, r := range eval.Records {
		r.Round = c.ComplianceRound
		if r.Source == "" {
			r.Source = compmodels.SourceEngine
		}
		c.ComplianceRecords = append(c.ComplianceRecords, r)
	}
	c.ComplianceStatus = eval.Status
}

// CurrentComplianceRecords returns the records of the latest round,
// including manual entries added after it.
func (c *Contract) CurrentComplianceRecords() []compmodels.Record {
	var out []compmodels.Record
	for _, r := range c.ComplianceRecords {
		if r.Round == c.ComplianceRound {
			out = append(out, r)
		}
	}
	return out
}

// Role filters a contract listing by the caller's side of the contract.
type Role string

const (
	RoleAny      Role = ""
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
)

// PageSize is the fixed contract listing page size.
const PageSize = 10

type ListFilter struct {
	UserID id.UserID
	Role   Role
	Status Status
	Page   int
}

// Matches reports whether c belongs in the listing.
func (f ListFilter) Matches(c *Contract) bool {
	switch f.Role {
	case RoleClient:
		if c.ClientID != f.UserID {
			return false
		}
	case RoleProvider:
		if c.ProviderID != f.UserID {
			return false
		}
	default:
		if !c.IsParty(f.UserID) {
			return false
		}
	}
	return f.Status == "" || c.Status == f.Status
}

func (f ListFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * PageSize
}

type Page struct {
	Contracts []*Contract `json:"contracts"`
	Page      int         `json:"page"`
	Pages     int         `json:"pages"`
	Total     int         `json:"total"`
}

func NewPage(contracts []*Contract, page, total int) Page {
	if page < 1 {
		page = 1
	}
	if contracts == nil {
		contracts = []*Contract{}
	}
	return Page{
		Contracts: contracts,
		Page:      page,
		Pages:     (total + PageSize - 1) / PageSize,
		Total:     total,
	}
}
