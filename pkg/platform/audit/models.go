package audit

import (
	"context"
	"time"

	id "africonnect/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers money movement and compliance determinations.
	// These require tamper-proof storage and long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers rejected access attempts and privileged actions.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine lifecycle activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	// UserID is the user whose records the action touched.
	UserID id.UserID
	// Subject is the aggregate acted on: a contract or transaction id.
	Subject  string
	Action   string
	Decision string
	Reason   string
	// Amount and Currency are set for money movement only.
	Amount    int64
	Currency  string
	RequestID string
	// ActorID tracks who performed the action when different from UserID.
	ActorID   string
	ClientIP  string
	UserAgent string
}

type AuditEvent string

const (
	// Contract events
	EventContractCreated        AuditEvent = "contract_created"
	EventContractStatusChanged  AuditEvent = "contract_status_changed"
	EventContractDisputed       AuditEvent = "contract_disputed"
	EventMilestoneStatusChanged AuditEvent = "milestone_status_changed"
	EventTransitionRejected     AuditEvent = "transition_rejected"

	// Compliance events
	EventComplianceEvaluated     AuditEvent = "compliance_evaluated"
	EventComplianceCheckAdded    AuditEvent = "compliance_check_added"
	EventComplianceStatusChanged AuditEvent = "compliance_status_changed"
	EventProviderEvaluated       AuditEvent = "provider_compliance_evaluated"

	// Escrow events
	EventEscrowDeposited     AuditEvent = "escrow_deposited"
	EventEscrowDepositFailed AuditEvent = "escrow_deposit_failed"
	EventEscrowReleased      AuditEvent = "escrow_released"
	EventEscrowReleaseFailed AuditEvent = "escrow_release_failed"
	EventEscrowRefunded      AuditEvent = "escrow_refunded"
	EventSettlementAttached  AuditEvent = "settlement_attached"

	EventRateLimitExceeded AuditEvent = "rate_limit_exceeded"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	EventComplianceEvaluated:     CategoryCompliance,
	EventComplianceCheckAdded:    CategoryCompliance,
	EventComplianceStatusChanged: CategoryCompliance,
	EventProviderEvaluated:       CategoryCompliance,
	EventEscrowDeposited:         CategoryCompliance,
	EventEscrowDepositFailed:     CategoryCompliance,
	EventEscrowReleased:          CategoryCompliance,
	EventEscrowReleaseFailed:     CategoryCompliance,
	EventEscrowRefunded:          CategoryCompliance,
	EventContractDisputed:        CategoryCompliance,

	EventTransitionRejected: CategorySecurity,
	EventSettlementAttached: CategorySecurity,
	EventRateLimitExceeded:  CategorySecurity,

	EventContractCreated:        CategoryOperations,
	EventContractStatusChanged:  CategoryOperations,
	EventMilestoneStatusChanged: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}
