package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	compmodels "africonnect/internal/compliance/models"
	"africonnect/internal/contract/metrics"
	"africonnect/internal/contract/models"
	"africonnect/internal/contract/ports"
	escrowmodels "africonnect/internal/escrow/models"
	escrowservice "africonnect/internal/escrow/service"
	id "africonnect/pkg/domain"
	dErrors "africonnect/pkg/domain-errors"
	"africonnect/pkg/platform/audit"
	"africonnect/pkg/platform/lock"
	"africonnect/pkg/platform/sentinel"
	pstrings "africonnect/pkg/platform/strings"
	"africonnect/pkg/requestcontext"
)

// Service is the contract state machine. Every mutation runs under the
// contract's lock and is persisted as one optimistic document write; escrow
// locks, when needed, are taken inside it.
type Service struct {
	contracts  ports.ContractStore
	directory  ports.Directory
	compliance ports.ComplianceEvaluator
	escrow     ports.Escrow
	locker     lock.Locker

	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher ports.AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

// WithLocker shares a locker with other services or processes. It must be
// the same locker the ledger uses only if the ledger takes contract keys.
func WithLocker(locker lock.Locker) Option {
	return func(s *Service) {
		if locker != nil {
			s.locker = locker
		}
	}
}

func New(contracts ports.ContractStore, directory ports.Directory, compliance ports.ComplianceEvaluator, escrow ports.Escrow, opts ...Option) *Service {
	s := &Service{
		contracts:  contracts,
		directory:  directory,
		compliance: compliance,
		escrow:     escrow,
		locker:     lock.NewKeyed(lock.DefaultTimeout),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func lockKey(contractID id.ContractID) string {
	return "contract:" + contractID.String()
}

type MilestoneInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Amount      int64
}

type CreateRequest struct {
	Title         string
	Description   string
	ProviderID    id.UserID
	ServiceID     id.ServiceID
	Terms         string
	StartDate     time.Time
	EndDate       *time.Time
	Amount        int64
	Currency      string
	PaymentTerms  string
	PaymentMethod string
	Milestones    []MilestoneInput
	Jurisdictions []string
	OnChain       *models.OnChain
}

func (r *CreateRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	r.PaymentMethod = strings.TrimSpace(r.PaymentMethod)
	r.Jurisdictions = pstrings.NormalizeCountryCodes(r.Jurisdictions)
}

func (r *CreateRequest) validate(clientID id.UserID) error {
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(r.Terms) == "" {
		return dErrors.New(dErrors.CodeValidation, "terms are required")
	}
	if r.Amount <= 0 {
		return dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}
	if r.Currency == "" {
		return dErrors.New(dErrors.CodeValidation, "currency is required")
	}
	if len(r.Jurisdictions) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one jurisdiction is required")
	}
	if r.ProviderID.IsNil() || r.ServiceID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "provider and service are required")
	}
	if r.ProviderID == clientID {
		return dErrors.New(dErrors.CodeValidation, "a contract needs a provider other than the client")
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return dErrors.New(dErrors.CodeValidation, "end date precedes start date")
	}
	for i, m := range r.Milestones {
		if strings.TrimSpace(m.Title) == "" {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("milestone %d needs a title", i+1))
		}
		if m.Amount <= 0 {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("milestone %d amount must be positive", i+1))
		}
	}
	return nil
}

// Create drafts a contract for the calling client and records the first
// compliance round.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Contract, error) {
	clientID := requestcontext.UserID(ctx)
	if clientID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	req.normalize()
	if err := req.validate(clientID); err != nil {
		return nil, err
	}

	svc, err := s.directory.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, s.lookupError(err, "service")
	}
	if !svc.IsContractEligible() {
		return nil, dErrors.New(dErrors.CodeValidation, "service is not accepting new contracts")
	}
	provider, err := s.directory.GetUser(ctx, req.ProviderID)
	if err != nil {
		return nil, s.lookupError(err, "provider")
	}
	if !provider.IsVerified() {
		s.metrics.IncrementRejection(string(dErrors.CodeProviderNotVerified))
		return nil, dErrors.New(dErrors.CodeProviderNotVerified, "provider must be verified to create contracts")
	}

	now := requestcontext.Now(ctx)
	c := &models.Contract{
		ID:               id.NewContractID(),
		Title:            req.Title,
		Description:      strings.TrimSpace(req.Description),
		ClientID:         clientID,
		ProviderID:       req.ProviderID,
		ServiceID:        req.ServiceID,
		Terms:            req.Terms,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Amount:           req.Amount,
		Currency:         req.Currency,
		PaymentTerms:     req.PaymentTerms,
		PaymentMethod:    req.PaymentMethod,
		Status:           models.StatusDraft,
		Jurisdictions:    req.Jurisdictions,
		OnChain:          req.OnChain,
		ComplianceStatus: compmodels.StatusPending,
		Milestones:       make([]models.Milestone, 0, len(req.Milestones)),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, m := range req.Milestones {
		c.Milestones = append(c.Milestones, models.Milestone{
			ID:          id.NewMilestoneID(),
			Title:       strings.TrimSpace(m.Title),
			Description: m.Description,
			DueDate:     m.DueDate,
			Amount:      m.Amount,
			Status:      models.MilestonePending,
			UpdatedAt:   now,
		})
	}

	eval, err := s.compliance.EvaluateContract(ctx, c.Subject())
	if err != nil {
		return nil, err
	}
	c.AppendComplianceRound(eval)

	if err := s.contracts.Create(ctx, c); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store contract")
	}

	s.metrics.IncrementCreated()
	s.emit(ctx, audit.Event{
		Action:   string(audit.EventContractCreated),
		UserID:   c.ClientID,
		Subject:  c.ID.String(),
		Decision: string(c.ComplianceStatus),
		Amount:   c.Amount,
		Currency: c.Currency,
	})
	s.logger.InfoContext(ctx, "contract created",
		"request_id", requestcontext.RequestID(ctx),
		"contract_id", c.ID.String(),
		"compliance_status", string(c.ComplianceStatus),
	)
	return c, nil
}

// Get returns a contract to its parties or an administrator.
func (s *Service) Get(ctx context.Context, contractID id.ContractID) (*models.Contract, error) {
	c, err := s.load(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if err := authorizeParty(ctx, c, "view"); err != nil {
		return nil, err
	}
	return c, nil
}

// List pages through the caller's contracts, newest first.
func (s *Service) List(ctx context.Context, role models.Role, status models.Status, page int) (models.Page, error) {
	if role != models.RoleAny && role != models.RoleClient && role != models.RoleProvider {
		return models.Page{}, dErrors.New(dErrors.CodeValidation, "role must be client or provider")
	}
	if status != "" && !status.IsValid() {
		return models.Page{}, dErrors.New(dErrors.CodeValidation, "unknown contract status")
	}
	if page < 1 {
		page = 1
	}
	filter := models.ListFilter{UserID: requestcontext.UserID(ctx), Role: role, Status: status, Page: page}
	contracts, total, err := s.contracts.List(ctx, filter)
	if err != nil {
		return models.Page{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list contracts")
	}
	return models.NewPage(contracts, page, total), nil
}

// StatusChange requests a contract transition. Reason is required when
// disputing.
type StatusChange struct {
	Status models.Status
	Reason string
}

// UpdateStatus moves the contract along one edge of the lifecycle. Moving to
// pending or active re-evaluates compliance; accepting a contract with a
// payment method funds every unfunded escrow slot first, and cancelling
// refunds every slot still held. A failed deposit or refund leaves the
// contract where it was.
func (s *Service) UpdateStatus(ctx context.Context, contractID id.ContractID, change StatusChange) (*models.Contract, error) {
	actor := requestcontext.UserID(ctx)
	var c *models.Contract
	var from models.Status
	var previousCompliance compmodels.Status

	err := lock.WithLock(ctx, s.locker, lockKey(contractID), func(ctx context.Context) error {
		var err error
		if c, err = s.load(ctx, contractID); err != nil {
			return err
		}
		if err := authorizeParty(ctx, c, "update"); err != nil {
			return err
		}
		if !change.Status.IsValid() {
			return dErrors.New(dErrors.CodeValidation, "unknown contract status")
		}
		from = c.Status
		if !from.CanTransition(change.Status) {
			return dErrors.New(dErrors.CodeInvalidTransition, fmt.Sprintf("cannot transition from %s to %s", from, change.Status))
		}
		if from == models.StatusPending && change.Status == models.StatusActive && actor != c.ProviderID {
			return dErrors.New(dErrors.CodeUnauthorized, "only the service provider can accept a contract")
		}
		if from == models.StatusActive && change.Status == models.StatusCompleted && actor != c.ClientID {
			return dErrors.New(dErrors.CodeUnauthorized, "only the client can mark a contract as completed")
		}
		reason := strings.TrimSpace(change.Reason)
		if change.Status == models.StatusDisputed && reason == "" {
			return dErrors.New(dErrors.CodeValidation, "dispute reason is required")
		}

		previousCompliance = c.ComplianceStatus
		if change.Status == models.StatusPending || change.Status == models.StatusActive {
			eval, err := s.compliance.EvaluateContract(ctx, c.Subject())
			if err != nil {
				return err
			}
			c.AppendComplianceRound(eval)
		}
		if from == models.StatusPending && change.Status == models.StatusActive && c.PaymentMethod != "" {
			if err := s.fundEscrow(ctx, c); err != nil {
				return err
			}
		}
		if change.Status == models.StatusCancelled {
			if err := s.refundEscrow(ctx, c); err != nil {
				return err
			}
		}

		now := requestcontext.Now(ctx)
		switch {
		case change.Status == models.StatusDisputed:
			c.Dispute = &models.Dispute{Reason: reason, RaisedBy: actor, RaisedAt: now}
		case from == models.StatusDisputed && c.Dispute != nil:
			c.Dispute.Resolution = string(change.Status)
			c.Dispute.ResolvedAt = &now
		}
		c.Status = change.Status
		c.UpdatedAt = now
		return s.save(ctx, c)
	})
	if err != nil {
		s.rejected(ctx, contractID, "contract_status", err)
		return nil, err
	}

	s.metrics.IncrementTransition(string(from), string(c.Status))
	s.emit(ctx, audit.Event{
		Action:   string(audit.EventContractStatusChanged),
		UserID:   c.ClientID,
		Subject:  c.ID.String(),
		Decision: string(c.Status),
		Reason:   string(from) + "->" + string(c.Status),
	})
	if c.Status == models.StatusDisputed {
		s.emit(ctx, audit.Event{
			Action:  string(audit.EventContractDisputed),
			UserID:  c.ClientID,
			Subject: c.ID.String(),
			Reason:  c.Dispute.Reason,
		})
	}
	s.emitComplianceChange(ctx, c, previousCompliance)
	s.logger.InfoContext(ctx, "contract status changed",
		"request_id", requestcontext.RequestID(ctx),
		"contract_id", c.ID.String(),
		"from", string(from),
		"to", string(c.Status),
	)
	return c, nil
}

// fundEscrow deposits every milestone, or the whole contract when it has no
// milestones, that is not yet funded. Already-funded slots are skipped so an
// activation retried after a gateway failure never charges twice.
func (s *Service) fundEscrow(ctx context.Context, c *models.Contract) error {
	view := c.EscrowView()
	for _, sl := range escrowSlots(c) {
		funded, err := s.escrow.HasCompletedDeposit(ctx, c.ID, sl.milestoneID)
		if err != nil {
			return err
		}
		if funded {
			continue
		}
		_, err = s.escrow.FundEscrow(ctx, view, escrowservice.DepositRequest{
			MilestoneID: sl.milestoneID,
			Amount:      sl.amount,
			Currency:    c.Currency,
			Method:      c.PaymentMethod,
		})
		if err != nil && !dErrors.HasCode(err, dErrors.CodeDuplicateDeposit) {
			return err
		}
	}
	return nil
}

// refundEscrow returns every funded slot that was not paid out to the client.
// A failed refund keeps the contract where it was; slots refunded before the
// failure are skipped when the cancellation is retried.
func (s *Service) refundEscrow(ctx context.Context, c *models.Contract) error {
	view := c.EscrowView()
	for _, sl := range escrowSlots(c) {
		held, err := s.escrow.HasRefundableEscrow(ctx, c.ID, sl.milestoneID)
		if err != nil {
			return err
		}
		if !held {
			continue
		}
		if _, err := s.escrow.Refund(ctx, view, sl.milestoneID); err != nil {
			return err
		}
	}
	return nil
}

type escrowSlot struct {
	milestoneID *id.MilestoneID
	amount      int64
}

// escrowSlots lists the pairs escrow is held for: one per milestone, or the
// whole contract when it has none.
func escrowSlots(c *models.Contract) []escrowSlot {
	if len(c.Milestones) == 0 {
		return []escrowSlot{{amount: c.Amount}}
	}
	slots := make([]escrowSlot, 0, len(c.Milestones))
	for i := range c.Milestones {
		slots = append(slots, escrowSlot{milestoneID: &c.Milestones[i].ID, amount: c.Milestones[i].Amount})
	}
	return slots
}

// MilestoneUpdate is the result of a milestone transition. Release is set
// when approving the milestone released its escrow.
type MilestoneUpdate struct {
	Contract  *models.Contract
	Milestone models.Milestone
	Release   *escrowmodels.Transaction
}

// UpdateMilestoneStatus moves one milestone. Only the provider completes and
// only the client approves; approving a funded milestone releases its escrow,
// which requires the milestone to be completed.
func (s *Service) UpdateMilestoneStatus(ctx context.Context, contractID id.ContractID, milestoneID id.MilestoneID, to models.MilestoneStatus) (MilestoneUpdate, error) {
	actor := requestcontext.UserID(ctx)
	var out MilestoneUpdate
	var from models.MilestoneStatus

	err := lock.WithLock(ctx, s.locker, lockKey(contractID), func(ctx context.Context) error {
		c, err := s.load(ctx, contractID)
		if err != nil {
			return err
		}
		if err := authorizeParty(ctx, c, "update"); err != nil {
			return err
		}
		if c.Status != models.StatusActive && c.Status != models.StatusDisputed {
			return dErrors.New(dErrors.CodeInvalidTransition, "milestones can only change while the contract is active or disputed")
		}
		m := c.Milestone(milestoneID)
		if m == nil {
			return dErrors.New(dErrors.CodeNotFound, "milestone not found")
		}
		if !to.IsValid() {
			return dErrors.New(dErrors.CodeValidation, "unknown milestone status")
		}
		if to == models.MilestoneCompleted && actor != c.ProviderID {
			return dErrors.New(dErrors.CodeUnauthorized, "only the provider can complete a milestone")
		}
		if to == models.MilestoneApproved && actor != c.ClientID {
			return dErrors.New(dErrors.CodeUnauthorized, "only the client can approve a milestone")
		}
		from = m.Status
		if !from.CanTransition(to) {
			return dErrors.New(dErrors.CodeInvalidTransition, fmt.Sprintf("cannot transition milestone from %s to %s", from, to))
		}

		if to == models.MilestoneApproved {
			if out.Release, err = s.releaseOnApproval(ctx, c, m.ID, actor); err != nil {
				return err
			}
		}

		now := requestcontext.Now(ctx)
		m.Status = to
		m.UpdatedAt = now
		c.UpdatedAt = now
		if err := s.save(ctx, c); err != nil {
			return err
		}
		out.Contract = c
		out.Milestone = *m
		return nil
	})
	if err != nil {
		s.rejected(ctx, contractID, "milestone_status", err)
		return MilestoneUpdate{}, err
	}

	s.metrics.IncrementMilestoneTransition(string(from), string(to))
	s.emit(ctx, audit.Event{
		Action:   string(audit.EventMilestoneStatusChanged),
		UserID:   out.Contract.ProviderID,
		Subject:  out.Contract.ID.String() + "/" + milestoneID.String(),
		Decision: string(to),
		Reason:   string(from) + "->" + string(to),
	})
	return out, nil
}

// releaseOnApproval releases escrow held for the milestone, if any. A release
// that already happened (the approval was lost after the money moved) lets the
// approval through.
func (s *Service) releaseOnApproval(ctx context.Context, c *models.Contract, milestoneID id.MilestoneID, actor id.UserID) (*escrowmodels.Transaction, error) {
	funded, err := s.escrow.HasCompletedDeposit(ctx, c.ID, &milestoneID)
	if err != nil {
		return nil, err
	}
	if !funded {
		return nil, nil
	}
	tx, err := s.escrow.Release(ctx, c.EscrowView(), &milestoneID, actor)
	if dErrors.HasCode(err, dErrors.CodeAlreadyReleased) {
		return nil, nil
	}
	return tx, err
}

// ReleaseMilestone releases escrow for a milestone, or for the whole contract
// when milestoneID is nil, and approves the milestone.
func (s *Service) ReleaseMilestone(ctx context.Context, contractID id.ContractID, milestoneID *id.MilestoneID) (*escrowmodels.Transaction, error) {
	actor := requestcontext.UserID(ctx)
	var tx *escrowmodels.Transaction

	err := lock.WithLock(ctx, s.locker, lockKey(contractID), func(ctx context.Context) error {
		c, err := s.load(ctx, contractID)
		if err != nil {
			return err
		}
		if c.Status != models.StatusActive && c.Status != models.StatusDisputed {
			return dErrors.New(dErrors.CodeInvalidTransition, "escrow can only be released while the contract is active or disputed")
		}
		if tx, err = s.escrow.Release(ctx, c.EscrowView(), milestoneID, actor); err != nil {
			return err
		}
		if milestoneID == nil {
			return nil
		}
		m := c.Milestone(*milestoneID)
		if m == nil {
			return nil
		}

		now := requestcontext.Now(ctx)
		m.Status = models.MilestoneApproved
		m.UpdatedAt = now
		c.UpdatedAt = now
		if err := s.save(ctx, c); err != nil {
			s.logger.ErrorContext(ctx, "escrow released but milestone approval not saved",
				"request_id", requestcontext.RequestID(ctx),
				"contract_id", contractID.String(),
				"milestone_id", milestoneID.String(),
				"transaction_id", tx.ID.String(),
				"error", err,
			)
			return err
		}
		return nil
	})
	if err != nil {
		s.rejected(ctx, contractID, "release", err)
		return nil, err
	}

	if milestoneID != nil {
		s.metrics.IncrementMilestoneTransition(string(models.MilestoneCompleted), string(models.MilestoneApproved))
		s.emit(ctx, audit.Event{
			Action:   string(audit.EventMilestoneStatusChanged),
			UserID:   tx.RecipientID,
			Subject:  contractID.String() + "/" + milestoneID.String(),
			Decision: string(models.MilestoneApproved),
			Reason:   "escrow released",
		})
	}
	return tx, nil
}

// ManualCheck is a reviewer's compliance entry.
type ManualCheck struct {
	Jurisdiction string
	Status       compmodels.Verdict
	Details      string
}

// AddComplianceCheck appends a manual record to the current compliance round
// and recomputes the contract's status over that round. Administrators only.
func (s *Service) AddComplianceCheck(ctx context.Context, contractID id.ContractID, check ManualCheck) (*models.Contract, error) {
	if !requestcontext.IsAdmin(ctx) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "only administrators may add compliance checks")
	}
	check.Jurisdiction = strings.ToUpper(strings.TrimSpace(check.Jurisdiction))
	check.Details = strings.TrimSpace(check.Details)
	if check.Jurisdiction == "" || check.Status == "" || check.Details == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "jurisdiction, status, and details are required")
	}
	if !check.Status.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "status must be compliant, non_compliant or warning")
	}

	var c *models.Contract
	var previous compmodels.Status
	err := lock.WithLock(ctx, s.locker, lockKey(contractID), func(ctx context.Context) error {
		var err error
		if c, err = s.load(ctx, contractID); err != nil {
			return err
		}
		previous = c.ComplianceStatus
		c.ComplianceRecords = append(c.ComplianceRecords, compmodels.Record{
			Jurisdiction: check.Jurisdiction,
			Verdict:      check.Status,
			Detail:       check.Details,
			Source:       compmodels.SourceManual,
			Round:        c.ComplianceRound,
			Timestamp:    requestcontext.Now(ctx),
		})
		c.ComplianceStatus = compmodels.Aggregate(c.CurrentComplianceRecords())
		c.UpdatedAt = requestcontext.Now(ctx)
		return s.save(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, audit.Event{
		Action:   string(audit.EventComplianceCheckAdded),
		UserID:   c.ClientID,
		Subject:  c.ID.String(),
		Decision: string(check.Status),
		Reason:   check.Jurisdiction,
	})
	s.emitComplianceChange(ctx, c, previous)
	return c, nil
}

// CheckCompliance re-evaluates a contract on demand and records the result as
// a new round.
func (s *Service) CheckCompliance(ctx context.Context, contractID id.ContractID) (compmodels.Evaluation, error) {
	var c *models.Contract
	var eval compmodels.Evaluation
	var previous compmodels.Status

	err := lock.WithLock(ctx, s.locker, lockKey(contractID), func(ctx context.Context) error {
		var err error
		if c, err = s.load(ctx, contractID); err != nil {
			return err
		}
		if err := authorizeParty(ctx, c, "evaluate"); err != nil {
			return err
		}
		if eval, err = s.compliance.EvaluateContract(ctx, c.Subject()); err != nil {
			return err
		}
		previous = c.ComplianceStatus
		c.AppendComplianceRound(eval)
		c.UpdatedAt = requestcontext.Now(ctx)
		return s.save(ctx, c)
	})
	if err != nil {
		return compmodels.Evaluation{}, err
	}

	s.emit(ctx, audit.Event{
		Action:   string(audit.EventComplianceEvaluated),
		UserID:   c.ClientID,
		Subject:  c.ID.String(),
		Decision: string(eval.Status),
	})
	s.emitComplianceChange(ctx, c, previous)
	return eval, nil
}

// ListForMonitoring returns every active contract with its stored compliance
// status.
func (s *Service) ListForMonitoring(ctx context.Context) ([]compmodels.MonitoredContract, error) {
	active, err := s.contracts.ListByStatus(ctx, models.StatusActive)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list active contracts")
	}
	out := make([]compmodels.MonitoredContract, 0, len(active))
	for _, c := range active {
		out = append(out, compmodels.MonitoredContract{ContractSubject: c.Subject(), Status: c.ComplianceStatus})
	}
	return out, nil
}

// ApplyMonitoredEvaluation stores eval as a new round unless the contract
// left active or its status moved since the monitor read it.
func (s *Service) ApplyMonitoredEvaluation(ctx context.Context, contractID id.ContractID, previous compmodels.Status, eval compmodels.Evaluation) (bool, error) {
	applied := false
	err := lock.WithLock(ctx, s.locker, lockKey(contractID), func(ctx context.Context) error {
		c, err := s.load(ctx, contractID)
		if err != nil {
			return err
		}
		if c.Status != models.StatusActive || c.ComplianceStatus != previous || eval.Status == previous {
			return nil
		}
		c.AppendComplianceRound(eval)
		c.UpdatedAt = requestcontext.Now(ctx)
		if err := s.save(ctx, c); err != nil {
			return err
		}
		applied = true
		return nil
	})
	return applied, err
}

// EscrowView exposes the contract to the ledger. Authorization is the
// ledger's job.
func (s *Service) EscrowView(ctx context.Context, contractID id.ContractID) (escrowmodels.ContractView, error) {
	c, err := s.load(ctx, contractID)
	if err != nil {
		return escrowmodels.ContractView{}, err
	}
	return c.EscrowView(), nil
}

func (s *Service) load(ctx context.Context, contractID id.ContractID) (*models.Contract, error) {
	c, err := s.contracts.Get(ctx, contractID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "contract not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load contract")
	}
	return c, nil
}

func (s *Service) save(ctx context.Context, c *models.Contract) error {
	err := s.contracts.Update(ctx, c)
	if errors.Is(err, sentinel.ErrConflict) {
		s.metrics.IncrementWriteConflict()
		return dErrors.Wrap(err, dErrors.CodeConflict, "contract was modified concurrently, retry")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save contract")
	}
	return nil
}

func (s *Service) lookupError(err error, what string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, what+" not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+what)
}

func authorizeParty(ctx context.Context, c *models.Contract, action string) error {
	if c.IsParty(requestcontext.UserID(ctx)) || requestcontext.IsAdmin(ctx) {
		return nil
	}
	return dErrors.New(dErrors.CodeUnauthorized, "not authorized to "+action+" this contract")
}

// rejected records a refused or failed transition.
func (s *Service) rejected(ctx context.Context, contractID id.ContractID, kind string, err error) {
	code := dErrors.CodeOf(err)
	s.metrics.IncrementRejection(string(code))
	if code == dErrors.CodeUnauthorized || code == dErrors.CodeInvalidTransition {
		s.emit(ctx, audit.Event{
			Action:   string(audit.EventTransitionRejected),
			UserID:   requestcontext.UserID(ctx),
			Subject:  contractID.String(),
			Decision: string(code),
			Reason:   kind,
		})
	}
	level := slog.LevelInfo
	if code == dErrors.CodeInternal {
		level = slog.LevelError
	}
	s.logger.Log(ctx, level, "contract transition rejected",
		"request_id", requestcontext.RequestID(ctx),
		"contract_id", contractID.String(),
		"kind", kind,
		"code", string(code),
		"error", err,
	)
}

func (s *Service) emitComplianceChange(ctx context.Context, c *models.Contract, previous compmodels.Status) {
	if c.ComplianceStatus == previous {
		return
	}
	s.emit(ctx, audit.Event{
		Action:   string(audit.EventComplianceStatusChanged),
		UserID:   c.ClientID,
		Subject:  c.ID.String(),
		Decision: string(c.ComplianceStatus),
		Reason:   string(previous) + "->" + string(c.ComplianceStatus),
	})
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	event.ActorID = requestcontext.UserID(ctx).String()
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.auditPublisher.Emit(context.WithoutCancel(ctx), event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err,
		)
	}
}
