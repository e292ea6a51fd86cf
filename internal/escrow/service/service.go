package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	dirmodels "africonnect/internal/directory/models"
	"africonnect/internal/escrow/metrics"
	"africonnect/internal/escrow/models"
	"africonnect/internal/escrow/ports"
	id "africonnect/pkg/domain"
	dErrors "africonnect/pkg/domain-errors"
	"africonnect/pkg/platform/audit"
	"africonnect/pkg/platform/circuit"
	"africonnect/pkg/platform/lock"
	"africonnect/pkg/platform/sentinel"
	"africonnect/pkg/requestcontext"
)

const (
	defaultGatewayTimeout    = 10 * time.Second
	defaultBlockchainTimeout = 10 * time.Second

	escrowProcessor = "Platform Escrow"
	escrowPayerRef  = "escrow"
)

// Ledger moves money into and out of escrow. Every deposit, release and
// refund runs under an exclusive lock on its (contract, milestone) pair.
type Ledger struct {
	txs     ports.TransactionStore
	users   ports.UserLookup
	gateway ports.PaymentGateway
	chain   ports.Blockchain
	rates   ports.RateSource
	fees    *models.FeeSchedule

	locker            lock.Locker
	breaker           *circuit.Breaker
	projector         ports.FlowProjector
	gatewayTimeout    time.Duration
	blockchainTimeout time.Duration
	tracer            trace.Tracer
	now               func() time.Time

	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher ports.AuditPublisher
}

type Option func(*Ledger)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) {
		l.metrics = m
	}
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(l *Ledger) {
		l.auditPublisher = publisher
	}
}

// WithLocker replaces the in-process lock, e.g. with a Redis lock shared by
// every instance.
func WithLocker(locker lock.Locker) Option {
	return func(l *Ledger) {
		if locker != nil {
			l.locker = locker
		}
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(l *Ledger) {
		l.breaker = b
	}
}

func WithProjector(p ports.FlowProjector) Option {
	return func(l *Ledger) {
		l.projector = p
	}
}

func WithGatewayTimeout(d time.Duration) Option {
	return func(l *Ledger) {
		if d > 0 {
			l.gatewayTimeout = d
		}
	}
}

func WithBlockchainTimeout(d time.Duration) Option {
	return func(l *Ledger) {
		if d > 0 {
			l.blockchainTimeout = d
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(l *Ledger) {
		if t != nil {
			l.tracer = t
		}
	}
}

// WithClock overrides the time source; used in tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

func New(
	txs ports.TransactionStore,
	users ports.UserLookup,
	gateway ports.PaymentGateway,
	chain ports.Blockchain,
	rates ports.RateSource,
	fees *models.FeeSchedule,
	opts ...Option,
) *Ledger {
	l := &Ledger{
		txs:               txs,
		users:             users,
		gateway:           gateway,
		chain:             chain,
		rates:             rates,
		fees:              fees,
		locker:            lock.NewKeyed(lock.DefaultTimeout),
		gatewayTimeout:    defaultGatewayTimeout,
		blockchainTimeout: defaultBlockchainTimeout,
		tracer:            otel.Tracer("africonnect/escrow"),
		now:               time.Now,
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func lockKey(contractID id.ContractID, milestoneID *id.MilestoneID) string {
	return "escrow:" + models.PairKey(contractID, milestoneID)
}

// walletLockKey serializes wallet-funded deposits of one payer across pairs.
// It is always taken inside a pair lock.
func walletLockKey(userID id.UserID) string {
	return "wallet:" + userID.String()
}

// DepositRequest funds the escrow slot of a milestone, or of the whole
// contract when MilestoneID is nil.
type DepositRequest struct {
	MilestoneID *id.MilestoneID
	Amount      int64
	Currency    string
	Method      string
}

func (r DepositRequest) validate() error {
	if r.Amount <= 0 {
		return dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}
	if strings.TrimSpace(r.Currency) == "" {
		return dErrors.New(dErrors.CodeValidation, "currency is required")
	}
	if strings.TrimSpace(r.Method) == "" {
		return dErrors.New(dErrors.CodeValidation, "payment method is required")
	}
	return nil
}

// Deposit is the client funding escrow directly.
func (l *Ledger) Deposit(ctx context.Context, contract models.ContractView, req DepositRequest) (*models.Transaction, error) {
	if requestcontext.UserID(ctx) != contract.ClientID {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "only the contract's client may deposit into escrow")
	}
	return l.deposit(ctx, contract, req)
}

// FundEscrow deposits on the client's behalf while the contract is being
// activated. The caller has already authorized the transition.
func (l *Ledger) FundEscrow(ctx context.Context, contract models.ContractView, req DepositRequest) (*models.Transaction, error) {
	return l.deposit(ctx, contract, req)
}

func (l *Ledger) deposit(ctx context.Context, contract models.ContractView, req DepositRequest) (*models.Transaction, error) {
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if err := req.validate(); err != nil {
		return nil, err
	}
	if contract.Status != models.ContractPending && contract.Status != models.ContractActive {
		return nil, dErrors.New(dErrors.CodeConflict, "contract is not accepting escrow deposits")
	}
	if req.MilestoneID != nil {
		if _, ok := contract.Milestone(*req.MilestoneID); !ok {
			return nil, dErrors.New(dErrors.CodeNotFound, "milestone not found")
		}
	}
	quote, err := l.fees.Calculate(req.Method, req.Amount, req.Currency)
	if err != nil {
		return nil, err
	}
	if quote.NetAmount <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "amount does not cover the processing fee")
	}

	var tx *models.Transaction
	err = lock.WithLock(ctx, l.locker, lockKey(contract.ID, req.MilestoneID), func(ctx context.Context) error {
		if _, err := l.txs.FindCompleted(ctx, contract.ID, req.MilestoneID, models.TypeEscrowDeposit); err == nil {
			return dErrors.New(dErrors.CodeDuplicateDeposit, "escrow for this milestone is already funded")
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing deposits")
		}
		run := func(ctx context.Context) error {
			var err error
			tx, err = l.fund(ctx, contract, req, quote)
			return err
		}
		if req.Method != models.MethodWallet {
			return run(ctx)
		}
		return lock.WithLock(ctx, l.locker, walletLockKey(contract.ClientID), run)
	})
	if err != nil {
		l.metrics.IncrementOperation("deposit", outcomeFor(tx))
		if tx != nil && tx.Status != models.StatusPending {
			l.emit(ctx, audit.Event{
				Action:   string(audit.EventEscrowDepositFailed),
				UserID:   contract.ClientID,
				Subject:  tx.ID.String(),
				Decision: string(tx.Status),
				Reason:   tx.FailureReason,
				Amount:   tx.Amount,
				Currency: tx.Currency,
				ActorID:  requestcontext.UserID(ctx).String(),
			})
		}
		return nil, err
	}

	l.metrics.IncrementOperation("deposit", "completed")
	l.metrics.AddVolume("deposit", tx.Currency, tx.Amount)
	l.project(ctx, tx)
	l.emit(ctx, audit.Event{
		Action:   string(audit.EventEscrowDeposited),
		UserID:   contract.ClientID,
		Subject:  tx.ID.String(),
		Decision: string(tx.Status),
		Amount:   tx.Amount,
		Currency: tx.Currency,
		ActorID:  requestcontext.UserID(ctx).String(),
	})
	l.logger.InfoContext(ctx, "escrow deposit completed",
		"request_id", requestcontext.RequestID(ctx),
		"contract_id", contract.ID.String(),
		"transaction_id", tx.ID.String(),
		"amount", tx.Amount,
		"currency", tx.Currency,
	)
	return tx, nil
}

// fund records, charges and settles one deposit. It runs under the pair lock,
// and for wallet deposits also under the payer's wallet lock, so the balance
// read here is still current when the debit commits. The store enforces the
// same floor on commit.
func (l *Ledger) fund(ctx context.Context, contract models.ContractView, req DepositRequest, quote models.FeeQuote) (*models.Transaction, error) {
	payer, err := l.user(ctx, contract.ClientID)
	if err != nil {
		return nil, err
	}
	debit, err := l.convert(ctx, req.Amount, req.Currency, payer.Wallet.Currency)
	if err != nil {
		return nil, err
	}
	fromWallet := req.Method == models.MethodWallet
	if fromWallet && payer.Wallet.Balance < debit.ConvertedAmount {
		return nil, dErrors.New(dErrors.CodeValidation, "insufficient wallet balance")
	}

	now := l.now()
	contractID := contract.ID
	tx := &models.Transaction{
		ID:            id.NewTransactionID(),
		Type:          models.TypeEscrowDeposit,
		Amount:        req.Amount,
		Currency:      req.Currency,
		SenderID:      contract.ClientID,
		RecipientID:   contract.ProviderID,
		ContractID:    &contractID,
		MilestoneID:   req.MilestoneID,
		Status:        models.StatusPending,
		PaymentMethod: req.Method,
		Fee:           models.Fee{Amount: quote.Fee, Currency: req.Currency, Processor: quote.Processor},
		Description:   "Escrow deposit",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := l.txs.Create(ctx, tx); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record deposit")
	}

	charge := ports.ChargeRequest{
		IdempotencyKey: tx.ID.String(),
		Amount:         req.Amount,
		Currency:       req.Currency,
		Method:         req.Method,
		PayerRef:       contract.ClientID.String(),
		PayeeRef:       escrowPayerRef,
	}
	deltas := []dirmodels.WalletDelta{{UserID: contract.ClientID, Amount: -debit.ConvertedAmount, NoOverdraft: fromWallet}}
	return tx, l.settle(ctx, tx, charge, deltas)
}

// Release pays the provider out of escrow. Only the client may release, a
// milestone must be completed, funded, and not released before.
func (l *Ledger) Release(ctx context.Context, contract models.ContractView, milestoneID *id.MilestoneID, releasedBy id.UserID) (*models.Transaction, error) {
	if releasedBy != contract.ClientID {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "only the contract's client may release escrow")
	}
	var milestone models.MilestoneView
	if milestoneID != nil {
		m, ok := contract.Milestone(*milestoneID)
		if !ok {
			return nil, dErrors.New(dErrors.CodeNotFound, "milestone not found")
		}
		milestone = m
	}

	var tx *models.Transaction
	var credited int64
	err := lock.WithLock(ctx, l.locker, lockKey(contract.ID, milestoneID), func(ctx context.Context) error {
		if _, err := l.txs.FindCompleted(ctx, contract.ID, milestoneID, models.TypeEscrowRelease); err == nil {
			return dErrors.New(dErrors.CodeAlreadyReleased, "escrow for this milestone has already been released")
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing releases")
		}
		if _, err := l.txs.FindCompleted(ctx, contract.ID, milestoneID, models.TypeRefund); err == nil {
			return dErrors.New(dErrors.CodeConflict, "escrow for this milestone was refunded to the client")
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing refunds")
		}
		if milestoneID != nil && milestone.Status != models.MilestoneCompleted {
			return dErrors.New(dErrors.CodeMilestoneNotApproved, "milestone must be completed before funds are released")
		}
		deposit, err := l.txs.FindCompleted(ctx, contract.ID, milestoneID, models.TypeEscrowDeposit)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNoEscrowFound, "no completed escrow deposit found")
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load escrow deposit")
		}

		payee, err := l.user(ctx, contract.ProviderID)
		if err != nil {
			return err
		}
		net := deposit.NetAmount()
		if net <= 0 {
			return dErrors.New(dErrors.CodeInvariantViolation, "escrow deposit holds nothing after fees")
		}
		credit, err := l.convert(ctx, net, deposit.Currency, payee.Wallet.Currency)
		if err != nil {
			return err
		}
		credited = net

		now := l.now()
		contractID := contract.ID
		tx = &models.Transaction{
			ID:            id.NewTransactionID(),
			Type:          models.TypeEscrowRelease,
			Amount:        deposit.Amount,
			Currency:      deposit.Currency,
			SenderID:      contract.ClientID,
			RecipientID:   contract.ProviderID,
			ContractID:    &contractID,
			MilestoneID:   milestoneID,
			Status:        models.StatusPending,
			PaymentMethod: models.MethodWallet,
			Fee:           models.Fee{Amount: 0, Currency: deposit.Currency, Processor: escrowProcessor},
			Description:   "Escrow release",
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := l.txs.Create(ctx, tx); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record release")
		}

		charge := ports.ChargeRequest{
			IdempotencyKey: tx.ID.String(),
			Amount:         net,
			Currency:       deposit.Currency,
			Method:         models.MethodWallet,
			PayerRef:       escrowPayerRef,
			PayeeRef:       contract.ProviderID.String(),
		}
		deltas := []dirmodels.WalletDelta{{UserID: contract.ProviderID, Amount: credit.ConvertedAmount}}
		return l.settle(ctx, tx, charge, deltas)
	})
	if err != nil {
		l.metrics.IncrementOperation("release", outcomeFor(tx))
		if tx != nil && tx.Status != models.StatusPending {
			l.emit(ctx, audit.Event{
				Action:   string(audit.EventEscrowReleaseFailed),
				UserID:   contract.ProviderID,
				Subject:  tx.ID.String(),
				Decision: string(tx.Status),
				Reason:   tx.FailureReason,
				Amount:   tx.Amount,
				Currency: tx.Currency,
				ActorID:  releasedBy.String(),
			})
		}
		return nil, err
	}

	l.metrics.IncrementOperation("release", "completed")
	l.metrics.AddVolume("release", tx.Currency, credited)
	if contract.OnChainAddress != "" {
		l.notifyChain(ctx, contract, milestoneID, credited)
	}
	l.project(ctx, tx)
	l.emit(ctx, audit.Event{
		Action:   string(audit.EventEscrowReleased),
		UserID:   contract.ProviderID,
		Subject:  tx.ID.String(),
		Decision: string(tx.Status),
		Amount:   credited,
		Currency: tx.Currency,
		ActorID:  releasedBy.String(),
	})
	l.logger.InfoContext(ctx, "escrow released",
		"request_id", requestcontext.RequestID(ctx),
		"contract_id", contract.ID.String(),
		"transaction_id", tx.ID.String(),
		"amount", credited,
		"currency", tx.Currency,
	)
	return tx, nil
}

// Refund returns the escrow held for a pair to the client's wallet, net of
// the processing fee the deposit already paid. It is driven by cancelling the
// contract. A pair with no completed deposit yields CodeNoEscrowFound; a pair
// that was released yields CodeAlreadyReleased.
func (l *Ledger) Refund(ctx context.Context, contract models.ContractView, milestoneID *id.MilestoneID) (*models.Transaction, error) {
	var tx *models.Transaction
	var refunded int64
	err := lock.WithLock(ctx, l.locker, lockKey(contract.ID, milestoneID), func(ctx context.Context) error {
		if _, err := l.txs.FindCompleted(ctx, contract.ID, milestoneID, models.TypeEscrowRelease); err == nil {
			return dErrors.New(dErrors.CodeAlreadyReleased, "escrow for this milestone has already been released")
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing releases")
		}
		if _, err := l.txs.FindCompleted(ctx, contract.ID, milestoneID, models.TypeRefund); err == nil {
			return dErrors.New(dErrors.CodeConflict, "escrow for this milestone has already been refunded")
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing refunds")
		}
		deposit, err := l.txs.FindCompleted(ctx, contract.ID, milestoneID, models.TypeEscrowDeposit)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNoEscrowFound, "no completed escrow deposit found")
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load escrow deposit")
		}

		payer, err := l.user(ctx, contract.ClientID)
		if err != nil {
			return err
		}
		net := deposit.NetAmount()
		if net <= 0 {
			return dErrors.New(dErrors.CodeInvariantViolation, "escrow deposit holds nothing after fees")
		}
		credit, err := l.convert(ctx, net, deposit.Currency, payer.Wallet.Currency)
		if err != nil {
			return err
		}
		refunded = net

		now := l.now()
		contractID := contract.ID
		tx = &models.Transaction{
			ID:            id.NewTransactionID(),
			Type:          models.TypeRefund,
			Amount:        deposit.Amount,
			Currency:      deposit.Currency,
			SenderID:      contract.ProviderID,
			RecipientID:   contract.ClientID,
			ContractID:    &contractID,
			MilestoneID:   milestoneID,
			Status:        models.StatusPending,
			PaymentMethod: models.MethodWallet,
			Fee:           models.Fee{Amount: 0, Currency: deposit.Currency, Processor: escrowProcessor},
			Description:   "Escrow refund",
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := l.txs.Create(ctx, tx); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record refund")
		}

		charge := ports.ChargeRequest{
			IdempotencyKey: tx.ID.String(),
			Amount:         net,
			Currency:       deposit.Currency,
			Method:         models.MethodWallet,
			PayerRef:       escrowPayerRef,
			PayeeRef:       contract.ClientID.String(),
		}
		deltas := []dirmodels.WalletDelta{{UserID: contract.ClientID, Amount: credit.ConvertedAmount}}
		return l.settle(ctx, tx, charge, deltas)
	})
	if err != nil {
		l.metrics.IncrementOperation("refund", outcomeFor(tx))
		return nil, err
	}

	l.metrics.IncrementOperation("refund", "completed")
	l.metrics.AddVolume("refund", tx.Currency, refunded)
	l.project(ctx, tx)
	l.emit(ctx, audit.Event{
		Action:   string(audit.EventEscrowRefunded),
		UserID:   contract.ClientID,
		Subject:  tx.ID.String(),
		Decision: string(tx.Status),
		Amount:   refunded,
		Currency: tx.Currency,
		ActorID:  requestcontext.UserID(ctx).String(),
	})
	l.logger.InfoContext(ctx, "escrow refunded",
		"request_id", requestcontext.RequestID(ctx),
		"contract_id", contract.ID.String(),
		"transaction_id", tx.ID.String(),
		"amount", refunded,
		"currency", tx.Currency,
	)
	return tx, nil
}

// HasRefundableEscrow reports whether the pair holds a completed deposit that
// was neither released nor refunded.
func (l *Ledger) HasRefundableEscrow(ctx context.Context, contractID id.ContractID, milestoneID *id.MilestoneID) (bool, error) {
	for _, txType := range []models.TransactionType{models.TypeEscrowRelease, models.TypeRefund} {
		_, err := l.txs.FindCompleted(ctx, contractID, milestoneID, txType)
		if err == nil {
			return false, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check escrow payouts")
		}
	}
	return l.HasCompletedDeposit(ctx, contractID, milestoneID)
}

// settle charges the gateway and commits the outcome. A failed or timed-out
// charge marks tx failed; a cancelled caller marks it cancelled. Wallets
// change only inside CommitSettlement.
func (l *Ledger) settle(ctx context.Context, tx *models.Transaction, charge ports.ChargeRequest, deltas []dirmodels.WalletDelta) error {
	res, err := l.charge(ctx, charge)
	if err != nil {
		status := models.StatusFailed
		if errors.Is(ctx.Err(), context.Canceled) {
			status = models.StatusCancelled
		}
		reason := err.Error()
		if markErr := l.txs.MarkTerminal(context.WithoutCancel(ctx), tx.ID, status, reason); markErr != nil {
			l.logger.ErrorContext(ctx, "failed to record failed transaction",
				"transaction_id", tx.ID.String(),
				"error", markErr,
			)
		}
		tx.Status = status
		tx.FailureReason = reason
		l.logger.WarnContext(ctx, "payment gateway charge failed",
			"request_id", requestcontext.RequestID(ctx),
			"transaction_id", tx.ID.String(),
			"type", string(tx.Type),
			"category", string(ports.CategoryOf(err)),
			"status", string(status),
			"error", err,
		)
		if status == models.StatusCancelled {
			return dErrors.Wrap(err, dErrors.CodeGatewayFailure, "payment cancelled before confirmation")
		}
		return dErrors.Wrap(err, dErrors.CodeGatewayFailure, "payment gateway failed")
	}

	tx.SettlementID = res.SettlementID
	if err := l.txs.CommitSettlement(context.WithoutCancel(ctx), tx, deltas); err != nil {
		if errors.Is(err, dirmodels.ErrInsufficientFunds) {
			tx.Status = models.StatusFailed
			tx.FailureReason = "insufficient wallet balance"
			_ = l.txs.MarkTerminal(context.WithoutCancel(ctx), tx.ID, models.StatusFailed, tx.FailureReason)
			l.logger.WarnContext(ctx, "settlement refused by wallet balance",
				"request_id", requestcontext.RequestID(ctx),
				"transaction_id", tx.ID.String(),
				"settlement_id", res.SettlementID,
			)
			return dErrors.Wrap(err, dErrors.CodeValidation, "insufficient wallet balance")
		}
		if errors.Is(err, sentinel.ErrConflict) {
			tx.Status = models.StatusFailed
			tx.FailureReason = "duplicate settlement for pair"
			_ = l.txs.MarkTerminal(context.WithoutCancel(ctx), tx.ID, models.StatusFailed, tx.FailureReason)
			switch tx.Type {
			case models.TypeEscrowRelease:
				return dErrors.Wrap(err, dErrors.CodeAlreadyReleased, "escrow for this milestone has already been released")
			case models.TypeRefund:
				return dErrors.Wrap(err, dErrors.CodeConflict, "escrow for this milestone has already been paid out")
			}
			return dErrors.Wrap(err, dErrors.CodeDuplicateDeposit, "escrow for this milestone is already funded")
		}
		l.logger.ErrorContext(ctx, "gateway settled but ledger commit failed",
			"request_id", requestcontext.RequestID(ctx),
			"transaction_id", tx.ID.String(),
			"settlement_id", res.SettlementID,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit settlement")
	}
	return nil
}

func (l *Ledger) charge(ctx context.Context, req ports.ChargeRequest) (ports.ChargeResult, error) {
	if l.breaker != nil && !l.breaker.Allow() {
		l.metrics.IncrementBreakerRejection()
		return ports.ChargeResult{}, ports.NewExternalError(ports.ErrorUnavailable, "payment_gateway", "circuit breaker open", nil)
	}

	ctx, span := l.tracer.Start(ctx, "escrow.gateway.charge", trace.WithAttributes(
		attribute.String("transaction.id", req.IdempotencyKey),
		attribute.Int64("amount", req.Amount),
		attribute.String("currency", req.Currency),
		attribute.String("method", req.Method),
	))
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, l.gatewayTimeout)
	defer cancel()

	start := time.Now()
	res, err := l.gateway.Charge(callCtx, req)
	if err != nil && ctx.Err() == nil && callCtx.Err() != nil {
		err = ports.NewExternalError(ports.ErrorTimeout, "payment_gateway", "charge timed out", err)
	}
	l.metrics.ObserveExternalCall("payment_gateway", outcomeOf(err), time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(ports.CategoryOf(err)))
		if ctx.Err() == nil && ports.CategoryOf(err) != ports.ErrorDeclined {
			l.recordBreakerFailure(ctx)
		}
		return ports.ChargeResult{}, err
	}
	l.recordBreakerSuccess(ctx)
	return res, nil
}

func (l *Ledger) recordBreakerFailure(ctx context.Context) {
	if l.breaker == nil {
		return
	}
	if _, change := l.breaker.RecordFailure(); change.Opened {
		l.metrics.SetBreakerOpen(true)
		l.logger.WarnContext(ctx, "payment gateway circuit breaker opened", "breaker", l.breaker.Name())
	}
}

func (l *Ledger) recordBreakerSuccess(ctx context.Context) {
	if l.breaker == nil {
		return
	}
	if _, change := l.breaker.RecordSuccess(); change.Closed {
		l.metrics.SetBreakerOpen(false)
		l.logger.InfoContext(ctx, "payment gateway circuit breaker closed", "breaker", l.breaker.Name())
	}
}

func (l *Ledger) notifyChain(ctx context.Context, contract models.ContractView, milestoneID *id.MilestoneID, amount int64) {
	ref := "contract"
	if milestoneID != nil {
		ref = milestoneID.String()
	}
	ctx, span := l.tracer.Start(context.WithoutCancel(ctx), "escrow.blockchain.notify", trace.WithAttributes(
		attribute.String("contract.address", contract.OnChainAddress),
		attribute.String("milestone.id", ref),
	))
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, l.blockchainTimeout)
	defer cancel()
	start := time.Now()
	err := l.chain.NotifyMilestoneComplete(callCtx, contract.OnChainAddress, ref, amount)
	l.metrics.ObserveExternalCall("blockchain", outcomeOf(err), time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(ports.CategoryOf(err)))
		l.logger.WarnContext(ctx, "blockchain notification failed; release stands",
			"contract_id", contract.ID.String(),
			"milestone_id", ref,
			"error", err,
		)
	}
}

func (l *Ledger) project(ctx context.Context, tx *models.Transaction) {
	if l.projector == nil {
		return
	}
	if err := l.projector.ProjectTransaction(context.WithoutCancel(ctx), tx); err != nil {
		l.logger.WarnContext(ctx, "failed to project transaction",
			"transaction_id", tx.ID.String(),
			"error", err,
		)
	}
}

// HasCompletedDeposit reports whether the pair is funded.
func (l *Ledger) HasCompletedDeposit(ctx context.Context, contractID id.ContractID, milestoneID *id.MilestoneID) (bool, error) {
	_, err := l.txs.FindCompleted(ctx, contractID, milestoneID, models.TypeEscrowDeposit)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check escrow deposit")
	}
	return true, nil
}

// Convert converts amount between currencies. The same currency is returned
// unchanged with rate 1.
func (l *Ledger) Convert(ctx context.Context, amount int64, from, to string) (models.Conversion, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == "" || to == "" {
		return models.Conversion{}, dErrors.New(dErrors.CodeValidation, "from and to currencies are required")
	}
	if amount < 0 {
		return models.Conversion{}, dErrors.New(dErrors.CodeValidation, "amount must not be negative")
	}
	return l.convert(ctx, amount, from, to)
}

func (l *Ledger) convert(ctx context.Context, amount int64, from, to string) (models.Conversion, error) {
	conv := models.Conversion{
		OriginalAmount:    amount,
		OriginalCurrency:  from,
		ConvertedAmount:   amount,
		ConvertedCurrency: to,
		Rate:              1,
		Timestamp:         l.now(),
	}
	if from == to {
		return conv, nil
	}

	ctx, span := l.tracer.Start(ctx, "escrow.rates.lookup", trace.WithAttributes(
		attribute.String("base", from),
		attribute.String("quote", to),
	))
	defer span.End()

	start := time.Now()
	rate, err := l.rates.Rate(ctx, from, to)
	l.metrics.ObserveExternalCall("rate_source", outcomeOf(err), time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rate lookup failed")
		if errors.Is(err, ports.ErrRateNotFound) {
			return models.Conversion{}, dErrors.Wrap(err, dErrors.CodeRateUnavailable, "no exchange rate for "+from+" to "+to)
		}
		return models.Conversion{}, dErrors.Wrap(err, dErrors.CodeRateUnavailable, "exchange rate source unavailable")
	}
	conv.Rate = rate
	conv.ConvertedAmount = int64(math.Round(float64(amount) * rate))
	return conv, nil
}

// QuoteFee prices a payment without moving money.
func (l *Ledger) QuoteFee(method string, amount int64, currency string) (models.FeeQuote, error) {
	return l.fees.Calculate(strings.TrimSpace(method), amount, strings.ToUpper(strings.TrimSpace(currency)))
}

// Get returns a transaction to its sender, its recipient or an administrator.
func (l *Ledger) Get(ctx context.Context, txID id.TransactionID) (*models.Transaction, error) {
	tx, err := l.txs.Get(ctx, txID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "transaction not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load transaction")
	}
	if !tx.Involves(requestcontext.UserID(ctx)) && !requestcontext.IsAdmin(ctx) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "not authorized to view this transaction")
	}
	return tx, nil
}

// ListByContract returns a contract's transactions, newest first, to its
// parties or an administrator.
func (l *Ledger) ListByContract(ctx context.Context, contract models.ContractView) ([]*models.Transaction, error) {
	if !contract.IsParty(requestcontext.UserID(ctx)) && !requestcontext.IsAdmin(ctx) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "not authorized to view this contract's transactions")
	}
	txs, err := l.txs.ListByContract(ctx, contract.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list transactions")
	}
	return txs, nil
}

// AttachSettlement records on-chain settlement metadata. Administrators only.
func (l *Ledger) AttachSettlement(ctx context.Context, txID id.TransactionID, ref models.BlockchainRef) (*models.Transaction, error) {
	if !requestcontext.IsAdmin(ctx) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "only administrators may attach settlement data")
	}
	ref.Network = strings.TrimSpace(ref.Network)
	ref.TxHash = strings.TrimSpace(ref.TxHash)
	if ref.Network == "" || ref.TxHash == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "network and transaction hash are required")
	}
	tx, err := l.txs.AttachSettlement(ctx, txID, ref)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "transaction not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to attach settlement")
	}
	l.emit(ctx, audit.Event{
		Action:  string(audit.EventSettlementAttached),
		UserID:  tx.SenderID,
		Subject: tx.ID.String(),
		Reason:  ref.Network + ":" + ref.TxHash,
		ActorID: requestcontext.UserID(ctx).String(),
	})
	return tx, nil
}

func (l *Ledger) user(ctx context.Context, userID id.UserID) (*dirmodels.User, error) {
	u, err := l.users.GetUser(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return u, nil
}

func (l *Ledger) emit(ctx context.Context, event audit.Event) {
	if l.auditPublisher == nil {
		return
	}
	if err := l.auditPublisher.Emit(context.WithoutCancel(ctx), event); err != nil {
		l.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err,
		)
	}
}

func outcomeOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// outcomeFor labels a failed operation: rejected before a transaction was
// recorded, or the transaction's terminal status.
func outcomeFor(tx *models.Transaction) string {
	if tx == nil || tx.Status == models.StatusPending {
		return "rejected"
	}
	return string(tx.Status)
}
