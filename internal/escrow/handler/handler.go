package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"africonnect/internal/escrow/models"
	"africonnect/internal/escrow/service"
	id "africonnect/pkg/domain"
	dErrors "africonnect/pkg/domain-errors"
	"africonnect/pkg/platform/httputil"
	"africonnect/pkg/requestcontext"
)

// Ledger defines the escrow and payment operations exposed over HTTP.
type Ledger interface {
	Deposit(ctx context.Context, contract models.ContractView, req service.DepositRequest) (*models.Transaction, error)
	Convert(ctx context.Context, amount int64, from, to string) (models.Conversion, error)
	QuoteFee(method string, amount int64, currency string) (models.FeeQuote, error)
	Get(ctx context.Context, txID id.TransactionID) (*models.Transaction, error)
	ListByContract(ctx context.Context, contract models.ContractView) ([]*models.Transaction, error)
	AttachSettlement(ctx context.Context, txID id.TransactionID, ref models.BlockchainRef) (*models.Transaction, error)
}

// Contracts resolves contracts for the ledger and performs releases, which
// also move the milestone to approved.
type Contracts interface {
	EscrowView(ctx context.Context, contractID id.ContractID) (models.ContractView, error)
	ReleaseMilestone(ctx context.Context, contractID id.ContractID, milestoneID *id.MilestoneID) (*models.Transaction, error)
}

type Handler struct {
	ledger    Ledger
	contracts Contracts
	logger    *slog.Logger
}

func New(ledger Ledger, contracts Contracts, logger *slog.Logger) *Handler {
	return &Handler{ledger: ledger, contracts: contracts, logger: logger}
}

// Register mounts routes on an authenticated router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/escrow/deposits", h.HandleDeposit)
	r.Post("/escrow/releases", h.HandleRelease)
	r.Post("/payments/fees/quote", h.HandleQuoteFee)
	r.Get("/payments/rates/convert", h.HandleConvert)
	r.Get("/transactions/{id}", h.HandleGetTransaction)
	r.Get("/contracts/{id}/transactions", h.HandleListContractTransactions)
}

// RegisterAdmin mounts routes on a router already gated to administrators.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Put("/transactions/{id}/settlement", h.HandleAttachSettlement)
}

type DepositRequest struct {
	ContractID    string  `json:"contract_id"`
	MilestoneID   *string `json:"milestone_id,omitempty"`
	Amount        int64   `json:"amount"`
	Currency      string  `json:"currency"`
	PaymentMethod string  `json:"payment_method"`

	contractID  id.ContractID
	milestoneID *id.MilestoneID
}

func (r *DepositRequest) Normalize() {
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	r.PaymentMethod = strings.TrimSpace(r.PaymentMethod)
}

func (r *DepositRequest) Validate() error {
	var err error
	if r.contractID, r.milestoneID, err = parsePair(r.ContractID, r.MilestoneID); err != nil {
		return err
	}
	if r.Amount <= 0 {
		return dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}
	if r.Currency == "" || r.PaymentMethod == "" {
		return dErrors.New(dErrors.CodeValidation, "currency and payment_method are required")
	}
	return nil
}

type ReleaseRequest struct {
	ContractID  string  `json:"contract_id"`
	MilestoneID *string `json:"milestone_id,omitempty"`

	contractID  id.ContractID
	milestoneID *id.MilestoneID
}

func (r *ReleaseRequest) Validate() error {
	var err error
	r.contractID, r.milestoneID, err = parsePair(r.ContractID, r.MilestoneID)
	return err
}

func parsePair(contract string, milestone *string) (id.ContractID, *id.MilestoneID, error) {
	if strings.TrimSpace(contract) == "" {
		return id.ContractID{}, nil, dErrors.New(dErrors.CodeValidation, "contract_id is required")
	}
	contractID, err := id.ParseContractID(contract)
	if err != nil {
		return id.ContractID{}, nil, err
	}
	if milestone == nil {
		return contractID, nil, nil
	}
	milestoneID, err := id.ParseMilestoneID(*milestone)
	if err != nil {
		return id.ContractID{}, nil, err
	}
	return contractID, &milestoneID, nil
}

type FeeQuoteRequest struct {
	PaymentMethod string `json:"payment_method"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
}

func (r *FeeQuoteRequest) Normalize() {
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	r.PaymentMethod = strings.TrimSpace(r.PaymentMethod)
}

func (r *FeeQuoteRequest) Validate() error {
	if r.PaymentMethod == "" || r.Currency == "" {
		return dErrors.New(dErrors.CodeValidation, "payment_method and currency are required")
	}
	if r.Amount <= 0 {
		return dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}
	return nil
}

type SettlementRequest struct {
	Network     string `json:"network"`
	TxHash      string `json:"transaction_hash"`
	BlockNumber uint64 `json:"block_number"`
}

func (r *SettlementRequest) Normalize() {
	r.Network = strings.TrimSpace(r.Network)
	r.TxHash = strings.TrimSpace(r.TxHash)
}

func (r *SettlementRequest) Validate() error {
	if r.Network == "" || r.TxHash == "" {
		return dErrors.New(dErrors.CodeValidation, "network and transaction_hash are required")
	}
	return nil
}

// HandleDeposit lets a contract's client fund escrow for a milestone or for
// the whole contract.
func (h *Handler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[DepositRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	view, err := h.contracts.EscrowView(ctx, req.contractID)
	if err != nil {
		h.logFailure(ctx, "failed to load contract for deposit", err)
		httputil.WriteError(w, err)
		return
	}

	tx, err := h.ledger.Deposit(ctx, view, service.DepositRequest{
		MilestoneID: req.milestoneID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Method:      req.PaymentMethod,
	})
	if err != nil {
		h.logFailure(ctx, "escrow deposit failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, tx)
}

func (h *Handler) HandleRelease(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ReleaseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	tx, err := h.contracts.ReleaseMilestone(ctx, req.contractID, req.milestoneID)
	if err != nil {
		h.logFailure(ctx, "escrow release failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, tx)
}

func (h *Handler) HandleQuoteFee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[FeeQuoteRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	quote, err := h.ledger.QuoteFee(req.PaymentMethod, req.Amount, req.Currency)
	if err != nil {
		h.logFailure(ctx, "fee quote failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, quote)
}

// HandleConvert answers GET /payments/rates/convert?amount=10000&from=USD&to=NGN.
func (h *Handler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	amount, err := strconv.ParseInt(q.Get("amount"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "amount must be an integer in minor units"))
		return
	}
	conv, err := h.ledger.Convert(ctx, amount, q.Get("from"), q.Get("to"))
	if err != nil {
		h.logFailure(ctx, "currency conversion failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, conv)
}

func (h *Handler) HandleGetTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	txID, err := id.ParseTransactionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	tx, err := h.ledger.Get(ctx, txID)
	if err != nil {
		h.logFailure(ctx, "failed to get transaction", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tx)
}

func (h *Handler) HandleListContractTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contractID, err := id.ParseContractID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	view, err := h.contracts.EscrowView(ctx, contractID)
	if err != nil {
		h.logFailure(ctx, "failed to load contract for transactions", err)
		httputil.WriteError(w, err)
		return
	}
	txs, err := h.ledger.ListByContract(ctx, view)
	if err != nil {
		h.logFailure(ctx, "failed to list contract transactions", err)
		httputil.WriteError(w, err)
		return
	}
	if txs == nil {
		txs = []*models.Transaction{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}

func (h *Handler) HandleAttachSettlement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	txID, err := id.ParseTransactionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[SettlementRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	tx, err := h.ledger.AttachSettlement(ctx, txID, models.BlockchainRef{
		Network:     req.Network,
		TxHash:      req.TxHash,
		BlockNumber: req.BlockNumber,
	})
	if err != nil {
		h.logFailure(ctx, "failed to attach settlement", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tx)
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	level := slog.LevelWarn
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
}
