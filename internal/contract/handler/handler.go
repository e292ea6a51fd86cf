package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	compmodels "africonnect/internal/compliance/models"
	"africonnect/internal/compliance/remediation"
	"africonnect/internal/contract/models"
	"africonnect/internal/contract/service"
	escrowmodels "africonnect/internal/escrow/models"
	id "africonnect/pkg/domain"
	dErrors "africonnect/pkg/domain-errors"
	"africonnect/pkg/platform/httputil"
	"africonnect/pkg/requestcontext"
)

// Service defines the contract operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, req service.CreateRequest) (*models.Contract, error)
	Get(ctx context.Context, contractID id.ContractID) (*models.Contract, error)
	List(ctx context.Context, role models.Role, status models.Status, page int) (models.Page, error)
	UpdateStatus(ctx context.Context, contractID id.ContractID, change service.StatusChange) (*models.Contract, error)
	UpdateMilestoneStatus(ctx context.Context, contractID id.ContractID, milestoneID id.MilestoneID, to models.MilestoneStatus) (service.MilestoneUpdate, error)
	AddComplianceCheck(ctx context.Context, contractID id.ContractID, check service.ManualCheck) (*models.Contract, error)
	CheckCompliance(ctx context.Context, contractID id.ContractID) (compmodels.Evaluation, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts routes on an authenticated router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/contracts", h.HandleCreate)
	r.Get("/contracts", h.HandleList)
	r.Get("/contracts/{id}", h.HandleGet)
	r.Put("/contracts/{id}/status", h.HandleUpdateStatus)
	r.Put("/contracts/{id}/milestones/{milestoneID}", h.HandleUpdateMilestone)
	r.Post("/contracts/{id}/compliance/evaluate", h.HandleEvaluate)
}

// RegisterAdmin mounts routes on a router already gated to administrators.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/contracts/{id}/compliance", h.HandleAddComplianceCheck)
}

type MilestoneRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Amount      int64      `json:"amount"`
}

type OnChainRequest struct {
	ContractAddress string `json:"contract_address"`
	TransactionHash string `json:"transaction_hash"`
	Network         string `json:"network"`
}

type CreateRequest struct {
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	ProviderID    string             `json:"provider"`
	ServiceID     string             `json:"service"`
	Terms         string             `json:"terms"`
	StartDate     time.Time          `json:"start_date"`
	EndDate       *time.Time         `json:"end_date,omitempty"`
	Amount        int64              `json:"amount"`
	Currency      string             `json:"currency"`
	PaymentTerms  string             `json:"payment_terms"`
	PaymentMethod string             `json:"payment_method"`
	Milestones    []MilestoneRequest `json:"milestones"`
	Jurisdictions []string           `json:"jurisdictions"`
	Blockchain    *OnChainRequest    `json:"blockchain,omitempty"`

	providerID id.UserID
	serviceID  id.ServiceID
}

func (r *CreateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.ProviderID = strings.TrimSpace(r.ProviderID)
	r.ServiceID = strings.TrimSpace(r.ServiceID)
	if r.Blockchain != nil && strings.TrimSpace(r.Blockchain.ContractAddress) == "" {
		r.Blockchain = nil
	}
}

func (r *CreateRequest) Validate() error {
	if r.ProviderID == "" || r.ServiceID == "" {
		return dErrors.New(dErrors.CodeValidation, "provider and service are required")
	}
	var err error
	if r.providerID, err = id.ParseUserID(r.ProviderID); err != nil {
		return err
	}
	if r.serviceID, err = id.ParseServiceID(r.ServiceID); err != nil {
		return err
	}
	if r.StartDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "start_date is required")
	}
	return nil
}

func (r *CreateRequest) toService() service.CreateRequest {
	out := service.CreateRequest{
		Title:         r.Title,
		Description:   r.Description,
		ProviderID:    r.providerID,
		ServiceID:     r.serviceID,
		Terms:         r.Terms,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		Amount:        r.Amount,
		Currency:      r.Currency,
		PaymentTerms:  r.PaymentTerms,
		PaymentMethod: r.PaymentMethod,
		Jurisdictions: r.Jurisdictions,
	}
	for _, m := range r.Milestones {
		out.Milestones = append(out.Milestones, service.MilestoneInput{
			Title:       m.Title,
			Description: m.Description,
			DueDate:     m.DueDate,
			Amount:      m.Amount,
		})
	}
	if r.Blockchain != nil {
		out.OnChain = &models.OnChain{
			ContractAddress: strings.TrimSpace(r.Blockchain.ContractAddress),
			TransactionHash: r.Blockchain.TransactionHash,
			Network:         r.Blockchain.Network,
		}
	}
	return out
}

type StatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func (r *StatusRequest) Normalize() {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
}

func (r *StatusRequest) Validate() error {
	if r.Status == "" {
		return dErrors.New(dErrors.CodeValidation, "status is required")
	}
	return nil
}

type MilestoneStatusRequest struct {
	Status string `json:"status"`
}

func (r *MilestoneStatusRequest) Normalize() {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
}

func (r *MilestoneStatusRequest) Validate() error {
	if r.Status == "" {
		return dErrors.New(dErrors.CodeValidation, "status is required")
	}
	return nil
}

type ComplianceCheckRequest struct {
	Jurisdiction string `json:"jurisdiction"`
	Status       string `json:"status"`
	Details      string `json:"details"`
}

func (r *ComplianceCheckRequest) Normalize() {
	r.Jurisdiction = strings.ToUpper(strings.TrimSpace(r.Jurisdiction))
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.Details = strings.TrimSpace(r.Details)
}

func (r *ComplianceCheckRequest) Validate() error {
	if r.Jurisdiction == "" || r.Status == "" || r.Details == "" {
		return dErrors.New(dErrors.CodeValidation, "jurisdiction, status, and details are required")
	}
	return nil
}

// MilestoneResponse carries the escrow release when approving the milestone
// paid the provider.
type MilestoneResponse struct {
	Contract    *models.Contract          `json:"contract"`
	Milestone   models.Milestone          `json:"milestone"`
	Transaction *escrowmodels.Transaction `json:"transaction,omitempty"`
}

type EvaluationResponse struct {
	Status      compmodels.Status       `json:"status"`
	Records     []compmodels.Record     `json:"records"`
	Suggestions []compmodels.Suggestion `json:"suggestions"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	c, err := h.service.Create(ctx, req.toService())
	if err != nil {
		h.logFailure(ctx, "failed to create contract", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

// HandleList answers GET /contracts?role=client&status=active&page=2.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "page must be a positive integer"))
			return
		}
		page = n
	}
	result, err := h.service.List(ctx, models.Role(q.Get("role")), models.Status(q.Get("status")), page)
	if err != nil {
		h.logFailure(ctx, "failed to list contracts", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contractID, err := id.ParseContractID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.service.Get(ctx, contractID)
	if err != nil {
		h.logFailure(ctx, "failed to get contract", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	contractID, err := id.ParseContractID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[StatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	c, err := h.service.UpdateStatus(ctx, contractID, service.StatusChange{
		Status: models.Status(req.Status),
		Reason: req.Reason,
	})
	if err != nil {
		h.logFailure(ctx, "failed to update contract status", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) HandleUpdateMilestone(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	contractID, err := id.ParseContractID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	milestoneID, err := id.ParseMilestoneID(chi.URLParam(r, "milestoneID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[MilestoneStatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	out, err := h.service.UpdateMilestoneStatus(ctx, contractID, milestoneID, models.MilestoneStatus(req.Status))
	if err != nil {
		h.logFailure(ctx, "failed to update milestone status", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MilestoneResponse{
		Contract:    out.Contract,
		Milestone:   out.Milestone,
		Transaction: out.Release,
	})
}

func (h *Handler) HandleAddComplianceCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	contractID, err := id.ParseContractID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ComplianceCheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	c, err := h.service.AddComplianceCheck(ctx, contractID, service.ManualCheck{
		Jurisdiction: req.Jurisdiction,
		Status:       compmodels.Verdict(req.Status),
		Details:      req.Details,
	})
	if err != nil {
		h.logFailure(ctx, "failed to add compliance check", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

// HandleEvaluate re-runs the compliance engine on a contract and returns the
// verdict with remediation suggestions for every non-compliant record.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contractID, err := id.ParseContractID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	eval, err := h.service.CheckCompliance(ctx, contractID)
	if err != nil {
		h.logFailure(ctx, "failed to evaluate contract compliance", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, EvaluationResponse{
		Status:      eval.Status,
		Records:     eval.Records,
		Suggestions: remediation.Suggest(eval.Records),
	})
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
