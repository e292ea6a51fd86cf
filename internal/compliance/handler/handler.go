package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"africonnect/internal/compliance/models"
	"africonnect/internal/compliance/remediation"
	"africonnect/internal/compliance/service"
	id "africonnect/pkg/domain"
	dErrors "africonnect/pkg/domain-errors"
	"africonnect/pkg/platform/httputil"
	"africonnect/pkg/requestcontext"
)

// Service defines the compliance operations exposed over HTTP.
type Service interface {
	FindApplicable(ctx context.Context, c service.Criteria) ([]models.Regulation, error)
	EvaluateProvider(ctx context.Context, providerID id.UserID, jurisdictions []string, category string) (models.Evaluation, error)
}

// Monitor runs the regulatory change sweep on demand.
type Monitor interface {
	MonitorRegulatoryChanges(ctx context.Context) ([]models.Change, error)
}

type Handler struct {
	service Service
	monitor Monitor
	logger  *slog.Logger
}

func New(svc Service, monitor Monitor, logger *slog.Logger) *Handler {
	return &Handler{service: svc, monitor: monitor, logger: logger}
}

// Register mounts routes on an authenticated router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/regulations", h.HandleListRegulations)
	r.Post("/providers/{id}/compliance/evaluate", h.HandleEvaluateProvider)
}

// RegisterAdmin mounts routes on a router already gated to administrators.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/compliance/monitor", h.HandleRunMonitor)
}

type EvaluateProviderRequest struct {
	Jurisdictions []string `json:"jurisdictions"`
	Category      string   `json:"category"`
}

func (r *EvaluateProviderRequest) Normalize() {
	r.Category = strings.TrimSpace(r.Category)
}

func (r *EvaluateProviderRequest) Validate() error {
	if len(r.Jurisdictions) == 0 {
		return dErrors.New(dErrors.CodeValidation, "jurisdictions are required")
	}
	return nil
}

type EvaluationResponse struct {
	Status      models.Status       `json:"status"`
	Records     []models.Record     `json:"records"`
	Suggestions []models.Suggestion `json:"suggestions"`
}

func NewEvaluationResponse(eval models.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		Status:      eval.Status,
		Records:     eval.Records,
		Suggestions: remediation.Suggest(eval.Records),
	}
}

// HandleListRegulations answers GET /regulations?jurisdictions=NG,KE&sector=legal
// &professional_type=lawyer&service_type=contract_review.
func (h *Handler) HandleListRegulations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	criteria := service.Criteria{
		Jurisdictions:      strings.Split(q.Get("jurisdictions"), ","),
		Sector:             q.Get("sector"),
		ProfessionalType:   q.Get("professional_type"),
		ServiceSubCategory: q.Get("service_type"),
	}
	if strings.TrimSpace(q.Get("jurisdictions")) == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "jurisdictions query parameter is required"))
		return
	}

	regs, err := h.service.FindApplicable(ctx, criteria)
	if err != nil {
		h.logFailure(ctx, "failed to list regulations", err)
		httputil.WriteError(w, err)
		return
	}
	if regs == nil {
		regs = []models.Regulation{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"regulations": regs})
}

// HandleEvaluateProvider lets a provider, or an administrator, check the
// provider's standing.
func (h *Handler) HandleEvaluateProvider(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	providerID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if requestcontext.UserID(ctx) != providerID && !requestcontext.IsAdmin(ctx) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "only the provider or an administrator may evaluate provider compliance"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[EvaluateProviderRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	eval, err := h.service.EvaluateProvider(ctx, providerID, req.Jurisdictions, req.Category)
	if err != nil {
		h.logFailure(ctx, "failed to evaluate provider compliance", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, NewEvaluationResponse(eval))
}

func (h *Handler) HandleRunMonitor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	changes, err := h.monitor.MonitorRegulatoryChanges(ctx)
	if err != nil {
		h.logFailure(ctx, "compliance monitor failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"changes": changes})
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
