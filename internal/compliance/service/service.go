package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"time"

	"africonnect/internal/compliance/metrics"
	"africonnect/internal/compliance/models"
	"africonnect/internal/compliance/ports"
	"africonnect/internal/compliance/similarity"
	dirstore "africonnect/internal/directory/store"
	id "africonnect/pkg/domain"
	dErrors "africonnect/pkg/domain-errors"
	"africonnect/pkg/platform/audit"
	pstrings "africonnect/pkg/platform/strings"
	"africonnect/pkg/requestcontext"
)

// DefaultThreshold is the minimum similarity between contract terms and a
// mandatory requirement's description for the requirement to count as covered.
const DefaultThreshold = 0.3

const (
	noContractRegulations = "No specific regulations found for this jurisdiction and service type."
	noProviderRegulations = "No specific regulations found for this professional type in the jurisdiction."
	providerNotVerified   = "Provider is not verified. Verification is required to offer services."
)

var (
	prohibitedMarker = regexp.MustCompile(`(?i)prohibited:?\s*([^.]+)`)
	notAllowedMarker = regexp.MustCompile(`(?i)not allowed:?\s*([^.]+)`)
	termSeparator    = regexp.MustCompile(`[,;]`)
)

// Service evaluates contracts and providers against the regulations that
// apply to them. It never writes; persisting results is the caller's job.
type Service struct {
	regulations ports.RegulationStore
	services    ports.ServiceLookup
	users       ports.UserLookup
	scorer      *similarity.Scorer
	threshold   float64

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

// WithThreshold overrides DefaultThreshold.
func WithThreshold(t float64) Option {
	return func(s *Service) {
		if t > 0 {
			s.threshold = t
		}
	}
}

// WithScorer replaces the default term scorer.
func WithScorer(scorer *similarity.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

func New(regulations ports.RegulationStore, services ports.ServiceLookup, users ports.UserLookup, opts ...Option) *Service {
	s := &Service{
		regulations: regulations,
		services:    services,
		users:       users,
		scorer:      similarity.New(similarity.DefaultConfig()),
		threshold:   DefaultThreshold,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Criteria selects regulations. Sector, ProfessionalType and
// ServiceSubCategory are optional.
type Criteria struct {
	Jurisdictions      []string
	Sector             string
	ProfessionalType   string
	ServiceSubCategory string
}

// FindApplicable returns active regulations for the criteria, sorted by
// country, sector, title and id so identical input yields identical output.
func (s *Service) FindApplicable(ctx context.Context, c Criteria) ([]models.Regulation, error) {
	countries := pstrings.NormalizeCountryCodes(c.Jurisdictions)
	if len(countries) == 0 {
		return nil, nil
	}
	found, err := s.regulations.FindActive(ctx, ports.RegulationQuery{
		Countries:        countries,
		Sector:           c.Sector,
		ProfessionalType: c.ProfessionalType,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load regulations")
	}

	applicable := found[:0]
	for _, r := range found {
		if c.ServiceSubCategory == "" || r.Applicability.CoversServiceType(c.ServiceSubCategory) {
			applicable = append(applicable, r)
		}
	}
	slices.SortFunc(applicable, func(a, b models.Regulation) int {
		return cmp.Or(
			cmp.Compare(a.Country, b.Country),
			cmp.Compare(a.Sector, b.Sector),
			cmp.Compare(a.Title, b.Title),
			cmp.Compare(a.ID.String(), b.ID.String()),
		)
	})
	return applicable, nil
}

// EvaluateContract checks contract terms against every applicable regulation.
// Records carry Round zero and SourceEngine; the caller assigns the round.
func (s *Service) EvaluateContract(ctx context.Context, subject models.ContractSubject) (models.Evaluation, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveEvaluateLatency("contract", time.Since(start)) }()

	jurisdictions := pstrings.NormalizeCountryCodes(subject.Jurisdictions)
	if len(jurisdictions) == 0 {
		return models.Evaluation{}, dErrors.New(dErrors.CodeValidation, "contract has no jurisdictions")
	}

	svc, err := s.services.GetService(ctx, subject.ServiceID)
	if err != nil {
		if errors.Is(err, dirstore.ErrNotFound) {
			return models.Evaluation{}, dErrors.New(dErrors.CodeNotFound, "service not found")
		}
		return models.Evaluation{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load service")
	}

	regs, err := s.FindApplicable(ctx, Criteria{
		Jurisdictions:      jurisdictions,
		Sector:             svc.Category,
		ServiceSubCategory: svc.SubCategory,
	})
	if err != nil {
		return models.Evaluation{}, err
	}
	s.metrics.ObserveRegulationsMatched(len(regs))

	now := requestcontext.Now(ctx)
	var records []models.Record
	if len(regs) == 0 {
		records = []models.Record{{
			Jurisdiction: jurisdictions[0],
			Verdict:      models.VerdictCompliant,
			Detail:       noContractRegulations,
			Source:       models.SourceEngine,
			Timestamp:    now,
		}}
	} else {
		records = make([]models.Record, 0, len(regs))
		for _, reg := range regs {
			records = append(records, s.checkRegulation(subject.Terms, reg, now))
		}
	}

	eval := models.Evaluation{Status: models.Aggregate(records), Records: records}
	s.metrics.IncrementEvaluation("contract", string(eval.Status))
	s.logger.DebugContext(ctx, "contract compliance evaluated",
		"contract_id", subject.ID,
		"regulations", len(regs),
		"status", eval.Status,
	)
	return eval, nil
}

func (s *Service) checkRegulation(terms string, reg models.Regulation, now time.Time) models.Record {
	var findings []models.Finding
	for _, req := range reg.MandatoryRequirements() {
		if s.scorer.Similarity(terms, req.Description) < s.threshold {
			findings = append(findings, models.MissingRequirement(req.Title))
		}
	}
	lowered := strings.ToLower(terms)
	for _, term := range ProhibitedTerms(reg.Penalties) {
		if strings.Contains(lowered, strings.ToLower(term)) {
			findings = append(findings, models.ProhibitedTerm(term))
		}
	}

	rec := models.Record{
		Jurisdiction: reg.Country,
		Regulation:   reg.Title,
		Source:       models.SourceEngine,
		Timestamp:    now,
	}
	if len(findings) == 0 {
		rec.Verdict = models.VerdictCompliant
		rec.Detail = fmt.Sprintf("Contract complies with %s", reg.Title)
		return rec
	}
	rec.Verdict = models.VerdictNonCompliant
	rec.Findings = findings
	rec.Detail = fmt.Sprintf("Contract does not comply with %s. %s", reg.Title, models.JoinFindings(findings))
	return rec
}

// ProhibitedTerms extracts the comma or semicolon separated phrases that
// follow a "prohibited:" marker, or failing that a "not allowed:" marker, up
// to the next full stop.
func ProhibitedTerms(penalties string) []string {
	m := prohibitedMarker.FindStringSubmatch(penalties)
	if m == nil {
		m = notAllowedMarker.FindStringSubmatch(penalties)
	}
	if m == nil {
		return nil
	}
	return pstrings.DedupeAndTrim(termSeparator.Split(m[1], -1))
}

// EvaluateProvider checks a provider's standing in the given jurisdictions.
// Mandatory requirements are satisfied by verification alone.
func (s *Service) EvaluateProvider(ctx context.Context, providerID id.UserID, jurisdictions []string, category string) (models.Evaluation, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveEvaluateLatency("provider", time.Since(start)) }()

	jurisdictions = pstrings.NormalizeCountryCodes(jurisdictions)
	if len(jurisdictions) == 0 {
		return models.Evaluation{}, dErrors.New(dErrors.CodeValidation, "jurisdictions are required")
	}
	provider, err := s.users.GetUser(ctx, providerID)
	if err != nil {
		if errors.Is(err, dirstore.ErrNotFound) {
			return models.Evaluation{}, dErrors.New(dErrors.CodeNotFound, "provider not found")
		}
		return models.Evaluation{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load provider")
	}

	now := requestcontext.Now(ctx)
	var records []models.Record
	if !provider.IsVerified() {
		records = []models.Record{{
			Jurisdiction: jurisdictions[0],
			Verdict:      models.VerdictNonCompliant,
			Detail:       providerNotVerified,
			Findings:     []models.Finding{models.Other(providerNotVerified)},
			Source:       models.SourceEngine,
			Timestamp:    now,
		}}
	} else {
		regs, err := s.FindApplicable(ctx, Criteria{
			Jurisdictions:    jurisdictions,
			Sector:           category,
			ProfessionalType: provider.ProfessionalType,
		})
		if err != nil {
			return models.Evaluation{}, err
		}
		s.metrics.ObserveRegulationsMatched(len(regs))
		if len(regs) == 0 {
			records = []models.Record{{
				Jurisdiction: jurisdictions[0],
				Verdict:      models.VerdictCompliant,
				Detail:       noProviderRegulations,
				Source:       models.SourceEngine,
				Timestamp:    now,
			}}
		}
		for _, reg := range regs {
			records = append(records, models.Record{
				Jurisdiction: reg.Country,
				Regulation:   reg.Title,
				Verdict:      models.VerdictCompliant,
				Detail:       fmt.Sprintf("Provider complies with %s", reg.Title),
				Source:       models.SourceEngine,
				Timestamp:    now,
			})
		}
	}

	eval := models.Evaluation{Status: models.Aggregate(records), Records: records}
	s.metrics.IncrementEvaluation("provider", string(eval.Status))
	s.emit(ctx, audit.Event{
		Action:   string(audit.EventProviderEvaluated),
		UserID:   providerID,
		Subject:  providerID.String(),
		Decision: string(eval.Status),
		ActorID:  requestcontext.UserID(ctx).String(),
	})
	return eval, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err,
		)
	}
}
