package requestlimit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"africonnect/internal/ratelimit/metrics"
	"africonnect/internal/ratelimit/models"
	id "africonnect/pkg/domain"
	dErrors "africonnect/pkg/domain-errors"
	"africonnect/pkg/platform/audit"
	"africonnect/pkg/requestcontext"
)

// BucketStore manages sliding window rate limit counters.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	buckets        BucketStore
	auditPublisher AuditPublisher
	logger         *slog.Logger
	config         *models.Config
	metrics        *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithConfig(cfg *models.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(buckets BucketStore, opts ...Option) (*Service, error) {
	if buckets == nil {
		return nil, errors.New("buckets store is required")
	}

	svc := &Service{
		buckets: buckets,
		config:  models.DefaultConfig(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CheckIP applies the per-address budget for class.
func (s *Service) CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, error) {
	limit, ok := s.config.IPLimit(class)
	if !ok {
		return s.missingConfig(ctx, class, models.KeyPrefixIP), nil
	}
	return s.check(ctx, models.KeyPrefixIP, ip, class, limit)
}

// CheckBoth applies the per-address and per-user budgets. A denial from
// either wins; otherwise the tighter of the two is reported.
func (s *Service) CheckBoth(ctx context.Context, ip string, userID id.UserID, class models.EndpointClass) (*models.RateLimitResult, error) {
	ipLimit, ok := s.config.IPLimit(class)
	if !ok {
		return s.missingConfig(ctx, class, models.KeyPrefixIP), nil
	}
	userLimit, ok := s.config.UserLimit(class)
	if !ok {
		return s.missingConfig(ctx, class, models.KeyPrefixUser), nil
	}

	ipResult, err := s.check(ctx, models.KeyPrefixIP, ip, class, ipLimit)
	if err != nil || !ipResult.Allowed {
		return ipResult, err
	}
	userResult, err := s.check(ctx, models.KeyPrefixUser, userID.String(), class, userLimit)
	if err != nil || !userResult.Allowed {
		return userResult, err
	}
	if userResult.Remaining < ipResult.Remaining {
		return userResult, nil
	}
	return ipResult, nil
}

func (s *Service) check(ctx context.Context, prefix models.KeyPrefix, identifier string, class models.EndpointClass, limit models.Limit) (*models.RateLimitResult, error) {
	key := models.NewRateLimitKey(prefix, identifier, class)
	result, err := s.buckets.Allow(ctx, key.String(), limit.RequestsPerWindow, limit.Window)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
	}

	s.metrics.RecordDecision(string(class), string(prefix), result.Allowed)
	if !result.Allowed {
		s.logger.WarnContext(ctx, "rate limit exceeded",
			"limit_type", prefix,
			"endpoint_class", class,
			"limit", limit.RequestsPerWindow,
			"window_seconds", int(limit.Window.Seconds()),
			"request_id", requestcontext.RequestID(ctx),
		)
		s.emitExceeded(ctx, prefix, class)
	}
	return result, nil
}

// missingConfig fails closed: an unconfigured class is never unlimited.
func (s *Service) missingConfig(ctx context.Context, class models.EndpointClass, prefix models.KeyPrefix) *models.RateLimitResult {
	s.logger.ErrorContext(ctx, "rate limit config missing",
		"endpoint_class", class,
		"limit_type", prefix,
	)
	return &models.RateLimitResult{
		Allowed:    false,
		ResetAt:    requestcontext.Now(ctx),
		RetryAfter: 60,
	}
}

func (s *Service) emitExceeded(ctx context.Context, prefix models.KeyPrefix, class models.EndpointClass) {
	if s.auditPublisher == nil {
		return
	}
	event := audit.Event{
		Category:  audit.CategorySecurity,
		Timestamp: requestcontext.Now(ctx),
		UserID:    requestcontext.UserID(ctx),
		Subject:   string(class),
		Action:    string(audit.EventRateLimitExceeded),
		Decision:  "denied",
		Reason:    string(prefix) + "_limit",
		RequestID: requestcontext.RequestID(ctx),
	}
	if err := s.auditPublisher.Emit(context.WithoutCancel(ctx), event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit rate limit audit event", "error", err)
	}
}
