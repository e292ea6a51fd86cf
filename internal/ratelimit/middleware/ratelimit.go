package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"africonnect/internal/ratelimit/metrics"
	"africonnect/internal/ratelimit/models"
	id "africonnect/pkg/domain"
	"africonnect/pkg/platform/circuit"
	"africonnect/pkg/platform/httputil"
	"africonnect/pkg/requestcontext"
)

type RateLimiter interface {
	CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, error)
	CheckBoth(ctx context.Context, ip string, userID id.UserID, class models.EndpointClass) (*models.RateLimitResult, error)
}

type Middleware struct {
	limiter  RateLimiter
	fallback RateLimiter
	breaker  *circuit.Breaker
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

// WithDisabled disables rate limiting entirely (for testing/demo mode).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

// WithFallback serves requests from fallback while breaker is open.
func WithFallback(fallback RateLimiter, breaker *circuit.Breaker) Option {
	return func(m *Middleware) {
		m.fallback = fallback
		m.breaker = breaker
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

func New(limiter RateLimiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		limiter: limiter,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// ClassifyRequest maps a request onto its budget. Anything that can move
// money (escrow calls, settlement, contract status changes that fund escrow)
// is ClassMoney.
func ClassifyRequest(r *http.Request) models.EndpointClass {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return models.ClassRead
	}
	path := r.URL.Path
	if strings.HasPrefix(path, "/escrow/") ||
		strings.HasSuffix(path, "/settlement") ||
		(strings.HasPrefix(path, "/contracts/") && strings.HasSuffix(path, "/status")) {
		return models.ClassMoney
	}
	return models.ClassWrite
}

// RateLimit limits by client IP, and additionally by user once the auth
// middleware has put an actor on the context.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		class := ClassifyRequest(r)
		result, degraded, err := m.check(ctx, class)
		if err != nil {
			// fail open
			m.logger.ErrorContext(ctx, "failed to check rate limit",
				"error", err,
				"endpoint_class", class,
				"request_id", requestcontext.RequestID(ctx),
			)
			next.ServeHTTP(w, r)
			return
		}

		if degraded {
			w.Header().Set("X-RateLimit-Status", "degraded")
		}
		addRateLimitHeaders(w, result)
		if !result.Allowed {
			writeRateLimitExceeded(w, result)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) check(ctx context.Context, class models.EndpointClass) (*models.RateLimitResult, bool, error) {
	if m.breaker != nil && m.fallback != nil && m.breaker.IsOpen() && !m.breaker.Allow() {
		result, err := run(ctx, m.fallback, class)
		return result, true, err
	}

	result, err := run(ctx, m.limiter, class)
	if m.breaker == nil || m.fallback == nil {
		return result, false, err
	}
	if err != nil {
		m.metrics.IncrementLimiterErrors()
		useFallback, change := m.breaker.RecordFailure()
		if change.Opened {
			m.metrics.SetDegraded(true)
			m.logger.WarnContext(ctx, "rate limiter degraded, using in-memory fallback", "error", err)
		}
		if !useFallback {
			return nil, false, err
		}
		result, err = run(ctx, m.fallback, class)
		return result, true, err
	}
	if _, change := m.breaker.RecordSuccess(); change.Closed {
		m.metrics.SetDegraded(false)
		m.logger.InfoContext(ctx, "rate limiter recovered")
	}
	return result, false, nil
}

func run(ctx context.Context, limiter RateLimiter, class models.EndpointClass) (*models.RateLimitResult, error) {
	ip := requestcontext.ClientIP(ctx)
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		return limiter.CheckIP(ctx, ip, class)
	}
	return limiter.CheckBoth(ctx, ip, userID, class)
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
