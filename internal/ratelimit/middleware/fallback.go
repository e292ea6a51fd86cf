package middleware

import (
	"log/slog"

	"africonnect/internal/ratelimit/metrics"
	"africonnect/internal/ratelimit/models"
	"africonnect/internal/ratelimit/service/requestlimit"
	"africonnect/internal/ratelimit/store/bucket"
)

// NewFallbackLimiter returns an in-memory limiter with the same budgets as
// the primary. The middleware switches to it while the primary store is
// failing. Returns nil if cfg is nil.
func NewFallbackLimiter(cfg *models.Config, logger *slog.Logger, m *metrics.Metrics) RateLimiter {
	if cfg == nil {
		if logger != nil {
			logger.Error("fallback limiter requires config")
		}
		return nil
	}
	requests, err := requestlimit.New(
		bucket.New(),
		requestlimit.WithLogger(logger),
		requestlimit.WithConfig(cfg),
		requestlimit.WithMetrics(m),
	)
	if err != nil {
		if logger != nil {
			logger.Error("failed to initialize fallback rate limiter", "error", err)
		}
		return nil
	}
	return requests
}
