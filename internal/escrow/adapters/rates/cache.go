package rates

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"africonnect/internal/escrow/ports"
)

const cacheKeyPrefix = "fx:"

// Cached keeps quotes from next in Redis for ttl. Redis failures are logged
// and the call falls through to next; a cache outage never blocks a payment.
type Cached struct {
	next   ports.RateSource
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

type CachedOption func(*Cached)

func WithLogger(logger *slog.Logger) CachedOption {
	return func(c *Cached) {
		c.logger = logger
	}
}

func NewCached(next ports.RateSource, client redis.UniversalClient, ttl time.Duration, opts ...CachedOption) *Cached {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	c := &Cached{next: next, client: client, ttl: ttl, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func cacheKey(base, quote string) string {
	return cacheKeyPrefix + base + ":" + quote
}

func (c *Cached) Rate(ctx context.Context, base, quote string) (float64, error) {
	if base == quote {
		return 1, nil
	}
	key := cacheKey(base, quote)

	raw, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if rate, perr := strconv.ParseFloat(raw, 64); perr == nil && rate > 0 {
			return rate, nil
		}
		c.logger.WarnContext(ctx, "discarding malformed cached rate", "key", key, "value", raw)
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "rate cache read failed", "key", key, "error", err)
	}

	rate, err := c.next.Rate(ctx, base, quote)
	if err != nil {
		return 0, err
	}
	if err := c.client.Set(ctx, key, strconv.FormatFloat(rate, 'g', -1, 64), c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "rate cache write failed", "key", key, "error", err)
	}
	return rate, nil
}
