package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	dErrors "africonnect/pkg/domain-errors"
)

// releaseScript deletes the key only if it still holds our token, so a lock
// that expired and was re-acquired elsewhere is never released by mistake.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const (
	defaultTTL        = 30 * time.Second
	defaultRetryDelay = 25 * time.Millisecond
	keyPrefix         = "lock:"
)

// Redis is a Locker shared by every server instance. Keys expire after the
// TTL so a crashed holder cannot wedge a contract forever.
type Redis struct {
	client     redis.UniversalClient
	ttl        time.Duration
	retryDelay time.Duration
	timeout    time.Duration
}

type RedisOption func(*Redis)

func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) { r.ttl = ttl }
}

func WithRetryDelay(d time.Duration) RedisOption {
	return func(r *Redis) { r.retryDelay = d }
}

func NewRedis(client redis.UniversalClient, timeout time.Duration, opts ...RedisOption) *Redis {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	r := &Redis{
		client:     client,
		ttl:        defaultTTL,
		retryDelay: defaultRetryDelay,
		timeout:    timeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	redisKey := keyPrefix + key
	token := uuid.NewString()
	ticker := time.NewTicker(r.retryDelay)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return func() {
				// Release must run even when the request context is done.
				_ = releaseScript.Run(context.WithoutCancel(ctx), r.client, []string{redisKey}, token).Err()
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "lock aborted: context cancelled")
		case <-ticker.C:
		}
	}
}
