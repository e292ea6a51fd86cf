//go:build integration

package containers

import (
	"context"
	"fmt"
	"testing"

	"github.com/redis/go-redis/v9"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

const redisImage = "redis:7-alpine"

// RedisContainer is shared by the lock, rate cache and rate limiter suites.
// Tests must not assume an empty keyspace without calling FlushAll.
type RedisContainer struct {
	Container *tcredis.RedisContainer
	URL       string
	Client    *redis.Client
}

func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, redisImage)
	if err != nil {
		t.Fatalf("start %s: %v", redisImage, err)
	}
	url, client, err := dialRedis(ctx, container)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("redis container: %v", err)
	}
	return &RedisContainer{Container: container, URL: url, Client: client}
}

func dialRedis(ctx context.Context, container *tcredis.RedisContainer) (string, *redis.Client, error) {
	url, err := container.ConnectionString(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("connection string: %w", err)
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return "", nil, fmt.Errorf("parse %q: %w", url, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return "", nil, fmt.Errorf("ping: %w", err)
	}
	return url, client, nil
}

func (r *RedisContainer) FlushAll(ctx context.Context) error {
	return r.Client.FlushAll(ctx).Err()
}
