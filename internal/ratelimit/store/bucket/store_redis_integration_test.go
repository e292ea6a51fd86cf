//go:build integration

package bucket

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"africonnect/pkg/testutil/containers"
)

func TestRedisBucketStore(t *testing.T) {
	rc := containers.GetRedisContainer(t)
	ctx := context.Background()
	require.NoError(t, rc.FlushAll(ctx))
	store := NewRedis(rc.Client)

	t.Run("budget is shared and exhausted", func(t *testing.T) {
		for i := range 3 {
			res, err := store.Allow(ctx, "ratelimit:user:a:money", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, res.Allowed)
			assert.Equal(t, 3-i-1, res.Remaining)
		}
		res, err := store.Allow(ctx, "ratelimit:user:a:money", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Positive(t, res.RetryAfter)
	})

	t.Run("window expiry frees the budget", func(t *testing.T) {
		key := "ratelimit:user:b:money"
		_, err := store.Allow(ctx, key, 1, 100*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(150 * time.Millisecond)
		res, err := store.Allow(ctx, key, 1, 100*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	})

	t.Run("reset clears the key", func(t *testing.T) {
		key := "ratelimit:user:c:write"
		_, err := store.AllowN(ctx, key, 2, 2, time.Minute)
		require.NoError(t, err)
		require.NoError(t, store.Reset(ctx, key))

		res, err := store.Allow(ctx, key, 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	})

	t.Run("concurrent callers never exceed the limit", func(t *testing.T) {
		var allowed atomic.Int32
		var wg sync.WaitGroup
		for range 50 {
			wg.Go(func() {
				res, err := store.Allow(ctx, "ratelimit:ip:1.2.3.4:read", 20, time.Minute)
				if err == nil && res.Allowed {
					allowed.Add(1)
				}
			})
		}
		wg.Wait()
		assert.Equal(t, int32(20), allowed.Load())
	})
}
