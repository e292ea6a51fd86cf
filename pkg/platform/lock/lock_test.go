package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "africonnect/pkg/domain-errors"
)

func TestKeyed_SerialisesSameKey(t *testing.T) {
	l := NewKeyed(time.Second)
	var inside, maxInside int32
	var wg sync.WaitGroup

	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := WithLock(context.Background(), l, "contract:1", func(context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

func TestKeyed_TimesOutWhenHeld(t *testing.T) {
	l := NewKeyed(20 * time.Millisecond)
	release, err := l.Lock(context.Background(), "contract:2")
	require.NoError(t, err)
	defer release()

	_, err = l.Lock(context.Background(), "contract:2")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
}

func TestKeyed_CancelledContext(t *testing.T) {
	l := NewKeyed(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Lock(ctx, "contract:3")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
}

func TestKeyed_ReleaseIsIdempotent(t *testing.T) {
	l := NewKeyed(time.Second)
	release, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	release()
	release()

	release, err = l.Lock(context.Background(), "k")
	require.NoError(t, err)
	release()
}

func TestKeyed_NestedKeysDoNotBlock(t *testing.T) {
	l := NewKeyed(50 * time.Millisecond)
	err := WithLock(context.Background(), l, "contract:4", func(ctx context.Context) error {
		return WithLock(ctx, l, "escrow:4:contract", func(context.Context) error { return nil })
	})
	require.NoError(t, err)
	assert.Empty(t, l.entries)
}
