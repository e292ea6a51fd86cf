package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"africonnect/internal/escrow/ports"
)

func TestStatic(t *testing.T) {
	s := NewStatic(map[string]map[string]float64{
		"usd": {"ngn": 1550},
	})
	ctx := context.Background()

	rate, err := s.Rate(ctx, "USD", "NGN")
	require.NoError(t, err)
	assert.InDelta(t, 1550.0, rate, 1e-9)

	rate, err = s.Rate(ctx, "NGN", "USD")
	require.NoError(t, err)
	assert.InDelta(t, 1/1550.0, rate, 1e-12)

	rate, err = s.Rate(ctx, "KES", "KES")
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)

	_, err = s.Rate(ctx, "USD", "JPY")
	assert.ErrorIs(t, err, ports.ErrRateNotFound)
}

func TestHTTP_Rate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("quote") {
		case "NGN":
			_, _ = w.Write([]byte(`{"rate": 1550.5}`))
		case "JPY":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()
	h := NewHTTP(srv.URL, time.Second)
	ctx := context.Background()

	rate, err := h.Rate(ctx, "USD", "NGN")
	require.NoError(t, err)
	assert.InDelta(t, 1550.5, rate, 1e-9)

	_, err = h.Rate(ctx, "USD", "JPY")
	assert.ErrorIs(t, err, ports.ErrRateNotFound)

	_, err = h.Rate(ctx, "USD", "KES")
	require.Error(t, err)
	assert.Equal(t, ports.ErrorUnavailable, ports.CategoryOf(err))
}

func TestCached_FallsThroughWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	cached := NewCached(NewStatic(map[string]map[string]float64{"USD": {"GHS": 15.2}}), client, time.Minute)

	rate, err := cached.Rate(context.Background(), "USD", "GHS")
	require.NoError(t, err)
	assert.InDelta(t, 15.2, rate, 1e-9)
}
