package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	id "africonnect/pkg/domain"
)

func TestActor(t *testing.T) {
	ctx := context.Background()
	assert.True(t, UserID(ctx).IsNil())
	assert.False(t, IsAdmin(ctx))

	userID := id.UserID(uuid.New())
	ctx = WithActor(ctx, userID, RoleAdmin)
	assert.Equal(t, userID, UserID(ctx))
	assert.Equal(t, RoleAdmin, Role(ctx))
	assert.True(t, IsAdmin(ctx))

	ctx = WithActor(ctx, userID, "client")
	assert.False(t, IsAdmin(ctx))
}

func TestNow_FallsBackToWallClock(t *testing.T) {
	before := time.Now()
	got := Now(context.Background())
	assert.False(t, got.Before(before))

	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, fixed, Now(WithTime(context.Background(), fixed)))
}

func TestClientMetadata(t *testing.T) {
	ctx := WithClientMetadata(context.Background(), "10.0.0.1", "Firefox 120 / Linux")
	ctx = WithRequestID(ctx, "req-1")
	assert.Equal(t, "10.0.0.1", ClientIP(ctx))
	assert.Equal(t, "Firefox 120 / Linux", UserAgent(ctx))
	assert.Equal(t, "req-1", RequestID(ctx))
}
