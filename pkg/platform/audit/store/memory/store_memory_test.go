package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "africonnect/pkg/domain"
	audit "africonnect/pkg/platform/audit"
)

func TestInMemoryStore_ListBySubject(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	contract := uuid.NewString()

	require.NoError(t, store.Append(ctx, audit.Event{UserID: id.UserID(uuid.New()), Subject: contract, Action: string(audit.EventContractCreated)}))
	require.NoError(t, store.Append(ctx, audit.Event{UserID: id.UserID(uuid.New()), Subject: uuid.NewString(), Action: string(audit.EventContractCreated)}))
	require.NoError(t, store.Append(ctx, audit.Event{UserID: id.UserID(uuid.New()), Subject: contract, Action: string(audit.EventContractStatusChanged)}))

	events, err := store.ListBySubject(ctx, contract)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, string(audit.EventContractCreated), events[0].Action)
	assert.Equal(t, string(audit.EventContractStatusChanged), events[1].Action)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	store.Clear()
	all, _ = store.ListAll(ctx)
	assert.Empty(t, all)
}
