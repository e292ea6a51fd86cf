package graph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"africonnect/internal/escrow/models"
	id "africonnect/pkg/domain"
)

type recordingClient struct {
	cypher []string
	params []map[string]any
	err    error
}

func (c *recordingClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) error {
	c.cypher = append(c.cypher, cypher)
	c.params = append(c.params, params)
	return c.err
}

func (c *recordingClient) Ping(context.Context) error { return nil }
func (c *recordingClient) Close(context.Context) error { return nil }

func completedTx() *models.Transaction {
	contract := id.NewContractID()
	return &models.Transaction{
		ID:         id.NewTransactionID(),
		Type:       models.TypeEscrowRelease,
		Amount:     9680,
		Currency:   "USD",
		ContractID: &contract,
		Status:     models.StatusCompleted,
		UpdatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestProjectTransaction(t *testing.T) {
	client := &recordingClient{}
	tx := completedTx()

	require.NoError(t, NewProjector(client).ProjectTransaction(context.Background(), tx))
	require.Len(t, client.params, 1)
	p := client.params[0]
	assert.Equal(t, tx.ID.String(), p["tx_id"])
	assert.Equal(t, int64(9680), p["amount"])
	assert.Equal(t, tx.ContractID.String(), p["contract_id"])
	assert.Equal(t, "2026-03-01T12:00:00.000Z", p["at"])
	assert.Contains(t, client.cypher[0], "MERGE (s)-[p:PAID {tx_id: $tx_id}]->(r)")
}

func TestProjectTransaction_SkipsNonCompleted(t *testing.T) {
	client := &recordingClient{}
	tx := completedTx()
	tx.Status = models.StatusFailed

	require.NoError(t, NewProjector(client).ProjectTransaction(context.Background(), tx))
	assert.Empty(t, client.cypher)
}

func TestProjectTransaction_WrapsClientError(t *testing.T) {
	boom := errors.New("bolt down")
	err := NewProjector(&recordingClient{err: boom}).ProjectTransaction(context.Background(), completedTx())
	assert.ErrorIs(t, err, boom)
}
