package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "africonnect/pkg/domain"
)

func mustContractID(t *testing.T, s string) id.ContractID {
	t.Helper()
	v, err := id.ParseContractID(s)
	require.NoError(t, err)
	return v
}

func mustMilestoneID(t *testing.T, s string) id.MilestoneID {
	t.Helper()
	v, err := id.ParseMilestoneID(s)
	require.NoError(t, err)
	return v
}

func mustUserID(t *testing.T, s string) id.UserID {
	t.Helper()
	v, err := id.ParseUserID(s)
	require.NoError(t, err)
	return v
}

func TestTransaction_Helpers(t *testing.T) {
	sender := mustUserID(t, "0b3e8f4e-0d6b-4f4f-8d6d-5f2b9a1c0001")
	recipient := mustUserID(t, "0b3e8f4e-0d6b-4f4f-8d6d-5f2b9a1c0002")
	other := mustUserID(t, "0b3e8f4e-0d6b-4f4f-8d6d-5f2b9a1c0003")

	tx := Transaction{Amount: 10000, Fee: Fee{Amount: 320}, SenderID: sender, RecipientID: recipient}
	assert.Equal(t, int64(9680), tx.NetAmount())
	assert.True(t, tx.Involves(sender))
	assert.True(t, tx.Involves(recipient))
	assert.False(t, tx.Involves(other))
}

func TestTransactionStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	for _, s := range []TransactionStatus{StatusCompleted, StatusFailed, StatusCancelled} {
		assert.True(t, s.IsTerminal(), s)
	}
}

func TestContractView_Milestone(t *testing.T) {
	m1 := mustMilestoneID(t, "5f0c8a4e-2b1d-4f7e-9c3a-000000000011")
	m2 := mustMilestoneID(t, "5f0c8a4e-2b1d-4f7e-9c3a-000000000012")
	view := ContractView{Milestones: []MilestoneView{{ID: m1, Status: MilestoneCompleted, Amount: 500}}}

	got, ok := view.Milestone(m1)
	require.True(t, ok)
	assert.Equal(t, int64(500), got.Amount)

	_, ok = view.Milestone(m2)
	assert.False(t, ok)
}
