package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	compmodels "africonnect/internal/compliance/models"
	escrowmodels "africonnect/internal/escrow/models"
	id "africonnect/pkg/domain"
)

func TestContractTransitions(t *testing.T) {
	allowed := map[Status][]Status{
		StatusDraft:    {StatusPending, StatusCancelled},
		StatusPending:  {StatusActive, StatusCancelled},
		StatusActive:   {StatusCompleted, StatusDisputed},
		StatusDisputed: {StatusCompleted, StatusCancelled},
	}
	all := []Status{StatusDraft, StatusPending, StatusActive, StatusCompleted, StatusDisputed, StatusCancelled}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusDisputed.IsTerminal())
	assert.False(t, Status("archived").IsValid())
}

func TestMilestoneTransitions(t *testing.T) {
	assert.True(t, MilestonePending.CanTransition(MilestoneCompleted))
	assert.True(t, MilestoneCompleted.CanTransition(MilestoneApproved))
	assert.True(t, MilestoneDisputed.CanTransition(MilestoneApproved))
	assert.False(t, MilestonePending.CanTransition(MilestoneApproved))
	assert.False(t, MilestoneApproved.CanTransition(MilestoneCompleted))
	assert.False(t, MilestoneStatus("paid").IsValid())
}

func TestEscrowView(t *testing.T) {
	m := Milestone{ID: id.NewMilestoneID(), Amount: 4000, Status: MilestoneCompleted}
	c := &Contract{
		ID:         id.NewContractID(),
		ClientID:   id.UserID(uuid.New()),
		ProviderID: id.UserID(uuid.New()),
		Status:     StatusActive,
		Amount:     10000,
		Currency:   "USD",
		Milestones: []Milestone{m},
		OnChain:    &OnChain{ContractAddress: "0xabc"},
	}

	view := c.EscrowView()
	assert.Equal(t, escrowmodels.ContractActive, view.Status)
	assert.Equal(t, "0xabc", view.OnChainAddress)
	mv, ok := view.Milestone(m.ID)
	require.True(t, ok)
	assert.Equal(t, escrowmodels.MilestoneCompleted, mv.Status)
	assert.Equal(t, int64(4000), mv.Amount)
}

func TestAppendComplianceRound(t *testing.T) {
	c := &Contract{}
	c.AppendComplianceRound(compmodels.Evaluation{
		Status:  compmodels.StatusNonCompliant,
		Records: []compmodels.Record{{Jurisdiction: "NG", Verdict: compmodels.VerdictNonCompliant}},
	})
	c.AppendComplianceRound(compmodels.Evaluation{
		Status:  compmodels.StatusCompliant,
		Records: []compmodels.Record{{Jurisdiction: "NG", Verdict: compmodels.VerdictCompliant}},
	})

	assert.Len(t, c.ComplianceRecords, 2)
	assert.Equal(t, compmodels.StatusCompliant, c.ComplianceStatus)
	current := c.CurrentComplianceRecords()
	require.Len(t, current, 1)
	assert.Equal(t, 2, current[0].Round)
	assert.Equal(t, compmodels.SourceEngine, current[0].Source)
}

func TestListFilter(t *testing.T) {
	me := id.UserID(uuid.New())
	other := id.UserID(uuid.New())
	asClient := &Contract{ClientID: me, ProviderID: other, Status: StatusActive}
	asProvider := &Contract{ClientID: other, ProviderID: me, Status: StatusDraft}
	unrelated := &Contract{ClientID: other, ProviderID: other}

	either := ListFilter{UserID: me}
	assert.True(t, either.Matches(asClient))
	assert.True(t, either.Matches(asProvider))
	assert.False(t, either.Matches(unrelated))

	assert.False(t, ListFilter{UserID: me, Role: RoleClient}.Matches(asProvider))
	assert.True(t, ListFilter{UserID: me, Role: RoleProvider}.Matches(asProvider))
	assert.False(t, ListFilter{UserID: me, Status: StatusActive}.Matches(asProvider))

	assert.Equal(t, 0, ListFilter{Page: 0}.Offset())
	assert.Equal(t, 20, ListFilter{Page: 3}.Offset())
}

func TestNewPage(t *testing.T) {
	p := NewPage(nil, 0, 21)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 3, p.Pages)
	assert.NotNil(t, p.Contracts)
	assert.Equal(t, 0, NewPage(nil, 1, 0).Pages)
}
