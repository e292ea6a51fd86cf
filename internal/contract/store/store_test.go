package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"africonnect/internal/contract/models"
	id "africonnect/pkg/domain"
)

type InMemorySuite struct {
	suite.Suite
	store  *InMemory
	client id.UserID
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) SetupTest() {
	s.store = NewInMemory()
	s.client = id.UserID(uuid.New())
}

func (s *InMemorySuite) newContract(createdAt time.Time) *models.Contract {
	c := &models.Contract{
		ID:            id.NewContractID(),
		ClientID:      s.client,
		ProviderID:    id.UserID(uuid.New()),
		Status:        models.StatusDraft,
		Jurisdictions: []string{"NG"},
		Milestones:    []models.Milestone{{ID: id.NewMilestoneID(), Status: models.MilestonePending, Amount: 100}},
		CreatedAt:     createdAt,
	}
	s.Require().NoError(s.store.Create(context.Background(), c))
	return c
}

func (s *InMemorySuite) TestCreateAndGet() {
	c := s.newContract(time.Now())
	s.Equal(int64(1), c.Version)

	got, err := s.store.Get(context.Background(), c.ID)
	s.Require().NoError(err)
	s.Equal(c.ID, got.ID)

	err = s.store.Create(context.Background(), c)
	s.True(errors.Is(err, ErrConflict))

	_, err = s.store.Get(context.Background(), id.NewContractID())
	s.True(errors.Is(err, ErrNotFound))
}

func (s *InMemorySuite) TestCopiesAreIsolated() {
	c := s.newContract(time.Now())
	got, err := s.store.Get(context.Background(), c.ID)
	s.Require().NoError(err)

	got.Milestones[0].Status = models.MilestoneCompleted
	got.Jurisdictions[0] = "KE"

	again, err := s.store.Get(context.Background(), c.ID)
	s.Require().NoError(err)
	s.Equal(models.MilestonePending, again.Milestones[0].Status)
	s.Equal("NG", again.Jurisdictions[0])
}

func (s *InMemorySuite) TestUpdateRejectsStaleVersion() {
	c := s.newContract(time.Now())
	first, _ := s.store.Get(context.Background(), c.ID)
	second, _ := s.store.Get(context.Background(), c.ID)

	first.Status = models.StatusPending
	s.Require().NoError(s.store.Update(context.Background(), first))
	s.Equal(int64(2), first.Version)

	second.Status = models.StatusCancelled
	err := s.store.Update(context.Background(), second)
	s.True(errors.Is(err, ErrConflict))

	stored, _ := s.store.Get(context.Background(), c.ID)
	s.Equal(models.StatusPending, stored.Status)
}

func (s *InMemorySuite) TestListPagesNewestFirst() {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []id.ContractID
	for i := range 12 {
		ids = append(ids, s.newContract(base.Add(time.Duration(i)*time.Hour)).ID)
	}

	page1, total, err := s.store.List(context.Background(), models.ListFilter{UserID: s.client, Page: 1})
	s.Require().NoError(err)
	s.Equal(12, total)
	s.Require().Len(page1, models.PageSize)
	s.Equal(ids[11], page1[0].ID)

	page2, _, err := s.store.List(context.Background(), models.ListFilter{UserID: s.client, Page: 2})
	s.Require().NoError(err)
	s.Require().Len(page2, 2)
	s.Equal(ids[0], page2[1].ID)

	page3, total, err := s.store.List(context.Background(), models.ListFilter{UserID: s.client, Page: 3})
	s.Require().NoError(err)
	s.Empty(page3)
	s.Equal(12, total)

	none, total, err := s.store.List(context.Background(), models.ListFilter{UserID: s.client, Role: models.RoleProvider})
	s.Require().NoError(err)
	s.Empty(none)
	s.Zero(total)
}

func (s *InMemorySuite) TestListByStatus() {
	c := s.newContract(time.Now())
	s.newContract(time.Now())
	got, _ := s.store.Get(context.Background(), c.ID)
	got.Status = models.StatusPending
	s.Require().NoError(s.store.Update(context.Background(), got))

	pending, err := s.store.ListByStatus(context.Background(), models.StatusPending)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(c.ID, pending[0].ID)
}
