package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"africonnect/internal/directory/models"
	"africonnect/internal/platform/catalog"
	id "africonnect/pkg/domain"
)

type InMemorySuite struct {
	suite.Suite
	store *InMemory
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) SetupTest() {
	s.store = NewInMemory()
}

func (s *InMemorySuite) TestSeedFromCatalog() {
	c, err := catalog.Load("")
	s.Require().NoError(err)
	s.Require().NoError(s.store.SeedFromCatalog(c))

	uid, _ := id.ParseUserID(c.Fixtures.Users[0].ID)
	u, err := s.store.GetUser(context.Background(), uid)
	s.Require().NoError(err)
	s.Equal(c.Fixtures.Users[0].Name, u.Name)
	s.Equal("USD", u.Wallet.Currency)
}

func (s *InMemorySuite) TestFixturesFromCatalog_RejectsBadIDs() {
	c, err := catalog.Load("")
	s.Require().NoError(err)
	c.Fixtures.Services[0].ProviderID = "not-a-uuid"

	_, _, err = FixturesFromCatalog(c)
	s.Require().Error(err)
	s.Contains(err.Error(), "provider")
	s.Error(s.store.SeedFromCatalog(c))
}

func (s *InMemorySuite) TestGetReturnsCopies() {
	u := &models.User{ID: id.UserID(uuid.New()), Wallet: models.Wallet{Balance: 100, Currency: "USD"}}
	s.store.PutUser(u)

	got, err := s.store.GetUser(context.Background(), u.ID)
	s.Require().NoError(err)
	got.Wallet.Balance = 0

	again, _ := s.store.GetUser(context.Background(), u.ID)
	s.Equal(int64(100), again.Wallet.Balance)
}

func (s *InMemorySuite) TestApplyWalletDeltas_AllOrNothing() {
	ctx := context.Background()
	a := &models.User{ID: id.UserID(uuid.New()), Wallet: models.Wallet{Balance: 1000}}
	b := &models.User{ID: id.UserID(uuid.New()), Wallet: models.Wallet{Balance: 0}}
	s.store.PutUser(a)
	s.store.PutUser(b)

	s.Run("applies every delta", func() {
		err := s.store.ApplyWalletDeltas(ctx, []models.WalletDelta{{UserID: a.ID, Amount: -300}, {UserID: b.ID, Amount: 290}})
		s.Require().NoError(err)
		gotA, _ := s.store.GetUser(ctx, a.ID)
		gotB, _ := s.store.GetUser(ctx, b.ID)
		s.Equal(int64(700), gotA.Wallet.Balance)
		s.Equal(int64(290), gotB.Wallet.Balance)
	})

	s.Run("unknown user aborts without mutation", func() {
		err := s.store.ApplyWalletDeltas(ctx, []models.WalletDelta{{UserID: a.ID, Amount: -100}, {UserID: id.UserID(uuid.New()), Amount: 100}})
		s.Require().Error(err)
		s.True(IsNotFound(err))
		gotA, _ := s.store.GetUser(ctx, a.ID)
		s.Equal(int64(700), gotA.Wallet.Balance)
	})
}

func (s *InMemorySuite) TestApplyWalletDeltas_NoOverdraftFloor() {
	ctx := context.Background()
	a := &models.User{ID: id.UserID(uuid.New()), Wallet: models.Wallet{Balance: 500}}
	b := &models.User{ID: id.UserID(uuid.New()), Wallet: models.Wallet{Balance: 0}}
	s.store.PutUser(a)
	s.store.PutUser(b)

	s.Run("debit past zero is refused without mutation", func() {
		err := s.store.ApplyWalletDeltas(ctx, []models.WalletDelta{
			{UserID: b.ID, Amount: 600},
			{UserID: a.ID, Amount: -600, NoOverdraft: true},
		})
		s.Require().ErrorIs(err, models.ErrInsufficientFunds)
		gotA, _ := s.store.GetUser(ctx, a.ID)
		gotB, _ := s.store.GetUser(ctx, b.ID)
		s.Equal(int64(500), gotA.Wallet.Balance)
		s.Equal(int64(0), gotB.Wallet.Balance)
	})

	s.Run("repeated debits on one wallet are summed", func() {
		err := s.store.ApplyWalletDeltas(ctx, []models.WalletDelta{
			{UserID: a.ID, Amount: -300, NoOverdraft: true},
			{UserID: a.ID, Amount: -300, NoOverdraft: true},
		})
		s.Require().ErrorIs(err, models.ErrInsufficientFunds)
		gotA, _ := s.store.GetUser(ctx, a.ID)
		s.Equal(int64(500), gotA.Wallet.Balance)
	})

	s.Run("debit down to exactly zero is allowed", func() {
		err := s.store.ApplyWalletDeltas(ctx, []models.WalletDelta{{UserID: a.ID, Amount: -500, NoOverdraft: true}})
		s.Require().NoError(err)
		gotA, _ := s.store.GetUser(ctx, a.ID)
		s.Equal(int64(0), gotA.Wallet.Balance)
	})

	s.Run("deltas without the floor may go negative", func() {
		err := s.store.ApplyWalletDeltas(ctx, []models.WalletDelta{{UserID: b.ID, Amount: -100}})
		s.Require().NoError(err)
		gotB, _ := s.store.GetUser(ctx, b.ID)
		s.Equal(int64(-100), gotB.Wallet.Balance)
	})
}

func (s *InMemorySuite) TestMissingService() {
	_, err := s.store.GetService(context.Background(), id.ServiceID(uuid.New()))
	s.True(IsNotFound(err))
}
