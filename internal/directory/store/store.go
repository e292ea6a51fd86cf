package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"africonnect/internal/directory/models"
	"africonnect/internal/platform/catalog"
	id "africonnect/pkg/domain"
	"africonnect/pkg/platform/sentinel"
)

// ErrNotFound is returned when a user or service is absent.
var ErrNotFound = sentinel.ErrNotFound

// InMemory holds users and services for development and tests.
type InMemory struct {
	mu       sync.RWMutex
	users    map[id.UserID]*models.User
	services map[id.ServiceID]*models.Service
}

func NewInMemory() *InMemory {
	return &InMemory{
		users:    make(map[id.UserID]*models.User),
		services: make(map[id.ServiceID]*models.Service),
	}
}

// FixturesFromCatalog converts the catalogue's seed users and services.
func FixturesFromCatalog(c *catalog.Catalog) ([]*models.User, []*models.Service, error) {
	users := make([]*models.User, 0, len(c.Fixtures.Users))
	for _, u := range c.Fixtures.Users {
		uid, err := id.ParseUserID(u.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("fixture user %q: %w", u.ID, err)
		}
		currency := u.WalletCurrency
		if currency == "" {
			currency = "USD"
		}
		users = append(users, &models.User{
			ID:                 uid,
			Name:               u.Name,
			Role:               models.Role(u.Role),
			ProfessionalType:   u.ProfessionalType,
			Country:            u.Country,
			VerificationStatus: models.VerificationStatus(u.VerificationStatus),
			Wallet:             models.Wallet{Balance: u.WalletBalance, Currency: currency},
		})
	}
	services := make([]*models.Service, 0, len(c.Fixtures.Services))
	for _, svc := range c.Fixtures.Services {
		sid, err := id.ParseServiceID(svc.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("fixture service %q: %w", svc.ID, err)
		}
		provider, err := uuid.Parse(svc.ProviderID)
		if err != nil {
			return nil, nil, fmt.Errorf("fixture service %q provider: %w", svc.ID, err)
		}
		services = append(services, &models.Service{
			ID:          sid,
			ProviderID:  id.UserID(provider),
			Title:       svc.Title,
			Category:    svc.Category,
			SubCategory: svc.SubCategory,
			Status:      models.ServiceStatus(svc.Status),
		})
	}
	return users, services, nil
}

// SeedFromCatalog loads catalogue fixtures.
func (s *InMemory) SeedFromCatalog(c *catalog.Catalog) error {
	users, services, err := FixturesFromCatalog(c)
	if err != nil {
		return err
	}
	for _, u := range users {
		s.PutUser(u)
	}
	for _, svc := range services {
		s.PutService(svc)
	}
	return nil
}

func (s *InMemory) PutUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
}

func (s *InMemory) PutService(svc *models.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *svc
	s.services[svc.ID] = &cp
}

func (s *InMemory) GetUser(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *InMemory) GetService(_ context.Context, serviceID id.ServiceID) (*models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	svc, ok := s.services[serviceID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *svc
	return &cp, nil
}

// ApplyWalletDeltas applies every delta or none of them.
func (s *InMemory) ApplyWalletDeltas(_ context.Context, deltas []models.WalletDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	balances := make(map[id.UserID]int64, len(deltas))
	for _, d := range deltas {
		u, ok := s.users[d.UserID]
		if !ok {
			return fmt.Errorf("apply wallet delta for %s: %w", d.UserID, ErrNotFound)
		}
		if _, seen := balances[d.UserID]; !seen {
			balances[d.UserID] = u.Wallet.Balance
		}
		balances[d.UserID] += d.Amount
		if d.NoOverdraft && balances[d.UserID] < 0 {
			return fmt.Errorf("apply wallet delta for %s: %w", d.UserID, models.ErrInsufficientFunds)
		}
	}
	for _, d := range deltas {
		s.users[d.UserID].Wallet.Balance += d.Amount
	}
	return nil
}

// IsNotFound reports whether err came from a missing document.
func IsNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound)
}
