package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"africonnect/internal/contract/models"
	id "africonnect/pkg/domain"
	"africonnect/pkg/platform/sentinel"
)

var (
	ErrNotFound = sentinel.ErrNotFound
	ErrConflict = sentinel.ErrConflict
)

// InMemory keeps contracts in a map and hands out deep copies, so a caller
// mutating its copy never changes stored state before Update.
type InMemory struct {
	mu        sync.RWMutex
	contracts map[id.ContractID]*models.Contract
}

func NewInMemory() *InMemory {
	return &InMemory{contracts: make(map[id.ContractID]*models.Contract)}
}

func clone(c *models.Contract) *models.Contract {
	out := *c
	out.Milestones = slices.Clone(c.Milestones)
	out.Jurisdictions = slices.Clone(c.Jurisdictions)
	out.ComplianceRecords = slices.Clone(c.ComplianceRecords)
	if c.Dispute != nil {
		d := *c.Dispute
		out.Dispute = &d
	}
	if c.OnChain != nil {
		oc := *c.OnChain
		out.OnChain = &oc
	}
	return &out
}

func (s *InMemory) Create(_ context.Context, c *models.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.contracts[c.ID]; exists {
		return fmt.Errorf("contract %s: %w", c.ID, ErrConflict)
	}
	c.Version = 1
	s.contracts[c.ID] = clone(c)
	return nil
}

func (s *InMemory) Get(_ context.Context, contractID id.ContractID) (*models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contracts[contractID]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(c), nil
}

func (s *InMemory) Update(_ context.Context, c *models.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.contracts[c.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != c.Version {
		return fmt.Errorf("contract %s at version %d, have %d: %w", c.ID, stored.Version, c.Version, ErrConflict)
	}
	c.Version++
	s.contracts[c.ID] = clone(c)
	return nil
}

// List returns one page, newest first, and the total number of matches.
func (s *InMemory) List(_ context.Context, filter models.ListFilter) ([]*models.Contract, int, error) {
	s.mu.RLock()
	var matched []*models.Contract
	for _, c := range s.contracts {
		if filter.Matches(c) {
			matched = append(matched, clone(c))
		}
	}
	s.mu.RUnlock()

	sortNewestFirst(matched)
	total := len(matched)
	offset := filter.Offset()
	if offset >= total {
		return nil, total, nil
	}
	end := min(offset+models.PageSize, total)
	return matched[offset:end], total, nil
}

func (s *InMemory) ListByStatus(_ context.Context, status models.Status) ([]*models.Contract, error) {
	s.mu.RLock()
	var out []*models.Contract
	for _, c := range s.contracts {
		if c.Status == status {
			out = append(out, clone(c))
		}
	}
	s.mu.RUnlock()
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(cs []*models.Contract) {
	slices.SortFunc(cs, func(a, b *models.Contract) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID.String(), b.ID.String()))
	})
}
