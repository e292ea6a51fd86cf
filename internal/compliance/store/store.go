package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"africonnect/internal/compliance/models"
	"africonnect/internal/compliance/ports"
	"africonnect/internal/platform/catalog"
	id "africonnect/pkg/domain"
)

// InMemory serves regulations from process memory. Regulations are read-only
// at runtime; Put exists for seeding and tests.
type InMemory struct {
	mu          sync.RWMutex
	regulations map[id.RegulationID]models.Regulation
}

func NewInMemory() *InMemory {
	return &InMemory{regulations: make(map[id.RegulationID]models.Regulation)}
}

func (s *InMemory) Put(r models.Regulation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regulations[r.ID] = r
}

func (s *InMemory) FindActive(_ context.Context, q ports.RegulationQuery) ([]models.Regulation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Regulation
	for _, r := range s.regulations {
		if r.Status != models.RegulationActive {
			continue
		}
		if !slices.Contains(q.Countries, r.Country) {
			continue
		}
		if q.Sector != "" && string(r.Sector) != q.Sector {
			continue
		}
		if q.ProfessionalType != "" && !r.Applicability.CoversProfessionalType(q.ProfessionalType) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// FromCatalog converts catalogue entries into regulations.
func FromCatalog(c *catalog.Catalog) ([]models.Regulation, error) {
	out := make([]models.Regulation, 0, len(c.Regulations))
	for _, cr := range c.Regulations {
		rid, err := id.ParseRegulationID(cr.ID)
		if err != nil {
			return nil, fmt.Errorf("catalog regulation %q: %w", cr.ID, err)
		}
		reqs := make([]models.Requirement, 0, len(cr.Requirements))
		for _, r := range cr.Requirements {
			reqs = append(reqs, models.Requirement{Title: r.Title, Description: r.Description, Mandatory: r.Mandatory})
		}
		status := models.RegulationStatus(cr.Status)
		if status == "" {
			status = models.RegulationActive
		}
		out = append(out, models.Regulation{
			ID:           rid,
			Country:      cr.Country,
			Sector:       models.Sector(cr.Sector),
			Title:        cr.Title,
			Description:  cr.Description,
			Requirements: reqs,
			Applicability: models.Applicability{
				ProfessionalTypes: cr.Applicability.ProfessionalTypes,
				ServiceTypes:      cr.Applicability.ServiceTypes,
				CrossBorderOnly:   cr.Applicability.CrossBorderOnly,
			},
			Penalties: cr.Penalties,
			Status:    status,
			Keywords:  cr.Keywords,
		})
	}
	return out, nil
}
