package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/domain"
	apperrors "github.com/SFitz911/Carrier-Broker-Saas/pkg/errors"
)

// CompanyRepository is an in-memory implementation of repository.CompanyRepository.
type CompanyRepository struct {
	mu        sync.RWMutex
	companies map[string]*domain.Company
}

// NewCompanyRepository creates an empty in-memory company directory.
func NewCompanyRepository() *CompanyRepository {
	return &CompanyRepository{
		companies: make(map[string]*domain.Company),
	}
}

// Create inserts a company.
func (r *CompanyRepository) Create(ctx context.Context, company *domain.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.companies[company.ID]; ok {
		return apperrors.Conflict("company already exists")
	}
	cp := *company
	r.companies[company.ID] = &cp
	return nil
}

// GetByID returns a copy of the company or ErrNotFound.
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	company, ok := r.companies[id]
	if !ok {
		return nil, apperrors.NotFound("company", id)
	}
	cp := *company
	return &cp, nil
}

// Search filters by substring over legal name, DBA name and MC number, and by
// entity type, ordered by overall rating descending.
func (r *CompanyRepository) Search(ctx context.Context, query string, entityType domain.EntityType, limit int) ([]*domain.Company, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	et := strings.ToUpper(string(entityType))

	var matched []*domain.Company
	for _, company := range r.companies {
		if q != "" && !matchesQuery(company, q) {
			continue
		}
		if et != "" && string(company.EntityType) != et {
			continue
		}
		matched = append(matched, company)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].OverallRating != matched[j].OverallRating {
			return matched[i].OverallRating > matched[j].OverallRating
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	if limit < len(matched) {
		matched = matched[:limit]
	}

	out := make([]*domain.Company, 0, len(matched))
	for _, company := range matched {
		cp := *company
		out = append(out, &cp)
	}
	return out, total, nil
}

// UpdateAggregates replaces the company's maintained rating aggregates.
func (r *CompanyRepository) UpdateAggregates(ctx context.Context, companyID string, agg domain.Aggregates) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	company, ok := r.companies[companyID]
	if !ok {
		return apperrors.NotFound("company", companyID)
	}

	company.OverallRating = agg.Overall
	company.PaymentRating = agg.Payment
	company.CommunicationRating = agg.Communication
	company.ProfessionalismRating = agg.Professionalism
	company.HonestyRating = agg.Honesty
	company.ReviewCount = agg.ReviewCount
	company.UpdatedAt = time.Now().UTC()
	return nil
}

func matchesQuery(company *domain.Company, q string) bool {
	if strings.Contains(strings.ToLower(company.LegalName), q) {
		return true
	}
	if company.DBAName != "" && strings.Contains(strings.ToLower(company.DBAName), q) {
		return true
	}
	if company.MCNumber != "" && strings.Contains(company.MCNumber, q) {
		return true
	}
	return false
}
