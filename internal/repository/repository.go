// Package repository defines the storage interfaces for reviews and the
// company directory. Two implementations exist: memory (the system of record
// when no database is configured) and postgres. Aggregation logic lives in the
// service layer and works against these interfaces only.
package repository

import (
	"context"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/domain"
)

// ReviewFilter narrows and pages a review listing.
type ReviewFilter struct {
	// CompanyID filters to one company when non-empty.
	CompanyID string
	Limit     int
	Offset    int
}

// ReviewRepository stores reviews. Implementations must order listings by
// creation time descending with insertion order breaking ties, and must make
// AttachResponse's existence check atomic with the write.
type ReviewRepository interface {
	// Create inserts the review and assigns its insertion sequence.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID returns the review or ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// List returns one page plus the total count of the filtered set.
	List(ctx context.Context, filter ReviewFilter) ([]*domain.Review, int, error)

	// ListByCompany returns every published review targeting the company,
	// for aggregate recomputation and profile stats.
	ListByCompany(ctx context.Context, companyID string) ([]*domain.Review, error)

	// AttachResponse attaches the single company response. Returns
	// ErrNotFound if the review is absent, ErrConflict if a response
	// already exists.
	AttachResponse(ctx context.Context, reviewID string, resp *domain.CompanyResponse) error

	// IncrementHelpful atomically increments the helpful counter and
	// returns the new value. Returns ErrNotFound if the review is absent.
	IncrementHelpful(ctx context.Context, reviewID string) (int, error)
}

// CompanyRepository stores the company directory.
type CompanyRepository interface {
	// Create inserts a company (seed/import path).
	Create(ctx context.Context, company *domain.Company) error

	// GetByID returns the company or ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Company, error)

	// Search filters by case-insensitive substring over legal name, DBA
	// name and MC number, and by exact entity type, ordered by overall
	// rating descending. Returns at most limit companies plus the filtered
	// count before truncation.
	Search(ctx context.Context, query string, entityType domain.EntityType, limit int) ([]*domain.Company, int, error)

	// UpdateAggregates replaces the company's maintained rating aggregates.
	UpdateAggregates(ctx context.Context, companyID string, agg domain.Aggregates) error
}
