// Package memory holds mutex-protected in-memory repositories. They are the
// system of record when no database is configured, and double as fast test
// doubles for the service layer.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/domain"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/repository"
	apperrors "github.com/SFitz911/Carrier-Broker-Saas/pkg/errors"
)

// ReviewRepository is an in-memory implementation of repository.ReviewRepository.
type ReviewRepository struct {
	mu      sync.RWMutex
	reviews map[string]*domain.Review
	nextSeq int64
}

// NewReviewRepository creates an empty in-memory review store.
func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{
		reviews: make(map[string]*domain.Review),
	}
}

// Create inserts the review and assigns the next insertion sequence.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[review.ID]; ok {
		return apperrors.Conflict("review already exists")
	}

	r.nextSeq++
	review.Seq = r.nextSeq

	cp := *review
	r.reviews[review.ID] = &cp
	return nil
}

// GetByID returns a copy of the review or ErrNotFound.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	review, ok := r.reviews[id]
	if !ok {
		return nil, apperrors.NotFound("review", id)
	}
	cp := *review
	return &cp, nil
}

// List returns one page, newest first with insertion order breaking ties,
// plus the total count of the filtered set.
func (r *ReviewRepository) List(ctx context.Context, filter repository.ReviewFilter) ([]*domain.Review, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := r.filterLocked(filter.CompanyID)
	total := len(filtered)

	start := filter.Offset
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}

	page := make([]*domain.Review, 0, end-start)
	for _, review := range filtered[start:end] {
		cp := *review
		page = append(page, &cp)
	}
	return page, total, nil
}

// ListByCompany returns every published review targeting the company.
func (r *ReviewRepository) ListByCompany(ctx context.Context, companyID string) ([]*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Review
	for _, review := range r.filterLocked(companyID) {
		if review.Status != domain.StatusPublished {
			continue
		}
		cp := *review
		out = append(out, &cp)
	}
	return out, nil
}

// AttachResponse checks and writes under one lock so a second response can
// never slip past the existence check.
func (r *ReviewRepository) AttachResponse(ctx context.Context, reviewID string, resp *domain.CompanyResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	review, ok := r.reviews[reviewID]
	if !ok {
		return apperrors.NotFound("review", reviewID)
	}
	if review.CompanyResponse != nil {
		return apperrors.Conflict("review already has a company response")
	}

	cp := *resp
	review.CompanyResponse = &cp
	return nil
}

// IncrementHelpful increments the helpful counter and returns the new value.
func (r *ReviewRepository) IncrementHelpful(ctx context.Context, reviewID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	review, ok := r.reviews[reviewID]
	if !ok {
		return 0, apperrors.NotFound("review", reviewID)
	}
	review.HelpfulCount++
	return review.HelpfulCount, nil
}

// filterLocked returns reviews for the optional company filter, newest first,
// insertion order breaking created_at ties. Callers must hold at least a read lock.
func (r *ReviewRepository) filterLocked(companyID string) []*domain.Review {
	out := make([]*domain.Review, 0, len(r.reviews))
	for _, review := range r.reviews {
		if companyID != "" && review.CompanyID != companyID {
			continue
		}
		out = append(out, review)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq > out[j].Seq
	})
	return out
}
