package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/cache"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/domain"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/repository"
	apperrors "github.com/SFitz911/Carrier-Broker-Saas/pkg/errors"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

// CompanyService serves the company directory: lookup, search and the
// profile with computed review statistics.
type CompanyService struct {
	companies repository.CompanyRepository
	reviews   repository.ReviewRepository
	profiles  *cache.ProfileCache
	logger    *slog.Logger
}

// NewCompanyService creates a new company service.
func NewCompanyService(
	companies repository.CompanyRepository,
	reviews repository.ReviewRepository,
	profiles *cache.ProfileCache,
	logger *slog.Logger,
) *CompanyService {
	return &CompanyService{
		companies: companies,
		reviews:   reviews,
		profiles:  profiles,
		logger:    logger,
	}
}

// GetCompany retrieves a company by its ID.
func (s *CompanyService) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get company by id: %w", err)
	}
	return company, nil
}

// SearchCompanies matches the query against legal name, DBA name and MC
// number, optionally narrowed to one entity type. Both filters are optional;
// an empty query with an entity type lists every company of that type.
// Results come back highest rated first.
func (s *CompanyService) SearchCompanies(ctx context.Context, query string, entityType domain.EntityType, limit int) ([]*domain.Company, int, error) {
	if query != "" && len(query) < 2 {
		return nil, 0, apperrors.InvalidInput("search query must be at least 2 characters")
	}
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	companies, total, err := s.companies.Search(ctx, query, entityType, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("search companies: %w", err)
	}
	return companies, total, nil
}

// GetProfile returns a company together with statistics computed over its
// published reviews. Profiles are cached briefly since the stats pass reads
// the company's whole review set.
func (s *CompanyService) GetProfile(ctx context.Context, companyID string) (*domain.CompanyProfile, error) {
	if profile, ok := s.profiles.Get(ctx, companyID); ok {
		return profile, nil
	}

	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("get company by id: %w", err)
	}

	reviews, err := s.reviews.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list company reviews for stats: %w", err)
	}

	profile := &domain.CompanyProfile{
		Company: company,
		Stats:   ComputeStats(company, reviews),
	}

	s.profiles.Set(ctx, companyID, profile)

	return profile, nil
}

// ComputeStats derives the profile statistics from a company's review set.
// The average rating is read from the maintained aggregate rather than
// recomputed here.
func ComputeStats(company *domain.Company, reviews []*domain.Review) domain.CompanyStats {
	stats := domain.CompanyStats{
		TotalReviews:  len(reviews),
		AverageRating: company.OverallRating,
		CommonIssues:  []string{},
	}

	if len(reviews) == 0 {
		return stats
	}

	issueCounts := make(map[string]int)
	wouldWorkAgain := 0
	for _, r := range reviews {
		switch r.OverallRating {
		case 5:
			stats.RatingDistribution.FiveStar++
		case 4:
			stats.RatingDistribution.FourStar++
		case 3:
			stats.RatingDistribution.ThreeStar++
		case 2:
			stats.RatingDistribution.TwoStar++
		case 1:
			stats.RatingDistribution.OneStar++
		}
		if r.WouldWorkAgain != nil && *r.WouldWorkAgain {
			wouldWorkAgain++
		}
		for _, issue := range r.IssuesReported {
			issueCounts[issue]++
		}
	}

	stats.WouldWorkAgainPercent = float64(wouldWorkAgain) / float64(len(reviews)) * 100

	stats.CommonIssues = topIssues(issueCounts, 5)

	return stats
}

// topIssues ranks reported issues by frequency, ties broken alphabetically.
func topIssues(counts map[string]int, limit int) []string {
	issues := make([]string, 0, len(counts))
	for issue := range counts {
		issues = append(issues, issue)
	}
	sort.Slice(issues, func(i, j int) bool {
		if counts[issues[i]] != counts[issues[j]] {
			return counts[issues[i]] > counts[issues[j]]
		}
		return issues[i] < issues[j]
	})
	if len(issues) > limit {
		issues = issues[:limit]
	}
	return issues
}
