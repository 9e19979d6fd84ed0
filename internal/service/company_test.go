package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/domain"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/mailer"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/repository/memory"
	apperrors "github.com/SFitz911/Carrier-Broker-Saas/pkg/errors"
)

func newTestCompanyService(t *testing.T) (*CompanyService, *ReviewService, *memory.CompanyRepository) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	companies := memory.NewCompanyRepository()
	reviews := memory.NewReviewRepository()
	companySvc := NewCompanyService(companies, reviews, nil, logger)
	reviewSvc := NewReviewService(reviews, companies, nil, mailer.NewLogMailer("noreply@carrierboard.local", logger), nil, logger)
	return companySvc, reviewSvc, companies
}

func TestGetCompany(t *testing.T) {
	svc, _, companies := newTestCompanyService(t)
	seedCompany(t, companies, "acme", domain.EntityBroker)

	company, err := svc.GetCompany(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme Logistics LLC", company.LegalName)

	_, err = svc.GetCompany(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSearchCompanies(t *testing.T) {
	svc, _, companies := newTestCompanyService(t)
	seedCompany(t, companies, "acme", domain.EntityBroker)
	require.NoError(t, companies.Create(context.Background(), &domain.Company{
		ID:         "acme-shipping",
		LegalName:  "Acme Shipping Inc",
		EntityType: domain.EntityShipper,
	}))

	results, total, err := svc.SearchCompanies(context.Background(), "acme", "", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, results, 2)

	results, total, err = svc.SearchCompanies(context.Background(), "acme", domain.EntityShipper, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, "acme-shipping", results[0].ID)

	// MC number matches too.
	results, _, err = svc.SearchCompanies(context.Background(), "4455", "", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "acme", results[0].ID)
}

func TestSearchCompaniesWithoutQuery(t *testing.T) {
	svc, _, companies := newTestCompanyService(t)
	seedCompany(t, companies, "acme", domain.EntityBroker)
	require.NoError(t, companies.Create(context.Background(), &domain.Company{
		ID:         "acme-shipping",
		LegalName:  "Acme Shipping Inc",
		EntityType: domain.EntityShipper,
	}))

	// The query is optional. Entity type alone narrows the directory.
	results, total, err := svc.SearchCompanies(context.Background(), "", domain.EntityBroker, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, "acme", results[0].ID)

	// No filters at all lists everything.
	_, total, err = svc.SearchCompanies(context.Background(), "", "", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestSearchCompaniesQueryTooShort(t *testing.T) {
	svc, _, _ := newTestCompanyService(t)

	_, _, err := svc.SearchCompanies(context.Background(), "a", "", 10)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSearchCompaniesLimitClamp(t *testing.T) {
	svc, _, companies := newTestCompanyService(t)
	seedCompany(t, companies, "acme", domain.EntityBroker)

	_, _, err := svc.SearchCompanies(context.Background(), "acme", "", 0)
	assert.NoError(t, err)

	_, _, err = svc.SearchCompanies(context.Background(), "acme", "", 5000)
	assert.NoError(t, err)
}

func TestGetProfile(t *testing.T) {
	svc, reviewSvc, companies := newTestCompanyService(t)
	seedCompany(t, companies, "acme", domain.EntityBroker)
	ctx := context.Background()

	yes, no := true, false
	in1 := validInput("acme", 4)
	in1.WouldWorkAgain = &yes
	in1.IssuesReported = []string{"detention_pay", "slow_payment"}
	_, err := reviewSvc.CreateReview(ctx, in1)
	require.NoError(t, err)

	in2 := validInput("acme", 2)
	in2.WouldWorkAgain = &no
	in2.IssuesReported = []string{"slow_payment"}
	_, err = reviewSvc.CreateReview(ctx, in2)
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme", profile.Company.ID)
	assert.Equal(t, 2, profile.Stats.TotalReviews)
	assert.InDelta(t, 3.0, profile.Stats.AverageRating, 1e-9)
	assert.Equal(t, 1, profile.Stats.RatingDistribution.FourStar)
	assert.Equal(t, 1, profile.Stats.RatingDistribution.TwoStar)
	assert.Zero(t, profile.Stats.RatingDistribution.FiveStar)
	assert.InDelta(t, 50.0, profile.Stats.WouldWorkAgainPercent, 1e-9)
	assert.Equal(t, []string{"slow_payment", "detention_pay"}, profile.Stats.CommonIssues)
}

func TestGetProfileWouldWorkAgainCountsAllReviews(t *testing.T) {
	svc, reviewSvc, companies := newTestCompanyService(t)
	seedCompany(t, companies, "acme", domain.EntityBroker)
	ctx := context.Background()

	yes := true
	in1 := validInput("acme", 4)
	in1.WouldWorkAgain = &yes
	_, err := reviewSvc.CreateReview(ctx, in1)
	require.NoError(t, err)

	// Two reviews leave the field unset. The denominator is every review,
	// not just those that answered, so an unset answer counts as a no.
	_, err = reviewSvc.CreateReview(ctx, validInput("acme", 3))
	require.NoError(t, err)
	_, err = reviewSvc.CreateReview(ctx, validInput("acme", 5))
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, "acme")
	require.NoError(t, err)
	assert.InDelta(t, 100.0/3.0, profile.Stats.WouldWorkAgainPercent, 1e-9)
}

func TestGetProfileNoReviews(t *testing.T) {
	svc, _, companies := newTestCompanyService(t)
	seedCompany(t, companies, "acme", domain.EntityBroker)

	profile, err := svc.GetProfile(context.Background(), "acme")
	require.NoError(t, err)
	assert.Zero(t, profile.Stats.TotalReviews)
	assert.Zero(t, profile.Stats.WouldWorkAgainPercent)
	assert.NotNil(t, profile.Stats.CommonIssues)
	assert.Empty(t, profile.Stats.CommonIssues)
}

func TestGetProfileUnknownCompany(t *testing.T) {
	svc, _, _ := newTestCompanyService(t)

	_, err := svc.GetProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTopIssuesOrdering(t *testing.T) {
	issues := topIssues(map[string]int{
		"slow_payment":  3,
		"detention_pay": 3,
		"ghosting":      1,
		"rate_cut":      5,
	}, 3)
	assert.Equal(t, []string{"rate_cut", "detention_pay", "slow_payment"}, issues)
}
