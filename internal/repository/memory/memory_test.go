package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/domain"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/repository"
	apperrors "github.com/SFitz911/Carrier-Broker-Saas/pkg/errors"
)

func newReview(id, companyID string, rating int, createdAt time.Time) *domain.Review {
	return &domain.Review{
		ID:            id,
		TruckerID:     "trucker-1",
		TruckerName:   "Test Trucker",
		CompanyID:     companyID,
		OverallRating: rating,
		Title:         "title",
		Content:       "content long enough",
		Status:        domain.StatusPublished,
		CreatedAt:     createdAt,
	}
}

func TestReviewRepository_CreateAndGet(t *testing.T) {
	repo := NewReviewRepository()
	ctx := context.Background()

	review := newReview("r-1", "c-1", 4, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, review))
	assert.Equal(t, int64(1), review.Seq)

	got, err := repo.GetByID(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, "r-1", got.ID)
	assert.Equal(t, 4, got.OverallRating)

	// Mutating the returned copy must not leak into the store.
	got.HelpfulCount = 99
	again, err := repo.GetByID(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, 0, again.HelpfulCount)
}

func TestReviewRepository_GetByID_NotFound(t *testing.T) {
	repo := NewReviewRepository()

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReviewRepository_List_NewestFirstStable(t *testing.T) {
	repo := NewReviewRepository()
	ctx := context.Background()
	base := time.Now().UTC()

	// Same timestamp for r-2 and r-3: insertion order breaks the tie.
	require.NoError(t, repo.Create(ctx, newReview("r-1", "c-1", 3, base.Add(-time.Hour))))
	require.NoError(t, repo.Create(ctx, newReview("r-2", "c-1", 4, base)))
	require.NoError(t, repo.Create(ctx, newReview("r-3", "c-1", 5, base)))
	require.NoError(t, repo.Create(ctx, newReview("r-4", "c-2", 1, base)))

	page, total, err := repo.List(ctx, repository.ReviewFilter{CompanyID: "c-1", Limit: 10, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 3)
	assert.Equal(t, "r-3", page[0].ID)
	assert.Equal(t, "r-2", page[1].ID)
	assert.Equal(t, "r-1", page[2].ID)
}

func TestReviewRepository_List_PaginationReproducesSet(t *testing.T) {
	repo := NewReviewRepository()
	ctx := context.Background()
	base := time.Now().UTC()

	const n = 25
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("r-%02d", i)
		require.NoError(t, repo.Create(ctx, newReview(id, "c-1", 3, base.Add(time.Duration(i)*time.Second))))
	}

	var collected []string
	limit := 7
	for offset := 0; ; offset += limit {
		page, total, err := repo.List(ctx, repository.ReviewFilter{CompanyID: "c-1", Limit: limit, Offset: offset})
		require.NoError(t, err)
		assert.Equal(t, n, total)
		if len(page) == 0 {
			break
		}
		for _, r := range page {
			collected = append(collected, r.ID)
		}
	}

	require.Len(t, collected, n)
	seen := make(map[string]bool)
	for _, id := range collected {
		assert.False(t, seen[id], "duplicate %s across pages", id)
		seen[id] = true
	}
	// Newest first.
	assert.Equal(t, "r-24", collected[0])
	assert.Equal(t, "r-00", collected[n-1])
}

func TestReviewRepository_List_OffsetPastEnd(t *testing.T) {
	repo := NewReviewRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newReview("r-1", "c-1", 3, time.Now().UTC())))

	page, total, err := repo.List(ctx, repository.ReviewFilter{Limit: 10, Offset: 50})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Empty(t, page)
}

func TestReviewRepository_AttachResponse(t *testing.T) {
	repo := NewReviewRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newReview("r-1", "c-1", 3, time.Now().UTC())))

	resp := &domain.CompanyResponse{
		Content:       "We are sorry about the payment delay.",
		ResponderName: "Jane Smith",
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, repo.AttachResponse(ctx, "r-1", resp))

	got, err := repo.GetByID(ctx, "r-1")
	require.NoError(t, err)
	require.NotNil(t, got.CompanyResponse)
	assert.Equal(t, "Jane Smith", got.CompanyResponse.ResponderName)

	// Second attach conflicts and leaves the first response untouched.
	err = repo.AttachResponse(ctx, "r-1", &domain.CompanyResponse{Content: "second response text", ResponderName: "Other"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	got, err = repo.GetByID(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", got.CompanyResponse.ResponderName)

	err = repo.AttachResponse(ctx, "missing", resp)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReviewRepository_AttachResponse_ConcurrentSingleWinner(t *testing.T) {
	repo := NewReviewRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newReview("r-1", "c-1", 3, time.Now().UTC())))

	const attempts = 20
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.AttachResponse(ctx, "r-1", &domain.CompanyResponse{
				Content:       fmt.Sprintf("response from goroutine %d", i),
				ResponderName: fmt.Sprintf("responder-%d", i),
			})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrConflict)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestReviewRepository_IncrementHelpful(t *testing.T) {
	repo := NewReviewRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newReview("r-1", "c-1", 3, time.Now().UTC())))

	const voters = 50
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.IncrementHelpful(ctx, "r-1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, voters, got.HelpfulCount)

	_, err = repo.IncrementHelpful(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCompanyRepository_Search(t *testing.T) {
	repo := NewCompanyRepository()
	ctx := context.Background()

	companies := []*domain.Company{
		{ID: "c-1", LegalName: "Swift Transportation", DBAName: "Swift Freight", EntityType: domain.EntityBroker, MCNumber: "12345", OverallRating: 3.0},
		{ID: "c-2", LegalName: "J.B. Hunt Transport", EntityType: domain.EntityBroker, MCNumber: "67890", OverallRating: 4.5},
		{ID: "c-3", LegalName: "Knight Logistics", EntityType: domain.EntityCarrier, MCNumber: "55555", OverallRating: 2.0},
	}
	for _, c := range companies {
		require.NoError(t, repo.Create(ctx, c))
	}

	t.Run("query matches legal name case-insensitively", func(t *testing.T) {
		results, total, err := repo.Search(ctx, "swift", "", 10)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, results, 1)
		assert.Equal(t, "c-1", results[0].ID)
	})

	t.Run("query matches DBA name", func(t *testing.T) {
		results, _, err := repo.Search(ctx, "freight", "", 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "c-1", results[0].ID)
	})

	t.Run("query matches MC number", func(t *testing.T) {
		results, _, err := repo.Search(ctx, "678", "", 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "c-2", results[0].ID)
	})

	t.Run("entity type filter is case-insensitive", func(t *testing.T) {
		_, total, err := repo.Search(ctx, "", "broker", 10)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("ordered by overall rating descending", func(t *testing.T) {
		results, total, err := repo.Search(ctx, "", "", 10)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, results, 3)
		assert.Equal(t, "c-2", results[0].ID)
		assert.Equal(t, "c-1", results[1].ID)
		assert.Equal(t, "c-3", results[2].ID)
	})

	t.Run("total counts before truncation", func(t *testing.T) {
		results, total, err := repo.Search(ctx, "", "", 1)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, results, 1)
	})
}

func TestCompanyRepository_UpdateAggregates(t *testing.T) {
	repo := NewCompanyRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &domain.Company{ID: "c-1", LegalName: "Acme Brokers", EntityType: domain.EntityBroker}))

	agg := domain.Aggregates{Overall: 3.0, Payment: 2.0, ReviewCount: 2}
	require.NoError(t, repo.UpdateAggregates(ctx, "c-1", agg))

	got, err := repo.GetByID(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.OverallRating)
	assert.Equal(t, 2.0, got.PaymentRating)
	assert.Equal(t, 2, got.ReviewCount)

	err = repo.UpdateAggregates(ctx, "missing", agg)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	companies := NewCompanyRepository()
	reviews := NewReviewRepository()

	require.NoError(t, Seed(ctx, companies, reviews))

	swift, err := companies.GetByID(ctx, "company-1")
	require.NoError(t, err)
	assert.Equal(t, domain.EntityBroker, swift.EntityType)
	assert.Equal(t, 2, swift.ReviewCount)
	assert.InDelta(t, 3.0, swift.OverallRating, 1e-9)

	rs, err := reviews.ListByCompany(ctx, "company-1")
	require.NoError(t, err)
	assert.Len(t, rs, 2)

	// review-2 ships with the single allowed company response.
	r2, err := reviews.GetByID(ctx, "review-2")
	require.NoError(t, err)
	require.NotNil(t, r2.CompanyResponse)
	assert.ErrorIs(t, reviews.AttachResponse(ctx, "review-2", &domain.CompanyResponse{Content: "another response here", ResponderName: "X"}), apperrors.ErrConflict)
}
