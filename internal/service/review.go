package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/cache"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/domain"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/event"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/mailer"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/repository"
	apperrors "github.com/SFitz911/Carrier-Broker-Saas/pkg/errors"
)

// companyLocks serializes review creation and aggregate recomputation per
// company. Operations on different companies never block each other. Locks
// are never released from the map; the set is bounded by the company
// directory.
type companyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newCompanyLocks() *companyLocks {
	return &companyLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *companyLocks) get(companyID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[companyID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[companyID] = m
	}
	return m
}

// ReviewService implements the review store and aggregator: eligibility
// gating, aggregate recomputation, the single-response rule and the
// helpfulness counter.
type ReviewService struct {
	reviews   repository.ReviewRepository
	companies repository.CompanyRepository
	producer  *event.Producer
	mail      mailer.Mailer
	profiles  *cache.ProfileCache
	locks     *companyLocks
	logger    *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviews repository.ReviewRepository,
	companies repository.CompanyRepository,
	producer *event.Producer,
	mail mailer.Mailer,
	profiles *cache.ProfileCache,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:   reviews,
		companies: companies,
		producer:  producer,
		mail:      mail,
		profiles:  profiles,
		locks:     newCompanyLocks(),
		logger:    logger,
	}
}

// CreateReviewInput holds the parameters for creating a review. Author
// identity arrives pre-resolved; authentication is outside this service.
type CreateReviewInput struct {
	TruckerID   string
	TruckerName string
	CompanyID   string

	OverallRating int
	Title         string
	Content       string

	PaymentRating         *int
	CommunicationRating   *int
	ProfessionalismRating *int
	HonestyRating         *int
	PaymentSpeed          *domain.PaymentSpeed
	DaysToPayment         *int

	LoadDate         *time.Time
	OriginCity       string
	OriginState      string
	DestinationCity  string
	DestinationState string
	FreightType      string

	IssuesReported []string
	WouldWorkAgain *bool
}

// CreateReview validates eligibility, stores the review and synchronously
// recomputes the target company's aggregates. The store append and the
// recompute run under one per-company critical section so concurrent
// creations for the same company serialize.
func (s *ReviewService) CreateReview(ctx context.Context, input *CreateReviewInput) (*domain.Review, error) {
	if input.OverallRating < 1 || input.OverallRating > 5 {
		return nil, apperrors.InvalidInput("overall rating must be between 1 and 5")
	}
	if input.Title == "" || utf8.RuneCountInString(input.Title) > 255 {
		return nil, apperrors.InvalidInput("title is required and must be at most 255 characters")
	}
	if input.Content == "" {
		return nil, apperrors.InvalidInput("review content is required")
	}
	for _, r := range []*int{input.PaymentRating, input.CommunicationRating, input.ProfessionalismRating, input.HonestyRating} {
		if r != nil && (*r < 1 || *r > 5) {
			return nil, apperrors.InvalidInput("category ratings must be between 1 and 5")
		}
	}

	company, err := s.companies.GetByID(ctx, input.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("resolve target company: %w", err)
	}
	if !company.EntityType.Reviewable() {
		return nil, apperrors.InvalidTarget(fmt.Sprintf(
			"cannot review %s. Only brokers and shippers can be reviewed", company.EntityType))
	}

	issues := input.IssuesReported
	if issues == nil {
		issues = []string{}
	}

	review := &domain.Review{
		ID:                    uuid.New().String(),
		TruckerID:             input.TruckerID,
		TruckerName:           input.TruckerName,
		CompanyID:             input.CompanyID,
		OverallRating:         input.OverallRating,
		Title:                 input.Title,
		Content:               input.Content,
		PaymentRating:         input.PaymentRating,
		CommunicationRating:   input.CommunicationRating,
		ProfessionalismRating: input.ProfessionalismRating,
		HonestyRating:         input.HonestyRating,
		PaymentSpeed:          input.PaymentSpeed,
		DaysToPayment:         input.DaysToPayment,
		LoadDate:              input.LoadDate,
		OriginCity:            input.OriginCity,
		OriginState:           input.OriginState,
		DestinationCity:       input.DestinationCity,
		DestinationState:      input.DestinationState,
		FreightType:           input.FreightType,
		IssuesReported:        issues,
		WouldWorkAgain:        input.WouldWorkAgain,
		Status:                domain.StatusPublished,
		HelpfulCount:          0,
		CreatedAt:             time.Now().UTC(),
	}

	lock := s.locks.get(input.CompanyID)
	lock.Lock()
	agg, err := s.createAndRecompute(ctx, review)
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	s.profiles.Invalidate(ctx, review.CompanyID)

	if err := s.producer.PublishReviewCreated(ctx, review, agg); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("company_id", review.CompanyID),
		slog.Int("overall_rating", review.OverallRating),
		slog.Float64("company_rating", agg.Overall),
	)

	return review, nil
}

// createAndRecompute appends the review and refreshes the company aggregates.
// Callers must hold the company's lock.
func (s *ReviewService) createAndRecompute(ctx context.Context, review *domain.Review) (domain.Aggregates, error) {
	if err := s.reviews.Create(ctx, review); err != nil {
		return domain.Aggregates{}, fmt.Errorf("create review: %w", err)
	}

	all, err := s.reviews.ListByCompany(ctx, review.CompanyID)
	if err != nil {
		return domain.Aggregates{}, fmt.Errorf("list company reviews for aggregation: %w", err)
	}

	agg := ComputeAggregates(all)
	if err := s.companies.UpdateAggregates(ctx, review.CompanyID, agg); err != nil {
		return domain.Aggregates{}, fmt.Errorf("update company aggregates: %w", err)
	}

	return agg, nil
}

// ListReviews returns one page of reviews, newest first, plus the total count
// of the filtered set.
func (s *ReviewService) ListReviews(ctx context.Context, companyID string, limit, offset int) ([]*domain.Review, int, error) {
	reviews, total, err := s.reviews.List(ctx, repository.ReviewFilter{
		CompanyID: companyID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, total, nil
}

// GetReview retrieves a review by its ID.
func (s *ReviewService) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review by id: %w", err)
	}
	return review, nil
}

// RespondInput holds the parameters for a company response.
type RespondInput struct {
	Content        string
	ResponderName  string
	ResponderTitle string
	ResponderEmail string
}

// RespondToReview attaches the single allowed company response to a review.
// The response is text-only: there is no rating field to carry, which is what
// structurally prevents a company from rating its own review.
func (s *ReviewService) RespondToReview(ctx context.Context, reviewID string, input *RespondInput) (*domain.CompanyResponse, error) {
	if n := utf8.RuneCountInString(input.Content); n < 10 || n > 2000 {
		return nil, apperrors.InvalidInput("response content must be between 10 and 2000 characters")
	}
	if input.ResponderName == "" {
		return nil, apperrors.InvalidInput("responder name is required")
	}

	resp := &domain.CompanyResponse{
		Content:        input.Content,
		ResponderName:  input.ResponderName,
		ResponderTitle: input.ResponderTitle,
		ResponderEmail: input.ResponderEmail,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.reviews.AttachResponse(ctx, reviewID, resp); err != nil {
		return nil, fmt.Errorf("attach response: %w", err)
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		// The response is attached; degrade the post-effects instead of
		// failing the operation.
		s.logger.ErrorContext(ctx, "failed to reload review after response",
			slog.String("review_id", reviewID),
			slog.String("error", err.Error()),
		)
		return resp, nil
	}

	s.profiles.Invalidate(ctx, review.CompanyID)

	if input.ResponderEmail != "" {
		subject, body, isHTML := mailer.ResponseAckEmail(review.Title)
		if err := s.mail.Send(ctx, []string{input.ResponderEmail}, subject, body, isHTML); err != nil {
			s.logger.WarnContext(ctx, "response acknowledgement mail not sent",
				slog.String("review_id", reviewID),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.producer.PublishReviewResponded(ctx, review, resp); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.responded event",
			slog.String("review_id", reviewID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "company response attached",
		slog.String("review_id", reviewID),
		slog.String("responder_name", input.ResponderName),
	)

	return resp, nil
}

// VoteOnReview records a helpfulness vote and returns the current counter.
// Only helpful votes change the counter; not_helpful is accepted and has no
// stored effect.
func (s *ReviewService) VoteOnReview(ctx context.Context, reviewID string, voteType domain.VoteType) (int, error) {
	if !voteType.Valid() {
		return 0, apperrors.Unprocessable("vote_type must be helpful or not_helpful")
	}

	if voteType == domain.VoteHelpful {
		count, err := s.reviews.IncrementHelpful(ctx, reviewID)
		if err != nil {
			return 0, fmt.Errorf("increment helpful count: %w", err)
		}
		return count, nil
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return 0, fmt.Errorf("get review for vote: %w", err)
	}
	return review.HelpfulCount, nil
}

// ComputeAggregates recomputes a company's rating means fresh from the full
// review set. The overall mean covers every review; each category mean covers
// only the reviews carrying that category. A zero-review set yields all
// zeroes.
func ComputeAggregates(reviews []*domain.Review) domain.Aggregates {
	agg := domain.Aggregates{ReviewCount: len(reviews)}
	if len(reviews) == 0 {
		return agg
	}

	var overallSum int
	var paySum, paySeen, commSum, commSeen, profSum, profSeen, honSum, honSeen int

	for _, r := range reviews {
		overallSum += r.OverallRating
		if r.PaymentRating != nil {
			paySum += *r.PaymentRating
			paySeen++
		}
		if r.CommunicationRating != nil {
			commSum += *r.CommunicationRating
			commSeen++
		}
		if r.ProfessionalismRating != nil {
			profSum += *r.ProfessionalismRating
			profSeen++
		}
		if r.HonestyRating != nil {
			honSum += *r.HonestyRating
			honSeen++
		}
	}

	agg.Overall = float64(overallSum) / float64(len(reviews))
	if paySeen > 0 {
		agg.Payment = float64(paySum) / float64(paySeen)
	}
	if commSeen > 0 {
		agg.Communication = float64(commSum) / float64(commSeen)
	}
	if profSeen > 0 {
		agg.Professionalism = float64(profSum) / float64(profSeen)
	}
	if honSeen > 0 {
		agg.Honesty = float64(honSum) / float64(honSeen)
	}

	return agg
}
