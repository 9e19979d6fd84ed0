// Package postgres implements the repository interfaces on PostgreSQL via
// pgx. Constructors take the database.DBTX subset so pgxmock pools can stand
// in for a live pool in tests.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/domain"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/repository"
	"github.com/SFitz911/Carrier-Broker-Saas/pkg/database"
	apperrors "github.com/SFitz911/Carrier-Broker-Saas/pkg/errors"
)

const reviewColumns = `id, seq, trucker_id, trucker_name, company_id, overall_rating, title, content,
	payment_rating, communication_rating, professionalism_rating, honesty_rating,
	payment_speed, days_to_payment, load_date,
	origin_city, origin_state, destination_city, destination_state, freight_type,
	issues_reported, would_work_again, status, helpful_count, created_at,
	response_content, response_responder_name, response_responder_title, response_responder_email, response_created_at`

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create inserts a new review. The insertion sequence comes from the seq
// column's sequence and is written back to the review.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, trucker_id, trucker_name, company_id, overall_rating, title, content,
			payment_rating, communication_rating, professionalism_rating, honesty_rating,
			payment_speed, days_to_payment, load_date,
			origin_city, origin_state, destination_city, destination_state, freight_type,
			issues_reported, would_work_again, status, helpful_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
		RETURNING seq`

	issues := review.IssuesReported
	if issues == nil {
		issues = []string{}
	}

	err := r.pool.QueryRow(ctx, query,
		review.ID,
		review.TruckerID,
		review.TruckerName,
		review.CompanyID,
		review.OverallRating,
		review.Title,
		review.Content,
		review.PaymentRating,
		review.CommunicationRating,
		review.ProfessionalismRating,
		review.HonestyRating,
		review.PaymentSpeed,
		review.DaysToPayment,
		review.LoadDate,
		nullIfEmpty(review.OriginCity),
		nullIfEmpty(review.OriginState),
		nullIfEmpty(review.DestinationCity),
		nullIfEmpty(review.DestinationState),
		nullIfEmpty(review.FreightType),
		issues,
		review.WouldWorkAgain,
		review.Status,
		review.HelpfulCount,
		review.CreatedAt,
	).Scan(&review.Seq)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// GetByID retrieves a review by its ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	review, err := scanReview(row, nil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

// List returns one page, newest first with the insertion sequence breaking
// created_at ties, plus the total count of the filtered set.
func (r *ReviewRepository) List(ctx context.Context, filter repository.ReviewFilter) ([]*domain.Review, int, error) {
	var (
		rows pgx.Rows
		err  error
	)

	if filter.CompanyID != "" {
		query := `
			SELECT ` + reviewColumns + `, count(*) OVER() AS total_count
			FROM reviews
			WHERE company_id = $1
			ORDER BY created_at DESC, seq DESC
			LIMIT $2 OFFSET $3`
		rows, err = r.pool.Query(ctx, query, filter.CompanyID, filter.Limit, filter.Offset)
	} else {
		query := `
			SELECT ` + reviewColumns + `, count(*) OVER() AS total_count
			FROM reviews
			ORDER BY created_at DESC, seq DESC
			LIMIT $1 OFFSET $2`
		rows, err = r.pool.Query(ctx, query, filter.Limit, filter.Offset)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var (
		reviews    []*domain.Review
		totalCount int
	)

	for rows.Next() {
		review, err := scanReview(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []*domain.Review{}
	}

	// The window count is absent when the page is empty; fall back to a
	// plain count so offsets past the end still report the real total.
	if len(reviews) == 0 {
		totalCount, err = r.countFiltered(ctx, filter.CompanyID)
		if err != nil {
			return nil, 0, err
		}
	}

	return reviews, totalCount, nil
}

func (r *ReviewRepository) countFiltered(ctx context.Context, companyID string) (int, error) {
	var total int
	var err error
	if companyID != "" {
		err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE company_id = $1`, companyID).Scan(&total)
	} else {
		err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&total)
	}
	if err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return total, nil
}

// ListByCompany returns every published review targeting the company.
func (r *ReviewRepository) ListByCompany(ctx context.Context, companyID string) ([]*domain.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE company_id = $1 AND status = $2
		ORDER BY created_at DESC, seq DESC`

	rows, err := r.pool.Query(ctx, query, companyID, domain.StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("list company reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		review, err := scanReview(rows, nil)
		if err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

// AttachResponse attaches the single company response. The existence check is
// folded into the UPDATE's WHERE clause so concurrent attachments cannot both
// succeed.
func (r *ReviewRepository) AttachResponse(ctx context.Context, reviewID string, resp *domain.CompanyResponse) error {
	query := `
		UPDATE reviews
		SET response_content = $2,
		    response_responder_name = $3,
		    response_responder_title = $4,
		    response_responder_email = $5,
		    response_created_at = $6
		WHERE id = $1 AND response_content IS NULL`

	tag, err := r.pool.Exec(ctx, query,
		reviewID,
		resp.Content,
		resp.ResponderName,
		nullIfEmpty(resp.ResponderTitle),
		nullIfEmpty(resp.ResponderEmail),
		resp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("attach response: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM reviews WHERE id = $1)`, reviewID).Scan(&exists); err != nil {
			return fmt.Errorf("check review existence: %w", err)
		}
		if !exists {
			return apperrors.NotFound("review", reviewID)
		}
		return apperrors.Conflict("review already has a company response")
	}

	return nil
}

// IncrementHelpful atomically increments the helpful counter.
func (r *ReviewRepository) IncrementHelpful(ctx context.Context, reviewID string) (int, error) {
	query := `
		UPDATE reviews
		SET helpful_count = helpful_count + 1
		WHERE id = $1
		RETURNING helpful_count`

	var count int
	err := r.pool.QueryRow(ctx, query, reviewID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NotFound("review", reviewID)
		}
		return 0, fmt.Errorf("increment helpful count: %w", err)
	}
	return count, nil
}

// scanReview scans one review row. When total is non-nil an extra trailing
// total_count column is expected.
func scanReview(row pgx.Row, total *int) (*domain.Review, error) {
	var (
		review        domain.Review
		respContent   *string
		respName      *string
		respTitle     *string
		respEmail     *string
		respCreatedAt *time.Time
		paymentSpeed  *string
		originCity    *string
		originState   *string
		destCity      *string
		destState     *string
		freightType   *string
	)

	dest := []any{
		&review.ID,
		&review.Seq,
		&review.TruckerID,
		&review.TruckerName,
		&review.CompanyID,
		&review.OverallRating,
		&review.Title,
		&review.Content,
		&review.PaymentRating,
		&review.CommunicationRating,
		&review.ProfessionalismRating,
		&review.HonestyRating,
		&paymentSpeed,
		&review.DaysToPayment,
		&review.LoadDate,
		&originCity,
		&originState,
		&destCity,
		&destState,
		&freightType,
		&review.IssuesReported,
		&review.WouldWorkAgain,
		&review.Status,
		&review.HelpfulCount,
		&review.CreatedAt,
		&respContent,
		&respName,
		&respTitle,
		&respEmail,
		&respCreatedAt,
	}
	if total != nil {
		dest = append(dest, total)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if paymentSpeed != nil {
		ps := domain.PaymentSpeed(*paymentSpeed)
		review.PaymentSpeed = &ps
	}
	review.OriginCity = deref(originCity)
	review.OriginState = deref(originState)
	review.DestinationCity = deref(destCity)
	review.DestinationState = deref(destState)
	review.FreightType = deref(freightType)
	if review.IssuesReported == nil {
		review.IssuesReported = []string{}
	}

	if respContent != nil {
		review.CompanyResponse = &domain.CompanyResponse{
			Content:        *respContent,
			ResponderName:  deref(respName),
			ResponderTitle: deref(respTitle),
			ResponderEmail: deref(respEmail),
		}
		if respCreatedAt != nil {
			review.CompanyResponse.CreatedAt = *respCreatedAt
		}
	}

	return &review, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
