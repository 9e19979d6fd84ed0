package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/domain"
	"github.com/SFitz911/Carrier-Broker-Saas/pkg/database"
	apperrors "github.com/SFitz911/Carrier-Broker-Saas/pkg/errors"
)

const companyColumns = `id, legal_name, dba_name, entity_type, mc_number, dot_number,
	phone, physical_city, physical_state,
	overall_rating, payment_rating, communication_rating, professionalism_rating, honesty_rating,
	review_count, created_at, updated_at`

// CompanyRepository implements repository.CompanyRepository using PostgreSQL.
type CompanyRepository struct {
	pool database.DBTX
}

// NewCompanyRepository creates a new PostgreSQL-backed company repository.
func NewCompanyRepository(pool database.DBTX) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// Create inserts a new company.
func (r *CompanyRepository) Create(ctx context.Context, c *domain.Company) error {
	query := `
		INSERT INTO companies (id, legal_name, dba_name, entity_type, mc_number, dot_number,
			phone, physical_city, physical_state,
			overall_rating, payment_rating, communication_rating, professionalism_rating, honesty_rating,
			review_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.LegalName,
		nullIfEmpty(c.DBAName),
		c.EntityType,
		nullIfEmpty(c.MCNumber),
		nullIfEmpty(c.DOTNumber),
		nullIfEmpty(c.Phone),
		nullIfEmpty(c.PhysicalCity),
		nullIfEmpty(c.PhysicalState),
		c.OverallRating,
		c.PaymentRating,
		c.CommunicationRating,
		c.ProfessionalismRating,
		c.HonestyRating,
		c.ReviewCount,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}

	return nil
}

// GetByID retrieves a company by its ID.
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`

	company, err := scanCompany(r.pool.QueryRow(ctx, query, id), nil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("company", id)
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return company, nil
}

// Search filters by case-insensitive substring over legal name, DBA name and
// MC number, and by exact entity type, ordered by overall rating descending.
func (r *CompanyRepository) Search(ctx context.Context, query string, entityType domain.EntityType, limit int) ([]*domain.Company, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if query != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(legal_name ILIKE '%%' || $%d || '%%' OR dba_name ILIKE '%%' || $%d || '%%' OR mc_number LIKE '%%' || $%d || '%%')",
			argIndex, argIndex, argIndex))
		args = append(args, query)
		argIndex++
	}
	if entityType != "" {
		conditions = append(conditions, fmt.Sprintf("entity_type = UPPER($%d)", argIndex))
		args = append(args, string(entityType))
		argIndex++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	sql := fmt.Sprintf(`
		SELECT `+companyColumns+`, count(*) OVER() AS total_count
		FROM companies
		%s
		ORDER BY overall_rating DESC, id ASC
		LIMIT $%d`, where, argIndex)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search companies: %w", err)
	}
	defer rows.Close()

	var (
		companies  []*domain.Company
		totalCount int
	)
	for rows.Next() {
		company, err := scanCompany(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("scan company row: %w", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate company rows: %w", err)
	}

	if companies == nil {
		companies = []*domain.Company{}
	}

	return companies, totalCount, nil
}

// UpdateAggregates replaces the company's maintained rating aggregates.
func (r *CompanyRepository) UpdateAggregates(ctx context.Context, companyID string, agg domain.Aggregates) error {
	query := `
		UPDATE companies
		SET overall_rating = $2,
		    payment_rating = $3,
		    communication_rating = $4,
		    professionalism_rating = $5,
		    honesty_rating = $6,
		    review_count = $7,
		    updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		companyID,
		agg.Overall,
		agg.Payment,
		agg.Communication,
		agg.Professionalism,
		agg.Honesty,
		agg.ReviewCount,
	)
	if err != nil {
		return fmt.Errorf("update company aggregates: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("company", companyID)
	}
	return nil
}

// scanCompany scans one company row. When total is non-nil an extra trailing
// total_count column is expected.
func scanCompany(row pgx.Row, total *int) (*domain.Company, error) {
	var (
		company  domain.Company
		dbaName  *string
		mcNumber *string
		dotNum   *string
		phone    *string
		phyCity  *string
		phyState *string
	)

	dest := []any{
		&company.ID,
		&company.LegalName,
		&dbaName,
		&company.EntityType,
		&mcNumber,
		&dotNum,
		&phone,
		&phyCity,
		&phyState,
		&company.OverallRating,
		&company.PaymentRating,
		&company.CommunicationRating,
		&company.ProfessionalismRating,
		&company.HonestyRating,
		&company.ReviewCount,
		&company.CreatedAt,
		&company.UpdatedAt,
	}
	if total != nil {
		dest = append(dest, total)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	company.DBAName = deref(dbaName)
	company.MCNumber = deref(mcNumber)
	company.DOTNumber = deref(dotNum)
	company.Phone = deref(phone)
	company.PhysicalCity = deref(phyCity)
	company.PhysicalState = deref(phyState)

	return &company, nil
}
