// Package store persists canonical internships and guards inserts
// against duplicates by the (title, company, platform) natural key.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/internhub/backend/internal/domain"
)

// InternshipRepository is the persistence surface the dedup gate needs.
type InternshipRepository interface {
	// ExistsByKey reports whether a record with the given identity key
	// is already persisted.
	ExistsByKey(ctx context.Context, key domain.InternshipKey) (bool, error)

	// Insert persists a new internship record.
	Insert(ctx context.Context, in *domain.Internship) error
}

// InternshipStore is the pgx-backed repository.
type InternshipStore struct {
	pool *pgxpool.Pool
}

// NewInternshipStore creates a store over an open pool.
func NewInternshipStore(pool *pgxpool.Pool) *InternshipStore {
	return &InternshipStore{pool: pool}
}

// ExistsByKey checks for a persisted record with the same identity key.
func (s *InternshipStore) ExistsByKey(ctx context.Context, key domain.InternshipKey) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM internships
			WHERE title = $1 AND company_name = $2 AND source_platform = $3
		)`,
		key.Title, key.Company, string(key.Platform),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by key: %w", err)
	}
	return exists, nil
}

// Insert persists a new internship.
func (s *InternshipStore) Insert(ctx context.Context, in *domain.Internship) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO internships (
			id, title, company_name, company_logo,
			city, state, country, work_type, duration, start_date,
			compensation_type, compensation_amount, compensation_description,
			description, categories,
			contact_name, contact_email, contact_phone, contact_profile,
			source_platform, source_url, scraped_at, status, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19,
			$20, $21, $22, $23, $24
		)`,
		in.ID, in.Title, in.CompanyName, in.CompanyLogo,
		in.Location.City, in.Location.State, in.Location.Country,
		string(in.WorkType), in.Duration, in.StartDate,
		string(in.Compensation.Type), in.Compensation.Amount, in.Compensation.Description,
		in.Description, in.Categories,
		in.Contact.Name, in.Contact.Email, in.Contact.Phone, in.Contact.Profile,
		string(in.Source.Platform), in.Source.OriginalURL, in.Source.ScrapedAt,
		string(in.Status), in.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert internship: %w", err)
	}
	return nil
}

// List returns recent internships, newest first, with optional platform
// and work-type filters.
func (s *InternshipStore) List(ctx context.Context, platform, workType string, limit, offset int) ([]*domain.Internship, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+internshipColumns+`
		 FROM internships
		 WHERE ($1 = '' OR source_platform = $1)
		   AND ($2 = '' OR work_type = $2)
		 ORDER BY created_at DESC
		 LIMIT $3 OFFSET $4`,
		platform, workType, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list internships: %w", err)
	}
	defer rows.Close()

	var result []*domain.Internship
	for rows.Next() {
		in, err := scanInternship(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, in)
	}
	return result, rows.Err()
}

// Get fetches an internship by id. Returns pgx.ErrNoRows when missing.
func (s *InternshipStore) Get(ctx context.Context, id uuid.UUID) (*domain.Internship, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+internshipColumns+` FROM internships WHERE id = $1`, id)
	return scanInternship(row)
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

const internshipColumns = `
	id, title, company_name, company_logo,
	city, state, country, work_type, duration, start_date,
	compensation_type, compensation_amount, compensation_description,
	description, categories,
	contact_name, contact_email, contact_phone, contact_profile,
	source_platform, source_url, scraped_at, status, created_at`

func scanInternship(row pgx.Row) (*domain.Internship, error) {
	var in domain.Internship
	var workType, compType, platform, status string

	err := row.Scan(
		&in.ID, &in.Title, &in.CompanyName, &in.CompanyLogo,
		&in.Location.City, &in.Location.State, &in.Location.Country,
		&workType, &in.Duration, &in.StartDate,
		&compType, &in.Compensation.Amount, &in.Compensation.Description,
		&in.Description, &in.Categories,
		&in.Contact.Name, &in.Contact.Email, &in.Contact.Phone, &in.Contact.Profile,
		&platform, &in.Source.OriginalURL, &in.Source.ScrapedAt,
		&status, &in.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	in.WorkType = domain.WorkType(workType)
	in.Compensation.Type = domain.CompensationType(compType)
	in.Source.Platform = domain.Platform(platform)
	in.Status = domain.Status(status)
	return &in, nil
}

// Gate is the deduplication and persistence gate. Save reports whether
// the candidate was newly created; duplicates and persistence errors
// both come back as false so an adapter's loop never aborts on a single
// bad record.
type Gate struct {
	repo   InternshipRepository
	logger *zap.Logger
}

// NewGate creates a gate over a repository.
func NewGate(repo InternshipRepository, logger *zap.Logger) *Gate {
	return &Gate{repo: repo, logger: logger}
}

// Save persists the candidate unless a record with the same identity
// key already exists. Required fields are enforced before insert.
func (g *Gate) Save(ctx context.Context, in *domain.Internship) bool {
	if in == nil {
		return false
	}
	if in.Title == "" || in.CompanyName == "" || in.Source.Platform == "" {
		g.logger.Debug("Rejecting internship with missing required fields",
			zap.String("title", in.Title),
			zap.String("company", in.CompanyName),
		)
		return false
	}

	exists, err := g.repo.ExistsByKey(ctx, in.Key())
	if err != nil {
		g.logger.Error("Duplicate check failed",
			zap.String("title", in.Title),
			zap.String("company", in.CompanyName),
			zap.Error(err),
		)
		return false
	}
	if exists {
		return false
	}

	if err := g.repo.Insert(ctx, in); err != nil {
		g.logger.Error("Failed to save internship",
			zap.String("title", in.Title),
			zap.String("company", in.CompanyName),
			zap.Error(err),
		)
		return false
	}

	return true
}
