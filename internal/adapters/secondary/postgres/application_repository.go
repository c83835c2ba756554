package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hireloop/jobboard-backend/internal/core/domain"
	apperrors "github.com/hireloop/jobboard-backend/internal/core/errors"
	"github.com/hireloop/jobboard-backend/internal/core/ports"
)

type ApplicationRepository struct {
	pool *pgxpool.Pool
}

var _ ports.ApplicationRepository = (*ApplicationRepository)(nil)

func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

const getApplicationByID = `
SELECT id, job_id, applicant_id, status, notes, created_at, updated_at
FROM applications
WHERE id = $1
`

func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	var a domain.Application
	err := r.pool.QueryRow(ctx, getApplicationByID, id).Scan(
		&a.ID,
		&a.JobID,
		&a.ApplicantID,
		&a.Status,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, err
	}
	return &a, nil
}

const updateApplicationStatus = `
UPDATE applications
SET status = $2, notes = $3, updated_at = now()
WHERE id = $1
RETURNING id, job_id, applicant_id, status, notes, created_at, updated_at
`

// UpdateStatus applies the new status and notes in a single statement.
// Concurrent updates to the same application are last-write-wins.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus, notes string) (*domain.Application, error) {
	var a domain.Application
	err := r.pool.QueryRow(ctx, updateApplicationStatus, id, status, notes).Scan(
		&a.ID,
		&a.JobID,
		&a.ApplicantID,
		&a.Status,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, err
	}
	return &a, nil
}
