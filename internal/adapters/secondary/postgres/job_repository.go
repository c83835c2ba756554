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

type JobRepository struct {
	pool *pgxpool.Pool
}

var _ ports.JobRepository = (*JobRepository)(nil)

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

const getJobByID = `
SELECT j.id, j.company_id, c.name, j.title, j.location, j.is_open, j.created_at
FROM jobs j
JOIN companies c ON c.id = j.company_id
WHERE j.id = $1
`

func (r *JobRepository) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	var j domain.Job
	err := r.pool.QueryRow(ctx, getJobByID, id).Scan(
		&j.ID,
		&j.CompanyID,
		&j.CompanyName,
		&j.Title,
		&j.Location,
		&j.IsOpen,
		&j.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, err
	}
	return &j, nil
}
