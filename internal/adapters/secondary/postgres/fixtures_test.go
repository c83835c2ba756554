package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/jobboard-backend/internal/core/domain"
)

func seedCompany(t *testing.T, name string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := testPool.QueryRow(context.Background(),
		`INSERT INTO companies (name) VALUES ($1) RETURNING id`, name,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedUser(t *testing.T, fullName string, role domain.Role, companyID *uuid.UUID) uuid.UUID {
	t.Helper()
	email := fmt.Sprintf("%s@example.test", uuid.NewString())
	var id uuid.UUID
	err := testPool.QueryRow(context.Background(),
		`INSERT INTO users (full_name, email, role, company_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		fullName, email, role, companyID,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedJob(t *testing.T, companyID uuid.UUID, title, location string) int64 {
	t.Helper()
	var id int64
	err := testPool.QueryRow(context.Background(),
		`INSERT INTO jobs (company_id, title, location) VALUES ($1, $2, $3) RETURNING id`,
		companyID, title, location,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedApplication(t *testing.T, jobID int64, applicantID uuid.UUID) int64 {
	t.Helper()
	var id int64
	err := testPool.QueryRow(context.Background(),
		`INSERT INTO applications (job_id, applicant_id) VALUES ($1, $2) RETURNING id`,
		jobID, applicantID,
	).Scan(&id)
	require.NoError(t, err)
	return id
}
