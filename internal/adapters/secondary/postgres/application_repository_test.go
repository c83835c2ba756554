package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/jobboard-backend/internal/core/domain"
	apperrors "github.com/hireloop/jobboard-backend/internal/core/errors"
)

func TestApplicationRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := NewApplicationRepository(testPool)

	t.Run("returns a fresh application", func(t *testing.T) {
		companyID := seedCompany(t, "Initech")
		jobID := seedJob(t, companyID, "SRE", "Remote")
		applicantID := seedUser(t, "Sam Seeker", domain.RoleJobSeeker, nil)
		appID := seedApplication(t, jobID, applicantID)

		application, err := repo.GetByID(ctx, appID)
		require.NoError(t, err)

		assert.Equal(t, appID, application.ID)
		assert.Equal(t, jobID, application.JobID)
		assert.Equal(t, applicantID, application.ApplicantID)
		assert.Equal(t, domain.ApplicationPending, application.Status)
		assert.Empty(t, application.Notes)
		assert.Nil(t, application.UpdatedAt)
	})

	t.Run("unknown id maps to not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 999999)
		assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
	})
}

func TestApplicationRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewApplicationRepository(testPool)

	t.Run("persists status, notes and updated_at", func(t *testing.T) {
		companyID := seedCompany(t, "Umbrella")
		jobID := seedJob(t, companyID, "Data Engineer", "Lisbon")
		applicantID := seedUser(t, "Alex Applicant", domain.RoleJobSeeker, nil)
		appID := seedApplication(t, jobID, applicantID)

		updated, err := repo.UpdateStatus(ctx, appID, domain.ApplicationShortlisted, "great take-home")
		require.NoError(t, err)

		assert.Equal(t, domain.ApplicationShortlisted, updated.Status)
		assert.Equal(t, "great take-home", updated.Notes)
		require.NotNil(t, updated.UpdatedAt)

		// The write is visible to a fresh read.
		reread, err := repo.GetByID(ctx, appID)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationShortlisted, reread.Status)
	})

	t.Run("last write wins", func(t *testing.T) {
		companyID := seedCompany(t, "Hooli")
		jobID := seedJob(t, companyID, "Mobile Engineer", "Remote")
		applicantID := seedUser(t, "Blair Builder", domain.RoleJobSeeker, nil)
		appID := seedApplication(t, jobID, applicantID)

		_, err := repo.UpdateStatus(ctx, appID, domain.ApplicationReviewed, "first pass")
		require.NoError(t, err)

		updated, err := repo.UpdateStatus(ctx, appID, domain.ApplicationRejected, "position filled")
		require.NoError(t, err)

		assert.Equal(t, domain.ApplicationRejected, updated.Status)
		assert.Equal(t, "position filled", updated.Notes)
	})

	t.Run("unknown id maps to not found", func(t *testing.T) {
		_, err := repo.UpdateStatus(ctx, 999999, domain.ApplicationReviewed, "")
		assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
	})
}
