package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/jobboard-backend/internal/core/domain"
	apperrors "github.com/hireloop/jobboard-backend/internal/core/errors"
)

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testPool)

	t.Run("returns a recruiter with company", func(t *testing.T) {
		companyID := seedCompany(t, "Acme")
		userID := seedUser(t, "Rita Recruiter", domain.RoleEmployer, &companyID)

		user, err := repo.GetByID(ctx, userID)
		require.NoError(t, err)

		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "Rita Recruiter", user.FullName)
		assert.Equal(t, domain.RoleEmployer, user.Role)
		require.NotNil(t, user.CompanyID)
		assert.Equal(t, companyID, *user.CompanyID)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("returns a job seeker without company", func(t *testing.T) {
		userID := seedUser(t, "Sam Seeker", domain.RoleJobSeeker, nil)

		user, err := repo.GetByID(ctx, userID)
		require.NoError(t, err)

		assert.Equal(t, domain.RoleJobSeeker, user.Role)
		assert.Nil(t, user.CompanyID)
	})

	t.Run("unknown id maps to not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}
