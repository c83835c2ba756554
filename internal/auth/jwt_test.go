package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/jobboard-backend/internal/core/domain"
	apperrors "github.com/hireloop/jobboard-backend/internal/core/errors"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	companyID := uuid.New()
	user := &domain.User{
		ID:        uuid.New(),
		FullName:  "Rita Recruiter",
		Role:      domain.RoleEmployer,
		CompanyID: &companyID,
	}

	token, err := tm.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, string(domain.RoleEmployer), claims.Role)
	require.NotNil(t, claims.CompanyID)
	assert.Equal(t, companyID, *claims.CompanyID)
}

func TestTokenManager_UsesConfiguredTTL(t *testing.T) {
	ttl := 2 * time.Hour
	tm := NewTokenManager("test-secret", ttl)

	user := &domain.User{ID: uuid.New(), Role: domain.RoleJobSeeker}

	start := time.Now()

	token, err := tm.GenerateToken(user)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)

	expectedExpiry := start.Add(ttl)
	assert.WithinDuration(t, expectedExpiry, claims.ExpiresAt.Time, 2*time.Second)
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)

	user := &domain.User{ID: uuid.New(), Role: domain.RoleJobSeeker}

	token, err := tm.GenerateToken(user)
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("other-secret", time.Hour)

	user := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}

	token, err := tm.GenerateToken(user)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestTokenManager_VerifyReturnsSubject(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	user := &domain.User{ID: uuid.New(), Role: domain.RoleJobSeeker}

	token, err := tm.GenerateToken(user)
	require.NoError(t, err)

	userID, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, err = tm.Verify("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
