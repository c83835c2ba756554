package websocket

import (
	"context"

	"github.com/hireloop/jobboard-backend/internal/core/domain"
	apperrors "github.com/hireloop/jobboard-backend/internal/core/errors"
	"github.com/hireloop/jobboard-backend/internal/core/ports"
)

// Authenticator validates the bearer token presented at handshake time and
// resolves it to a user snapshot. It runs once per handshake attempt, before
// any connection state is allocated. Every failure is terminal for the
// attempt; the client must reconnect.
type Authenticator struct {
	tokens ports.TokenVerifier
	users  ports.UserRepository
}

// NewAuthenticator creates a handshake authenticator.
func NewAuthenticator(tokens ports.TokenVerifier, users ports.UserRepository) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Authenticate verifies the token and resolves its subject to an existing
// user. It fails on a missing token, an invalid or expired token, or a
// subject that no longer resolves to a user record.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, apperrors.ErrMissingToken
	}

	userID, err := a.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}
