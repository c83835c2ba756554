package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/hireloop/jobboard-backend/internal/core/domain"
)

// TokenVerifier defines the port for verifying handshake credentials.
// Issuance lives with the external auth service; only verification is
// consumed here.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// Broadcaster defines the fan-out primitives of the realtime layer.
// Delivery is at-most-once, best-effort: a disconnected target simply never
// receives the event.
type Broadcaster interface {
	ToUser(userID uuid.UUID, t domain.EventType, payload any)
	ToRole(role domain.Role, t domain.EventType, payload any)
	ToAll(t domain.EventType, payload any)
}

// UpdateApplicationParams is the input for changing an application's status.
type UpdateApplicationParams struct {
	ApplicationID int64
	Status        domain.ApplicationStatus
	Notes         string
	Actor         domain.User
}

// ApplicationService defines the authorize-then-mutate operation behind the
// application_update event.
type ApplicationService interface {
	UpdateStatus(ctx context.Context, params UpdateApplicationParams) (*domain.Application, error)
}
