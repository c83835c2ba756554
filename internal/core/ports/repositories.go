package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/hireloop/jobboard-backend/internal/core/domain"
)

// UserRepository reads user records. The realtime layer resolves users at
// handshake time and validates message recipients; it never writes users.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// JobRepository reads job postings joined with their owning company.
type JobRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Job, error)
}

// ApplicationRepository reads and mutates application records. UpdateStatus
// is a single atomic statement; no lock is held across the call boundary and
// concurrent updates are last-write-wins.
type ApplicationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Application, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus, notes string) (*domain.Application, error)
}
