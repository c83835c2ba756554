package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/hireloop/jobboard-backend/internal/core/errors"
)

// ApplicationStatus is the review state of a job application.
type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationReviewed    ApplicationStatus = "reviewed"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationAccepted    ApplicationStatus = "accepted"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationWithdrawn   ApplicationStatus = "withdrawn"
)

// MaxNotesLength caps the reviewer notes attached to a status change.
const MaxNotesLength = 2000

// Valid reports whether the status is one of the known review states.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationReviewed, ApplicationShortlisted,
		ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn:
		return true
	}
	return false
}

// Application is a job seeker's application to a job. The realtime layer
// mutates only Status, Notes and UpdatedAt; everything else is owned by the
// REST API. Concurrent updates are last-write-wins at the data layer.
type Application struct {
	ID          int64
	JobID       int64
	ApplicantID uuid.UUID
	Status      ApplicationStatus
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// ValidateStatusChange checks the requested status and notes before any
// mutation is attempted.
func ValidateStatusChange(status ApplicationStatus, notes string) error {
	if !status.Valid() {
		return apperrors.ErrInvalidStatus
	}
	if len(notes) > MaxNotesLength {
		return apperrors.ErrNotesTooLong
	}
	return nil
}
