package services

import (
	"context"

	"github.com/hireloop/jobboard-backend/internal/core/domain"
	apperrors "github.com/hireloop/jobboard-backend/internal/core/errors"
	"github.com/hireloop/jobboard-backend/internal/core/ports"
)

// ApplicationService implements the business logic for application status
// changes triggered from the realtime layer.
type ApplicationService struct {
	applicationRepo ports.ApplicationRepository
	jobRepo         ports.JobRepository
}

var _ ports.ApplicationService = (*ApplicationService)(nil)

// NewApplicationService creates a new application service.
func NewApplicationService(
	applicationRepo ports.ApplicationRepository,
	jobRepo ports.JobRepository,
) ports.ApplicationService {
	return &ApplicationService{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
	}
}

// UpdateStatus changes an application's status and notes.
//
// The actor must be an admin, a recruiter of the company that owns the
// job the application targets, or the applicant themselves. Authorization
// runs before the mutation; a rejected actor causes no write.
func (s *ApplicationService) UpdateStatus(ctx context.Context, params ports.UpdateApplicationParams) (*domain.Application, error) {
	// 1. Validate the requested change
	if err := domain.ValidateStatusChange(params.Status, params.Notes); err != nil {
		return nil, err
	}

	// 2. Fetch the application
	application, err := s.applicationRepo.GetByID(ctx, params.ApplicationID)
	if err != nil {
		return nil, err
	}

	// 3. Authorize the actor for this specific application
	authorized, err := s.canUpdate(ctx, &params.Actor, application)
	if err != nil {
		return nil, err
	}
	if !authorized {
		return nil, apperrors.ErrForbidden
	}

	// 4. Persist the change
	return s.applicationRepo.UpdateStatus(ctx, application.ID, params.Status, params.Notes)
}

// canUpdate resolves the application's job to compare its owning company
// with the recruiter's company. Job id and company id are distinct keys and
// must never be compared to each other.
func (s *ApplicationService) canUpdate(ctx context.Context, actor *domain.User, application *domain.Application) (bool, error) {
	if actor.IsAdmin() {
		return true, nil
	}
	if actor.ID == application.ApplicantID {
		return true, nil
	}
	if actor.Role != domain.RoleEmployer {
		return false, nil
	}

	job, err := s.jobRepo.GetByID(ctx, application.JobID)
	if err != nil {
		return false, err
	}
	return actor.WorksFor(job.CompanyID), nil
}
