package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/recrutai/platform/internal/jobintake"
	"github.com/recrutai/platform/internal/models"
	pgrepo "github.com/recrutai/platform/internal/repositories/postgres"
	"github.com/recrutai/platform/internal/utils"
	"github.com/sirupsen/logrus"
)

type JobService interface {
	Create(ctx context.Context, companyID string, p *jobintake.Payload) (*models.Job, error)
	Update(ctx context.Context, companyID, id string, p *jobintake.Payload) (*models.Job, error)
	Publish(ctx context.Context, companyID, id string) (*models.Job, error)
	Close(ctx context.Context, companyID, id string) (*models.Job, error)
	Get(ctx context.Context, viewerCompanyID, id string) (*models.Job, error)
	List(ctx context.Context, viewerCompanyID string, f models.JobFilter) ([]models.Job, error)
}

type jobService struct {
	jobs pgrepo.JobRepository
	log  *logrus.Logger
}

func NewJobService(jobs pgrepo.JobRepository, log *logrus.Logger) JobService {
	return &jobService{jobs: jobs, log: log}
}

// Create validates and normalizes p and stores it as a draft owned by
// companyID.
func (s *jobService) Create(ctx context.Context, companyID string, p *jobintake.Payload) (*models.Job, error) {
	const op = "JobService.Create"

	if verr := jobintake.Validate(p); verr != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, verr.Error(), verr)
	}

	job := jobintake.Normalize(p)
	now := time.Now().UTC()
	job.ID = uuid.NewString()
	job.Status = models.JobDraft
	job.CreatedAt = now
	job.UpdatedAt = now
	if companyID != "" {
		job.OwnerCompanyID = &companyID
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create job", err)
	}

	s.log.WithFields(logrus.Fields{"job_id": job.ID, "company_id": companyID}).Info("job created")
	return job, nil
}

// Update replaces the content of a draft job.
func (s *jobService) Update(ctx context.Context, companyID, id string, p *jobintake.Payload) (*models.Job, error) {
	const op = "JobService.Update"

	cur, err := s.authorize(ctx, op, companyID, id)
	if err != nil {
		return nil, err
	}
	if !cur.Status.Editable() {
		return nil, utils.E(utils.CodeInvalidState, op, "only draft jobs can be edited", models.ErrJobNotEditable)
	}
	if verr := jobintake.Validate(p); verr != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, verr.Error(), verr)
	}

	job := jobintake.Normalize(p)
	job.ID = id
	if err := s.jobs.UpdateDraft(ctx, job); err != nil {
		switch {
		case errors.Is(err, models.ErrJobNotEditable):
			return nil, utils.E(utils.CodeInvalidState, op, "only draft jobs can be edited", err)
		case errors.Is(err, utils.ErrNotFound):
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update job", err)
	}
	return job, nil
}

func (s *jobService) Publish(ctx context.Context, companyID, id string) (*models.Job, error) {
	return s.transition(ctx, "JobService.Publish", companyID, id, models.JobPublish)
}

// Close is idempotent: closing a closed job succeeds without changes.
func (s *jobService) Close(ctx context.Context, companyID, id string) (*models.Job, error) {
	return s.transition(ctx, "JobService.Close", companyID, id, models.JobClose)
}

func (s *jobService) transition(ctx context.Context, op, companyID, id string, action models.JobAction) (*models.Job, error) {
	if _, err := s.authorize(ctx, op, companyID, id); err != nil {
		return nil, err
	}

	job, err := s.jobs.Transition(ctx, id, action)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidTransition):
			return nil, utils.E(utils.CodeInvalidState, op, err.Error(), err)
		case errors.Is(err, utils.ErrNotFound):
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to change job status", err)
	}

	s.log.WithFields(logrus.Fields{"job_id": id, "action": action, "status": job.Status}).Info("job status changed")
	return job, nil
}

// Get returns a published job to anyone. Drafts are visible to their owning
// company only; everyone else gets NOT_FOUND.
func (s *jobService) Get(ctx context.Context, viewerCompanyID, id string) (*models.Job, error) {
	const op = "JobService.Get"

	job, err := s.find(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if !job.Status.Published() && !ownsJob(job, viewerCompanyID) {
		return nil, utils.E(utils.CodeNotFound, op, "job not found", nil)
	}
	return job, nil
}

func (s *jobService) find(ctx context.Context, op, id string) (*models.Job, error) {
	if !validID(id) {
		return nil, utils.E(utils.CodeNotFound, op, "job not found", nil)
	}
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get job", err)
	}
	return job, nil
}

// List filters by status and owner. A company listing its own jobs sees every
// status; any other listing defaults to active jobs and never returns drafts.
func (s *jobService) List(ctx context.Context, viewerCompanyID string, f models.JobFilter) ([]models.Job, error) {
	const op = "JobService.List"

	if f.Status != "" && !f.Status.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unknown job status", nil)
	}
	if f.OwnerCompanyID != "" && !validID(f.OwnerCompanyID) {
		return []models.Job{}, nil
	}
	if viewerCompanyID == "" || f.OwnerCompanyID != viewerCompanyID {
		switch {
		case f.Status == "":
			f.Status = models.JobActive
		case !f.Status.Published():
			return []models.Job{}, nil
		}
	}
	jobs, err := s.jobs.List(ctx, f)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return jobs, nil
}

func (s *jobService) authorize(ctx context.Context, op, companyID, id string) (*models.Job, error) {
	job, err := s.find(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if !ownedBy(job.OwnerCompanyID, companyID) {
		return nil, utils.E(utils.CodeForbidden, op, "job belongs to another company", nil)
	}
	return job, nil
}
