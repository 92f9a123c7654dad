package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/recrutai/platform/internal/metrics"
	"github.com/recrutai/platform/internal/models"
	pgrepo "github.com/recrutai/platform/internal/repositories/postgres"
	"github.com/recrutai/platform/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type SubmitApplicationInput struct {
	CandidateID        string          `json:"candidatoId"`
	JobID              string          `json:"vagaId"`
	CurriculumSnapshot json.RawMessage `json:"curriculoSnapshot"`
	TestResult         json.RawMessage `json:"testeResultado"`
}

type ApplicationService interface {
	Submit(ctx context.Context, in SubmitApplicationInput) (app *models.Application, created bool, err error)
	ListForJob(ctx context.Context, companyID, jobID string) ([]models.ApplicationListItem, error)
	Get(ctx context.Context, companyID, id string) (*models.Application, error)
}

type applicationService struct {
	applications pgrepo.ApplicationRepository
	candidates   pgrepo.CandidateRepository
	jobs         pgrepo.JobRepository
	log          *logrus.Logger
}

func NewApplicationService(applications pgrepo.ApplicationRepository, candidates pgrepo.CandidateRepository, jobs pgrepo.JobRepository, log *logrus.Logger) ApplicationService {
	return &applicationService{applications: applications, candidates: candidates, jobs: jobs, log: log}
}

// Submit records a candidate's application to a job. A second submission for
// the same pair updates the existing row: the snapshot is replaced, the test
// result only when a new one is given, and the status follows the result.
func (s *applicationService) Submit(ctx context.Context, in SubmitApplicationInput) (*models.Application, bool, error) {
	const op = "ApplicationService.Submit"

	if in.CandidateID == "" || in.JobID == "" {
		return nil, false, utils.E(utils.CodeInvalidArgument, op, "candidatoId and vagaId are required", nil)
	}
	if !structurallyPresent(in.CurriculumSnapshot) {
		return nil, false, utils.E(utils.CodeInvalidArgument, op, "curriculoSnapshot is required", nil)
	}
	if !json.Valid(in.CurriculumSnapshot) || (len(in.TestResult) > 0 && !json.Valid(in.TestResult)) {
		return nil, false, utils.E(utils.CodeInvalidArgument, op, "curriculoSnapshot and testeResultado must be valid JSON", nil)
	}

	if !validID(in.CandidateID) {
		return nil, false, utils.E(utils.CodeNotFound, op, "candidate not found", nil)
	}
	if _, err := s.candidates.GetByID(ctx, in.CandidateID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, false, utils.E(utils.CodeNotFound, op, "candidate not found", err)
		}
		return nil, false, utils.E(utils.CodeInternal, op, "failed to get candidate", err)
	}

	if !validID(in.JobID) {
		return nil, false, utils.E(utils.CodeNotFound, op, "job not found", nil)
	}
	ok, err := s.jobs.Exists(ctx, in.JobID)
	if err != nil {
		return nil, false, utils.E(utils.CodeInternal, op, "failed to get job", err)
	}
	if !ok {
		return nil, false, utils.E(utils.CodeNotFound, op, "job not found", nil)
	}

	var testResult datatypes.JSON
	if !models.IsNullJSON(datatypes.JSON(in.TestResult)) {
		testResult = datatypes.JSON(in.TestResult)
	}

	now := time.Now().UTC()
	app := &models.Application{
		ID:                 uuid.NewString(),
		CandidateID:        in.CandidateID,
		JobID:              in.JobID,
		CurriculumSnapshot: datatypes.JSON(in.CurriculumSnapshot),
		TestResult:         testResult,
		Status:             models.StatusForTestResult(testResult),
		Origin:             models.ApplicationOriginPlatform,
		AppliedAt:          now,
		UpdatedAt:          now,
	}

	created, err := s.applications.Upsert(ctx, app)
	if err != nil {
		return nil, false, utils.E(utils.CodeInternal, op, "failed to save application", err)
	}

	result := "updated"
	if created {
		result = "created"
	}
	metrics.ApplicationsUpserted.WithLabelValues(result).Inc()
	s.log.WithFields(logrus.Fields{
		"application_id": app.ID,
		"candidate_id":   app.CandidateID,
		"job_id":         app.JobID,
		"status":         app.Status,
		"result":         result,
	}).Info("application submitted")

	return app, created, nil
}

func (s *applicationService) ListForJob(ctx context.Context, companyID, jobID string) ([]models.ApplicationListItem, error) {
	const op = "ApplicationService.ListForJob"

	if err := s.authorizeJob(ctx, op, companyID, jobID); err != nil {
		return nil, err
	}
	rows, err := s.applications.ListByJob(ctx, jobID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return rows, nil
}

func (s *applicationService) Get(ctx context.Context, companyID, id string) (*models.Application, error) {
	const op = "ApplicationService.Get"

	if !validID(id) {
		return nil, utils.E(utils.CodeNotFound, op, "application not found", nil)
	}
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get application", err)
	}
	if app.Job != nil && !ownedBy(app.Job.OwnerCompanyID, companyID) {
		return nil, utils.E(utils.CodeForbidden, op, "application belongs to another company", nil)
	}
	return app, nil
}

func (s *applicationService) authorizeJob(ctx context.Context, op, companyID, jobID string) error {
	if !validID(jobID) {
		return utils.E(utils.CodeNotFound, op, "job not found", nil)
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to get job", err)
	}
	if !ownedBy(job.OwnerCompanyID, companyID) {
		return utils.E(utils.CodeForbidden, op, "job belongs to another company", nil)
	}
	return nil
}

// structurallyPresent rejects absent, null and empty JSON values.
func structurallyPresent(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	var buf bytes.Buffer
	if err := json.Compact(&buf, t); err == nil {
		t = buf.Bytes()
	}
	switch string(t) {
	case "", "null", "{}", "[]", `""`:
		return false
	}
	return true
}
