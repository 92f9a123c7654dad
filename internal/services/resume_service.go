package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/recrutai/platform/config"
	"github.com/recrutai/platform/internal/models"
	pgrepo "github.com/recrutai/platform/internal/repositories/postgres"
	"github.com/recrutai/platform/internal/utils"
	"gorm.io/datatypes"
)

type BehavioralTestInput struct {
	Answers         json.RawMessage `json:"respostas"`
	Result          json.RawMessage `json:"resultado"`
	DominantProfile string          `json:"perfilDominante"`
	TotalScore      float64         `json:"pontuacaoTotal"`
	DurationSeconds int             `json:"tempoTesteSegundos"`
}

type ResumeService interface {
	SaveCurriculum(ctx context.Context, candidateID string, in models.ResumeFields) (*models.Candidate, error)
	FetchCurriculum(ctx context.Context, candidateID string) (*models.Candidate, error)
	AppendBehavioralTest(ctx context.Context, candidateID string, in BehavioralTestInput) (*models.BehavioralTest, error)
	LatestBehavioralTest(ctx context.Context, candidateID string) (*models.BehavioralTest, error)
	ListBehavioralTests(ctx context.Context, candidateID string) ([]models.BehavioralTest, error)
}

type resumeService struct {
	candidates pgrepo.CandidateRepository
	policy     config.ProfileCompletePolicy
}

func NewResumeService(candidates pgrepo.CandidateRepository, policy config.ProfileCompletePolicy) ResumeService {
	if policy == "" {
		policy = config.ProfileCompleteOnSubmission
	}
	return &resumeService{candidates: candidates, policy: policy}
}

// SaveCurriculum replaces the candidate's personal and résumé fields. The
// email is kept when the form omits it.
func (s *resumeService) SaveCurriculum(ctx context.Context, candidateID string, in models.ResumeFields) (*models.Candidate, error) {
	const op = "ResumeService.SaveCurriculum"

	c, err := s.load(ctx, op, candidateID)
	if err != nil {
		return nil, err
	}

	if e := normEmailPtr(in.Email); e != nil {
		c.Email = *e
	}
	c.Name = trimPtr(in.Name)
	c.Phone = trimPtr(in.Phone)
	c.City = trimPtr(in.City)
	c.State = trimPtr(in.State)
	c.ProfileURL = trimPtr(in.ProfileURL)
	c.AvatarURL = trimPtr(in.AvatarURL)
	c.Objective = trimPtr(in.Objective)

	c.Experiences = orEmpty(in.Experiences)
	c.Educations = orEmpty(in.Educations)
	c.Skills = orEmpty(in.Skills)
	c.Languages = orEmpty(in.Languages)
	c.Certifications = orEmpty(in.Certifications)

	now := time.Now().UTC()
	c.ProfileComplete = s.complete(c)
	c.ResumeSavedAt = &now
	c.UpdatedAt = now

	if err := s.candidates.SaveResume(ctx, c); err != nil {
		switch {
		case errors.Is(err, utils.ErrNotFound):
			return nil, utils.E(utils.CodeNotFound, op, "candidate not found", err)
		case errors.Is(err, utils.ErrDuplicate):
			return nil, utils.E(utils.CodeConflict, op, "email already belongs to another candidate", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to save curriculum", err)
	}
	return c, nil
}

func (s *resumeService) complete(c *models.Candidate) bool {
	if s.policy == config.ProfileCompleteOnValidity {
		return len(c.Experiences) > 0 && len(c.Educations) > 0
	}
	return true
}

// FetchCurriculum returns the stored résumé. A candidate that never saved
// one is reported as not found.
func (s *resumeService) FetchCurriculum(ctx context.Context, candidateID string) (*models.Candidate, error) {
	const op = "ResumeService.FetchCurriculum"

	c, err := s.load(ctx, op, candidateID)
	if err != nil {
		return nil, err
	}
	if c.ResumeSavedAt == nil {
		return nil, utils.E(utils.CodeNotFound, op, "curriculum not found", nil)
	}
	return c, nil
}

func (s *resumeService) AppendBehavioralTest(ctx context.Context, candidateID string, in BehavioralTestInput) (*models.BehavioralTest, error) {
	const op = "ResumeService.AppendBehavioralTest"

	if !validID(candidateID) {
		return nil, utils.E(utils.CodeNotFound, op, "candidate not found", nil)
	}
	if models.IsNullJSON(datatypes.JSON(in.Result)) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resultado is required", nil)
	}
	if in.DurationSeconds < 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "tempoTesteSegundos must not be negative", nil)
	}

	t := models.BehavioralTest{
		ID:              uuid.NewString(),
		Answers:         datatypes.JSON(in.Answers),
		Result:          datatypes.JSON(in.Result),
		DominantProfile: in.DominantProfile,
		TotalScore:      in.TotalScore,
		DurationSeconds: in.DurationSeconds,
		CreatedAt:       time.Now().UTC(),
	}
	if models.IsNullJSON(t.Answers) {
		t.Answers = datatypes.JSON("[]")
	}

	if err := s.candidates.AppendBehavioralTest(ctx, candidateID, t); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "candidate not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to save behavioral test", err)
	}
	return &t, nil
}

func (s *resumeService) LatestBehavioralTest(ctx context.Context, candidateID string) (*models.BehavioralTest, error) {
	const op = "ResumeService.LatestBehavioralTest"

	c, err := s.load(ctx, op, candidateID)
	if err != nil {
		return nil, err
	}
	t, ok := c.LatestBehavioralTest()
	if !ok {
		return nil, utils.E(utils.CodeNotFound, op, "no behavioral test found", nil)
	}
	return &t, nil
}

func (s *resumeService) ListBehavioralTests(ctx context.Context, candidateID string) ([]models.BehavioralTest, error) {
	const op = "ResumeService.ListBehavioralTests"

	c, err := s.load(ctx, op, candidateID)
	if err != nil {
		return nil, err
	}
	return orEmpty(c.BehavioralTests), nil
}

func (s *resumeService) load(ctx context.Context, op, candidateID string) (*models.Candidate, error) {
	if !validID(candidateID) {
		return nil, utils.E(utils.CodeNotFound, op, "candidate not found", nil)
	}
	c, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "candidate not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get candidate", err)
	}
	return c, nil
}

func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
