package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/recrutai/platform/internal/auth"
	"github.com/recrutai/platform/internal/models"
	"github.com/recrutai/platform/internal/providers/linkedin"
	pgrepo "github.com/recrutai/platform/internal/repositories/postgres"
	"github.com/recrutai/platform/internal/utils"
	"github.com/sirupsen/logrus"
)

type TokenIssuer interface {
	Issue(kind auth.Kind, subject, email string) (string, time.Time, error)
}

// StateStore correlates the two legs of a redirect flow.
type StateStore interface {
	Issue(ctx context.Context, value string) (string, error)
	Consume(ctx context.Context, token string) (string, error)
	Lookup(ctx context.Context, token string) (string, error)
}

type CandidateSession struct {
	Candidate *models.Candidate
	Token     string
	ExpiresAt time.Time
	// Resume is the profile data mapped from the identity provider, used to
	// prefill the résumé form.
	Resume *models.ResumeFields
}

type CandidateService interface {
	Get(ctx context.Context, id string) (*models.Candidate, error)
	UpsertFromExternalIdentity(ctx context.Context, p models.ExternalProfile) (*models.Candidate, error)
	LoginWithEmail(ctx context.Context, email, password string) (*CandidateSession, error)
	StartExternalLogin(ctx context.Context) (authURL, state string, err error)
	CompleteExternalLogin(ctx context.Context, code, state string) (*CandidateSession, error)
}

type candidateService struct {
	candidates pgrepo.CandidateRepository
	tokens     TokenIssuer
	oauth      linkedin.Provider
	states     StateStore
	log        *logrus.Logger
}

func NewCandidateService(candidates pgrepo.CandidateRepository, tokens TokenIssuer, oauth linkedin.Provider, states StateStore, log *logrus.Logger) CandidateService {
	return &candidateService{candidates: candidates, tokens: tokens, oauth: oauth, states: states, log: log}
}

func (s *candidateService) Get(ctx context.Context, id string) (*models.Candidate, error) {
	const op = "CandidateService.Get"

	if !validID(id) {
		return nil, utils.E(utils.CodeNotFound, op, "candidate not found", nil)
	}
	c, err := s.candidates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "candidate not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get candidate", err)
	}
	return c, nil
}

// UpsertFromExternalIdentity finds the candidate by external id, then by
// email, and creates one on a miss. On a hit only non-nil incoming fields
// overwrite stored values.
func (s *candidateService) UpsertFromExternalIdentity(ctx context.Context, p models.ExternalProfile) (*models.Candidate, error) {
	return s.upsertExternal(ctx, p, true)
}

// upsertExternal retries at most once after losing a creation race.
func (s *candidateService) upsertExternal(ctx context.Context, p models.ExternalProfile, retry bool) (*models.Candidate, error) {
	const op = "CandidateService.UpsertFromExternalIdentity"

	p.Email = normEmailPtr(p.Email)
	if isBlank(p.ExternalID) && p.Email == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "external id or email is required", nil)
	}

	existing, err := s.findByIdentity(ctx, p)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to look up candidate", err)
	}

	now := time.Now().UTC()
	if existing == nil {
		if p.Email == nil {
			return nil, utils.E(utils.CodeInvalidArgument, op, "email is required for a new candidate", nil)
		}
		c := &models.Candidate{
			ID:        uuid.NewString(),
			Email:     *p.Email,
			CreatedAt: now,
			UpdatedAt: now,
		}
		mergeExternal(c, p)
		if err := s.candidates.Create(ctx, c); err != nil {
			if errors.Is(err, utils.ErrDuplicate) {
				if retry {
					// lost a race with a concurrent first login
					return s.upsertExternal(ctx, p, false)
				}
				return nil, utils.E(utils.CodeConflict, op, "candidate identity already in use", err)
			}
			return nil, utils.E(utils.CodeInternal, op, "failed to create candidate", err)
		}
		return c, nil
	}

	mergeExternal(existing, p)
	existing.UpdatedAt = now
	if err := s.candidates.Update(ctx, existing); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "email already belongs to another candidate", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update candidate", err)
	}
	return existing, nil
}

func (s *candidateService) findByIdentity(ctx context.Context, p models.ExternalProfile) (*models.Candidate, error) {
	if !isBlank(p.ExternalID) {
		c, err := s.candidates.GetByExternalID(ctx, *p.ExternalID)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, utils.ErrNotFound) {
			return nil, err
		}
	}
	if p.Email != nil {
		c, err := s.candidates.GetByEmail(ctx, *p.Email)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, utils.ErrNotFound) {
			return nil, err
		}
	}
	return nil, nil
}

func mergeExternal(c *models.Candidate, p models.ExternalProfile) {
	set := func(dst **string, v *string) {
		if v != nil {
			*dst = v
		}
	}
	if !isBlank(p.ExternalID) {
		c.ExternalID = p.ExternalID
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	set(&c.Name, p.Name)
	set(&c.AvatarURL, p.AvatarURL)
	set(&c.ProfileURL, p.ProfileURL)
	set(&c.City, p.City)
	set(&c.State, p.State)
}

// LoginWithEmail is the demo login: any non-empty pair signs in, creating
// the candidate on first use.
func (s *candidateService) LoginWithEmail(ctx context.Context, email, password string) (*CandidateSession, error) {
	const op = "CandidateService.LoginWithEmail"

	email = normEmail(email)
	if email == "" || password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}

	c, err := s.UpsertFromExternalIdentity(ctx, models.ExternalProfile{Email: &email})
	if err != nil {
		return nil, err
	}
	return s.session(op, c, nil)
}

func (s *candidateService) StartExternalLogin(ctx context.Context) (string, string, error) {
	const op = "CandidateService.StartExternalLogin"

	if s.oauth == nil {
		return "", "", utils.E(utils.CodeUnavailable, op, "external login is not configured", nil)
	}
	state, err := s.states.Issue(ctx, string(auth.KindCandidate))
	if err != nil {
		return "", "", utils.E(utils.CodeUnavailable, op, "failed to store login state", err)
	}
	return s.oauth.AuthURL(state), state, nil
}

func (s *candidateService) CompleteExternalLogin(ctx context.Context, code, state string) (*CandidateSession, error) {
	const op = "CandidateService.CompleteExternalLogin"

	if s.oauth == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "external login is not configured", nil)
	}
	if strings.TrimSpace(code) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "code is required", nil)
	}
	if _, err := s.states.Consume(ctx, state); err != nil {
		if errors.Is(err, auth.ErrStateNotFound) {
			return nil, utils.E(utils.CodeUnauthorized, op, "invalid or expired state", err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "failed to verify login state", err)
	}

	tok, err := s.oauth.ExchangeAuthorizationCode(ctx, code)
	if err != nil {
		return nil, utils.E(utils.CodeUpstream, op, "failed to exchange authorization code", err)
	}
	raw, err := s.oauth.FetchProfile(ctx, tok)
	if err != nil {
		return nil, utils.E(utils.CodeUpstream, op, "failed to fetch external profile", err)
	}

	c, err := s.UpsertFromExternalIdentity(ctx, linkedin.ExternalProfile(raw))
	if err != nil {
		return nil, err
	}

	resume := linkedin.MapToResume(raw)
	s.log.WithFields(logrus.Fields{
		"candidate_id": c.ID,
		"experiences":  len(resume.Experiences),
		"educations":   len(resume.Educations),
	}).Info("candidate signed in with external identity")

	return s.session(op, c, &resume)
}

func (s *candidateService) session(op string, c *models.Candidate, resume *models.ResumeFields) (*CandidateSession, error) {
	tok, exp, err := s.tokens.Issue(auth.KindCandidate, c.ID, c.Email)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return &CandidateSession{Candidate: c, Token: tok, ExpiresAt: exp, Resume: resume}, nil
}
