package routes

import (
	"context"
	"io"

	"github.com/recrutai/platform/internal/jobintake"
	"github.com/recrutai/platform/internal/models"
	"github.com/recrutai/platform/internal/providers/unipile"
	"github.com/recrutai/platform/internal/services"
	"github.com/stretchr/testify/mock"
)

// typed returns args.Get(i) as T, or the zero value when nil was stubbed.
func typed[T any](args mock.Arguments, i int) T {
	var zero T
	if v := args.Get(i); v != nil {
		return v.(T)
	}
	return zero
}

type mockCandidates struct{ mock.Mock }

func (m *mockCandidates) Get(ctx context.Context, id string) (*models.Candidate, error) {
	args := m.Called(ctx, id)
	return typed[*models.Candidate](args, 0), args.Error(1)
}

func (m *mockCandidates) UpsertFromExternalIdentity(ctx context.Context, p models.ExternalProfile) (*models.Candidate, error) {
	args := m.Called(ctx, p)
	return typed[*models.Candidate](args, 0), args.Error(1)
}

func (m *mockCandidates) LoginWithEmail(ctx context.Context, email, password string) (*services.CandidateSession, error) {
	args := m.Called(ctx, email, password)
	return typed[*services.CandidateSession](args, 0), args.Error(1)
}

func (m *mockCandidates) StartExternalLogin(ctx context.Context) (string, string, error) {
	args := m.Called(ctx)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockCandidates) CompleteExternalLogin(ctx context.Context, code, state string) (*services.CandidateSession, error) {
	args := m.Called(ctx, code, state)
	return typed[*services.CandidateSession](args, 0), args.Error(1)
}

type mockResumes struct{ mock.Mock }

func (m *mockResumes) SaveCurriculum(ctx context.Context, candidateID string, in models.ResumeFields) (*models.Candidate, error) {
	args := m.Called(ctx, candidateID, in)
	return typed[*models.Candidate](args, 0), args.Error(1)
}

func (m *mockResumes) FetchCurriculum(ctx context.Context, candidateID string) (*models.Candidate, error) {
	args := m.Called(ctx, candidateID)
	return typed[*models.Candidate](args, 0), args.Error(1)
}

func (m *mockResumes) AppendBehavioralTest(ctx context.Context, candidateID string, in services.BehavioralTestInput) (*models.BehavioralTest, error) {
	args := m.Called(ctx, candidateID, in)
	return typed[*models.BehavioralTest](args, 0), args.Error(1)
}

func (m *mockResumes) LatestBehavioralTest(ctx context.Context, candidateID string) (*models.BehavioralTest, error) {
	args := m.Called(ctx, candidateID)
	return typed[*models.BehavioralTest](args, 0), args.Error(1)
}

func (m *mockResumes) ListBehavioralTests(ctx context.Context, candidateID string) ([]models.BehavioralTest, error) {
	args := m.Called(ctx, candidateID)
	return typed[[]models.BehavioralTest](args, 0), args.Error(1)
}

type mockApplications struct{ mock.Mock }

func (m *mockApplications) Submit(ctx context.Context, in services.SubmitApplicationInput) (*models.Application, bool, error) {
	args := m.Called(ctx, in)
	return typed[*models.Application](args, 0), args.Bool(1), args.Error(2)
}

func (m *mockApplications) ListForJob(ctx context.Context, companyID, jobID string) ([]models.ApplicationListItem, error) {
	args := m.Called(ctx, companyID, jobID)
	return typed[[]models.ApplicationListItem](args, 0), args.Error(1)
}

func (m *mockApplications) Get(ctx context.Context, companyID, id string) (*models.Application, error) {
	args := m.Called(ctx, companyID, id)
	return typed[*models.Application](args, 0), args.Error(1)
}

type mockJobs struct{ mock.Mock }

func (m *mockJobs) Create(ctx context.Context, companyID string, p *jobintake.Payload) (*models.Job, error) {
	args := m.Called(ctx, companyID, p)
	return typed[*models.Job](args, 0), args.Error(1)
}

func (m *mockJobs) Update(ctx context.Context, companyID, id string, p *jobintake.Payload) (*models.Job, error) {
	args := m.Called(ctx, companyID, id, p)
	return typed[*models.Job](args, 0), args.Error(1)
}

func (m *mockJobs) Publish(ctx context.Context, companyID, id string) (*models.Job, error) {
	args := m.Called(ctx, companyID, id)
	return typed[*models.Job](args, 0), args.Error(1)
}

func (m *mockJobs) Close(ctx context.Context, companyID, id string) (*models.Job, error) {
	args := m.Called(ctx, companyID, id)
	return typed[*models.Job](args, 0), args.Error(1)
}

func (m *mockJobs) Get(ctx context.Context, viewerCompanyID, id string) (*models.Job, error) {
	args := m.Called(ctx, viewerCompanyID, id)
	return typed[*models.Job](args, 0), args.Error(1)
}

func (m *mockJobs) List(ctx context.Context, viewerCompanyID string, f models.JobFilter) ([]models.Job, error) {
	args := m.Called(ctx, viewerCompanyID, f)
	return typed[[]models.Job](args, 0), args.Error(1)
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) Locations(ctx context.Context, companyID, keywords string) services.LocationResult {
	args := m.Called(ctx, companyID, keywords)
	return args.Get(0).(services.LocationResult)
}

type mockCompanies struct{ mock.Mock }

func (m *mockCompanies) Register(ctx context.Context, in services.RegisterCompanyInput) (*models.Company, error) {
	args := m.Called(ctx, in)
	return typed[*models.Company](args, 0), args.Error(1)
}

func (m *mockCompanies) Login(ctx context.Context, email, password string) (*services.CompanySession, error) {
	args := m.Called(ctx, email, password)
	return typed[*services.CompanySession](args, 0), args.Error(1)
}

func (m *mockCompanies) Get(ctx context.Context, id string) (*models.Company, error) {
	args := m.Called(ctx, id)
	return typed[*models.Company](args, 0), args.Error(1)
}

func (m *mockCompanies) UpdateProfile(ctx context.Context, id string, in services.UpdateCompanyInput) (*models.Company, error) {
	args := m.Called(ctx, id, in)
	return typed[*models.Company](args, 0), args.Error(1)
}

func (m *mockCompanies) UploadLogo(ctx context.Context, id, contentType string, r io.Reader) (*models.Company, error) {
	args := m.Called(ctx, id, contentType, r)
	return typed[*models.Company](args, 0), args.Error(1)
}

type mockLinks struct{ mock.Mock }

func (m *mockLinks) StartHostedAuth(ctx context.Context, companyID string) (*services.HostedAuthLink, error) {
	args := m.Called(ctx, companyID)
	return typed[*services.HostedAuthLink](args, 0), args.Error(1)
}

func (m *mockLinks) CompleteFromWebhook(ctx context.Context, ev unipile.WebhookEvent, raw map[string]any) (*services.LinkResult, error) {
	args := m.Called(ctx, ev, raw)
	return typed[*services.LinkResult](args, 0), args.Error(1)
}

func (m *mockLinks) CompleteFromCallback(ctx context.Context, connectToken, accountID string) (*services.LinkResult, error) {
	args := m.Called(ctx, connectToken, accountID)
	return typed[*services.LinkResult](args, 0), args.Error(1)
}

func (m *mockLinks) Disconnect(ctx context.Context, companyID string) (*models.ExternalLinkStatus, error) {
	args := m.Called(ctx, companyID)
	return typed[*models.ExternalLinkStatus](args, 0), args.Error(1)
}

func (m *mockLinks) Status(ctx context.Context, companyID string) (*models.ExternalLinkStatus, error) {
	args := m.Called(ctx, companyID)
	return typed[*models.ExternalLinkStatus](args, 0), args.Error(1)
}
