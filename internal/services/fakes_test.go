package services

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/recrutai/platform/internal/auth"
	"github.com/recrutai/platform/internal/logger"
	"github.com/recrutai/platform/internal/models"
	"github.com/recrutai/platform/internal/utils"
	"gorm.io/datatypes"
)

var testLog = logger.Discard()

// clone round-trips v through JSON so fakes never share memory with callers.
func clone[T any](v *T) *T {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		panic(err)
	}
	return &out
}

type fakeCandidates struct {
	mu   sync.Mutex
	rows map[string]*models.Candidate
	// tests keeps the history out of the JSON clone, which skips it
	tests map[string][]models.BehavioralTest
}

func newFakeCandidates() *fakeCandidates {
	return &fakeCandidates{rows: map[string]*models.Candidate{}, tests: map[string][]models.BehavioralTest{}}
}

func (f *fakeCandidates) out(c *models.Candidate) *models.Candidate {
	cp := clone(c)
	cp.BehavioralTests = append(datatypes.JSONSlice[models.BehavioralTest]{}, f.tests[c.ID]...)
	return cp
}

func (f *fakeCandidates) GetByID(_ context.Context, id string) (*models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.rows[id]; ok {
		return f.out(c), nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeCandidates) GetByExternalID(_ context.Context, externalID string) (*models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.rows {
		if c.ExternalID != nil && *c.ExternalID == externalID {
			return f.out(c), nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeCandidates) GetByEmail(_ context.Context, email string) (*models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.rows {
		if c.Email == email {
			return f.out(c), nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeCandidates) emailTaken(email, exceptID string) bool {
	for id, c := range f.rows {
		if id != exceptID && c.Email == email {
			return true
		}
	}
	return false
}

func (f *fakeCandidates) Create(_ context.Context, c *models.Candidate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emailTaken(c.Email, "") {
		return &utils.DuplicateError{Constraint: "uniq_candidate_email"}
	}
	f.rows[c.ID] = clone(c)
	return nil
}

func (f *fakeCandidates) Update(_ context.Context, c *models.Candidate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.rows[c.ID]
	if !ok {
		return utils.ErrNotFound
	}
	if f.emailTaken(c.Email, c.ID) {
		return &utils.DuplicateError{Constraint: "uniq_candidate_email"}
	}
	cur.ExternalID, cur.Email, cur.Name, cur.Phone = c.ExternalID, c.Email, c.Name, c.Phone
	cur.City, cur.State, cur.ProfileURL, cur.AvatarURL, cur.Objective = c.City, c.State, c.ProfileURL, c.AvatarURL, c.Objective
	cur.UpdatedAt = c.UpdatedAt
	return nil
}

func (f *fakeCandidates) SaveResume(_ context.Context, c *models.Candidate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[c.ID]; !ok {
		return utils.ErrNotFound
	}
	if f.emailTaken(c.Email, c.ID) {
		return &utils.DuplicateError{Constraint: "uniq_candidate_email"}
	}
	f.rows[c.ID] = clone(c)
	return nil
}

func (f *fakeCandidates) AppendBehavioralTest(_ context.Context, candidateID string, t models.BehavioralTest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[candidateID]; !ok {
		return utils.ErrNotFound
	}
	f.tests[candidateID] = append(f.tests[candidateID], t)
	return nil
}

type fakeJobs struct {
	mu   sync.Mutex
	rows map[string]*models.Job
}

func newFakeJobs() *fakeJobs { return &fakeJobs{rows: map[string]*models.Job{}} }

func (f *fakeJobs) GetByID(_ context.Context, id string) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if j, ok := f.rows[id]; ok {
		return clone(j), nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeJobs) Exists(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[id]
	return ok, nil
}

func (f *fakeJobs) List(_ context.Context, flt models.JobFilter) ([]models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Job
	for _, j := range f.rows {
		if flt.Status != "" && j.Status != flt.Status {
			continue
		}
		if flt.OwnerCompanyID != "" && (j.OwnerCompanyID == nil || *j.OwnerCompanyID != flt.OwnerCompanyID) {
			continue
		}
		out = append(out, *clone(j))
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, nil
}

func (f *fakeJobs) Create(_ context.Context, j *models.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[j.ID] = clone(j)
	return nil
}

func (f *fakeJobs) UpdateDraft(_ context.Context, j *models.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.rows[j.ID]
	if !ok {
		return utils.ErrNotFound
	}
	if !cur.Status.Editable() {
		return models.ErrJobNotEditable
	}
	j.Status, j.OwnerCompanyID, j.CreatedAt = cur.Status, cur.OwnerCompanyID, cur.CreatedAt
	j.UpdatedAt = time.Now().UTC()
	f.rows[j.ID] = clone(j)
	return nil
}

func (f *fakeJobs) Transition(_ context.Context, id string, action models.JobAction) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	next, err := j.Status.Next(action)
	if err != nil {
		return nil, err
	}
	if next != j.Status {
		now := time.Now().UTC()
		switch next {
		case models.JobActive:
			j.PublishedAt = &now
		case models.JobClosed:
			j.ClosedAt = &now
		}
		j.Status = next
	}
	return clone(j), nil
}

// fakeApplications mirrors the conflict update of the SQL upsert; the
// container-tagged repository tests cover the statement itself.
type fakeApplications struct {
	mu         sync.Mutex
	rows       map[string]*models.Application
	candidates *fakeCandidates
	jobs       *fakeJobs
}

func newFakeApplications(c *fakeCandidates, j *fakeJobs) *fakeApplications {
	return &fakeApplications{rows: map[string]*models.Application{}, candidates: c, jobs: j}
}

func (f *fakeApplications) Upsert(_ context.Context, a *models.Application) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cur := range f.rows {
		if cur.CandidateID == a.CandidateID && cur.JobID == a.JobID {
			cur.CurriculumSnapshot = a.CurriculumSnapshot
			if !models.IsNullJSON(a.TestResult) {
				cur.TestResult = a.TestResult
			}
			cur.Status = models.StatusForTestResult(cur.TestResult)
			cur.UpdatedAt = a.UpdatedAt
			*a = *clone(cur)
			return false, nil
		}
	}
	f.rows[a.ID] = clone(a)
	return true, nil
}

func (f *fakeApplications) GetByID(ctx context.Context, id string) (*models.Application, error) {
	f.mu.Lock()
	a, ok := f.rows[id]
	if !ok {
		f.mu.Unlock()
		return nil, utils.ErrNotFound
	}
	out := clone(a)
	f.mu.Unlock()

	out.Candidate, _ = f.candidates.GetByID(ctx, out.CandidateID)
	out.Job, _ = f.jobs.GetByID(ctx, out.JobID)
	return out, nil
}

func (f *fakeApplications) GetByPair(_ context.Context, candidateID, jobID string) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.rows {
		if a.CandidateID == candidateID && a.JobID == jobID {
			return clone(a), nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeApplications) ListByJob(ctx context.Context, jobID string) ([]models.ApplicationListItem, error) {
	f.mu.Lock()
	var apps []models.Application
	for _, a := range f.rows {
		if a.JobID == jobID {
			apps = append(apps, *clone(a))
		}
	}
	f.mu.Unlock()

	sort.Slice(apps, func(i, j int) bool { return apps[i].AppliedAt.After(apps[j].AppliedAt) })
	out := []models.ApplicationListItem{}
	for _, a := range apps {
		c, _ := f.candidates.GetByID(ctx, a.CandidateID)
		item := models.ApplicationListItem{
			ID: a.ID, CandidateID: a.CandidateID, JobID: a.JobID,
			CurriculumSnapshot: a.CurriculumSnapshot, TestResult: a.TestResult,
			Status: a.Status, Origin: a.Origin, AppliedAt: a.AppliedAt,
		}
		if c != nil {
			item.CandidateName, item.CandidateEmail, item.CandidatePhone = c.Name, c.Email, c.Phone
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeApplications) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeCompanies struct {
	mu   sync.Mutex
	rows map[string]*models.Company
}

func newFakeCompanies() *fakeCompanies { return &fakeCompanies{rows: map[string]*models.Company{}} }

func (f *fakeCompanies) copyOf(c *models.Company) *models.Company {
	cp := *clone(c)
	cp.PasswordHash = c.PasswordHash
	return &cp
}

func (f *fakeCompanies) find(match func(c *models.Company) bool) (*models.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.rows {
		if match(c) {
			return f.copyOf(c), nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeCompanies) GetByID(_ context.Context, id string) (*models.Company, error) {
	return f.find(func(c *models.Company) bool { return c.ID == id })
}

func (f *fakeCompanies) GetByEmail(_ context.Context, email string) (*models.Company, error) {
	return f.find(func(c *models.Company) bool { return c.Email != nil && *c.Email == email })
}

func (f *fakeCompanies) GetByExternalAccountID(_ context.Context, accountID string) (*models.Company, error) {
	return f.find(func(c *models.Company) bool { return c.ExternalAccountID != nil && *c.ExternalAccountID == accountID })
}

func (f *fakeCompanies) taken(match func(c *models.Company) bool, exceptID string) bool {
	for id, c := range f.rows {
		if id != exceptID && match(c) {
			return true
		}
	}
	return false
}

func (f *fakeCompanies) EmailTaken(_ context.Context, email, exceptID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.taken(func(c *models.Company) bool { return c.Email != nil && *c.Email == email }, exceptID), nil
}

func (f *fakeCompanies) CNPJTaken(_ context.Context, cnpj, exceptID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.taken(func(c *models.Company) bool { return c.CNPJ != nil && *c.CNPJ == cnpj }, exceptID), nil
}

func (f *fakeCompanies) Create(_ context.Context, c *models.Company) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.Email != nil && f.taken(func(o *models.Company) bool { return o.Email != nil && *o.Email == *c.Email }, "") {
		return &utils.DuplicateError{Constraint: "uniq_company_email"}
	}
	f.rows[c.ID] = f.copyOf(c)
	return nil
}

func (f *fakeCompanies) Update(_ context.Context, c *models.Company) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.rows[c.ID]
	if !ok {
		return utils.ErrNotFound
	}
	next := f.copyOf(c)
	next.ExternalAccountID, next.ExternalConnected = cur.ExternalAccountID, cur.ExternalConnected
	next.ExternalConnectedAt, next.ExternalPageURL = cur.ExternalConnectedAt, cur.ExternalPageURL
	f.rows[c.ID] = next
	return nil
}

func (f *fakeCompanies) SetExternalLink(_ context.Context, id, accountID string, at time.Time, e *models.CompanyEnrichment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return utils.ErrNotFound
	}
	if f.taken(func(o *models.Company) bool { return o.ExternalAccountID != nil && *o.ExternalAccountID == accountID }, id) {
		return &utils.DuplicateError{Constraint: "uniq_company_external_account"}
	}
	c.ExternalAccountID = &accountID
	c.ExternalConnected = true
	c.ExternalConnectedAt = &at
	if e != nil {
		if e.Name != nil {
			c.Name = *e.Name
		}
		set := func(dst **string, v *string) {
			if v != nil {
				*dst = v
			}
		}
		set(&c.LogoURL, e.AvatarURL)
		set(&c.Headline, e.Headline)
		set(&c.Location, e.Location)
		set(&c.Description, e.Description)
		set(&c.Website, e.Website)
		set(&c.Sector, e.Sector)
		set(&c.Size, e.Size)
		set(&c.ExternalPageURL, e.PageURL)
	}
	return nil
}

func (f *fakeCompanies) ClearExternalLink(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return utils.ErrNotFound
	}
	c.ExternalAccountID, c.ExternalConnected, c.ExternalConnectedAt = nil, false, nil
	return nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(kind auth.Kind, subject, email string) (string, time.Time, error) {
	return string(kind) + ":" + subject, time.Now().Add(time.Hour), nil
}

type fakeStates struct {
	mu   sync.Mutex
	n    int
	vals map[string]string
}

func newFakeStates() *fakeStates { return &fakeStates{vals: map[string]string{}} }

func (f *fakeStates) Issue(_ context.Context, value string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	tok := "tok-" + string(rune('a'+f.n))
	f.vals[tok] = value
	return tok, nil
}

func (f *fakeStates) Consume(_ context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vals[token]
	if !ok {
		return "", auth.ErrStateNotFound
	}
	delete(f.vals, token)
	return v, nil
}

func (f *fakeStates) Lookup(_ context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vals[token]
	if !ok {
		return "", auth.ErrStateNotFound
	}
	return v, nil
}

func ptr[T any](v T) *T { return &v }
