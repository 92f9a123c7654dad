package jobintake

import (
	"encoding/json"
	"testing"

	"github.com/recrutai/platform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func screening(q, answerType string) models.ScreeningQuestion {
	return models.ScreeningQuestion{Question: q, AnswerType: answerType}
}

func screeningNumeric(q string, min, max float64) models.ScreeningQuestion {
	return models.ScreeningQuestion{
		Question:   q,
		AnswerType: AnswerNumeric,
		Numeric:    &models.NumericExpectation{Min: &min, Max: &max},
	}
}

func TestNormalize_Defaults(t *testing.T) {
	job := Normalize(validPayload())

	assert.Equal(t, "Backend Engineer", job.Title)
	assert.Equal(t, models.RefTypeText, job.TitleType)
	assert.Equal(t, "1337", job.Company)
	assert.Equal(t, models.RefTypeID, job.CompanyType)
	assert.Equal(t, models.RefTypeText, job.Recruiter.ProjectType)

	r := job.Recruiter
	assert.True(t, r.ResumeRequired)
	assert.True(t, r.IncludePosterInfo)
	assert.True(t, r.SendRejectionNotification)
	assert.Equal(t, models.ArchiveRule{Enabled: true, SendNotification: true}, r.AutoArchiveApplicants)
	assert.Equal(t, models.ArchiveRule{Enabled: true, SendNotification: true}, r.AutoArchiveJob)
	assert.Nil(t, r.TrackingPixelURL)
	assert.Nil(t, r.ExternalJobID)

	assert.Nil(t, job.EmploymentType)
	assert.Nil(t, job.AutoRejectionTemplate)
	assert.Nil(t, job.Config)
	assert.NotNil(t, job.ScreeningQuestions)
	assert.Len(t, job.ScreeningQuestions, 0)
}

func TestNormalize_ExplicitFalseIsKept(t *testing.T) {
	p := validPayload()
	p.Recruiter.ResumeRequired = ptr(false)
	p.Recruiter.SendRejectionNotification = ptr(false)
	p.Recruiter.AutoArchiveJob = &ArchiveRulePayload{Enabled: ptr(false)}

	r := Normalize(p).Recruiter
	assert.False(t, r.ResumeRequired)
	assert.False(t, r.SendRejectionNotification)
	assert.Equal(t, models.ArchiveRule{Enabled: false, SendNotification: true}, r.AutoArchiveJob)
	assert.True(t, r.IncludePosterInfo)
}

func TestNormalize_ApplyMethod(t *testing.T) {
	p := validPayload()
	p.Recruiter.ApplyMethod = &ApplyMethodPayload{Type: "External", URL: ptr(" https://acme.test/apply ")}

	m := Normalize(p).Recruiter.ApplyMethod
	assert.Equal(t, models.ApplyExternal, m.Type)
	require.NotNil(t, m.URL)
	assert.Equal(t, "https://acme.test/apply", *m.URL)
	assert.Nil(t, m.NotificationEmail)
}

func TestNormalize_TrimsAndCanonicalizes(t *testing.T) {
	p := validPayload()
	p.Workplace = "Presencial"
	p.Recruiter.Functions = []string{" eng ", "", "ops"}
	p.EmploymentType = ptr("  ")
	p.JobConfig = &JobConfigPayload{InterviewCount: 3, ActiveDays: 30, RequiredTests: models.RequiredTests{Behavioral: true}}

	job := Normalize(p)
	assert.Equal(t, "on-site", job.Workplace)
	assert.Equal(t, []string{"eng", "ops"}, []string(job.Recruiter.Functions))
	assert.Nil(t, job.EmploymentType)
	require.NotNil(t, job.Config)
	assert.Equal(t, 3, job.Config.InterviewCount)
	assert.True(t, job.Config.RequiredTests.Behavioral)
}

func TestNormalize_FromJSON(t *testing.T) {
	body := `{
		"title": {"id": 77, "text": "Engenheiro de Software"},
		"company": "Acme",
		"workplace": "hybrid",
		"location": "Recife",
		"description": "desc",
		"recruiter": {
			"project": "Q4",
			"functions": ["eng"],
			"industries": ["it"],
			"seniority": "mid",
			"apply_method": {"type": "platform", "notification_email": "rh@acme.test"},
			"include_poster_info": false
		},
		"screening_questions": [{"question": "Inglês?", "answer_type": "multiple_choice", "expected_choices": ["fluente"], "required": true}]
	}`

	var p Payload
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	require.Nil(t, Validate(&p))

	job := Normalize(&p)
	assert.Equal(t, "77", job.Title)
	assert.Equal(t, models.RefTypeID, job.TitleType)
	assert.Equal(t, models.RefTypeText, job.CompanyType)
	assert.False(t, job.Recruiter.IncludePosterInfo)
	require.Len(t, job.ScreeningQuestions, 1)
	assert.True(t, job.ScreeningQuestions[0].Required)
	assert.Equal(t, []string{"fluente"}, job.ScreeningQuestions[0].ExpectedChoices)
}
