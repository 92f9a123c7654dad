package jobintake

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func validPayload() *Payload {
	return &Payload{
		Title:       TextOrID{Value: "Backend Engineer"},
		Company:     TextOrID{Value: "1337", IsID: true},
		Workplace:   "remote",
		Location:    "São Paulo, SP",
		Description: "Build APIs.",
		Recruiter: &RecruiterPayload{
			Project:    TextOrID{Value: "Hiring 2026"},
			Functions:  []string{"engineering"},
			Industries: []string{"software"},
			Seniority:  "senior",
			ApplyMethod: &ApplyMethodPayload{
				Type:              "platform",
				NotificationEmail: ptr("jobs@acme.test"),
			},
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	assert.Nil(t, Validate(validPayload()))
}

func TestValidate_MissingRequiredField(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(p *Payload)
	}{
		{"title", func(p *Payload) { p.Title = TextOrID{} }},
		{"company", func(p *Payload) { p.Company = TextOrID{Value: "  "} }},
		{"workplace", func(p *Payload) { p.Workplace = "" }},
		{"location", func(p *Payload) { p.Location = "" }},
		{"description", func(p *Payload) { p.Description = " " }},
		{"recruiter", func(p *Payload) { p.Recruiter = nil }},
		{"recruiter.project", func(p *Payload) { p.Recruiter.Project = TextOrID{} }},
		{"recruiter.functions", func(p *Payload) { p.Recruiter.Functions = nil }},
		{"recruiter.industries", func(p *Payload) { p.Recruiter.Industries = []string{""} }},
		{"recruiter.seniority", func(p *Payload) { p.Recruiter.Seniority = "" }},
		{"recruiter.apply_method", func(p *Payload) { p.Recruiter.ApplyMethod = nil }},
		{"recruiter.apply_method.notification_email", func(p *Payload) { p.Recruiter.ApplyMethod.NotificationEmail = nil }},
		{"recruiter.apply_method.url", func(p *Payload) {
			p.Recruiter.ApplyMethod = &ApplyMethodPayload{Type: "external"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			p := validPayload()
			tt.mutate(p)

			err := Validate(p)
			require.NotNil(t, err)
			assert.Equal(t, tt.field, err.Field)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidate_FirstFailureWins(t *testing.T) {
	p := validPayload()
	p.Location = ""
	p.Recruiter.Seniority = ""
	p.Title = TextOrID{}

	err := Validate(p)
	require.NotNil(t, err)
	assert.Equal(t, "title", err.Field)

	p.Title = TextOrID{Value: "x"}
	assert.Equal(t, "location", Validate(p).Field)
}

func TestValidate_RequiredBeforeExtras(t *testing.T) {
	p := validPayload()
	p.Workplace = "moon base"
	p.Recruiter.Seniority = ""

	err := Validate(p)
	require.NotNil(t, err)
	assert.Equal(t, "recruiter.seniority", err.Field)
}

func TestValidate_LinkedInApplyNeedsEmail(t *testing.T) {
	p := validPayload()
	p.Recruiter.ApplyMethod = &ApplyMethodPayload{Type: "linkedin"}

	err := Validate(p)
	require.NotNil(t, err)
	assert.Equal(t, "recruiter.apply_method.notification_email", err.Field)
}

func TestValidate_ApplyMethodExclusive(t *testing.T) {
	p := validPayload()
	p.Recruiter.ApplyMethod = &ApplyMethodPayload{
		Type:              "external",
		URL:               ptr("https://acme.test/apply"),
		NotificationEmail: ptr("jobs@acme.test"),
	}

	err := Validate(p)
	require.NotNil(t, err)
	assert.Equal(t, "recruiter.apply_method.notification_email", err.Field)
}

func TestValidate_UnknownApplyType(t *testing.T) {
	p := validPayload()
	p.Recruiter.ApplyMethod = &ApplyMethodPayload{Type: "fax"}

	err := Validate(p)
	require.NotNil(t, err)
	assert.Equal(t, "recruiter.apply_method.type", err.Field)
}

func TestValidate_Extras(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		mutate func(p *Payload)
	}{
		{"bad workplace", "workplace", func(p *Payload) { p.Workplace = "moon base" }},
		{"too many functions", "recruiter.functions", func(p *Payload) {
			p.Recruiter.Functions = []string{"a", "b", "c", "d"}
		}},
		{"too many industries", "recruiter.industries", func(p *Payload) {
			p.Recruiter.Industries = []string{"a", "b", "c", "d"}
		}},
		{"bad email", "recruiter.apply_method.notification_email", func(p *Payload) {
			p.Recruiter.ApplyMethod.NotificationEmail = ptr("not-an-email")
		}},
		{"bad url", "recruiter.apply_method.url", func(p *Payload) {
			p.Recruiter.ApplyMethod = &ApplyMethodPayload{Type: "external", URL: ptr("nope")}
		}},
		{"numeric min over max", "screening_questions[1].numeric", func(p *Payload) {
			p.ScreeningQuestions = append(p.ScreeningQuestions,
				screening("Years of Go?", "numeric"),
				screeningNumeric("Years of SQL?", 5, 2),
			)
		}},
		{"multiple choice without choices", "screening_questions[0].expected_choices", func(p *Payload) {
			p.ScreeningQuestions = append(p.ScreeningQuestions, screening("Pick one", AnswerMultipleChoice))
		}},
		{"question text", "screening_questions[0].question", func(p *Payload) {
			p.ScreeningQuestions = append(p.ScreeningQuestions, screening("", "text"))
		}},
		{"interview count", "job_config.interview_count", func(p *Payload) {
			p.JobConfig = &JobConfigPayload{InterviewCount: 21, ActiveDays: 30}
		}},
		{"active days", "job_config.active_days", func(p *Payload) {
			p.JobConfig = &JobConfigPayload{InterviewCount: 2, ActiveDays: 366}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(p)

			err := Validate(p)
			require.NotNil(t, err)
			assert.Equal(t, tt.field, err.Field)
		})
	}
}

func TestValidate_WorkplaceSpellings(t *testing.T) {
	for _, w := range []string{"On-Site", "onsite", "presencial", "Hybrid", "remoto"} {
		p := validPayload()
		p.Workplace = w
		assert.Nil(t, Validate(p), w)
	}
}

func TestValidate_Nil(t *testing.T) {
	require.NotNil(t, Validate(nil))
}

func TestTextOrID_Unmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want TextOrID
	}{
		{`"Engineer"`, TextOrID{Value: "Engineer"}},
		{`42`, TextOrID{Value: "42", IsID: true}},
		{`{"id": "urn:li:title:9", "text": "Engineer"}`, TextOrID{Value: "urn:li:title:9", Label: "Engineer", IsID: true}},
		{`{"id": 9, "name": "Engineer"}`, TextOrID{Value: "9", Label: "Engineer", IsID: true}},
		{`{"text": "Engineer"}`, TextOrID{Value: "Engineer"}},
		{`null`, TextOrID{}},
	}
	for _, tt := range tests {
		var got TextOrID
		require.NoError(t, json.Unmarshal([]byte(tt.in), &got), tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	var bad TextOrID
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))
}
