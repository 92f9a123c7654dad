package jobintake

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/recrutai/platform/internal/models"
)

const (
	maxTags           = 3
	minInterviewCount = 1
	maxInterviewCount = 20
	minActiveDays     = 1
	maxActiveDays     = 365
)

var workplaces = map[string]struct{}{
	"on-site": {},
	"hybrid":  {},
	"remote":  {},
}

const (
	AnswerNumeric        = "numeric"
	AnswerMultipleChoice = "multiple_choice"
)

var validate = validator.New()

// ValidationError identifies the first offending field of a payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// Validate checks p and returns the first failure, or nil. Required fields
// are checked in a fixed order so callers always see the same field first.
func Validate(p *Payload) *ValidationError {
	if p == nil {
		return invalid("payload", "is required")
	}

	switch {
	case p.Title.Empty():
		return invalid("title", "is required")
	case p.Company.Empty():
		return invalid("company", "is required")
	case blank(p.Workplace):
		return invalid("workplace", "is required")
	case blank(p.Location):
		return invalid("location", "is required")
	case blank(p.Description):
		return invalid("description", "is required")
	case p.Recruiter == nil:
		return invalid("recruiter", "is required")
	}

	r := p.Recruiter
	switch {
	case r.Project.Empty():
		return invalid("recruiter.project", "is required")
	case len(nonBlank(r.Functions)) == 0:
		return invalid("recruiter.functions", "at least one function is required")
	case len(nonBlank(r.Industries)) == 0:
		return invalid("recruiter.industries", "at least one industry is required")
	case blank(r.Seniority):
		return invalid("recruiter.seniority", "is required")
	case r.ApplyMethod == nil || blank(r.ApplyMethod.Type):
		return invalid("recruiter.apply_method", "is required")
	}

	if err := validateApplyMethod(r.ApplyMethod); err != nil {
		return err
	}

	return validateExtras(p)
}

func validateApplyMethod(m *ApplyMethodPayload) *ValidationError {
	switch applyType(m) {
	case models.ApplyPlatform, models.ApplyLinkedIn:
		if m.NotificationEmail == nil || blank(*m.NotificationEmail) {
			return invalid("recruiter.apply_method.notification_email", "is required for "+applyType(m)+" apply method")
		}
		if m.URL != nil && !blank(*m.URL) {
			return invalid("recruiter.apply_method.url", "must be empty for "+applyType(m)+" apply method")
		}
	case models.ApplyExternal:
		if m.URL == nil || blank(*m.URL) {
			return invalid("recruiter.apply_method.url", "is required for external apply method")
		}
		if m.NotificationEmail != nil && !blank(*m.NotificationEmail) {
			return invalid("recruiter.apply_method.notification_email", "must be empty for external apply method")
		}
	default:
		return invalid("recruiter.apply_method.type", fmt.Sprintf("unknown apply method %q", m.Type))
	}
	return nil
}

func validateExtras(p *Payload) *ValidationError {
	r := p.Recruiter

	if _, ok := workplaces[normWorkplace(p.Workplace)]; !ok {
		return invalid("workplace", "must be one of on-site, hybrid, remote")
	}
	if len(nonBlank(r.Functions)) > maxTags {
		return invalid("recruiter.functions", fmt.Sprintf("at most %d functions are allowed", maxTags))
	}
	if len(nonBlank(r.Industries)) > maxTags {
		return invalid("recruiter.industries", fmt.Sprintf("at most %d industries are allowed", maxTags))
	}

	m := r.ApplyMethod
	if m.URL != nil && !blank(*m.URL) && validate.Var(strings.TrimSpace(*m.URL), "url") != nil {
		return invalid("recruiter.apply_method.url", "must be a valid URL")
	}
	if m.NotificationEmail != nil && !blank(*m.NotificationEmail) && validate.Var(strings.TrimSpace(*m.NotificationEmail), "email") != nil {
		return invalid("recruiter.apply_method.notification_email", "must be a valid email")
	}
	if r.TrackingPixelURL != nil && !blank(*r.TrackingPixelURL) && validate.Var(strings.TrimSpace(*r.TrackingPixelURL), "url") != nil {
		return invalid("recruiter.tracking_pixel_url", "must be a valid URL")
	}

	for i, q := range p.ScreeningQuestions {
		field := fmt.Sprintf("screening_questions[%d]", i)
		if blank(q.Question) {
			return invalid(field+".question", "is required")
		}
		if blank(q.AnswerType) {
			return invalid(field+".answer_type", "is required")
		}
		if n := q.Numeric; n != nil && n.Min != nil && n.Max != nil && *n.Min > *n.Max {
			return invalid(field+".numeric", "min must be less than or equal to max")
		}
		if q.AnswerType == AnswerMultipleChoice && len(nonBlank(q.ExpectedChoices)) == 0 {
			return invalid(field+".expected_choices", "at least one choice is required")
		}
	}

	if c := p.JobConfig; c != nil {
		if c.InterviewCount < minInterviewCount || c.InterviewCount > maxInterviewCount {
			return invalid("job_config.interview_count", fmt.Sprintf("must be between %d and %d", minInterviewCount, maxInterviewCount))
		}
		if c.ActiveDays < minActiveDays || c.ActiveDays > maxActiveDays {
			return invalid("job_config.active_days", fmt.Sprintf("must be between %d and %d", minActiveDays, maxActiveDays))
		}
	}
	return nil
}

func applyType(m *ApplyMethodPayload) string {
	return strings.ToLower(strings.TrimSpace(m.Type))
}

// normWorkplace accepts the common spellings of the three modes.
func normWorkplace(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "onsite", "on_site", "presencial":
		return "on-site"
	case "hibrido", "híbrido":
		return "hybrid"
	case "remoto":
		return "remote"
	}
	return v
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
