package jobintake

import (
	"strings"

	"github.com/lib/pq"
	"github.com/recrutai/platform/internal/models"
)

// Normalize converts a validated payload into storage shape. Identity,
// ownership and status are left to the caller.
func Normalize(p *Payload) *models.Job {
	r := p.Recruiter
	if r == nil {
		r = &RecruiterPayload{}
	}

	job := &models.Job{
		Title:       strings.TrimSpace(p.Title.Value),
		TitleType:   p.Title.Type(),
		Company:     strings.TrimSpace(p.Company.Value),
		CompanyType: p.Company.Type(),
		Workplace:   normWorkplace(p.Workplace),
		Location:    strings.TrimSpace(p.Location),
		Description: strings.TrimSpace(p.Description),

		EmploymentType:        optString(p.EmploymentType),
		AutoRejectionTemplate: optString(p.AutoRejectionTemplate),
		ScreeningQuestions:    normalizeQuestions(p.ScreeningQuestions),

		Recruiter: models.Recruiter{
			Project:     strings.TrimSpace(r.Project.Value),
			ProjectType: r.Project.Type(),
			Functions:   pq.StringArray(nonBlank(r.Functions)),
			Industries:  pq.StringArray(nonBlank(r.Industries)),
			Seniority:   strings.TrimSpace(r.Seniority),
			ApplyMethod: normalizeApplyMethod(r.ApplyMethod),

			ResumeRequired:            boolOr(r.ResumeRequired, true),
			IncludePosterInfo:         boolOr(r.IncludePosterInfo, true),
			AutoArchiveApplicants:     normalizeArchive(r.AutoArchiveApplicants),
			AutoArchiveJob:            normalizeArchive(r.AutoArchiveJob),
			SendRejectionNotification: boolOr(r.SendRejectionNotification, true),
			TrackingPixelURL:          optString(r.TrackingPixelURL),
			ExternalJobID:             optString(r.ExternalJobID),
		},
	}

	if c := p.JobConfig; c != nil {
		job.Config = &models.JobConfig{
			RequiredTests:  c.RequiredTests,
			InterviewCount: c.InterviewCount,
			ActiveDays:     c.ActiveDays,
		}
	}
	return job
}

func normalizeApplyMethod(m *ApplyMethodPayload) models.ApplyMethod {
	if m == nil {
		return models.ApplyMethod{}
	}
	out := models.ApplyMethod{Type: applyType(m)}
	switch out.Type {
	case models.ApplyExternal:
		out.URL = optString(m.URL)
	default:
		out.NotificationEmail = optString(m.NotificationEmail)
	}
	return out
}

func normalizeArchive(a *ArchiveRulePayload) models.ArchiveRule {
	if a == nil {
		return models.ArchiveRule{Enabled: true, SendNotification: true}
	}
	return models.ArchiveRule{
		Enabled:          boolOr(a.Enabled, true),
		SendNotification: boolOr(a.SendNotification, true),
	}
}

func normalizeQuestions(in []models.ScreeningQuestion) []models.ScreeningQuestion {
	out := make([]models.ScreeningQuestion, 0, len(in))
	for _, q := range in {
		q.Question = strings.TrimSpace(q.Question)
		q.AnswerType = strings.TrimSpace(q.AnswerType)
		if q.ExpectedChoices == nil {
			q.ExpectedChoices = []string{}
		}
		out = append(out, q)
	}
	return out
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// optString maps absent and blank values to nil.
func optString(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
