package linkedin

import (
	"fmt"
	"strings"

	"github.com/recrutai/platform/internal/models"
)

const profileBaseURL = "https://www.linkedin.com/in/"

// MapToResume converts a raw profile into the résumé shape. Fields the
// provider did not return stay nil so they never overwrite stored data.
func MapToResume(p *RawProfile) models.ResumeFields {
	if p == nil {
		return models.ResumeFields{}
	}

	out := models.ResumeFields{
		Name:       nonEmpty(displayName(p)),
		Email:      nonEmpty(strings.ToLower(strings.TrimSpace(p.Email))),
		AvatarURL:  nonEmpty(p.Picture),
		ProfileURL: nonEmpty(ProfileURL(p.VanityName)),
		Objective:  nonEmpty(p.Headline),

		Experiences:    []models.Experience{},
		Educations:     []models.Education{},
		Skills:         []models.Skill{},
		Languages:      []models.Language{},
		Certifications: []models.Certification{},
	}
	out.City, out.State = splitLocation(p.Location)

	for _, pos := range p.Positions {
		out.Experiences = append(out.Experiences, models.Experience{
			Title:       strings.TrimSpace(pos.Title),
			Company:     strings.TrimSpace(pos.CompanyName),
			Location:    strings.TrimSpace(pos.LocationName),
			StartDate:   formatDate(pos.StartDate),
			EndDate:     formatDate(pos.EndDate),
			Current:     pos.EndDate == nil,
			Description: strings.TrimSpace(pos.Description),
		})
	}
	for _, ed := range p.Educations {
		degree := strings.TrimSpace(ed.DegreeName)
		if f := strings.TrimSpace(ed.FieldOfStudy); f != "" {
			if degree != "" {
				degree += " - " + f
			} else {
				degree = f
			}
		}
		out.Educations = append(out.Educations, models.Education{
			Institution: strings.TrimSpace(ed.SchoolName),
			Degree:      degree,
			StartDate:   formatDate(ed.StartDate),
			EndDate:     formatDate(ed.EndDate),
		})
	}
	for _, s := range p.Skills {
		if name := strings.TrimSpace(s.Name); name != "" {
			out.Skills = append(out.Skills, models.Skill{Name: name})
		}
	}
	return out
}

// ExternalProfile extracts the personal fields used at login.
func ExternalProfile(p *RawProfile) models.ExternalProfile {
	r := MapToResume(p)
	return models.ExternalProfile{
		ExternalID: nonEmpty(p.Subject),
		Email:      r.Email,
		Name:       r.Name,
		AvatarURL:  r.AvatarURL,
		ProfileURL: r.ProfileURL,
		City:       r.City,
		State:      r.State,
	}
}

func ProfileURL(vanity string) string {
	vanity = strings.TrimSpace(vanity)
	if vanity == "" {
		return ""
	}
	return profileBaseURL + vanity
}

func displayName(p *RawProfile) string {
	if n := strings.TrimSpace(p.Name); n != "" {
		return n
	}
	return strings.TrimSpace(strings.TrimSpace(p.GivenName) + " " + strings.TrimSpace(p.FamilyName))
}

// splitLocation reads "City, State[, Country]".
func splitLocation(loc string) (*string, *string) {
	parts := strings.Split(loc, ",")
	var city, state string
	if len(parts) > 0 {
		city = strings.TrimSpace(parts[0])
	}
	if len(parts) > 1 {
		state = strings.TrimSpace(parts[1])
	}
	return nonEmpty(city), nonEmpty(state)
}

func formatDate(d *Date) string {
	if d == nil || d.Year == 0 {
		return ""
	}
	if d.Month == 0 {
		return fmt.Sprintf("%04d", d.Year)
	}
	return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
