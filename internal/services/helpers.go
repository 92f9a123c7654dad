package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/recrutai/platform/internal/models"
)

// validID reports whether id can name a stored row. Malformed ids are
// answered as not found instead of reaching the uuid columns.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func normEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normEmailPtr(s *string) *string {
	if s == nil {
		return nil
	}
	e := normEmail(*s)
	if e == "" {
		return nil
	}
	return &e
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// trimPtr trims v and maps blank values to nil.
func trimPtr(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

// ownsJob is stricter than ownedBy: an ownerless job belongs to no one.
func ownsJob(j *models.Job, companyID string) bool {
	return companyID != "" && j.OwnerCompanyID != nil && *j.OwnerCompanyID == companyID
}

func ownedBy(owner *string, companyID string) bool {
	return owner == nil || *owner == companyID
}
