package jobintake

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/recrutai/platform/internal/models"
)

// TextOrID is a field that accepts either free text or a catalog reference.
// A JSON string decodes as text; a number or an object carrying "id" decodes
// as a reference.
type TextOrID struct {
	Value string
	Label string
	IsID  bool
}

func (v *TextOrID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*v = TextOrID{}
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = TextOrID{Value: s}
		return nil
	case '{':
		var obj struct {
			ID   json.RawMessage `json:"id"`
			Text string          `json:"text"`
			Name string          `json:"name"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		label := obj.Text
		if label == "" {
			label = obj.Name
		}
		id := rawScalar(obj.ID)
		if id == "" {
			*v = TextOrID{Value: label}
			return nil
		}
		*v = TextOrID{Value: id, Label: label, IsID: true}
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("expected text or reference, got %s", b)
		}
		*v = TextOrID{Value: n.String(), IsID: true}
		return nil
	}
}

func (v TextOrID) MarshalJSON() ([]byte, error) {
	if v.IsID {
		return json.Marshal(map[string]string{"id": v.Value, "text": v.Label})
	}
	return json.Marshal(v.Value)
}

func (v TextOrID) Empty() bool { return strings.TrimSpace(v.Value) == "" }

// Type reports which form was supplied, for the sibling *_type column.
func (v TextOrID) Type() string {
	if v.IsID {
		return models.RefTypeID
	}
	return models.RefTypeText
}

func rawScalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

type ApplyMethodPayload struct {
	Type              string  `json:"type"`
	URL               *string `json:"url"`
	NotificationEmail *string `json:"notification_email"`
}

type ArchiveRulePayload struct {
	Enabled          *bool `json:"enabled"`
	SendNotification *bool `json:"send_notification"`
}

type RecruiterPayload struct {
	Project     TextOrID            `json:"project"`
	Functions   []string            `json:"functions"`
	Industries  []string            `json:"industries"`
	Seniority   string              `json:"seniority"`
	ApplyMethod *ApplyMethodPayload `json:"apply_method"`

	ResumeRequired            *bool               `json:"resume_required"`
	IncludePosterInfo         *bool               `json:"include_poster_info"`
	AutoArchiveApplicants     *ArchiveRulePayload `json:"auto_archive_applicants"`
	AutoArchiveJob            *ArchiveRulePayload `json:"auto_archive_job"`
	SendRejectionNotification *bool               `json:"send_rejection_notification"`
	TrackingPixelURL          *string             `json:"tracking_pixel_url"`
	ExternalJobID             *string             `json:"external_job_id"`
}

type JobConfigPayload struct {
	RequiredTests  models.RequiredTests `json:"required_tests"`
	InterviewCount int                  `json:"interview_count"`
	ActiveDays     int                  `json:"active_days"`
}

// Payload is the job posting body accepted by POST /jobs and PUT /jobs/:id.
type Payload struct {
	Title       TextOrID `json:"title"`
	Company     TextOrID `json:"company"`
	Workplace   string   `json:"workplace"`
	Location    string   `json:"location"`
	Description string   `json:"description"`

	Recruiter *RecruiterPayload `json:"recruiter"`

	EmploymentType        *string                    `json:"employment_type"`
	AutoRejectionTemplate *string                    `json:"auto_rejection_template"`
	ScreeningQuestions    []models.ScreeningQuestion `json:"screening_questions"`
	JobConfig             *JobConfigPayload          `json:"job_config"`
}
