package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type JobStatus string

const (
	JobDraft  JobStatus = "draft"
	JobActive JobStatus = "active"
	JobClosed JobStatus = "closed"

	// legacy values still present in older rows
	JobSyncing JobStatus = "syncing"
	JobError   JobStatus = "error"
)

type JobAction string

const (
	JobPublish JobAction = "publish"
	JobClose   JobAction = "close"
)

var (
	ErrInvalidTransition = errors.New("invalid job status transition")
	ErrJobNotEditable    = errors.New("only draft jobs can be edited")
)

var jobTransitions = map[JobStatus]map[JobAction]JobStatus{
	JobDraft: {
		JobPublish: JobActive,
		JobClose:   JobClosed,
	},
	JobActive: {
		JobPublish: JobActive,
		JobClose:   JobClosed,
	},
	JobClosed: {
		JobClose: JobClosed,
	},
}

// Canonical maps legacy statuses onto the draft state.
func (s JobStatus) Canonical() JobStatus {
	switch s {
	case JobSyncing, JobError, "":
		return JobDraft
	default:
		return s
	}
}

// Next returns the state reached by applying a to s.
func (s JobStatus) Next(a JobAction) (JobStatus, error) {
	from := s.Canonical()
	to, ok := jobTransitions[from][a]
	if !ok {
		return s, fmt.Errorf("%w: cannot %s a %s job", ErrInvalidTransition, a, from)
	}
	return to, nil
}

func (s JobStatus) Editable() bool { return s.Canonical() == JobDraft }

// Published reports whether a job in s has ever been published.
func (s JobStatus) Published() bool {
	c := s.Canonical()
	return c == JobActive || c == JobClosed
}

func (s JobStatus) Valid() bool {
	switch s {
	case JobDraft, JobActive, JobClosed, JobSyncing, JobError:
		return true
	}
	return false
}

const (
	RefTypeText = "text"
	RefTypeID   = "id"
)

const (
	ApplyExternal = "external"
	ApplyPlatform = "platform"
	ApplyLinkedIn = "linkedin"
)

type ApplyMethod struct {
	Type              string  `json:"type"`
	URL               *string `json:"url"`
	NotificationEmail *string `json:"notification_email"`
}

type ArchiveRule struct {
	Enabled          bool `json:"enabled"`
	SendNotification bool `json:"send_notification"`
}

type Recruiter struct {
	Project     string         `gorm:"column:project;type:text" json:"project"`
	ProjectType string         `gorm:"column:project_type;type:text" json:"project_type"`
	Functions   pq.StringArray `gorm:"column:functions;type:text[]" json:"functions"`
	Industries  pq.StringArray `gorm:"column:industries;type:text[]" json:"industries"`
	Seniority   string         `gorm:"column:seniority;type:text" json:"seniority"`
	ApplyMethod ApplyMethod    `gorm:"column:apply_method;type:jsonb;serializer:json" json:"apply_method"`

	ResumeRequired            bool        `gorm:"column:resume_required" json:"resume_required"`
	IncludePosterInfo         bool        `gorm:"column:include_poster_info" json:"include_poster_info"`
	AutoArchiveApplicants     ArchiveRule `gorm:"column:auto_archive_applicants;type:jsonb;serializer:json" json:"auto_archive_applicants"`
	AutoArchiveJob            ArchiveRule `gorm:"column:auto_archive_job;type:jsonb;serializer:json" json:"auto_archive_job"`
	SendRejectionNotification bool        `gorm:"column:send_rejection_notification" json:"send_rejection_notification"`
	TrackingPixelURL          *string     `gorm:"column:tracking_pixel_url;type:text" json:"tracking_pixel_url"`
	ExternalJobID             *string     `gorm:"column:external_job_id;type:text" json:"external_job_id"`
}

type NumericExpectation struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

type ScreeningQuestion struct {
	Question        string              `json:"question"`
	AnswerType      string              `json:"answer_type"`
	Numeric         *NumericExpectation `json:"numeric"`
	ExpectedChoices []string            `json:"expected_choices"`
	Required        bool                `json:"required"`
}

type RequiredTests struct {
	Behavioral bool `json:"behavioral"`
	Technical  bool `json:"technical"`
	Logical    bool `json:"logical"`
	Language   bool `json:"language"`
}

type JobConfig struct {
	RequiredTests  RequiredTests `json:"required_tests"`
	InterviewCount int           `json:"interview_count"`
	ActiveDays     int           `json:"active_days"`
}

type Job struct {
	ID             string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OwnerCompanyID *string `gorm:"column:owner_company_id;type:uuid;index" json:"owner_company_id"`

	Title       string `gorm:"column:title;type:text;not null" json:"title"`
	TitleType   string `gorm:"column:title_type;type:text" json:"title_type"`
	Company     string `gorm:"column:company;type:text;not null" json:"company"`
	CompanyType string `gorm:"column:company_type;type:text" json:"company_type"`
	Workplace   string `gorm:"column:workplace;type:text" json:"workplace"`
	Location    string `gorm:"column:location;type:text" json:"location"`
	Description string `gorm:"column:description;type:text" json:"description"`

	EmploymentType        *string                                `gorm:"column:employment_type;type:text" json:"employment_type"`
	AutoRejectionTemplate *string                                `gorm:"column:auto_rejection_template;type:text" json:"auto_rejection_template"`
	ScreeningQuestions    datatypes.JSONSlice[ScreeningQuestion] `gorm:"column:screening_questions;type:jsonb" json:"screening_questions"`
	Config                *JobConfig                             `gorm:"column:job_config;type:jsonb;serializer:json" json:"job_config"`

	Recruiter Recruiter `gorm:"embedded;embeddedPrefix:recruiter_" json:"recruiter"`

	Status      JobStatus  `gorm:"column:status;type:text;not null;default:draft;index" json:"status"`
	PublishedAt *time.Time `gorm:"column:published_at;type:timestamptz" json:"published_at"`
	ClosedAt    *time.Time `gorm:"column:closed_at;type:timestamptz" json:"closed_at"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Job) TableName() string { return "jobs" }

type JobFilter struct {
	Status         JobStatus
	OwnerCompanyID string
	Limit          int
}
