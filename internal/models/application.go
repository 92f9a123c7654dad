package models

import (
	"bytes"
	"time"

	"gorm.io/datatypes"
)

type ApplicationStatus string

const (
	ApplicationAwaitingTests    ApplicationStatus = "aguardando_testes"
	ApplicationAnalysisComplete ApplicationStatus = "analise_completa"
)

const ApplicationOriginPlatform = "platform"

// StatusForTestResult derives an application's status from its effective
// test result.
func StatusForTestResult(testResult datatypes.JSON) ApplicationStatus {
	if IsNullJSON(testResult) {
		return ApplicationAwaitingTests
	}
	return ApplicationAnalysisComplete
}

// IsNullJSON treats an absent value and a JSON null literal alike.
func IsNullJSON(v datatypes.JSON) bool {
	t := bytes.TrimSpace(v)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

type Application struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CandidateID string `gorm:"column:candidate_id;type:uuid;not null;uniqueIndex:uniq_application_candidate_job,priority:1" json:"candidatoId"`
	JobID       string `gorm:"column:job_id;type:uuid;not null;uniqueIndex:uniq_application_candidate_job,priority:2;index" json:"vagaId"`

	CurriculumSnapshot datatypes.JSON    `gorm:"column:curriculum_snapshot;type:jsonb;not null" json:"curriculoSnapshot"`
	TestResult         datatypes.JSON    `gorm:"column:test_result;type:jsonb" json:"testeResultado"`
	Status             ApplicationStatus `gorm:"column:status;type:text;not null" json:"status"`
	Origin             string            `gorm:"column:origin;type:text;not null;default:platform" json:"origem"`

	AppliedAt time.Time `gorm:"column:data_candidatura;type:timestamptz;not null" json:"dataCandidatura"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updatedAt"`

	Candidate *Candidate `gorm:"foreignKey:CandidateID;references:ID" json:"candidato,omitempty"`
	Job       *Job       `gorm:"foreignKey:JobID;references:ID" json:"vaga,omitempty"`
}

func (Application) TableName() string { return "applications" }

// ApplicationListItem is an application joined with the candidate's current
// contact fields.
type ApplicationListItem struct {
	ID                 string            `gorm:"column:id" json:"id"`
	CandidateID        string            `gorm:"column:candidate_id" json:"candidatoId"`
	JobID              string            `gorm:"column:job_id" json:"vagaId"`
	CurriculumSnapshot datatypes.JSON    `gorm:"column:curriculum_snapshot" json:"curriculoSnapshot"`
	TestResult         datatypes.JSON    `gorm:"column:test_result" json:"testeResultado"`
	Status             ApplicationStatus `gorm:"column:status" json:"status"`
	Origin             string            `gorm:"column:origin" json:"origem"`
	AppliedAt          time.Time         `gorm:"column:applied_at" json:"dataCandidatura"`

	CandidateName      *string `gorm:"column:candidate_name" json:"candidatoNome"`
	CandidateEmail     string  `gorm:"column:candidate_email" json:"candidatoEmail"`
	CandidatePhone     *string `gorm:"column:candidate_phone" json:"candidatoTelefone"`
	CandidateCity      *string `gorm:"column:candidate_city" json:"candidatoCidade"`
	CandidateState     *string `gorm:"column:candidate_state" json:"candidatoEstado"`
	CandidateAvatarURL *string `gorm:"column:candidate_avatar_url" json:"candidatoFotoUrl"`
}
