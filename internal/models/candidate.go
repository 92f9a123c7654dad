package models

import (
	"time"

	"gorm.io/datatypes"
)

type Experience struct {
	Title       string `json:"cargo"`
	Company     string `json:"empresa"`
	Location    string `json:"local,omitempty"`
	StartDate   string `json:"dataInicio,omitempty"`
	EndDate     string `json:"dataFim,omitempty"`
	Current     bool   `json:"atual"`
	Description string `json:"descricao,omitempty"`
}

type Education struct {
	Institution string `json:"instituicao"`
	Degree      string `json:"curso"`
	Level       string `json:"nivel,omitempty"`
	StartDate   string `json:"dataInicio,omitempty"`
	EndDate     string `json:"dataFim,omitempty"`
	Status      string `json:"status,omitempty"`
}

type Skill struct {
	Name  string `json:"nome"`
	Level string `json:"nivel,omitempty"`
}

type Language struct {
	Name        string `json:"idioma"`
	Proficiency string `json:"nivel,omitempty"`
}

type Certification struct {
	Name          string `json:"nome"`
	Issuer        string `json:"instituicao,omitempty"`
	IssuedAt      string `json:"dataEmissao,omitempty"`
	CredentialURL string `json:"url,omitempty"`
}

// BehavioralTest is one entry of a candidate's append-only test history.
type BehavioralTest struct {
	ID              string         `json:"id"`
	Answers         datatypes.JSON `json:"respostas"`
	Result          datatypes.JSON `json:"resultado"`
	DominantProfile string         `json:"perfilDominante"`
	TotalScore      float64        `json:"pontuacaoTotal"`
	DurationSeconds int            `json:"tempoTesteSegundos"`
	CreatedAt       time.Time      `json:"dataRealizacao"`
}

type Candidate struct {
	ID         string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ExternalID *string `gorm:"column:external_id;type:text;uniqueIndex:uniq_candidate_external_id" json:"externalId,omitempty"`
	Email      string  `gorm:"column:email;type:text;not null;uniqueIndex:uniq_candidate_email" json:"email"`

	Name       *string `gorm:"column:name;type:text" json:"nome"`
	Phone      *string `gorm:"column:phone;type:text" json:"telefone"`
	City       *string `gorm:"column:city;type:text" json:"cidade"`
	State      *string `gorm:"column:state;type:text" json:"estado"`
	ProfileURL *string `gorm:"column:profile_url;type:text" json:"linkedinUrl"`
	AvatarURL  *string `gorm:"column:avatar_url;type:text" json:"fotoUrl"`
	Objective  *string `gorm:"column:objective;type:text" json:"objetivo"`

	Experiences    datatypes.JSONSlice[Experience]    `gorm:"column:experiences;type:jsonb" json:"experiencias"`
	Educations     datatypes.JSONSlice[Education]     `gorm:"column:educations;type:jsonb" json:"formacoes"`
	Skills         datatypes.JSONSlice[Skill]         `gorm:"column:skills;type:jsonb" json:"habilidades"`
	Languages      datatypes.JSONSlice[Language]      `gorm:"column:languages;type:jsonb" json:"idiomas"`
	Certifications datatypes.JSONSlice[Certification] `gorm:"column:certifications;type:jsonb" json:"certificacoes"`

	BehavioralTests datatypes.JSONSlice[BehavioralTest] `gorm:"column:behavioral_tests;type:jsonb" json:"-"`

	ProfileComplete bool       `gorm:"column:profile_complete;not null;default:false" json:"perfilCompleto"`
	ResumeSavedAt   *time.Time `gorm:"column:resume_saved_at;type:timestamptz" json:"curriculoSalvoEm,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updatedAt"`
}

func (Candidate) TableName() string { return "candidates" }

// LatestBehavioralTest returns the last appended test, or false when none.
func (c *Candidate) LatestBehavioralTest() (BehavioralTest, bool) {
	if c == nil || len(c.BehavioralTests) == 0 {
		return BehavioralTest{}, false
	}
	return c.BehavioralTests[len(c.BehavioralTests)-1], true
}

// ResumeFields is the résumé shape accepted by the save endpoint and
// produced by the external identity mapping.
type ResumeFields struct {
	Name       *string `json:"nome"`
	Email      *string `json:"email"`
	Phone      *string `json:"telefone"`
	City       *string `json:"cidade"`
	State      *string `json:"estado"`
	ProfileURL *string `json:"linkedinUrl"`
	AvatarURL  *string `json:"fotoUrl"`
	Objective  *string `json:"objetivo"`

	Experiences    []Experience    `json:"experiencias"`
	Educations     []Education     `json:"formacoes"`
	Skills         []Skill         `json:"habilidades"`
	Languages      []Language      `json:"idiomas"`
	Certifications []Certification `json:"certificacoes"`
}

// ExternalProfile is the personal data captured at external-identity login.
// Nil fields never overwrite stored values.
type ExternalProfile struct {
	ExternalID *string
	Email      *string
	Name       *string
	AvatarURL  *string
	ProfileURL *string
	City       *string
	State      *string
}
