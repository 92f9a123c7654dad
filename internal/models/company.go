package models

import "time"

type Company struct {
	ID           string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email        *string `gorm:"column:email;type:text;uniqueIndex:uniq_company_email" json:"email"`
	CNPJ         *string `gorm:"column:cnpj;type:text;uniqueIndex:uniq_company_cnpj" json:"cnpj"` // digits only
	PasswordHash string  `gorm:"column:password_hash;type:text" json:"-"`

	Name        string  `gorm:"column:name;type:text" json:"nome"`
	Phone       *string `gorm:"column:phone;type:text" json:"telefone"`
	Sector      *string `gorm:"column:sector;type:text" json:"setor"`
	Size        *string `gorm:"column:size;type:text" json:"porte"`
	Website     *string `gorm:"column:website;type:text" json:"website"`
	Location    *string `gorm:"column:location;type:text" json:"localizacao"`
	Description *string `gorm:"column:description;type:text" json:"descricao"`
	LogoURL     *string `gorm:"column:logo_url;type:text" json:"logoUrl"`
	Headline    *string `gorm:"column:headline;type:text" json:"headline"`

	ExternalAccountID   *string    `gorm:"column:external_account_id;type:text;uniqueIndex:uniq_company_external_account" json:"linkedinAccountId"`
	ExternalConnected   bool       `gorm:"column:external_connected;not null;default:false" json:"linkedinConnected"`
	ExternalConnectedAt *time.Time `gorm:"column:external_connected_at;type:timestamptz" json:"linkedinConnectedAt"`
	ExternalPageURL     *string    `gorm:"column:external_page_url;type:text" json:"linkedinPageUrl"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updatedAt"`
}

func (Company) TableName() string { return "companies" }

// CompanyEnrichment is a partial company profile produced by one enrichment
// strategy. Nil fields mean "no data from this strategy".
type CompanyEnrichment struct {
	Name        *string
	AvatarURL   *string
	Headline    *string
	Location    *string
	Description *string
	Website     *string
	Sector      *string
	Size        *string
	PageURL     *string

	// Organization references discovered while enriching; later strategies
	// use them to deep-fetch the organization page.
	Organizations []OrganizationRef
}

type OrganizationRef struct {
	Name string `json:"name"`
	URN  string `json:"urn"`
	ID   string `json:"id"`
}

// Merge applies other over e, last non-nil value wins per field.
func (e *CompanyEnrichment) Merge(other *CompanyEnrichment) {
	if other == nil {
		return
	}
	pick := func(dst **string, src *string) {
		if src != nil && *src != "" {
			*dst = src
		}
	}
	pick(&e.Name, other.Name)
	pick(&e.AvatarURL, other.AvatarURL)
	pick(&e.Headline, other.Headline)
	pick(&e.Location, other.Location)
	pick(&e.Description, other.Description)
	pick(&e.Website, other.Website)
	pick(&e.Sector, other.Sector)
	pick(&e.Size, other.Size)
	pick(&e.PageURL, other.PageURL)
	if len(other.Organizations) > 0 {
		e.Organizations = other.Organizations
	}
}

// ExternalLinkStatus is the hosted-auth connection state reported to the UI.
type ExternalLinkStatus struct {
	CompanyID   string     `json:"companyId"`
	Connected   bool       `json:"connected"`
	AccountID   *string    `json:"accountId,omitempty"`
	ConnectedAt *time.Time `json:"connectedAt,omitempty"`
	Enriched    bool       `json:"enriched"`
}
