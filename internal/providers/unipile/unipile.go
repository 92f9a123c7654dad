package unipile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Provider is the hosted-auth and LinkedIn automation API used on the
// company side.
type Provider interface {
	CreateHostedLink(ctx context.Context, req HostedLinkRequest) (string, error)
	GetAccount(ctx context.Context, accountID string) (*Account, error)
	GetOwnProfile(ctx context.Context, accountID string) (*OwnProfile, error)
	GetCompanyProfile(ctx context.Context, accountID, identifier string) (*CompanyProfile, error)
	DeleteAccount(ctx context.Context, accountID string) error
	SearchLocations(ctx context.Context, accountID, keywords string, limit int) ([]Location, error)
}

type HostedLinkRequest struct {
	// Name is echoed back on the webhook and used to correlate the account.
	Name               string
	ExpiresAt          time.Time
	SuccessRedirectURL string
	FailureRedirectURL string
	NotifyURL          string
}

type Account struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
	Sources   []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"sources"`
	ConnectionParams struct {
		IM struct {
			ID               string `json:"id"`
			Username         string `json:"username"`
			PublicIdentifier string `json:"publicIdentifier"`
		} `json:"im"`
	} `json:"connection_params"`
}

// Organization is a company page the connected member administers.
type Organization struct {
	Name             string `json:"name"`
	OrganizationURN  string `json:"organization_urn"`
	MailboxURN       string `json:"mailbox_urn"`
	MessagingEnabled bool   `json:"messaging_enabled"`
}

// NumericID extracts the trailing numeric id from a URN such as
// "urn:li:fsd_company:12345". It returns "" when there is none.
func (o Organization) NumericID() string {
	urn := strings.TrimSpace(o.OrganizationURN)
	i := strings.LastIndex(urn, ":")
	id := urn[i+1:]
	if id == "" {
		return ""
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return id
}

type OwnProfile struct {
	ProviderID        string         `json:"provider_id"`
	FirstName         string         `json:"first_name"`
	LastName          string         `json:"last_name"`
	Headline          string         `json:"headline"`
	Location          string         `json:"location"`
	ProfilePictureURL string         `json:"profile_picture_url"`
	PublicIdentifier  string         `json:"public_identifier"`
	Organizations     []Organization `json:"organizations"`
}

type CompanyProfile struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	Tagline            string          `json:"tagline"`
	Website            string          `json:"website"`
	Industry           json.RawMessage `json:"industry"`
	ProfileURL         string          `json:"profile_url"`
	PublicIdentifier   string          `json:"public_identifier"`
	Logo               string          `json:"logo"`
	EmployeeCountRange *struct {
		From int `json:"from"`
		To   int `json:"to"`
	} `json:"employee_count_range"`
	Locations []struct {
		City      string `json:"city"`
		Area      string `json:"area"`
		Country   string `json:"country"`
		IsPrimary bool   `json:"is_headquarter"`
	} `json:"locations"`
}

// IndustryName handles both the string and the list forms of "industry".
func (p *CompanyProfile) IndustryName() string {
	if len(p.Industry) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(p.Industry, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if err := json.Unmarshal(p.Industry, &list); err == nil && len(list) > 0 {
		return strings.TrimSpace(list[0])
	}
	return ""
}

// SizeBracket renders the employee range as "11-50" or "10001+".
func (p *CompanyProfile) SizeBracket() string {
	r := p.EmployeeCountRange
	if r == nil || (r.From == 0 && r.To == 0) {
		return ""
	}
	if r.To == 0 {
		return fmt.Sprintf("%d+", r.From)
	}
	return fmt.Sprintf("%d-%d", r.From, r.To)
}

// HeadquarterLocation returns "City, Area" of the primary location.
func (p *CompanyProfile) HeadquarterLocation() string {
	if len(p.Locations) == 0 {
		return ""
	}
	loc := p.Locations[0]
	for _, l := range p.Locations {
		if l.IsPrimary {
			loc = l
			break
		}
	}
	var parts []string
	for _, s := range []string{loc.City, loc.Area} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WebhookEvent is the account status notification posted to notify_url.
type WebhookEvent struct {
	Status    string `json:"status"`
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
}

const (
	StatusCreationSuccess = "CREATION_SUCCESS"
	StatusReconnected     = "RECONNECTED"
)

func (e WebhookEvent) Succeeded() bool {
	switch strings.ToUpper(e.Status) {
	case StatusCreationSuccess, StatusReconnected:
		return true
	}
	return false
}
