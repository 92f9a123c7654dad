package linkedin

import (
	"context"

	"golang.org/x/oauth2"
)

// Provider is the candidate-side personal OAuth bridge.
type Provider interface {
	AuthURL(state string) string
	ExchangeAuthorizationCode(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, tok *oauth2.Token) (*RawProfile, error)
}

type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type Position struct {
	Title        string `json:"title"`
	CompanyName  string `json:"companyName"`
	LocationName string `json:"locationName"`
	Description  string `json:"description"`
	StartDate    *Date  `json:"startDate"`
	EndDate      *Date  `json:"endDate"`
}

type Education struct {
	SchoolName   string `json:"schoolName"`
	DegreeName   string `json:"degreeName"`
	FieldOfStudy string `json:"fieldOfStudy"`
	StartDate    *Date  `json:"startDate"`
	EndDate      *Date  `json:"endDate"`
}

type Skill struct {
	Name string `json:"name"`
}

// RawProfile is what the identity provider returned for the signed-in member.
// Positions, educations and skills come from the extended profile, which is
// best effort and often empty.
type RawProfile struct {
	Subject    string
	Email      string
	Name       string
	GivenName  string
	FamilyName string
	Picture    string
	Locale     string
	VanityName string
	Headline   string
	Location   string

	Positions  []Position
	Educations []Education
	Skills     []Skill
}
