package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

type ProfileCompletePolicy string

const (
	// ProfileCompleteOnSubmission flags a profile complete on any résumé save.
	ProfileCompleteOnSubmission ProfileCompletePolicy = "submission"
	// ProfileCompleteOnValidity requires at least one experience and one
	// education entry.
	ProfileCompleteOnValidity ProfileCompletePolicy = "validity"
)

type Settings struct {
	Port string

	JWTSecret     string
	JWTIssuer     string
	JWTTTL        time.Duration
	SessionSecret string

	AllowedOrigins       []string
	CandidateFrontendURL string
	CompanyFrontendURL   string
	PublicAPIURL         string

	LinkedInClientID     string
	LinkedInClientSecret string
	LinkedInRedirectURI  string

	UnipileAPIURL string
	UnipileAPIKey string
	// UnipileDefaultAccountID serves catalog lookups for callers without a
	// connected account.
	UnipileDefaultAccountID string

	GCSBucket    string
	GCSPublicACL bool

	ProfileCompletePolicy ProfileCompletePolicy
	CatalogTimeout        time.Duration
	HostedLinkTTL         time.Duration
	OAuthStateTTL         time.Duration
	EventLogTTL           time.Duration
}

// LoadSettings reads application settings from the environment. Call
// godotenv.Load beforehand to pick up a local .env file.
func LoadSettings() (*Settings, error) {
	s := &Settings{
		Port:          envOr("PORT", "8080"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTIssuer:     envOr("JWT_ISSUER", "recrutai"),
		SessionSecret: os.Getenv("SESSION_SECRET"),

		AllowedOrigins:       splitList(os.Getenv("ALLOWED_ORIGINS")),
		CandidateFrontendURL: strings.TrimRight(os.Getenv("CANDIDATE_FRONTEND_URL"), "/"),
		CompanyFrontendURL:   strings.TrimRight(os.Getenv("COMPANY_FRONTEND_URL"), "/"),
		PublicAPIURL:         strings.TrimRight(os.Getenv("PUBLIC_API_URL"), "/"),

		LinkedInClientID:     os.Getenv("LINKEDIN_CLIENT_ID"),
		LinkedInClientSecret: os.Getenv("LINKEDIN_CLIENT_SECRET"),
		LinkedInRedirectURI:  os.Getenv("LINKEDIN_REDIRECT_URI"),

		UnipileAPIURL:           strings.TrimRight(os.Getenv("UNIPILE_API_URL"), "/"),
		UnipileAPIKey:           os.Getenv("UNIPILE_API_KEY"),
		UnipileDefaultAccountID: os.Getenv("UNIPILE_DEFAULT_ACCOUNT_ID"),

		GCSBucket:    os.Getenv("GCS_BUCKET"),
		GCSPublicACL: strings.EqualFold(os.Getenv("GCS_PUBLIC_ACL"), "true"),

		ProfileCompletePolicy: ProfileCompletePolicy(strings.ToLower(envOr("PROFILE_COMPLETE_POLICY", string(ProfileCompleteOnSubmission)))),
	}

	var err error
	if s.JWTTTL, err = durationOr("JWT_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if s.CatalogTimeout, err = durationOr("CATALOG_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if s.HostedLinkTTL, err = durationOr("HOSTED_LINK_TTL", time.Hour); err != nil {
		return nil, err
	}
	if s.OAuthStateTTL, err = durationOr("OAUTH_STATE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if s.EventLogTTL, err = durationOr("EVENT_LOG_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) validate() error {
	var errs []error
	if s.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET environment variable is not set"))
	}
	switch s.ProfileCompletePolicy {
	case ProfileCompleteOnSubmission, ProfileCompleteOnValidity:
	default:
		errs = append(errs, fmt.Errorf("PROFILE_COMPLETE_POLICY must be %q or %q, got %q",
			ProfileCompleteOnSubmission, ProfileCompleteOnValidity, s.ProfileCompletePolicy))
	}
	if s.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// LinkedInEnabled reports whether the candidate OAuth flow is configured.
func (s *Settings) LinkedInEnabled() bool {
	return s.LinkedInClientID != "" && s.LinkedInClientSecret != "" && s.LinkedInRedirectURI != ""
}

func (s *Settings) UnipileEnabled() bool {
	return s.UnipileAPIURL != "" && s.UnipileAPIKey != ""
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func durationOr(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
