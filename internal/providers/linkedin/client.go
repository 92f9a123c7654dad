package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"
)

const defaultAPIBase = "https://api.linkedin.com"

var DefaultScopes = []string{"openid", "profile", "email"}

type Client struct {
	cfg     *oauth2.Config
	apiBase string
}

type Option func(*Client)

// WithEndpoint overrides the OAuth endpoints. Used by tests.
func WithEndpoint(ep oauth2.Endpoint) Option {
	return func(c *Client) { c.cfg.Endpoint = ep }
}

func WithAPIBase(base string) Option {
	return func(c *Client) { c.apiBase = strings.TrimRight(base, "/") }
}

func New(clientID, clientSecret, redirectURL string, opts ...Option) *Client {
	c := &Client{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       DefaultScopes,
			Endpoint:     linkedin.Endpoint,
		},
		apiBase: defaultAPIBase,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) AuthURL(state string) string {
	return c.cfg.AuthCodeURL(state)
}

func (c *Client) ExchangeAuthorizationCode(ctx context.Context, code string) (*oauth2.Token, error) {
	if strings.TrimSpace(code) == "" {
		return nil, errors.New("authorization code is empty")
	}
	return c.cfg.Exchange(ctx, code)
}

type userInfo struct {
	Sub        string `json:"sub"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
	Locale     any    `json:"locale"`
}

type extendedProfile struct {
	VanityName        string      `json:"vanityName"`
	LocalizedHeadline string      `json:"localizedHeadline"`
	LocationName      string      `json:"locationName"`
	Positions         []Position  `json:"positions"`
	Educations        []Education `json:"educations"`
	Skills            []Skill     `json:"skills"`
}

// FetchProfile reads the OpenID userinfo document, then tries the extended
// profile. Only the userinfo call is required to succeed.
func (c *Client) FetchProfile(ctx context.Context, tok *oauth2.Token) (*RawProfile, error) {
	hc := c.cfg.Client(ctx, tok)

	var ui userInfo
	if err := c.getJSON(ctx, hc, "/v2/userinfo", &ui); err != nil {
		return nil, fmt.Errorf("userinfo: %w", err)
	}
	if ui.Sub == "" {
		return nil, errors.New("userinfo: missing subject")
	}

	p := &RawProfile{
		Subject:    ui.Sub,
		Email:      ui.Email,
		Name:       ui.Name,
		GivenName:  ui.GivenName,
		FamilyName: ui.FamilyName,
		Picture:    ui.Picture,
		Locale:     localeString(ui.Locale),
	}

	var ext extendedProfile
	if err := c.getJSON(ctx, hc, "/v2/me", &ext); err == nil {
		p.VanityName = ext.VanityName
		p.Headline = ext.LocalizedHeadline
		p.Location = ext.LocationName
		p.Positions = ext.Positions
		p.Educations = ext.Educations
		p.Skills = ext.Skills
	}
	return p, nil
}

func (c *Client) getJSON(ctx context.Context, hc *http.Client, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("linkedin %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// locale arrives either as "pt_BR" or as {"country":"BR","language":"pt"}.
func localeString(v any) string {
	switch l := v.(type) {
	case string:
		return l
	case map[string]any:
		lang, _ := l["language"].(string)
		country, _ := l["country"].(string)
		if lang != "" && country != "" {
			return lang + "_" + country
		}
		return lang + country
	}
	return ""
}
