package unipile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status int
	Path   string
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("unipile %s: status %d: %s", e.Path, e.Status, e.Body)
}

// Temporary reports whether retrying may help.
func (e *APIError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusNotFound
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, http: hc}
}

func (c *Client) CreateHostedLink(ctx context.Context, req HostedLinkRequest) (string, error) {
	body := map[string]any{
		"type":                 "create",
		"providers":            []string{"LINKEDIN"},
		"api_url":              c.baseURL,
		"expiresOn":            req.ExpiresAt.UTC().Format("2006-01-02T15:04:05.000Z"),
		"name":                 req.Name,
		"success_redirect_url": req.SuccessRedirectURL,
		"failure_redirect_url": req.FailureRedirectURL,
		"notify_url":           req.NotifyURL,
	}
	var out struct {
		Object string `json:"object"`
		URL    string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/hosted/accounts/link", nil, body, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", errors.New("unipile: hosted link response without url")
	}
	return out.URL, nil
}

func (c *Client) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	var out Account
	if err := c.do(ctx, http.MethodGet, "/api/v1/accounts/"+url.PathEscape(accountID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetOwnProfile(ctx context.Context, accountID string) (*OwnProfile, error) {
	q := url.Values{"account_id": {accountID}}
	var out OwnProfile
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/me", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCompanyProfile(ctx context.Context, accountID, identifier string) (*CompanyProfile, error) {
	q := url.Values{"account_id": {accountID}}
	var out CompanyProfile
	if err := c.do(ctx, http.MethodGet, "/api/v1/linkedin/company/"+url.PathEscape(identifier), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAccount(ctx context.Context, accountID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/accounts/"+url.PathEscape(accountID), nil, nil, nil)
}

func (c *Client) SearchLocations(ctx context.Context, accountID, keywords string, limit int) ([]Location, error) {
	q := url.Values{
		"account_id": {accountID},
		"type":       {"LOCATION"},
	}
	if keywords = strings.TrimSpace(keywords); keywords != "" {
		q.Set("keywords", keywords)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out struct {
		Items []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/linkedin/search/parameters", q, nil, &out); err != nil {
		return nil, err
	}

	locs := make([]Location, 0, len(out.Items))
	for _, it := range out.Items {
		locs = append(locs, Location{ID: it.ID, Name: it.Title})
	}
	return locs, nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &APIError{Status: resp.StatusCode, Path: path, Body: strings.TrimSpace(string(b))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
