package unipile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-KEY") != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "key", srv.Client())
}

func TestClient_CreateHostedLink(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/hosted/accounts/link", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"object":"HostedAuthURL","url":"https://account.unipile.test/abc"}`))
	})

	exp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	u, err := c.CreateHostedLink(context.Background(), HostedLinkRequest{
		Name:               "connect-token",
		ExpiresAt:          exp,
		SuccessRedirectURL: "https://app.test/ok",
		FailureRedirectURL: "https://app.test/fail",
		NotifyURL:          "https://api.test/company/external/webhook",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://account.unipile.test/abc", u)

	assert.Equal(t, "create", got["type"])
	assert.Equal(t, "connect-token", got["name"])
	assert.Equal(t, "2026-01-02T03:04:05.000Z", got["expiresOn"])
	assert.Equal(t, []any{"LINKEDIN"}, got["providers"])
}

func TestClient_GetOwnProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/me", r.URL.Path)
		assert.Equal(t, "acc-1", r.URL.Query().Get("account_id"))
		_, _ = w.Write([]byte(`{
			"provider_id": "p1", "first_name": "Ana", "last_name": "Souza",
			"headline": "HR at Acme", "location": "Recife",
			"organizations": [{"name": "Acme", "organization_urn": "urn:li:fsd_company:98765"}]
		}`))
	})

	p, err := c.GetOwnProfile(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "HR at Acme", p.Headline)
	require.Len(t, p.Organizations, 1)
	assert.Equal(t, "98765", p.Organizations[0].NumericID())
}

func TestClient_GetCompanyProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/linkedin/company/98765", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id": "98765", "name": "Acme", "website": "https://acme.test",
			"industry": ["Software Development"],
			"employee_count_range": {"from": 51, "to": 200},
			"locations": [{"city": "Olinda", "area": "PE"}, {"city": "Recife", "area": "PE", "is_headquarter": true}]
		}`))
	})

	p, err := c.GetCompanyProfile(context.Background(), "acc-1", "98765")
	require.NoError(t, err)
	assert.Equal(t, "Software Development", p.IndustryName())
	assert.Equal(t, "51-200", p.SizeBracket())
	assert.Equal(t, "Recife, PE", p.HeadquarterLocation())
}

func TestClient_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"title":"not found"}`))
	})

	_, err := c.GetAccount(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.False(t, ae.Temporary())
}

func TestClient_SearchLocations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "LOCATION", q.Get("type"))
		assert.Equal(t, "sao paulo", q.Get("keywords"))
		assert.Equal(t, "10", q.Get("limit"))
		_, _ = w.Write([]byte(`{"items":[{"id":"105871508","title":"São Paulo, Brazil"}]}`))
	})

	locs, err := c.SearchLocations(context.Background(), "acc-1", " sao paulo ", 10)
	require.NoError(t, err)
	assert.Equal(t, []Location{{ID: "105871508", Name: "São Paulo, Brazil"}}, locs)
}

func TestClient_DeleteAccount(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/accounts/acc-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"object":"AccountDeleted"}`))
	})

	require.NoError(t, c.DeleteAccount(context.Background(), "acc-1"))
	assert.True(t, called)
}

func TestOrganization_NumericID(t *testing.T) {
	assert.Equal(t, "123", Organization{OrganizationURN: "urn:li:organization:123"}.NumericID())
	assert.Equal(t, "", Organization{OrganizationURN: "urn:li:organization:acme"}.NumericID())
	assert.Equal(t, "", Organization{}.NumericID())
	assert.Equal(t, "42", Organization{OrganizationURN: "42"}.NumericID())
}

func TestWebhookEvent_Succeeded(t *testing.T) {
	assert.True(t, WebhookEvent{Status: "CREATION_SUCCESS"}.Succeeded())
	assert.True(t, WebhookEvent{Status: "reconnected"}.Succeeded())
	assert.False(t, WebhookEvent{Status: "CREDENTIALS"}.Succeeded())
}
