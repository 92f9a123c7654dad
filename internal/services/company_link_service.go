package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/recrutai/platform/internal/auth"
	"github.com/recrutai/platform/internal/models"
	"github.com/recrutai/platform/internal/providers/unipile"
	mongorepo "github.com/recrutai/platform/internal/repositories/mongo"
	pgrepo "github.com/recrutai/platform/internal/repositories/postgres"
	"github.com/recrutai/platform/internal/utils"
	"github.com/sirupsen/logrus"
)

const (
	EventSourceWebhook  = "webhook"
	EventSourceCallback = "callback"
)

const accountLinkedMessage = "external account already linked to another company"

type LinkConfig struct {
	CompanyFrontendURL string
	PublicAPIURL       string
	LinkTTL            time.Duration
	// WebhookSecret, when set, is appended to the notify URL and must be
	// echoed back by the provider.
	WebhookSecret string
	// AccountRetryWindow bounds the retries of the account lookup.
	AccountRetryWindow time.Duration
}

type HostedAuthLink struct {
	AuthURL      string    `json:"authUrl"`
	CompanyID    string    `json:"companyId"`
	ConnectToken string    `json:"connectToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// LinkResult is the outcome of completing a hosted-auth connection.
type LinkResult struct {
	Company *models.Company
	Status  models.ExternalLinkStatus
	// Session is set on the callback leg once the company is connected.
	Session *CompanySession
}

type CompanyLinkService interface {
	StartHostedAuth(ctx context.Context, companyID string) (*HostedAuthLink, error)
	CompleteFromWebhook(ctx context.Context, ev unipile.WebhookEvent, raw map[string]any) (*LinkResult, error)
	CompleteFromCallback(ctx context.Context, connectToken, accountID string) (*LinkResult, error)
	Disconnect(ctx context.Context, companyID string) (*models.ExternalLinkStatus, error)
	Status(ctx context.Context, companyID string) (*models.ExternalLinkStatus, error)
}

type companyLinkService struct {
	companies  pgrepo.CompanyRepository
	api        unipile.Provider
	links      StateStore
	publisher  StatusPublisher
	events     mongorepo.ExternalEventRepository
	tokens     TokenIssuer
	cfg        LinkConfig
	log        *logrus.Logger
	newBackOff func() backoff.BackOff
}

// NewCompanyLinkService wires the hosted-auth flow. events may be nil, in
// which case raw notifications are not recorded.
func NewCompanyLinkService(
	companies pgrepo.CompanyRepository,
	api unipile.Provider,
	links StateStore,
	publisher StatusPublisher,
	events mongorepo.ExternalEventRepository,
	tokens TokenIssuer,
	cfg LinkConfig,
	log *logrus.Logger,
) CompanyLinkService {
	if cfg.LinkTTL <= 0 {
		cfg.LinkTTL = time.Hour
	}
	if cfg.AccountRetryWindow <= 0 {
		cfg.AccountRetryWindow = 10 * time.Second
	}
	s := &companyLinkService{
		companies: companies,
		api:       api,
		links:     links,
		publisher: publisher,
		events:    events,
		tokens:    tokens,
		cfg:       cfg,
		log:       log,
	}
	s.newBackOff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 500 * time.Millisecond
		b.MaxElapsedTime = s.cfg.AccountRetryWindow
		return b
	}
	return s
}

// StartHostedAuth creates a hosted connection link. Without a signed-in
// company a placeholder row is created and enriched once the account
// resolves.
func (s *companyLinkService) StartHostedAuth(ctx context.Context, companyID string) (*HostedAuthLink, error) {
	const op = "CompanyLinkService.StartHostedAuth"

	if s.api == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "external connection is not configured", nil)
	}

	if companyID == "" {
		now := time.Now().UTC()
		placeholder := &models.Company{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
		if err := s.companies.Create(ctx, placeholder); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to create company", err)
		}
		companyID = placeholder.ID
	} else if _, err := s.getCompany(ctx, op, companyID); err != nil {
		return nil, err
	}

	token, err := s.links.Issue(ctx, companyID)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to store connect token", err)
	}

	expires := time.Now().UTC().Add(s.cfg.LinkTTL)
	authURL, err := s.api.CreateHostedLink(ctx, unipile.HostedLinkRequest{
		Name:               token,
		ExpiresAt:          expires,
		SuccessRedirectURL: s.frontendURL("/linkedin/callback", url.Values{"token": {token}}),
		FailureRedirectURL: s.frontendURL("/linkedin/callback", url.Values{"token": {token}, "error": {"1"}}),
		NotifyURL:          s.notifyURL(),
	})
	if err != nil {
		return nil, utils.E(utils.CodeUpstream, op, "failed to create hosted auth link", err)
	}

	s.log.WithField("company_id", companyID).Info("hosted auth link created")
	return &HostedAuthLink{AuthURL: authURL, CompanyID: companyID, ConnectToken: token, ExpiresAt: expires}, nil
}

func (s *companyLinkService) notifyURL() string {
	u := s.cfg.PublicAPIURL + "/company/external/webhook"
	if s.cfg.WebhookSecret != "" {
		u += "?" + url.Values{"secret": {s.cfg.WebhookSecret}}.Encode()
	}
	return u
}

func (s *companyLinkService) frontendURL(path string, q url.Values) string {
	return s.cfg.CompanyFrontendURL + path + "?" + q.Encode()
}

// CompleteFromWebhook handles the provider's account notification. The
// account is matched by the connect token echoed in the event name, then by
// a previous link of the same account.
func (s *companyLinkService) CompleteFromWebhook(ctx context.Context, ev unipile.WebhookEvent, raw map[string]any) (*LinkResult, error) {
	const op = "CompanyLinkService.CompleteFromWebhook"

	entry := &models.ExternalEvent{Source: EventSourceWebhook, Status: ev.Status, AccountID: ev.AccountID, Payload: raw}
	defer s.record(entry)

	if !ev.Succeeded() || ev.AccountID == "" {
		entry.Outcome = "ignored"
		return nil, nil
	}

	companyID, err := s.resolveCompany(ctx, ev.Name, ev.AccountID)
	if err != nil {
		entry.Outcome = "unknown_token"
		entry.Error = err.Error()
		return nil, utils.E(utils.CodeNotFound, op, "no pending connection for this account", err)
	}
	entry.CompanyID = companyID

	res, err := s.link(ctx, op, companyID, ev.AccountID)
	if err != nil {
		entry.Outcome = "failed"
		entry.Error = err.Error()
		return nil, err
	}
	entry.Outcome = "linked"
	return res, nil
}

// CompleteFromCallback handles the browser returning from the hosted page.
// When the account id is not part of the redirect, the connection made by
// the webhook is reported instead.
func (s *companyLinkService) CompleteFromCallback(ctx context.Context, connectToken, accountID string) (*LinkResult, error) {
	const op = "CompanyLinkService.CompleteFromCallback"

	companyID, err := s.links.Lookup(ctx, connectToken)
	if err != nil {
		if errors.Is(err, auth.ErrStateNotFound) {
			return nil, utils.E(utils.CodeUnauthorized, op, "invalid or expired connect token", err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "failed to read connect token", err)
	}

	var res *LinkResult
	if accountID != "" {
		entry := &models.ExternalEvent{Source: EventSourceCallback, AccountID: accountID, CompanyID: companyID}
		res, err = s.link(ctx, op, companyID, accountID)
		entry.Outcome = "linked"
		if err != nil {
			entry.Outcome, entry.Error = "failed", err.Error()
		}
		s.record(entry)
		if err != nil {
			return nil, err
		}
	} else {
		c, err := s.getCompany(ctx, op, companyID)
		if err != nil {
			return nil, err
		}
		res = &LinkResult{Company: c, Status: linkStatus(c)}
	}

	if !res.Status.Connected {
		return res, nil
	}

	email := ""
	if res.Company.Email != nil {
		email = *res.Company.Email
	}
	tok, exp, err := s.tokens.Issue(auth.KindCompany, res.Company.ID, email)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	res.Session = &CompanySession{Company: res.Company, Token: tok, ExpiresAt: exp}
	return res, nil
}

func (s *companyLinkService) Disconnect(ctx context.Context, companyID string) (*models.ExternalLinkStatus, error) {
	const op = "CompanyLinkService.Disconnect"

	c, err := s.getCompany(ctx, op, companyID)
	if err != nil {
		return nil, err
	}

	if c.ExternalAccountID != nil && s.api != nil {
		if err := s.api.DeleteAccount(ctx, *c.ExternalAccountID); err != nil && !unipile.IsNotFound(err) {
			s.log.WithError(err).WithField("company_id", companyID).Warn("remote account delete failed")
		}
	}
	if err := s.companies.ClearExternalLink(ctx, companyID); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to clear external link", err)
	}

	c.ExternalAccountID = nil
	c.ExternalConnected = false
	c.ExternalConnectedAt = nil
	st := linkStatus(c)
	s.publish(ctx, st)
	return &st, nil
}

func (s *companyLinkService) Status(ctx context.Context, companyID string) (*models.ExternalLinkStatus, error) {
	const op = "CompanyLinkService.Status"

	c, err := s.getCompany(ctx, op, companyID)
	if err != nil {
		return nil, err
	}
	st := linkStatus(c)
	return &st, nil
}

func (s *companyLinkService) resolveCompany(ctx context.Context, connectToken, accountID string) (string, error) {
	if connectToken != "" {
		id, err := s.links.Lookup(ctx, connectToken)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, auth.ErrStateNotFound) {
			return "", err
		}
	}
	c, err := s.companies.GetByExternalAccountID(ctx, accountID)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

// link marks the company connected, then applies whatever enrichment the
// strategies produced. Enrichment failures never fail the connection.
// An account already linked to another company is a CONFLICT.
func (s *companyLinkService) link(ctx context.Context, op, companyID, accountID string) (*LinkResult, error) {
	holder, err := s.companies.GetByExternalAccountID(ctx, accountID)
	switch {
	case err == nil && holder.ID != companyID:
		return nil, utils.E(utils.CodeConflict, op, accountLinkedMessage, nil)
	case err != nil && !errors.Is(err, utils.ErrNotFound):
		return nil, utils.E(utils.CodeInternal, op, "failed to look up external account", err)
	}

	enrichment := s.enrich(ctx, companyID, accountID)

	now := time.Now().UTC()
	if err := s.companies.SetExternalLink(ctx, companyID, accountID, now, enrichment); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "company not found", err)
		}
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, accountLinkedMessage, err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to save external link", err)
	}

	c, err := s.getCompany(ctx, op, companyID)
	if err != nil {
		return nil, err
	}
	st := linkStatus(c)
	s.publish(ctx, st)

	s.log.WithFields(logrus.Fields{
		"company_id": companyID,
		"account_id": accountID,
		"enriched":   st.Enriched,
	}).Info("company external account linked")
	return &LinkResult{Company: c, Status: st}, nil
}

func (s *companyLinkService) publish(ctx context.Context, st models.ExternalLinkStatus) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLinkStatus(ctx, st); err != nil {
		s.log.WithError(err).WithField("company_id", st.CompanyID).Warn("failed to publish link status")
	}
}

func (s *companyLinkService) record(e *models.ExternalEvent) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.events.Insert(ctx, e); err != nil {
		s.log.WithError(err).Warn("failed to record external event")
	}
}

func (s *companyLinkService) getCompany(ctx context.Context, op, id string) (*models.Company, error) {
	if !validID(id) {
		return nil, utils.E(utils.CodeNotFound, op, "company not found", nil)
	}
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "company not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get company", err)
	}
	return c, nil
}

func linkStatus(c *models.Company) models.ExternalLinkStatus {
	return models.ExternalLinkStatus{
		CompanyID:   c.ID,
		Connected:   c.ExternalConnected,
		AccountID:   c.ExternalAccountID,
		ConnectedAt: c.ExternalConnectedAt,
		Enriched:    c.ExternalConnected && (strings.TrimSpace(c.Name) != "" || c.ExternalPageURL != nil),
	}
}
