package services

import (
	"context"
	"errors"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/recrutai/platform/internal/metrics"
	"github.com/recrutai/platform/internal/models"
	"github.com/recrutai/platform/internal/providers/unipile"
	"github.com/sirupsen/logrus"
)

// errNoData marks a strategy that had nothing to contribute.
var errNoData = errors.New("no data")

// enrichmentRun carries what earlier strategies learned to later ones.
type enrichmentRun struct {
	accountID  string
	merged     models.CompanyEnrichment
	orgFetched bool
}

type enrichmentStrategy struct {
	name string
	run  func(ctx context.Context, r *enrichmentRun) (*models.CompanyEnrichment, error)
}

// strategies are applied in order; later non-empty fields win.
func (s *companyLinkService) strategies() []enrichmentStrategy {
	return []enrichmentStrategy{
		{name: "account", run: s.fromAccount},
		{name: "own_profile", run: s.fromOwnProfile},
		{name: "organization_by_id", run: s.fromOrganizationByID},
		{name: "organization_by_ref", run: s.fromOrganizationByRef},
	}
}

func (s *companyLinkService) enrich(ctx context.Context, companyID, accountID string) *models.CompanyEnrichment {
	r := &enrichmentRun{accountID: accountID}
	if s.api == nil {
		return &r.merged
	}

	for _, st := range s.strategies() {
		e, err := st.run(ctx, r)
		if err != nil {
			if !errors.Is(err, errNoData) {
				metrics.EnrichmentFailures.WithLabelValues(st.name).Inc()
				s.log.WithError(err).WithFields(logrus.Fields{
					"company_id": companyID,
					"account_id": accountID,
					"strategy":   st.name,
				}).Warn("enrichment strategy failed")
			}
			continue
		}
		r.merged.Merge(e)
	}
	return &r.merged
}

// fromAccount confirms the account with bounded retries; the provider may
// notify before the account is readable.
func (s *companyLinkService) fromAccount(ctx context.Context, r *enrichmentRun) (*models.CompanyEnrichment, error) {
	_, err := backoff.RetryWithData(func() (*unipile.Account, error) {
		acc, err := s.api.GetAccount(ctx, r.accountID)
		if err != nil {
			var ae *unipile.APIError
			if errors.As(err, &ae) && !ae.Temporary() && ae.Status != 404 {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return acc, nil
	}, backoff.WithContext(s.newBackOff(), ctx))
	if err != nil {
		return nil, err
	}
	// the account name echoes the connect token, so it carries no profile data
	return &models.CompanyEnrichment{}, nil
}

func (s *companyLinkService) fromOwnProfile(ctx context.Context, r *enrichmentRun) (*models.CompanyEnrichment, error) {
	p, err := s.api.GetOwnProfile(ctx, r.accountID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	return &models.CompanyEnrichment{
		Name:          strPtr(name),
		AvatarURL:     strPtr(p.ProfilePictureURL),
		Headline:      strPtr(p.Headline),
		Location:      strPtr(p.Location),
		Organizations: organizationRefs(p.Organizations),
	}, nil
}

func (s *companyLinkService) fromOrganizationByID(ctx context.Context, r *enrichmentRun) (*models.CompanyEnrichment, error) {
	org, ok := firstOrganization(r)
	if !ok || org.ID == "" {
		return nil, errNoData
	}
	return s.fetchOrganization(ctx, r, org.ID)
}

// fromOrganizationByRef retries the page lookup with the raw reference when
// the numeric lookup was not possible or failed.
func (s *companyLinkService) fromOrganizationByRef(ctx context.Context, r *enrichmentRun) (*models.CompanyEnrichment, error) {
	if r.orgFetched {
		return nil, errNoData
	}
	org, ok := firstOrganization(r)
	if !ok {
		return nil, errNoData
	}
	ref := org.URN
	if ref == "" {
		ref = org.Name
	}
	if ref == "" {
		return nil, errNoData
	}
	return s.fetchOrganization(ctx, r, ref)
}

func (s *companyLinkService) fetchOrganization(ctx context.Context, r *enrichmentRun, identifier string) (*models.CompanyEnrichment, error) {
	p, err := s.api.GetCompanyProfile(ctx, r.accountID, identifier)
	if err != nil {
		return nil, err
	}
	r.orgFetched = true

	logo := p.Logo
	description := p.Description
	if description == "" {
		description = p.Tagline
	}
	pageURL := p.ProfileURL
	if pageURL == "" && p.PublicIdentifier != "" {
		pageURL = "https://www.linkedin.com/company/" + p.PublicIdentifier
	}
	return &models.CompanyEnrichment{
		Name:        strPtr(p.Name),
		AvatarURL:   strPtr(logo),
		Headline:    strPtr(p.Tagline),
		Location:    strPtr(p.HeadquarterLocation()),
		Description: strPtr(description),
		Website:     strPtr(p.Website),
		Sector:      strPtr(p.IndustryName()),
		Size:        strPtr(p.SizeBracket()),
		PageURL:     strPtr(pageURL),
	}, nil
}

func firstOrganization(r *enrichmentRun) (models.OrganizationRef, bool) {
	if len(r.merged.Organizations) == 0 {
		return models.OrganizationRef{}, false
	}
	return r.merged.Organizations[0], true
}

func organizationRefs(orgs []unipile.Organization) []models.OrganizationRef {
	out := make([]models.OrganizationRef, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, models.OrganizationRef{Name: o.Name, URN: o.OrganizationURN, ID: o.NumericID()})
	}
	return out
}

func strPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
