package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/recrutai/platform/internal/cache"
	"github.com/recrutai/platform/internal/metrics"
	"github.com/recrutai/platform/internal/providers/unipile"
	pgrepo "github.com/recrutai/platform/internal/repositories/postgres"
	"github.com/sirupsen/logrus"
)

const (
	locationCacheTTL = time.Hour
	locationLimit    = 20
)

type CatalogConfig struct {
	Timeout time.Duration
	// DefaultAccountID is used when the caller has no connected account.
	DefaultAccountID string
}

// LocationResult is never an error: upstream trouble yields an empty list
// and a warning.
type LocationResult struct {
	Locations []unipile.Location
	Warning   string
}

type CatalogService interface {
	Locations(ctx context.Context, companyID, keywords string) LocationResult
}

type catalogService struct {
	api       unipile.Provider
	companies pgrepo.CompanyRepository
	cache     cache.Cache
	cfg       CatalogConfig
	log       *logrus.Logger
}

func NewCatalogService(api unipile.Provider, companies pgrepo.CompanyRepository, c cache.Cache, cfg CatalogConfig, log *logrus.Logger) CatalogService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &catalogService{api: api, companies: companies, cache: c, cfg: cfg, log: log}
}

func (s *catalogService) Locations(ctx context.Context, companyID, keywords string) LocationResult {
	keywords = strings.ToLower(strings.TrimSpace(keywords))
	key := cache.Key("catalog", "locations", keywords)

	if s.cache != nil {
		var cached []unipile.Location
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.log.WithError(err).Warn("location cache read failed")
		}
		if hit {
			return LocationResult{Locations: cached}
		}
	}

	if s.api == nil {
		return s.fallback("unconfigured", "location search is not configured", nil)
	}
	accountID := s.accountFor(ctx, companyID)
	if accountID == "" {
		return s.fallback("no_account", "no connected account available for location search", nil)
	}

	tctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	locs, err := s.api.SearchLocations(tctx, accountID, keywords, locationLimit)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(tctx.Err(), context.DeadlineExceeded) {
			return s.fallback("timeout", "location search timed out", err)
		}
		return s.fallback("upstream_error", "location search is unavailable", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, locs, locationCacheTTL); err != nil {
			s.log.WithError(err).Warn("location cache write failed")
		}
	}
	return LocationResult{Locations: locs}
}

func (s *catalogService) accountFor(ctx context.Context, companyID string) string {
	if companyID != "" && validID(companyID) && s.companies != nil {
		c, err := s.companies.GetByID(ctx, companyID)
		if err == nil && c.ExternalConnected && c.ExternalAccountID != nil {
			return *c.ExternalAccountID
		}
	}
	return s.cfg.DefaultAccountID
}

func (s *catalogService) fallback(reason, warning string, err error) LocationResult {
	metrics.CatalogFallbacks.WithLabelValues(reason).Inc()
	entry := s.log.WithField("reason", reason)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Warn("location search fallback")
	return LocationResult{Locations: []unipile.Location{}, Warning: warning}
}
