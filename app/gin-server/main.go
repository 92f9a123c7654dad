package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/recrutai/platform/config"
	"github.com/recrutai/platform/internal/api/handlers"
	"github.com/recrutai/platform/internal/api/middleware"
	"github.com/recrutai/platform/internal/api/routes"
	"github.com/recrutai/platform/internal/auth"
	"github.com/recrutai/platform/internal/cache"
	"github.com/recrutai/platform/internal/logger"
	"github.com/recrutai/platform/internal/providers/linkedin"
	"github.com/recrutai/platform/internal/providers/unipile"
	mongorepo "github.com/recrutai/platform/internal/repositories/mongo"
	pgrepo "github.com/recrutai/platform/internal/repositories/postgres"
	"github.com/recrutai/platform/internal/services"
	"github.com/recrutai/platform/internal/storage"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	settings, err := config.LoadSettings()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	if err := pgrepo.Migrate(config.PostgresDB); err != nil {
		log.WithError(err).Fatal("PostgreSQL migration error")
	}
	log.Info("PostgreSQL connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.WithError(err).Fatal("Redis init error")
	}
	log.Info("Redis connected")

	// Init MongoDB (optional event log)
	var events mongorepo.ExternalEventRepository
	mongoOn, err := config.InitMongo()
	if err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	if mongoOn {
		if err := config.EnsureMongoIndexes(); err != nil {
			log.WithError(err).Warn("MongoDB index creation failed")
		}
		events = mongorepo.NewExternalEventRepo(config.MongoDatabase(), settings.EventLogTTL)
		log.Info("MongoDB connected")
	} else {
		log.Info("MONGO_URI not set, external event log disabled")
	}

	issuer := auth.NewIssuer(settings.JWTSecret, settings.JWTIssuer, settings.JWTTTL)
	oauthStates := auth.NewStateStore(config.RedisClient, "oauth", settings.OAuthStateTTL)
	hostedLinks := auth.NewStateStore(config.RedisClient, "hosted-link", settings.HostedLinkTTL)

	// Providers are optional; services answer UNAVAILABLE when one is missing.
	var oauth linkedin.Provider
	if settings.LinkedInEnabled() {
		oauth = linkedin.New(settings.LinkedInClientID, settings.LinkedInClientSecret, settings.LinkedInRedirectURI)
	} else {
		log.Warn("LinkedIn OAuth not configured, external candidate login disabled")
	}

	var hosted unipile.Provider
	if settings.UnipileEnabled() {
		hosted = unipile.NewClient(settings.UnipileAPIURL, settings.UnipileAPIKey, &http.Client{Timeout: 30 * time.Second})
	} else {
		log.Warn("Unipile not configured, company hosted auth and location catalog disabled")
	}

	var uploader storage.Uploader
	if settings.GCSBucket != "" {
		gcs, err := storage.NewGCSUploader(ctx, settings.GCSBucket, settings.GCSPublicACL)
		if err != nil {
			log.WithError(err).Fatal("GCS init error")
		}
		defer gcs.Close()
		uploader = gcs
	} else {
		log.Warn("GCS_BUCKET not set, logo upload disabled")
	}

	// Repos
	db := config.PostgresDB
	candidateRepo := pgrepo.NewCandidateRepo(db)
	companyRepo := pgrepo.NewCompanyRepo(db)
	jobRepo := pgrepo.NewJobRepo(db)
	applicationRepo := pgrepo.NewApplicationRepo(db)

	// Services
	candidateSvc := services.NewCandidateService(candidateRepo, issuer, oauth, oauthStates, log)
	resumeSvc := services.NewResumeService(candidateRepo, settings.ProfileCompletePolicy)
	applicationSvc := services.NewApplicationService(applicationRepo, candidateRepo, jobRepo, log)
	jobSvc := services.NewJobService(jobRepo, log)
	companySvc := services.NewCompanyService(companyRepo, issuer, uploader, log)
	catalogSvc := services.NewCatalogService(hosted, companyRepo, cache.NewRedisCache(config.RedisClient), services.CatalogConfig{
		Timeout:          settings.CatalogTimeout,
		DefaultAccountID: settings.UnipileDefaultAccountID,
	}, log)
	linkSvc := services.NewCompanyLinkService(
		companyRepo,
		hosted,
		hostedLinks,
		services.NewRedisStatusPublisher(config.RedisClient),
		events,
		issuer,
		services.LinkConfig{
			CompanyFrontendURL: settings.CompanyFrontendURL,
			PublicAPIURL:       settings.PublicAPIURL,
			LinkTTL:            settings.HostedLinkTTL,
			WebhookSecret:      settings.SessionSecret,
		},
		log,
	)

	origins := allowedOrigins(settings)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.New(corsConfig(origins)))

	routes.RegisterRoutes(r, routes.Deps{
		Tokens:        issuer,
		WebhookSecret: settings.SessionSecret,
		Candidate:     handlers.NewCandidateHandler(candidateSvc),
		Resume:        handlers.NewResumeHandler(resumeSvc),
		Application:   handlers.NewApplicationHandler(applicationSvc),
		Job:           handlers.NewJobHandler(jobSvc, catalogSvc),
		Company:       handlers.NewCompanyHandler(companySvc),
		CompanyLink:   handlers.NewCompanyLinkHandler(linkSvc, log),
		WS:            handlers.NewWSHandler(linkSvc, config.RedisClient, origins, log),
	})

	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http server shutdown")
	}
	_ = config.RedisClient.Close()
	if config.MongoClient != nil {
		_ = config.MongoClient.Disconnect(shutdownCtx)
	}
}

// allowedOrigins falls back to the two frontends when ALLOWED_ORIGINS is unset.
func allowedOrigins(s *config.Settings) []string {
	if len(s.AllowedOrigins) > 0 {
		return s.AllowedOrigins
	}
	var out []string
	for _, u := range []string{s.CandidateFrontendURL, s.CompanyFrontendURL} {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
