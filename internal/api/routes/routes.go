package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/recrutai/platform/internal/api/handlers"
	"github.com/recrutai/platform/internal/api/middleware"
	"github.com/recrutai/platform/internal/auth"
)

type Deps struct {
	Tokens        middleware.TokenVerifier
	WebhookSecret string

	Candidate   *handlers.CandidateHandler
	Resume      *handlers.ResumeHandler
	Application *handlers.ApplicationHandler
	Job         *handlers.JobHandler
	Company     *handlers.CompanyHandler
	CompanyLink *handlers.CompanyLinkHandler
	WS          *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := middleware.JWTAuth(d.Tokens)
	optional := middleware.OptionalJWTAuth(d.Tokens)
	candidateOnly := middleware.RequireKind(auth.KindCandidate)
	companyOnly := middleware.RequireKind(auth.KindCompany)

	// Candidates
	cand := r.Group("/candidate")
	cand.POST("/login-email", d.Candidate.LoginEmail)
	cand.GET("/login-external", d.Candidate.LoginExternal)
	cand.GET("/external-callback", d.Candidate.ExternalCallback)
	cand.GET("/verify-token", authed, candidateOnly, d.Candidate.VerifyToken)
	cand.POST("/verify-token", authed, candidateOnly, d.Candidate.VerifyToken)

	resume := r.Group("/resume", authed, candidateOnly)
	resume.POST("/save", d.Resume.Save)
	resume.GET("/fetch", d.Resume.Fetch)
	resume.POST("/behavioral-test", d.Resume.AppendBehavioralTest)
	resume.GET("/behavioral-test", d.Resume.ListBehavioralTests)
	resume.GET("/behavioral-test/latest", d.Resume.LatestBehavioralTest)

	// Applications
	app := r.Group("/application")
	app.POST("", optional, d.Application.Submit)
	app.GET("/job/:jobId", authed, companyOnly, d.Application.ListForJob)
	app.GET("/:id", authed, companyOnly, d.Application.Get)

	// Jobs
	jobs := r.Group("/jobs")
	jobs.GET("", optional, d.Job.List)
	jobs.GET("/locations", optional, d.Job.Locations)
	jobs.GET("/:id", optional, d.Job.Get)
	jobs.POST("", authed, companyOnly, d.Job.Create)
	jobs.PUT("/:id", authed, companyOnly, d.Job.Update)
	jobs.POST("/:id/publish", authed, companyOnly, d.Job.Publish)
	jobs.POST("/:id/close", authed, companyOnly, d.Job.Close)

	// Companies
	comp := r.Group("/company")
	comp.POST("/register", d.Company.Register)
	comp.POST("/login", d.Company.Login)
	comp.GET("/verify-token", authed, companyOnly, d.Company.VerifyToken)

	ext := comp.Group("/external")
	ext.GET("/auth", optional, d.CompanyLink.Auth)
	ext.POST("/auth", optional, d.CompanyLink.Auth)
	ext.GET("/callback", d.CompanyLink.Callback)
	ext.POST("/callback", d.CompanyLink.Callback)
	ext.POST("/webhook", middleware.SharedSecret(d.WebhookSecret), d.CompanyLink.Webhook)
	ext.POST("/disconnect", authed, companyOnly, d.CompanyLink.Disconnect)
	ext.GET("/status", authed, companyOnly, d.CompanyLink.Status)
	ext.GET("/status/ws", authed, companyOnly, d.WS.CompanyStatusWS)

	comp.GET("/:id", authed, companyOnly, d.Company.Get)
	comp.PUT("/:id", authed, companyOnly, d.Company.Update)
	comp.POST("/:id/logo", authed, companyOnly, d.Company.UploadLogo)
}
