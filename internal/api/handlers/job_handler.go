package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/recrutai/platform/internal/auth"
	"github.com/recrutai/platform/internal/jobintake"
	"github.com/recrutai/platform/internal/models"
	"github.com/recrutai/platform/internal/services"
	"github.com/recrutai/platform/internal/utils"
)

type JobHandler struct {
	jobs    services.JobService
	catalog services.CatalogService
}

func NewJobHandler(jobs services.JobService, catalog services.CatalogService) *JobHandler {
	return &JobHandler{jobs: jobs, catalog: catalog}
}

// writeJobError reports intake validation failures as a single
// "field: message" string, the shape job forms display verbatim.
func writeJobError(c *gin.Context, err error) {
	var verr *jobintake.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    utils.CodeInvalidArgument,
			"message": verr.Error(),
			"error":   verr.Error(),
		})
		return
	}
	writeError(c, err)
}

func bindJobPayload(c *gin.Context) (*jobintake.Payload, bool) {
	var p jobintake.Payload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    utils.CodeInvalidArgument,
			"message": "invalid json body",
			"error":   "invalid json body",
		})
		return nil, false
	}
	return &p, true
}

// List filters by ?status and ?companyId. ?mine=true scopes to the signed-in
// company.
func (h *JobHandler) List(c *gin.Context) {
	f := models.JobFilter{
		Status:         models.JobStatus(c.Query("status")),
		OwnerCompanyID: c.Query("companyId"),
	}
	if mine, _ := strconv.ParseBool(c.Query("mine")); mine {
		companyID := principal(c, auth.KindCompany)
		if companyID == "" {
			writeError(c, utils.E(utils.CodeUnauthorized, "JobHandler.List", "company sign-in required", nil))
			return
		}
		f.OwnerCompanyID = companyID
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(c, "JobHandler.List", "limit must be a positive integer")
			return
		}
		f.Limit = n
	}

	jobs, err := h.jobs.List(c.Request.Context(), principal(c, auth.KindCompany), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": jobs})
}

func (h *JobHandler) Create(c *gin.Context) {
	companyID, ok := requireUserID(c)
	if !ok {
		return
	}
	p, ok := bindJobPayload(c)
	if !ok {
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), companyID, p)
	if err != nil {
		writeJobError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": job})
}

func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobs.Get(c.Request.Context(), principal(c, auth.KindCompany), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": job})
}

func (h *JobHandler) Update(c *gin.Context) {
	companyID, ok := requireUserID(c)
	if !ok {
		return
	}
	p, ok := bindJobPayload(c)
	if !ok {
		return
	}

	job, err := h.jobs.Update(c.Request.Context(), companyID, c.Param("id"), p)
	if err != nil {
		writeJobError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": job})
}

func (h *JobHandler) Publish(c *gin.Context) {
	companyID, ok := requireUserID(c)
	if !ok {
		return
	}
	job, err := h.jobs.Publish(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": job})
}

func (h *JobHandler) Close(c *gin.Context) {
	companyID, ok := requireUserID(c)
	if !ok {
		return
	}
	job, err := h.jobs.Close(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": job})
}

// Locations never fails: upstream trouble yields an empty list and a warning.
func (h *JobHandler) Locations(c *gin.Context) {
	keywords := c.Query("q")
	if keywords == "" {
		keywords = c.Query("keywords")
	}

	res := h.catalog.Locations(c.Request.Context(), principal(c, auth.KindCompany), keywords)
	body := gin.H{"data": res.Locations}
	if res.Warning != "" {
		body["warning"] = res.Warning
	}
	c.JSON(http.StatusOK, body)
}
