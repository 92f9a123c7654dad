package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recrutai/platform/internal/auth"
	"github.com/recrutai/platform/internal/services"
	"github.com/recrutai/platform/internal/utils"
)

type ApplicationHandler struct {
	svc services.ApplicationService
}

func NewApplicationHandler(svc services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

// Submit answers 201 when the application is new and 200 when an existing
// one for the same candidate and job was updated.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	const op = "ApplicationHandler.Submit"

	var req services.SubmitApplicationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, op, "invalid json body")
		return
	}

	// a signed-in candidate may only apply as themselves
	if me := principal(c, auth.KindCandidate); me != "" {
		if req.CandidateID == "" {
			req.CandidateID = me
		} else if req.CandidateID != me {
			writeError(c, utils.E(utils.CodeForbidden, op, "cannot apply on behalf of another candidate", nil))
			return
		}
	}

	app, created, err := h.svc.Submit(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"data": app})
}

func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	companyID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListForJob(c.Request.Context(), companyID, c.Param("jobId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	companyID, ok := requireUserID(c)
	if !ok {
		return
	}

	app, err := h.svc.Get(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": app})
}
