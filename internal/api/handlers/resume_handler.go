package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recrutai/platform/internal/models"
	"github.com/recrutai/platform/internal/services"
)

type ResumeHandler struct {
	svc services.ResumeService
}

func NewResumeHandler(svc services.ResumeService) *ResumeHandler {
	return &ResumeHandler{svc: svc}
}

func (h *ResumeHandler) Save(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.ResumeFields
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "ResumeHandler.Save", "invalid json body")
		return
	}

	cand, err := h.svc.SaveCurriculum(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"candidateId":    cand.ID,
		"perfilCompleto": cand.ProfileComplete,
	})
}

func (h *ResumeHandler) Fetch(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	cand, err := h.svc.FetchCurriculum(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resume": cand})
}

func (h *ResumeHandler) AppendBehavioralTest(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.BehavioralTestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "ResumeHandler.AppendBehavioralTest", "invalid json body")
		return
	}

	t, err := h.svc.AppendBehavioralTest(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "testId": t.ID})
}

func (h *ResumeHandler) LatestBehavioralTest(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	t, err := h.svc.LatestBehavioralTest(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"test": t})
}

func (h *ResumeHandler) ListBehavioralTests(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	tests, err := h.svc.ListBehavioralTests(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tests})
}
