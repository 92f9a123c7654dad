package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recrutai/platform/internal/services"
)

type CandidateHandler struct {
	svc services.CandidateService
}

func NewCandidateHandler(svc services.CandidateService) *CandidateHandler {
	return &CandidateHandler{svc: svc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *CandidateHandler) LoginEmail(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "CandidateHandler.LoginEmail", "invalid json body")
		return
	}

	sess, err := h.svc.LoginWithEmail(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":     sess.Token,
		"expiresAt": sess.ExpiresAt,
		"user":      sess.Candidate,
	})
}

func (h *CandidateHandler) LoginExternal(c *gin.Context) {
	authURL, state, err := h.svc.StartExternalLogin(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authUrl": authURL, "state": state})
}

func (h *CandidateHandler) ExternalCallback(c *gin.Context) {
	if e := c.Query("error"); e != "" {
		msg := c.Query("error_description")
		if msg == "" {
			msg = e
		}
		badRequest(c, "CandidateHandler.ExternalCallback", msg)
		return
	}

	sess, err := h.svc.CompleteExternalLogin(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      sess.Token,
		"expiresAt":  sess.ExpiresAt,
		"user":       sess.Candidate,
		"resumeData": sess.Resume,
	})
}

// VerifyToken runs behind JWTAuth; it confirms the candidate still exists.
func (h *CandidateHandler) VerifyToken(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	cand, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": cand})
}
