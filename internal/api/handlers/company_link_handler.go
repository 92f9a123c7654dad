package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recrutai/platform/internal/auth"
	"github.com/recrutai/platform/internal/providers/unipile"
	"github.com/recrutai/platform/internal/services"
	"github.com/sirupsen/logrus"
)

const maxWebhookBytes = 1 << 20

type CompanyLinkHandler struct {
	svc services.CompanyLinkService
	log *logrus.Logger
}

func NewCompanyLinkHandler(svc services.CompanyLinkService, log *logrus.Logger) *CompanyLinkHandler {
	return &CompanyLinkHandler{svc: svc, log: log}
}

// Auth starts a hosted connection. Anonymous callers get a placeholder
// company that the connection later fills in.
func (h *CompanyLinkHandler) Auth(c *gin.Context) {
	link, err := h.svc.StartHostedAuth(c.Request.Context(), principal(c, auth.KindCompany))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// Callback is hit by the frontend after the hosted page redirects back with
// ?token and, when the provider includes it, ?account_id.
func (h *CompanyLinkHandler) Callback(c *gin.Context) {
	accountID := c.Query("account_id")
	if accountID == "" {
		accountID = c.Query("accountId")
	}

	res, err := h.svc.CompleteFromCallback(c.Request.Context(), c.Query("token"), accountID)
	if err != nil {
		writeError(c, err)
		return
	}

	body := gin.H{"company": res.Company, "status": res.Status}
	if res.Session != nil {
		body["token"] = res.Session.Token
		body["expiresAt"] = res.Session.ExpiresAt
	}
	c.JSON(http.StatusOK, body)
}

// Webhook always acknowledges well-formed notifications so the provider does
// not retry events that cannot be matched.
func (h *CompanyLinkHandler) Webhook(c *gin.Context) {
	b, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		badRequest(c, "CompanyLinkHandler.Webhook", "failed to read body")
		return
	}

	var ev unipile.WebhookEvent
	var raw map[string]any
	if err := json.Unmarshal(b, &ev); err != nil {
		badRequest(c, "CompanyLinkHandler.Webhook", "invalid json body")
		return
	}
	_ = json.Unmarshal(b, &raw)

	res, err := h.svc.CompleteFromWebhook(c.Request.Context(), ev, raw)
	if err != nil {
		h.log.WithError(err).WithFields(logrus.Fields{
			"account_id": ev.AccountID,
			"status":     ev.Status,
		}).Warn("webhook not applied")
		c.JSON(http.StatusOK, gin.H{"received": true, "linked": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true, "linked": res != nil})
}

func (h *CompanyLinkHandler) Disconnect(c *gin.Context) {
	companyID, ok := requireUserID(c)
	if !ok {
		return
	}
	st, err := h.svc.Disconnect(c.Request.Context(), companyID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": st})
}

func (h *CompanyLinkHandler) Status(c *gin.Context) {
	companyID, ok := requireUserID(c)
	if !ok {
		return
	}
	st, err := h.svc.Status(c.Request.Context(), companyID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": st})
}
