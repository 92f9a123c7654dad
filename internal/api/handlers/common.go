package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recrutai/platform/internal/auth"
	"github.com/recrutai/platform/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
	Details string     `json:"details,omitempty"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}

	body := APIError{Code: utils.CodeOf(err), Message: http.StatusText(status)}

	var ae *utils.AppError
	if errors.As(err, &ae) {
		if ae.Message != "" {
			body.Message = ae.Message
		}
		// Bridge failures carry the upstream cause for the caller.
		if ae.Code == utils.CodeUpstream && ae.Err != nil {
			body.Details = ae.Err.Error()
		}
	}

	c.JSON(status, body)
}

func badRequest(c *gin.Context, op, msg string) {
	writeError(c, utils.E(utils.CodeInvalidArgument, op, msg, nil))
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

// principal returns the authenticated subject of the given kind, or "" when
// the request is anonymous or signed in as another kind.
func principal(c *gin.Context, kind auth.Kind) string {
	v, _ := c.Get("kind")
	if k, _ := v.(auth.Kind); k != kind {
		return ""
	}
	id, _ := c.Get("user_id")
	s, _ := id.(string)
	return s
}

// requireSelf answers 403 unless the path id is the signed-in principal.
func requireSelf(c *gin.Context, op, pathID string) bool {
	userID, ok := requireUserID(c)
	if !ok {
		return false
	}
	if userID != pathID {
		writeError(c, utils.E(utils.CodeForbidden, op, "forbidden", nil))
		return false
	}
	return true
}
