package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/recrutai/platform/internal/auth"
	"github.com/recrutai/platform/internal/utils"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

// TokenVerifier is satisfied by *auth.Issuer.
type TokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

// JWTAuth rejects requests without a valid bearer token. Browsers cannot set
// headers on websocket upgrades, so the token may also come as ?access_token.
func JWTAuth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "missing bearer token",
			})
			return
		}
		if !authenticate(c, v, raw) {
			return
		}
		c.Next()
	}
}

// OptionalJWTAuth sets the principal when a token is present. A present but
// invalid token is still rejected.
func OptionalJWTAuth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerToken(c); raw != "" && !authenticate(c, v, raw) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, v TokenVerifier, raw string) bool {
	claims, err := v.Verify(raw)
	if err != nil {
		msg := "invalid token"
		var ae *utils.AppError
		if errors.As(err, &ae) && ae.Message != "" {
			msg = ae.Message
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
			Code:    utils.CodeUnauthorized,
			Message: msg,
		})
		return false
	}

	c.Set("user_id", claims.Subject)
	c.Set("kind", claims.Kind)
	c.Set("email", claims.Email)
	return true
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return strings.TrimSpace(c.Query("access_token"))
}
