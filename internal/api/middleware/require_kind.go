package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recrutai/platform/internal/auth"
	"github.com/recrutai/platform/internal/utils"
)

// RequireKind lets through only principals of the given kinds. It must run
// after JWTAuth.
func RequireKind(allowed ...auth.Kind) gin.HandlerFunc {
	allow := map[auth.Kind]struct{}{}
	for _, k := range allowed {
		allow[k] = struct{}{}
	}

	return func(c *gin.Context) {
		v, ok := c.Get("kind")
		kind, _ := v.(auth.Kind)
		if _, allowed := allow[kind]; !ok || !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, apiError{
				Code:    utils.CodeForbidden,
				Message: "forbidden",
			})
			return
		}
		c.Next()
	}
}
