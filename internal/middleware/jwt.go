package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/martial-dojo/backend/internal/auth"
	"github.com/martial-dojo/backend/pkg/response"
)

// ContextUserEmail is the key for the authenticated email in gin context.
const ContextUserEmail = "user_email"

// JWT returns a middleware that validates the bearer token and sets the
// authenticated email in context. Failures abort before the handler runs.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}
