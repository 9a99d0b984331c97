package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/martial-dojo/backend/internal/models"
	"github.com/martial-dojo/backend/pkg/response"
)

// RoleReader looks up the stored role for an email. Implemented by the users
// repository.
type RoleReader interface {
	RoleByEmail(ctx context.Context, email string) (models.Role, error)
}

// RequireRole returns a middleware that loads the authenticated user's record
// and allows only the given role. The store read happens on every invocation;
// the token itself carries no role. Must run after JWT.
func RequireRole(store RoleReader, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		emailVal, ok := c.Get(ContextUserEmail)
		if !ok {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		email, _ := emailVal.(string)
		got, err := store.RoleByEmail(c.Request.Context(), email)
		if err != nil {
			response.Internal(c, "failed to verify role")
			c.Abort()
			return
		}
		if got != role {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
