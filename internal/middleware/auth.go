package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskstack/todo-api/internal/problem"
	"github.com/taskstack/todo-api/internal/services"
)

const identityKey = "identity"

// RequireAuth verifies the bearer token on every protected route and stores
// the decoded identity in the request context. Missing, expired and invalid
// tokens all map to 401, distinguished only in the detail message.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			problem.Unauthorized(c, "Authentication required")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			problem.Unauthorized(c, "Authorization header must use the Bearer scheme")
			return
		}

		identity, err := authService.Authenticate(token)
		if err != nil {
			if errors.Is(err, services.ErrTokenExpired) {
				problem.Unauthorized(c, "Authentication token has expired")
				return
			}
			problem.Unauthorized(c, "Invalid authentication token")
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// GetIdentity retrieves the authenticated identity from context
func GetIdentity(c *gin.Context) (*services.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*services.Identity)
	return identity, ok
}
