package middleware

import (
	"net/http"
	"strings"

	"github.com/rajayush01/JobBoard/internal/delivery/http/response"
	"github.com/rajayush01/JobBoard/internal/domain"
	"github.com/rajayush01/JobBoard/pkg/auth"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and stores the acting identity
// in the request context.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "Not authorized, no token", nil)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		identity, err := tokens.Verify(tokenString)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), identity.UserID)
		c.Set(string(domain.KeyUserRole), identity.Role)

		c.Next()
	}
}

// RequireRole rejects callers whose token does not carry the given role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(string(domain.KeyUserRole)) != role {
			response.Error(c, http.StatusForbidden, "Access denied: "+role+"s only", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Actor extracts the acting identity placed in the context by AuthMiddleware.
func Actor(c *gin.Context) domain.Actor {
	return domain.Actor{
		ID:   c.GetInt64(string(domain.KeyUserID)),
		Role: c.GetString(string(domain.KeyUserRole)),
	}
}
