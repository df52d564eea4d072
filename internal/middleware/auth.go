package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chatter-service/internal/auth"
)

// UserEmailKey is the gin context key holding the authenticated email.
const UserEmailKey = "userEmail"

// AuthMiddleware validates the Authorization header and stores the
// verified email in the request context.
func AuthMiddleware(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		email, err := tokens.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(UserEmailKey, email)
		c.Next()
	}
}
