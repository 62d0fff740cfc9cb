package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Pranay9392/meity-audit-v2/internal/models"
	"github.com/Pranay9392/meity-audit-v2/internal/services"
)

const currentUserKey = "currentUser"
const sessionCookieName = "audit_session"

// Auth resolves the caller from a bearer token or session cookie and aborts
// unauthenticated requests. The resolved user is stored in the gin context
// for handlers to pick up via GetCurrentUser.
func Auth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		user, err := auth.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(sessionCookieName); err == nil {
		return cookie
	}
	return ""
}

// GetCurrentUser returns the authenticated user placed in context by Auth.
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// SessionCookieName exposes the cookie used for browser sessions.
func SessionCookieName() string { return sessionCookieName }
