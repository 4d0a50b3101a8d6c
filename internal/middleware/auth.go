package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PNHMEDIA/faktury-app-v2/internal/service"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// SessionAuth creates a middleware that requires a valid session. The token
// is taken from the session cookie; an Authorization bearer header works too
// for non-browser clients.
func SessionAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "Unauthorized",
				"message": "Login required",
			})
			c.Abort()
			return
		}

		if _, err := authService.ValidateSession(token); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "Unauthorized",
				"message": "Invalid or expired session",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// sessionToken extracts the session token from the cookie or, failing that,
// from a bearer Authorization header.
func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
