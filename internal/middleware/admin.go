package middleware

import (
	"net/http" // HTTP status codes

	"catalog_system/internal/apperr" // Error messages

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequireAuth rejects anonymous API requests
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			// No session, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperr.ErrAuthenticationRequired.Message})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects API requests from anyone but an admin
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperr.ErrAuthenticationRequired.Message})
			return
		}
		// Check if user role is admin
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": apperr.ErrAdminRequired.Message})
			return
		}
		c.Next()
	}
}

// RequireAuthPage sends anonymous page requests to the login page
func RequireAuthPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdminPage sends anonymous visitors to the login page and
// non-admins to the home page
func RequireAdminPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		switch {
		case user == nil:
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		case !user.IsAdmin():
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
