package middleware

import (
	"context" // Request scoped context

	"catalog_system/internal/domain"  // Importing domain models
	"catalog_system/internal/session" // Session cookie name

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

const currentUserKey = "currentUser"

// SessionResolver maps a cookie value to a user id
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (uint, bool, error)
}

// UserLoader loads the public projection of a user
type UserLoader interface {
	CurrentUser(ctx context.Context, userID uint) (*domain.PublicUser, error)
}

// LoadSession resolves the session cookie into the current user on every
// request. Requests without a valid session, or whose user is gone or
// deactivated, continue anonymously.
func LoadSession(sessions SessionResolver, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName) // Read the session cookie
		if err != nil || token == "" {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		userID, ok, err := sessions.Resolve(ctx, token)
		if err != nil {
			logrus.WithError(err).Error("Failed to resolve session")
			c.Next()
			return
		}
		if !ok {
			c.Next()
			return
		}
		user, err := users.CurrentUser(ctx, userID)
		if err != nil {
			logrus.WithError(err).WithField("user_id", userID).Error("Failed to load session user")
			c.Next()
			return
		}
		if user != nil && user.IsActive {
			c.Set(currentUserKey, user) // Store the resolved identity in context
		}
		c.Next()
	}
}

// CurrentUser returns the identity LoadSession stored, or nil
func CurrentUser(c *gin.Context) *domain.PublicUser {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.PublicUser)
	return user
}
