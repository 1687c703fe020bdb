package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"catalog_system/internal/apperr"     // Error taxonomy
	"catalog_system/internal/middleware" // Current user lookup
	"catalog_system/internal/service"    // Auth service
	"catalog_system/internal/session"    // Session manager

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username"` // Account name
	Password string `json:"password"` // Plain text password
}

// LoginObserver records login outcomes
type LoginObserver interface {
	ObserveLogin(result string)
}

func setSessionCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, maxAge, "/", "", secure, true)
}

// LoginHandler verifies credentials, opens a session and sets its cookie
func LoginHandler(auth *service.AuthService, sessions *session.Manager, observer LoginObserver, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, errInvalidBody)
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || req.Password == "" {
			writeError(c, apperr.Validation("Username and password are required"))
			return
		}
		ctx := c.Request.Context()
		user, err := auth.Authenticate(ctx, req.Username, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperr.ErrInvalidCredentials):
				observer.ObserveLogin("invalid_credentials")
			case errors.Is(err, apperr.ErrAccountDeactivated):
				observer.ObserveLogin("deactivated")
			default:
				observer.ObserveLogin("error")
			}
			logrus.WithFields(logrus.Fields{"username": req.Username, "ip": c.ClientIP()}).WithError(err).Warn("Login failed")
			writeError(c, err)
			return
		}
		token, err := sessions.Start(ctx, user.ID)
		if err != nil {
			observer.ObserveLogin("error")
			writeError(c, err)
			return
		}
		setSessionCookie(c, token, int(sessions.TTL().Seconds()), secure)
		observer.ObserveLogin("success")
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("User logged in")
		message(c, http.StatusOK, "Login successful", gin.H{"user": user.Public()})
	}
}

// LogoutHandler ends the session and expires its cookie
func LogoutHandler(sessions *session.Manager, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(session.CookieName); err == nil && token != "" {
			if err := sessions.End(c.Request.Context(), token); err != nil {
				logrus.WithError(err).Warn("Failed to end session")
			}
		}
		setSessionCookie(c, "", -1, secure)
		message(c, http.StatusOK, "Logged out successfully", nil)
	}
}

// MeHandler returns the current user's public projection
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, middleware.CurrentUser(c))
	}
}
