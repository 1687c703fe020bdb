package api

import (
	"context"       // Ping deadline
	"net/http"      // HTTP status codes
	"path/filepath" // Page paths
	"time"          // Ping timeout

	"catalog_system/internal/middleware" // Current user lookup

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// PageHandler serves one static HTML page from webDir
func PageHandler(webDir, page string) gin.HandlerFunc {
	path := filepath.Join(webDir, page)
	return func(c *gin.Context) {
		c.File(path)
	}
}

// LoginPageHandler serves the login page, sending signed-in users home
func LoginPageHandler(webDir string) gin.HandlerFunc {
	page := PageHandler(webDir, "login.html")
	return func(c *gin.Context) {
		if middleware.CurrentUser(c) != nil {
			c.Redirect(http.StatusFound, "/")
			return
		}
		page(c)
	}
}

// HealthHandler reports whether the store answers
func HealthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
