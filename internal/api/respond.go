package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing

	"catalog_system/internal/apperr" // Error taxonomy

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

var errInvalidBody = apperr.Validation("Invalid request body")

// writeError maps err onto its status code and the {"error": msg} body.
// Unclassified errors are logged and reported as 500; their text is only
// exposed outside release mode.
func writeError(c *gin.Context, err error) {
	if e, ok := apperr.As(err); ok && e.Kind != apperr.KindInternal {
		c.JSON(e.Status(), gin.H{"error": e.Message})
		return
	}
	logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).Error("Request failed")
	msg := err.Error()
	if gin.Mode() == gin.ReleaseMode {
		msg = "Internal server error"
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// message writes a {"message": msg} body merged with extra fields
func message(c *gin.Context, status int, msg string, extra gin.H) {
	body := gin.H{"message": msg}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

// pathID parses the numeric :id segment; anything else is reported as not found
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return 0, false
	}
	return uint(id), true
}
