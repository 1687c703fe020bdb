package api

import (
	"net/http" // HTTP status codes

	"catalog_system/internal/domain"  // Default settings
	"catalog_system/internal/service" // Print settings service

	"github.com/gin-gonic/gin" // Gin web framework
)

// GetPrintSettingsHandler returns the effective settings, or the defaults
// when nothing has been saved yet
func GetPrintSettingsHandler(settings *service.PrintSettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := settings.Get(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		if view == nil {
			view = &service.PrintSettingsView{PrintSettings: domain.DefaultPrintSettings()}
		}
		c.JSON(http.StatusOK, view)
	}
}

func SavePrintSettingsHandler(settings *service.PrintSettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in service.PrintSettingsInput
		if err := c.ShouldBindJSON(&in); err != nil {
			writeError(c, errInvalidBody)
			return
		}
		saved, err := settings.Save(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		message(c, http.StatusOK, "Print settings saved successfully", gin.H{"settings": saved})
	}
}
