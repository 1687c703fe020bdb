package api

import (
	"net/http" // HTTP status codes

	"catalog_system/internal/service" // Logo service

	"github.com/gin-gonic/gin" // Gin web framework
)

func ListLogosHandler(logos *service.LogoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := logos.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// UploadLogoHandler accepts a multipart form with a "file" part and an
// optional "name" field
func UploadLogoHandler(logos *service.LogoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		up := service.LogoUpload{Name: c.PostForm("name")}
		if header, err := c.FormFile("file"); err == nil {
			f, err := header.Open()
			if err != nil {
				writeError(c, err)
				return
			}
			defer f.Close()
			up.Filename = header.Filename
			up.Size = header.Size
			up.Content = f
		}
		logo, err := logos.Create(c.Request.Context(), up)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, logo)
	}
}

func DeleteLogoHandler(logos *service.LogoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := logos.Delete(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		message(c, http.StatusOK, "Logo deleted successfully", nil)
	}
}
