package api

import (
	"net/http" // HTTP status codes

	"catalog_system/internal/service" // Category service

	"github.com/gin-gonic/gin" // Gin web framework
)

// CategoryRequest is the body of category create and update
type CategoryRequest struct {
	Name string `json:"name"`
}

func ListCategoriesHandler(categories *service.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := categories.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func CreateCategoryHandler(categories *service.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, errInvalidBody)
			return
		}
		category, err := categories.Create(c.Request.Context(), req.Name)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func UpdateCategoryHandler(categories *service.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, errInvalidBody)
			return
		}
		category, err := categories.Update(c.Request.Context(), id, req.Name)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// DeleteCategoryHandler deletes a category; its products lose the reference
func DeleteCategoryHandler(categories *service.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		detached, err := categories.Delete(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		message(c, http.StatusOK, "Category deleted successfully", gin.H{"detached_products": detached})
	}
}
