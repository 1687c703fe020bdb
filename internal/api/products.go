package api

import (
	"bytes"         // Raw JSON inspection
	"encoding/json" // Custom price decoding
	"errors"        // Error inspection
	"net/http"      // HTTP status codes
	"strconv"       // Numeric string parsing
	"strings"       // String manipulation

	"catalog_system/internal/apperr"  // Error taxonomy
	"catalog_system/internal/service" // Product service

	"github.com/gin-gonic/gin" // Gin web framework
)

var errPriceNotNumber = apperr.Validation("Price must be a number")

// Price accepts a JSON number or a numeric string
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errPriceNotNumber
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return errPriceNotNumber
		}
		*p = Price(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return errPriceNotNumber
	}
	*p = Price(v)
	return nil
}

// ProductRequest is the body of product create and update. Code is ignored
// on update.
type ProductRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Specs       string `json:"specs"`
	Price       *Price `json:"price"`
	LogoURL     string `json:"logo_url"`
	CategoryID  *uint  `json:"category_id"`
	Description string `json:"description"`
}

func (r ProductRequest) input() service.ProductInput {
	in := service.ProductInput{
		Code:        r.Code,
		Name:        r.Name,
		Specs:       r.Specs,
		LogoURL:     r.LogoURL,
		CategoryID:  r.CategoryID,
		Description: r.Description,
	}
	if r.Price != nil {
		v := float64(*r.Price)
		in.Price = &v
	}
	return in
}

func bindProduct(c *gin.Context) (ProductRequest, bool) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, errPriceNotNumber) {
			writeError(c, errPriceNotNumber)
		} else {
			writeError(c, errInvalidBody)
		}
		return req, false
	}
	return req, true
}

func ListProductsHandler(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetProductHandler(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := products.Get(c.Request.Context(), c.Param("code"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func CreateProductHandler(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindProduct(c)
		if !ok {
			return
		}
		product, err := products.Create(c.Request.Context(), req.input())
		if err != nil {
			writeError(c, err)
			return
		}
		message(c, http.StatusCreated, "Product created successfully", gin.H{"id": product.ID})
	}
}

func UpdateProductHandler(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindProduct(c)
		if !ok {
			return
		}
		if err := products.Update(c.Request.Context(), c.Param("code"), req.input()); err != nil {
			writeError(c, err)
			return
		}
		message(c, http.StatusOK, "Product updated successfully", nil)
	}
}

func DeleteProductHandler(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := products.Delete(c.Request.Context(), c.Param("code")); err != nil {
			writeError(c, err)
			return
		}
		message(c, http.StatusOK, "Product deleted successfully", nil)
	}
}
