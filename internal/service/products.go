package service

import (
	"context" // Request scoped context
	"errors"  // Error inspection
	"fmt"     // Error wrapping
	"strings" // String trimming
	"time"    // Timestamps

	"catalog_system/internal/apperr" // Typed application errors
	"catalog_system/internal/domain" // Domain models

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // ORM
)

// ProductInput carries the caller's product fields. Empty strings and nil
// pointers take the documented defaults.
type ProductInput struct {
	Code        string
	Name        string
	Specs       string
	Price       *float64
	LogoURL     string
	CategoryID  *uint
	Description string
}

// ProductService manages the product catalog.
type ProductService struct {
	db *gorm.DB
}

// NewProductService creates a ProductService backed by db.
func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) views(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&domain.Product{}).
		Select("products.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = products.category_id")
}

// List returns every product ordered by code.
func (s *ProductService) List(ctx context.Context) ([]domain.ProductView, error) {
	var products []domain.ProductView
	if err := s.views(ctx).Order("products.code").Scan(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Get returns the product with the given code joined with its category name.
func (s *ProductService) Get(ctx context.Context, code string) (*domain.ProductView, error) {
	var products []domain.ProductView
	if err := s.views(ctx).Where("products.code = ?", code).Limit(1).Scan(&products).Error; err != nil {
		return nil, fmt.Errorf("get product %q: %w", code, err)
	}
	if len(products) == 0 {
		return nil, apperr.ErrProductNotFound
	}
	return &products[0], nil
}

func checkPrice(price float64) error {
	if price < 0 {
		return apperr.Validation("Price must be a non-negative number")
	}
	return nil
}

func checkCategory(tx *gorm.DB, id *uint) error {
	if id == nil {
		return nil
	}
	var n int64
	if err := tx.Model(&domain.Category{}).Where("id = ?", *id).Count(&n).Error; err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if n == 0 {
		return apperr.Validation("Invalid category_id")
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Create validates in and inserts a new product.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.Code == "":
		return nil, apperr.Validation("Field code is required")
	case in.Name == "":
		return nil, apperr.Validation("Field name is required")
	case in.Price == nil:
		return nil, apperr.Validation("Field price is required")
	}
	if err := checkPrice(*in.Price); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := checkCategory(db, in.CategoryID); err != nil {
		return nil, err
	}
	var n int64
	if err := db.Model(&domain.Product{}).Where("code = ?", in.Code).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("check product code: %w", err)
	}
	if n > 0 {
		return nil, apperr.ErrDuplicateCode
	}

	product := domain.Product{
		Code:        in.Code,
		Name:        in.Name,
		Specs:       in.Specs,
		Price:       *in.Price,
		LogoURL:     orDefault(in.LogoURL, domain.DefaultLogoURL),
		CategoryID:  in.CategoryID,
		Description: in.Description,
	}
	if err := db.Create(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.ErrDuplicateCode
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	logrus.WithFields(logrus.Fields{"product_id": product.ID, "code": product.Code}).Info("Product created")
	return &product, nil
}

// Update overwrites every mutable field of the product identified by code.
func (s *ProductService) Update(ctx context.Context, code string, in ProductInput) error {
	db := s.db.WithContext(ctx)
	var n int64
	if err := db.Model(&domain.Product{}).Where("code = ?", code).Count(&n).Error; err != nil {
		return fmt.Errorf("find product %q: %w", code, err)
	}
	if n == 0 {
		return apperr.ErrProductNotFound
	}
	price := 0.0
	if in.Price != nil {
		price = *in.Price
	}
	if err := checkPrice(price); err != nil {
		return err
	}
	if err := checkCategory(db, in.CategoryID); err != nil {
		return err
	}
	err := db.Model(&domain.Product{}).Where("code = ?", code).Updates(map[string]any{
		"name":        strings.TrimSpace(in.Name),
		"specs":       in.Specs,
		"price":       price,
		"logo_url":    orDefault(in.LogoURL, domain.DefaultLogoURL),
		"category_id": in.CategoryID,
		"description": in.Description,
		"updated_at":  time.Now(),
	}).Error
	if err != nil {
		return fmt.Errorf("update product %q: %w", code, err)
	}
	logrus.WithField("code", code).Info("Product updated")
	return nil
}

// Delete removes the product with the given code.
func (s *ProductService) Delete(ctx context.Context, code string) error {
	res := s.db.WithContext(ctx).Where("code = ?", code).Delete(&domain.Product{})
	if res.Error != nil {
		return fmt.Errorf("delete product %q: %w", code, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrProductNotFound
	}
	logrus.WithField("code", code).Info("Product deleted")
	return nil
}
