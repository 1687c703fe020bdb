package service

import (
	"context" // Request scoped context
	"errors"  // Error inspection
	"fmt"     // Error wrapping
	"strings" // String trimming

	"catalog_system/internal/apperr" // Typed application errors
	"catalog_system/internal/domain" // Domain models

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // ORM
)

// CategoryService manages product categories.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a CategoryService backed by db.
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func normalizeCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Validation("Category name is required")
	}
	return name, nil
}

func nameTaken(tx *gorm.DB, name string, exceptID uint) (bool, error) {
	var n int64
	err := tx.Model(&domain.Category{}).Where("name = ? AND id <> ?", name, exceptID).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check category name: %w", err)
	}
	return n > 0, nil
}

// Create adds a category with a unique, non-blank name.
func (s *CategoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	name, err := normalizeCategoryName(name)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	if taken, err := nameTaken(db, name, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.ErrDuplicateName
	}
	category := domain.Category{Name: name}
	if err := db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.ErrDuplicateName
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	logrus.WithFields(logrus.Fields{"category_id": category.ID, "name": name}).Info("Category created")
	return &category, nil
}

// Update renames the category identified by id.
func (s *CategoryService) Update(ctx context.Context, id uint, name string) (*domain.Category, error) {
	name, err := normalizeCategoryName(name)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	var category domain.Category
	if err := db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category %d: %w", id, err)
	}
	if taken, err := nameTaken(db, name, id); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.ErrDuplicateName
	}
	if err := db.Model(&category).Update("name", name).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.ErrDuplicateName
		}
		return nil, fmt.Errorf("update category %d: %w", id, err)
	}
	logrus.WithFields(logrus.Fields{"category_id": id, "name": name}).Info("Category updated")
	return &category, nil
}

// Delete detaches every product from the category, then removes it. It
// returns the number of products that were detached.
func (s *CategoryService) Delete(ctx context.Context, id uint) (int64, error) {
	var detached int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category domain.Category
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrCategoryNotFound
			}
			return err
		}
		res := tx.Model(&domain.Product{}).Where("category_id = ?", id).Update("category_id", nil)
		if res.Error != nil {
			return fmt.Errorf("detach products: %w", res.Error)
		}
		detached = res.RowsAffected
		return tx.Delete(&category).Error
	})
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{"category_id": id, "detached_products": detached}).Info("Category deleted")
	return detached, nil
}
