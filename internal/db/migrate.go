package db

import (
	"catalog_system/internal/domain" // Importing domain models
	"context"                        // Request scoped context
	"fmt"                            // Error wrapping
	"strings"                        // Legacy category names
	"time"                           // Migration timestamps

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// schemaMigration records an applied migration step
type schemaMigration struct {
	ID        string    `gorm:"primaryKey;size:64"`
	AppliedAt time.Time `gorm:"not null"`
}

func (schemaMigration) TableName() string { return "schema_migrations" }

// migration is one forward-only schema step. Up must be safe to run against a
// schema that already contains its changes.
type migration struct {
	ID string
	Up func(tx *gorm.DB) error
}

// migrations in application order. Never reorder or edit an existing entry.
var migrations = []migration{
	{ID: "0001_baseline", Up: createBaseline},
	{ID: "0002_user_profile", Up: addColumns(&domain.User{}, "FullName", "Email", "Phone", "IsActive")},
	{ID: "0003_print_border", Up: addColumns(&domain.PrintSettings{}, "BorderEnabled", "BorderColor", "BorderWidth")},
	{ID: "0004_print_card_layout", Up: addColumns(&domain.PrintSettings{}, "CardMode", "CardWidth", "CardHeight")},
	{ID: "0005_product_category_ref", Up: linkProductCategories},
	{ID: "0006_print_baseline_columns", Up: addColumns(&domain.PrintSettings{},
		"CustomWidth", "CustomHeight", "CardColorStart", "CardColorEnd", "LogoID",
		"LogoPosition", "LogoSize", "FontSize", "FontColor", "UpdatedAt")},
}

// Initial column sets, before profile, border and card layout columns existed.
type baselineUser struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;size:191;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Role         string    `gorm:"size:16;not null;default:user"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (baselineUser) TableName() string { return "users" }

type baselinePrintSettings struct {
	ID             uint      `gorm:"primaryKey"`
	PageSize       string    `gorm:"size:32;not null;default:A4"`
	CustomWidth    float64   `gorm:"not null;default:21"`
	CustomHeight   float64   `gorm:"not null;default:29.7"`
	CardColorStart string    `gorm:"size:16;not null;default:#1e3c72"`
	CardColorEnd   string    `gorm:"size:16;not null;default:#2a5298"`
	LogoID         *uint     `gorm:"index"`
	LogoPosition   string    `gorm:"size:32;not null;default:top-center"`
	LogoSize       int       `gorm:"not null;default:100"`
	FontSize       int       `gorm:"not null;default:28"`
	FontColor      string    `gorm:"size:16;not null;default:#ffffff"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (baselinePrintSettings) TableName() string { return "print_settings" }

func createBaseline(tx *gorm.DB) error {
	m := tx.Migrator()
	for _, model := range []any{&baselineUser{}, &domain.Category{}, &domain.Logo{}, &baselinePrintSettings{}, &domain.Product{}} {
		if m.HasTable(model) {
			continue
		}
		if err := m.CreateTable(model); err != nil {
			return err
		}
	}
	return nil
}

// addColumns adds each missing field of model as a column, using the field's default
func addColumns(model any, fields ...string) func(tx *gorm.DB) error {
	return func(tx *gorm.DB) error {
		m := tx.Migrator()
		for _, field := range fields {
			if m.HasColumn(model, field) {
				continue
			}
			if err := m.AddColumn(model, field); err != nil {
				return fmt.Errorf("add column %s: %w", field, err)
			}
		}
		return nil
	}
}

// linkProductCategories adds products.category_id and, on stores that still
// carry the free-text products.category column, points each product at a
// category of that name, creating the category when needed
func linkProductCategories(tx *gorm.DB) error {
	if err := addColumns(&domain.Product{}, "CategoryID")(tx); err != nil {
		return err
	}
	m := tx.Migrator()
	if !m.HasIndex(&domain.Product{}, "CategoryID") {
		if err := m.CreateIndex(&domain.Product{}, "CategoryID"); err != nil {
			return fmt.Errorf("index category_id: %w", err)
		}
	}
	if !m.HasColumn(&domain.Product{}, "category") {
		return nil // No legacy column to carry over
	}

	var legacy []string
	err := tx.Table("products").
		Where("category IS NOT NULL AND TRIM(category) <> '' AND category_id IS NULL").
		Distinct("category").Pluck("category", &legacy).Error
	if err != nil {
		return fmt.Errorf("read legacy categories: %w", err)
	}
	for _, raw := range legacy {
		category := domain.Category{Name: strings.TrimSpace(raw)}
		if err := tx.Where("name = ?", category.Name).FirstOrCreate(&category).Error; err != nil {
			return fmt.Errorf("create category %q: %w", category.Name, err)
		}
		res := tx.Table("products").Where("category = ? AND category_id IS NULL", raw).Update("category_id", category.ID)
		if res.Error != nil {
			return fmt.Errorf("link products to %q: %w", category.Name, res.Error)
		}
		logrus.WithFields(logrus.Fields{"category": category.Name, "products": res.RowsAffected}).Info("Linked legacy product category")
	}
	return nil
}

// Migrate applies every pending migration step in order
func Migrate(ctx context.Context, gdb *gorm.DB) error {
	gdb = gdb.WithContext(ctx)
	if err := gdb.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var applied []string
	if err := gdb.Model(&schemaMigration{}).Pluck("id", &applied).Error; err != nil {
		return fmt.Errorf("load applied migrations: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, id := range applied {
		done[id] = true
	}

	for _, step := range migrations {
		if done[step.ID] {
			continue
		}
		err := gdb.Transaction(func(tx *gorm.DB) error {
			if err := step.Up(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{ID: step.ID, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %s: %w", step.ID, err)
		}
		logrus.WithField("migration", step.ID).Info("Migration applied")
	}
	return nil
}
