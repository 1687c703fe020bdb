package db

import (
	"catalog_system/internal/domain" // Importing domain models
	"context"                        // Request scoped context
	"fmt"                            // Error wrapping

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Bootstrap admin account created on an empty users table
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// DefaultCategories are created on an empty categories table
var DefaultCategories = []string{"Accessories", "Laptops", "Monitors", "Printers", "Networking"}

var defaultLogos = []domain.Logo{
	{Name: "White Logo", Filename: "logowhite.png", Type: domain.LogoTypeWhite},
	{Name: "Black Logo", Filename: "logoblack.png", Type: domain.LogoTypeBlack},
}

var sampleProducts = []domain.Product{
	{Code: "1001", Name: "Mouse Gaming RGB", Specs: "إضاءة RGB – 7200 DPI – USB", Price: 350, Description: "ماوس ألعاب بإضاءة RGB"},
	{Code: "1002", Name: "Mechanical Keyboard", Specs: "Blue Switch – Anti-Ghosting", Price: 1200, Description: "لوحة مفاتيح ميكانيكية"},
	{Code: "1003", Name: "Headset Gaming", Specs: "7.1 Surround – Mic HD", Price: 850, Description: "سماعات ألعاب محيطية"},
	{Code: "1004", Name: "Webcam HD", Specs: "1080p – USB – Mic Built-in", Price: 500, Description: "كاميرا ويب عالية الدقة"},
}

// Seed inserts baseline rows into every empty table. Each table is guarded by
// its own row count, so Seed is safe to run on every startup.
func Seed(ctx context.Context, gdb *gorm.DB) error {
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			name string
			fn   func(*gorm.DB) error
		}{
			{"users", seedUsers},
			{"categories", seedCategories},
			{"logos", seedLogos},
			{"products", seedProducts},
			{"print_settings", seedPrintSettings},
		}
		for _, s := range steps {
			if err := s.fn(tx); err != nil {
				return fmt.Errorf("seed %s: %w", s.name, err)
			}
		}
		return nil
	})
}

func isEmpty(tx *gorm.DB, model any) (bool, error) {
	var count int64
	if err := tx.Model(model).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

func seedUsers(tx *gorm.DB) error {
	empty, err := isEmpty(tx, &domain.User{})
	if err != nil || !empty {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	fullName := "System Administrator"
	admin := domain.User{
		Username:     DefaultAdminUsername,
		PasswordHash: string(hash),
		FullName:     &fullName,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := tx.Create(&admin).Error; err != nil {
		return err
	}
	logrus.WithField("username", DefaultAdminUsername).Warn("Default admin account created, change its password")
	return nil
}

func seedCategories(tx *gorm.DB) error {
	empty, err := isEmpty(tx, &domain.Category{})
	if err != nil || !empty {
		return err
	}
	categories := make([]domain.Category, len(DefaultCategories))
	for i, name := range DefaultCategories {
		categories[i] = domain.Category{Name: name}
	}
	return tx.Create(&categories).Error
}

func seedLogos(tx *gorm.DB) error {
	empty, err := isEmpty(tx, &domain.Logo{})
	if err != nil || !empty {
		return err
	}
	logos := make([]domain.Logo, len(defaultLogos))
	copy(logos, defaultLogos)
	return tx.Create(&logos).Error
}

func seedProducts(tx *gorm.DB) error {
	empty, err := isEmpty(tx, &domain.Product{})
	if err != nil || !empty {
		return err
	}
	var categoryID *uint
	var accessories domain.Category
	err = tx.Where("name = ?", DefaultCategories[0]).Limit(1).Find(&accessories).Error
	if err != nil {
		return err
	}
	if accessories.ID != 0 {
		categoryID = &accessories.ID
	}
	products := make([]domain.Product, len(sampleProducts))
	for i, p := range sampleProducts {
		p.LogoURL = domain.DefaultLogoURL
		p.CategoryID = categoryID
		products[i] = p
	}
	return tx.Create(&products).Error
}

func seedPrintSettings(tx *gorm.DB) error {
	empty, err := isEmpty(tx, &domain.PrintSettings{})
	if err != nil || !empty {
		return err
	}
	settings := domain.DefaultPrintSettings()
	var white domain.Logo
	if err := tx.Where("type = ?", domain.LogoTypeWhite).Order("id").Limit(1).Find(&white).Error; err != nil {
		return err
	}
	if white.ID != 0 {
		settings.LogoID = &white.ID
	}
	return tx.Create(&settings).Error
}
