package domain

import "time"

// DefaultLogoURL is the logo reference products get when none is supplied
const DefaultLogoURL = "logo.png"

// Product Model
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`                     // Primary key
	Code        string    `gorm:"uniqueIndex;size:64;not null" json:"code"` // Business key, immutable
	Name        string    `gorm:"size:255;not null" json:"name"`            // Product name
	Specs       string    `gorm:"type:text" json:"specs"`                   // Free-text specs
	Price       float64   `gorm:"not null" json:"price"`                    // Non-negative price
	LogoURL     string    `gorm:"column:logo_url;size:255" json:"logo_url"` // Logo file name, not a foreign key
	CategoryID  *uint     `gorm:"index" json:"category_id"`                 // Optional category reference
	Description string    `gorm:"type:text" json:"description"`             // Free-text description
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`         // Creation timestamp
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`         // Refreshed on every mutation
}

// ProductView is a Product joined with its category name
type ProductView struct {
	Product
	CategoryName *string `json:"category_name"`
}
