package domain

import "time"

// Logo types. White and black are seeded and cannot be deleted.
const (
	LogoTypeWhite  = "white"
	LogoTypeBlack  = "black"
	LogoTypeCustom = "custom"
)

// Logo Model
type Logo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                        // Primary key
	Name      string    `gorm:"size:255;not null" json:"name"`               // Display name
	Filename  string    `gorm:"size:255;not null" json:"filename"`           // Stored file reference
	Type      string    `gorm:"size:16;not null;default:custom" json:"type"` // white, black or custom
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`            // Upload timestamp
}

// IsDefault reports whether the logo is one of the protected seeded logos
func (l *Logo) IsDefault() bool {
	return l.Type == LogoTypeWhite || l.Type == LogoTypeBlack
}
