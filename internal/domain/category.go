package domain

// Category Model
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`                      // Primary key
	Name string `gorm:"uniqueIndex;size:191;not null" json:"name"` // Unique category name
}
