package domain

import "time"

// Roles a user account can hold
const (
	RoleAdmin = "admin" // Full access, including user management
	RoleUser  = "user"  // Read access plus print settings
)

// ValidRole reports whether role is one of the recognized roles
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                          // Primary key
	Username     string    `gorm:"uniqueIndex;size:191;not null" json:"username"` // Unique username
	PasswordHash string    `gorm:"size:255;not null" json:"-"`                    // Hashed password
	FullName     *string   `gorm:"size:255" json:"full_name"`                     // Optional full name
	Email        *string   `gorm:"size:255" json:"email"`                         // Optional email
	Phone        *string   `gorm:"size:64" json:"phone"`                          // Optional phone
	Role         string    `gorm:"size:16;not null;default:user" json:"role"`     // Role: user or admin
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`        // Deactivated users cannot log in
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`              // Creation timestamp
}

// PublicUser is the projection of a User that is safe to hand to clients
type PublicUser struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	FullName  *string   `json:"full_name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Public strips the password hash from u
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// IsAdmin reports whether the projection carries the admin role
func (u *PublicUser) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
