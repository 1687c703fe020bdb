// Package service holds the catalog's business rules. Every operation takes a
// context, round-trips to the store and reports rule violations as *apperr.Error.
package service

import (
	"context" // Request scoped context
	"errors"  // Error inspection
	"fmt"     // Error wrapping

	"catalog_system/internal/apperr" // Typed application errors
	"catalog_system/internal/domain" // Domain models

	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // ORM
)

// AuthService verifies credentials, resolves session identities and manages
// user accounts.
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates an AuthService backed by db.
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Authenticate returns the full user record for a valid, active account.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	if !CheckPassword(password, user.PasswordHash) {
		return nil, apperr.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperr.ErrAccountDeactivated
	}
	return &user, nil
}

// CurrentUser resolves a session's user id to its public projection. It
// returns nil without error when the user no longer exists.
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*domain.PublicUser, error) {
	if userID == 0 {
		return nil, nil
	}
	var user domain.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).Limit(1).Find(&user).Error; err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	if user.ID == 0 {
		return nil, nil
	}
	return user.Public(), nil
}
