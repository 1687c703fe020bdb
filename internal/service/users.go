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

// NewUser describes an account to create.
type NewUser struct {
	Username string
	Password string
	Role     string
	FullName *string
	Email    *string
	Phone    *string
}

// UserUpdate is the complete desired profile of an account. Every field is
// written, nil pointers clear the column.
type UserUpdate struct {
	FullName *string
	Email    *string
	Phone    *string
	Role     string
}

// ListUsers returns every account, newest first.
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.PublicUser, error) {
	var users []domain.User
	if err := s.db.WithContext(ctx).Order("created_at desc").Order("id desc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*domain.PublicUser, len(users))
	for i := range users {
		out[i] = users[i].Public()
	}
	return out, nil
}

// CreateUser stores a new active account and returns its id.
func (s *AuthService) CreateUser(ctx context.Context, in NewUser) (uint, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return 0, apperr.Validation("Username and password are required")
	}
	if in.Role == "" {
		in.Role = domain.RoleUser
	}
	if !domain.ValidRole(in.Role) {
		return 0, apperr.ErrInvalidRole
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&domain.User{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return 0, apperr.ErrDuplicateUsername
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return 0, err
	}
	user := domain.User{
		Username:     in.Username,
		PasswordHash: hash,
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         in.Role,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, apperr.ErrDuplicateUsername
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username, "role": user.Role}).Info("User created")
	return user.ID, nil
}

func findUser(tx *gorm.DB, id uint) (*domain.User, error) {
	var user domain.User
	err := tx.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}

func countAdmins(tx *gorm.DB, activeOnly bool) (int64, error) {
	q := tx.Model(&domain.User{}).Where("role = ?", domain.RoleAdmin)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

// UpdateUser overwrites the profile fields and role of an account.
func (s *AuthService) UpdateUser(ctx context.Context, id uint, in UserUpdate) error {
	if !domain.ValidRole(in.Role) {
		return apperr.ErrInvalidRole
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := findUser(tx, id)
		if err != nil {
			return err
		}
		if user.Role == domain.RoleAdmin && user.IsActive && in.Role != domain.RoleAdmin {
			n, err := countAdmins(tx, true)
			if err != nil {
				return err
			}
			if n <= 1 {
				return apperr.ErrLastAdminDemotion
			}
		}
		return tx.Model(&domain.User{}).Where("id = ?", id).Updates(map[string]any{
			"full_name": in.FullName,
			"email":     in.Email,
			"phone":     in.Phone,
			"role":      in.Role,
		}).Error
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": id, "role": in.Role}).Info("User updated")
	return nil
}

// DeleteUser removes an account unless it is the only admin.
func (s *AuthService) DeleteUser(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := findUser(tx, id)
		if err != nil {
			return err
		}
		if user.Role == domain.RoleAdmin {
			n, err := countAdmins(tx, false)
			if err != nil {
				return err
			}
			if n <= 1 {
				return apperr.ErrLastAdminProtected
			}
		}
		return tx.Delete(&domain.User{}, id).Error
	})
	if err != nil {
		return err
	}
	logrus.WithField("user_id", id).Info("User deleted")
	return nil
}

// ToggleActive flips the active flag and returns the new value.
func (s *AuthService) ToggleActive(ctx context.Context, id uint) (bool, error) {
	var active bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := findUser(tx, id)
		if err != nil {
			return err
		}
		if user.IsActive && user.Role == domain.RoleAdmin {
			n, err := countAdmins(tx, true)
			if err != nil {
				return err
			}
			if n <= 1 {
				return apperr.ErrLastActiveAdminProtected
			}
		}
		active = !user.IsActive
		return tx.Model(&domain.User{}).Where("id = ?", id).Update("is_active", active).Error
	})
	if err != nil {
		return false, err
	}
	logrus.WithFields(logrus.Fields{"user_id": id, "is_active": active}).Info("User status toggled")
	return active, nil
}

// UpdatePassword replaces the stored hash. The old password is not checked.
func (s *AuthService) UpdatePassword(ctx context.Context, id uint, password string) error {
	if password == "" {
		return apperr.Validation("Password is required")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrUserNotFound
	}
	logrus.WithField("user_id", id).Info("User password changed")
	return nil
}
