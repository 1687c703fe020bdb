package api

import (
	"net/http" // HTTP status codes

	"catalog_system/internal/apperr"     // Error taxonomy
	"catalog_system/internal/middleware" // Current user lookup
	"catalog_system/internal/service"    // Auth service

	"github.com/gin-gonic/gin" // Gin web framework
)

// CreateUserRequest is the body of POST /api/users
type CreateUserRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}

// UpdateUserRequest is the body of PUT /api/users/:id. A non-empty password
// replaces the stored one.
type UpdateUserRequest struct {
	Role     string  `json:"role"`
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password string  `json:"password"`
}

// ListUsersHandler returns every account, newest first
func ListUsersHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := auth.ListUsers(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// CreateUserHandler creates an account
func CreateUserHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, errInvalidBody)
			return
		}
		id, err := auth.CreateUser(c.Request.Context(), service.NewUser{
			Username: req.Username,
			Password: req.Password,
			Role:     req.Role,
			FullName: req.FullName,
			Email:    req.Email,
			Phone:    req.Phone,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		message(c, http.StatusCreated, "User created successfully", gin.H{"id": id})
	}
}

// UpdateUserHandler overwrites an account's profile and role. Admins cannot
// change their own role.
func UpdateUserHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, errInvalidBody)
			return
		}
		if me := middleware.CurrentUser(c); me != nil && me.ID == id && req.Role != me.Role {
			writeError(c, apperr.ErrSelfRoleChange)
			return
		}
		ctx := c.Request.Context()
		err := auth.UpdateUser(ctx, id, service.UserUpdate{
			FullName: req.FullName,
			Email:    req.Email,
			Phone:    req.Phone,
			Role:     req.Role,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		if req.Password != "" {
			if err := auth.UpdatePassword(ctx, id, req.Password); err != nil {
				writeError(c, err)
				return
			}
		}
		message(c, http.StatusOK, "User updated successfully", nil)
	}
}

// DeleteUserHandler removes an account other than the caller's own
func DeleteUserHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if me := middleware.CurrentUser(c); me != nil && me.ID == id {
			writeError(c, apperr.ErrSelfDelete)
			return
		}
		if err := auth.DeleteUser(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		message(c, http.StatusOK, "User deleted successfully", nil)
	}
}

// ToggleUserStatusHandler flips an account's active flag, never the caller's
func ToggleUserStatusHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if me := middleware.CurrentUser(c); me != nil && me.ID == id {
			writeError(c, apperr.ErrSelfDeactivate)
			return
		}
		active, err := auth.ToggleActive(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		msg := "User deactivated successfully"
		if active {
			msg = "User activated successfully"
		}
		message(c, http.StatusOK, msg, gin.H{"is_active": active})
	}
}
