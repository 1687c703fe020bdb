// Package apperr defines the error values services hand back to the HTTP boundary.
package apperr

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
)

// Kind classifies an error for status-code mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindAuthentication
	KindAuthorization
	KindInvariant
)

// Error is a classified, client-presentable failure.
type Error struct {
	Kind    Kind
	Message string
}

// Error returns the client facing message.
func (e *Error) Error() string { return e.Message }

// Status maps the kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindConflict, KindInvariant:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error { return &Error{Kind: kind, Message: message} }

// Validation creates a KindValidation error.
func Validation(message string) *Error { return New(KindValidation, message) }

// Conflict creates a KindConflict error.
func Conflict(message string) *Error { return New(KindConflict, message) }

// NotFound creates a KindNotFound error.
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Invariant creates a KindInvariant error.
func Invariant(message string) *Error { return New(KindInvariant, message) }

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Auth errors.
var (
	ErrInvalidCredentials     = New(KindAuthentication, "Invalid username or password")
	ErrAccountDeactivated     = New(KindAuthentication, "Account is deactivated")
	ErrAuthenticationRequired = New(KindAuthentication, "Authentication required")
	ErrAdminRequired          = New(KindAuthorization, "Admin access required")
)

// User lifecycle errors.
var (
	ErrUserNotFound             = NotFound("User not found")
	ErrDuplicateUsername        = Conflict("Username already exists")
	ErrInvalidRole              = Validation("Role must be admin or user")
	ErrLastAdminProtected       = Invariant("Cannot delete the last admin user")
	ErrLastActiveAdminProtected = Invariant("Cannot deactivate the last active admin")
	ErrLastAdminDemotion        = Invariant("Cannot remove the admin role from the last active admin")
	ErrSelfDelete               = Invariant("Cannot delete your own account")
	ErrSelfDeactivate           = Invariant("Cannot deactivate your own account")
	ErrSelfRoleChange           = Invariant("Cannot change your own role")
)

// Resource errors.
var (
	ErrCategoryNotFound     = NotFound("Category not found")
	ErrDuplicateName        = Conflict("Category name already exists")
	ErrLogoNotFound         = NotFound("Logo not found")
	ErrDefaultLogoProtected = Invariant("Cannot delete default logos")
	ErrProductNotFound      = NotFound("Product not found")
	ErrDuplicateCode        = Conflict("Product code already exists")
)
