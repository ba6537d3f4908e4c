// Package domain defines the user entity that owns and receives shared files.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/filevault/internal/errors"
)

// User is an account that can upload files and be the target of shares.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is the result of a successful login.
type Session struct {
	UserID      uuid.UUID
	Username    string
	AccessToken string
	ExpiresAt   time.Time
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates the username is taken.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrInvalidCredentials indicates a wrong username or password.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid username or password")
)
