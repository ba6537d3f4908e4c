package domain

import (
	"github.com/allisson/filevault/internal/errors"
)

// File domain errors.
var (
	// ErrFileNotFound indicates no file has the requested id.
	ErrFileNotFound = errors.Wrap(errors.ErrNotFound, "file not found")

	// ErrAccessDenied indicates the requester has no (or insufficient) access.
	// It shares its message and HTTP mapping with ErrFileNotFound so callers cannot
	// learn whether a file they may not see exists.
	ErrAccessDenied = errors.Wrap(errors.ErrNotFound, "file not found")

	// ErrPublicLinkNotFound indicates no file holds the token.
	ErrPublicLinkNotFound = errors.Wrap(errors.ErrNotFound, "public link not found")

	// ErrPublicLinkExpired indicates the token exists but its validity window has passed.
	ErrPublicLinkExpired = errors.Wrap(errors.ErrGone, "public link has expired")

	// ErrGrantNotFound indicates the user has no grant on the file.
	ErrGrantNotFound = errors.Wrap(errors.ErrNotFound, "share not found")

	// ErrSaltInUse indicates another file already uses the uploaded salt.
	ErrSaltInUse = errors.Wrap(errors.ErrConflict, "salt already in use")

	// ErrInvalidHoursValid indicates the requested public link validity is out of range.
	ErrInvalidHoursValid = errors.Wrap(errors.ErrInvalidInput, "hours_valid is out of range")

	// ErrNoShareEntries indicates a share call without entries.
	ErrNoShareEntries = errors.Wrap(errors.ErrInvalidInput, "at least one share entry is required")
)

// Share entry validation errors.
var (
	ErrUsernameRequired   = errors.Wrap(errors.ErrInvalidInput, "username is required")
	ErrShareUserNotFound  = errors.Wrap(errors.ErrInvalidInput, "user does not exist")
	ErrInvalidAccessLevel = errors.Wrap(errors.ErrInvalidInput, "access type must be view or download")
	ErrShareWithOwner     = errors.Wrap(errors.ErrInvalidInput, "cannot share a file with its owner")
)
