package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ShareGrant gives a user view or download access to a file.
// There is at most one grant per (FileID, UserID).
type ShareGrant struct {
	FileID      uuid.UUID
	UserID      uuid.UUID
	Username    string
	AccessLevel AccessLevel
	GrantedAt   time.Time
}

// ShareRequest is one entry of a share call, as received from the caller.
type ShareRequest struct {
	Username    string
	AccessLevel string
}

// ShareOutcome reports the result of a single share entry.
// Err is nil on success and a *ShareEntryError otherwise.
type ShareOutcome struct {
	Username    string
	AccessLevel AccessLevel
	Err         error
}

// ShareEntryError is the validation failure of one share entry.
type ShareEntryError struct {
	Index    int
	Username string
	Err      error
}

// Error implements error.
func (e *ShareEntryError) Error() string {
	return fmt.Sprintf("share entry %d (%q): %v", e.Index, e.Username, e.Err)
}

// Unwrap returns the underlying validation error.
func (e *ShareEntryError) Unwrap() error {
	return e.Err
}
