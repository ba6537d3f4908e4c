// Package domain defines the encrypted file model, share grants, access levels and
// the public link state machine.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// File is an uploaded file whose content is stored encrypted at rest.
//
// Salt and Nonce are generated by the uploader. The file key is derived from the
// process-wide secret and Salt, so no key material is ever persisted.
// PublicToken and PublicTokenExpiresAt are either both nil or both set.
type File struct {
	ID                   uuid.UUID
	OwnerID              uuid.UUID
	FileName             string
	Ciphertext           []byte
	Salt                 []byte
	Nonce                []byte
	UploadedAt           time.Time
	PublicToken          *string
	PublicTokenExpiresAt *time.Time
}

// BlobKey returns the object key holding the file ciphertext.
func (f *File) BlobKey() string {
	return BlobKey(f.ID)
}

// BlobKey returns the object key for the file with the given id.
func BlobKey(id uuid.UUID) string {
	return "files/" + id.String()
}

// LinkState is the public link state of a file at a point in time.
type LinkState uint8

const (
	// LinkNone means the file has no public link.
	LinkNone LinkState = iota
	// LinkActive means the token is set and now <= expiresAt.
	LinkActive
	// LinkExpired means the token is set but now > expiresAt.
	LinkExpired
)

// String returns a human readable state name.
func (s LinkState) String() string {
	switch s {
	case LinkNone:
		return "none"
	case LinkActive:
		return "active"
	case LinkExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// LinkState evaluates the public link state lazily at now.
func (f *File) LinkState(now time.Time) LinkState {
	if f.PublicToken == nil || f.PublicTokenExpiresAt == nil {
		return LinkNone
	}
	if now.After(*f.PublicTokenExpiresAt) {
		return LinkExpired
	}
	return LinkActive
}

// FileSummary is a row of a user's file listing.
type FileSummary struct {
	ID                   uuid.UUID
	OwnerID              uuid.UUID
	OwnerUsername        string
	FileName             string
	UploadedAt           time.Time
	AccessLevel          AccessLevel
	PublicToken          *string
	PublicTokenExpiresAt *time.Time
}

// Content is decrypted file content ready to be served.
type Content struct {
	FileName string
	MimeType string
	Data     []byte
}

// Metadata is what a requester with at least view access may learn about a file.
type Metadata struct {
	FileID      uuid.UUID
	FileName    string
	Salt        []byte
	Nonce       []byte
	MimeType    string
	AccessLevel AccessLevel
	UploadedAt  time.Time
}

// PublicLink is an issued public link.
type PublicLink struct {
	FileID    uuid.UUID
	Token     string
	ExpiresAt time.Time
}
