// Package usecase implements file upload, retrieval, sharing and public links on top of
// per-file key derivation and authenticated encryption.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	filesDomain "github.com/allisson/filevault/internal/files/domain"
	userDomain "github.com/allisson/filevault/internal/user/domain"
)

// FileRepository persists file metadata. Ciphertext lives in the BlobStore.
type FileRepository interface {
	// Create inserts a file row. A reused salt returns ErrSaltInUse.
	Create(ctx context.Context, file *filesDomain.File) error

	// Get returns ErrFileNotFound when no row exists. Ciphertext is not loaded.
	Get(ctx context.Context, id uuid.UUID) (*filesDomain.File, error)

	// GetByPublicToken returns ErrPublicLinkNotFound when no file holds the token.
	GetByPublicToken(ctx context.Context, token string) (*filesDomain.File, error)

	// SetPublicLink stores token only if the file has no link or its link expired at now.
	// It reports whether the row was updated.
	SetPublicLink(ctx context.Context, id uuid.UUID, token string, expiresAt, now time.Time) (bool, error)

	// ClearPublicLink clears the link only if the file still holds token.
	// It reports whether the row was updated.
	ClearPublicLink(ctx context.Context, id uuid.UUID, token string) (bool, error)

	// ListForUser returns files owned by or shared with userID, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*filesDomain.FileSummary, error)

	// Delete removes the row. Grants cascade.
	Delete(ctx context.Context, id uuid.UUID) error
}

// GrantRepository persists share grants.
type GrantRepository interface {
	// Upsert creates the grant or replaces its access level.
	Upsert(ctx context.Context, grant *filesDomain.ShareGrant) error

	// Get returns ErrGrantNotFound when the user has no grant on the file.
	Get(ctx context.Context, fileID, userID uuid.UUID) (*filesDomain.ShareGrant, error)

	// Delete returns ErrGrantNotFound when nothing was deleted.
	Delete(ctx context.Context, fileID, userID uuid.UUID) error

	// ListByFile returns every grant on a file with the grantee username.
	ListByFile(ctx context.Context, fileID uuid.UUID) ([]*filesDomain.ShareGrant, error)
}

// BlobStore stores opaque ciphertext by key.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// UserDirectory resolves share targets by username.
type UserDirectory interface {
	FindByUsername(ctx context.Context, username string) (*userDomain.User, error)
}

// TokenGenerator produces public link tokens.
type TokenGenerator interface {
	GenerateToken() (string, error)
}

// Clock returns the current time.
type Clock func() time.Time

// UploadInput carries an upload. Salt and Nonce are raw bytes generated by the client.
type UploadInput struct {
	OwnerID  uuid.UUID
	FileName string
	Content  []byte
	Salt     []byte
	Nonce    []byte
}

// FileUseCase defines the authenticated file operations.
type FileUseCase interface {
	// Upload encrypts content with a key derived from the salt and stores the file.
	Upload(ctx context.Context, input UploadInput) (*filesDomain.File, error)

	// List returns the files the requester owns or has been granted.
	List(ctx context.Context, requesterID uuid.UUID, offset, limit int) ([]*filesDomain.FileSummary, error)

	// GetContent decrypts a file for a requester with download access.
	GetContent(ctx context.Context, fileID, requesterID uuid.UUID) (*filesDomain.Content, error)

	// GetMetadata returns file metadata for a requester with at least view access.
	GetMetadata(ctx context.Context, fileID, requesterID uuid.UUID) (*filesDomain.Metadata, error)

	// Share grants access to several users. Each entry succeeds or fails on its own.
	Share(
		ctx context.Context,
		fileID, ownerID uuid.UUID,
		entries []filesDomain.ShareRequest,
	) ([]filesDomain.ShareOutcome, error)

	// ListShares returns the grants on a file. Owner only.
	ListShares(ctx context.Context, fileID, ownerID uuid.UUID) ([]*filesDomain.ShareGrant, error)

	// RevokeShare removes the grant of username. Owner only.
	RevokeShare(ctx context.Context, fileID, ownerID uuid.UUID, username string) error

	// Delete removes the file, its grants and its ciphertext. Owner only.
	Delete(ctx context.Context, fileID, ownerID uuid.UUID) error
}

// PublicLinkUseCase defines the anonymous, single-use public link operations.
type PublicLinkUseCase interface {
	// Issue returns the active link or creates one valid for hoursValid hours (0 means default).
	Issue(ctx context.Context, fileID, requesterID uuid.UUID, hoursValid int) (*filesDomain.PublicLink, error)

	// GetMetadata resolves a token without consuming it.
	GetMetadata(ctx context.Context, token string) (*filesDomain.Metadata, error)

	// GetContent resolves a token, consumes it and returns the decrypted content.
	GetContent(ctx context.Context, token string) (*filesDomain.Content, error)

	// Revoke clears the link holding token. Unknown tokens succeed.
	Revoke(ctx context.Context, token string) error

	// RevokeForFile clears the link of a file. Owner only.
	RevokeForFile(ctx context.Context, fileID, requesterID uuid.UUID) error
}
