// Package usecase implements user registration, login and the user directory
// used to resolve share targets by username.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/filevault/internal/user/domain"
)

// RegisterInput contains the input data for user registration.
type RegisterInput struct {
	Username string
	Password string
}

// LoginInput contains the credentials for a login.
type LoginInput struct {
	Username string
	Password string
}

// UseCase defines the interface for user business logic operations.
type UseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (*domain.Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// PasswordHasher hashes and verifies passwords. *pwdhash.PasswordHasher satisfies it.
type PasswordHasher interface {
	Hash(password []byte) (string, error)
	Verify(password []byte, encoded string) (bool, error)
}

// TokenIssuer issues access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (token string, expiresAt time.Time, err error)
}
