package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/allisson/go-pwdhash"
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/filevault/internal/errors"
	"github.com/allisson/filevault/internal/user/domain"
	appValidation "github.com/allisson/filevault/internal/validation"
)

// userUseCase handles registration, login and user lookups.
type userUseCase struct {
	userRepo UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
}

// NewPasswordHasher creates the argon2id password hasher used for user passwords.
func NewPasswordHasher() (PasswordHasher, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}
	return hasher, nil
}

// NewUserUseCase creates a new user UseCase.
func NewUserUseCase(userRepo UserRepository, hasher PasswordHasher, tokens TokenIssuer) UseCase {
	return &userUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

func validateRegisterInput(input RegisterInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Username,
			validation.Required.Error("username is required"),
			appValidation.Username,
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:     8,
				RequireUpper:  true,
				RequireLower:  true,
				RequireNumber: true,
			},
		),
	)
	return appValidation.WrapValidationError(err)
}

// Register creates a new user with a hashed password.
func (uc *userUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	hash, err := uc.hasher.Hash([]byte(input.Password))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	user := &domain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     input.Username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues an access token.
// Unknown users and wrong passwords both return ErrInvalidCredentials.
func (uc *userUseCase) Login(ctx context.Context, input LoginInput) (*domain.Session, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := uc.hasher.Verify([]byte(input.Password), user.PasswordHash)
	if err != nil || !ok {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to issue access token")
	}

	return &domain.Session{
		UserID:      user.ID,
		Username:    user.Username,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// GetByID retrieves a user by ID.
func (uc *userUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// FindByUsername retrieves a user by exact username.
func (uc *userUseCase) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return uc.userRepo.GetByUsername(ctx, username)
}
