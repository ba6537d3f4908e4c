package dto

import (
	"time"

	"github.com/allisson/filevault/internal/user/domain"
)

// UserResponse represents a user in API responses (excludes the password hash).
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// MapUserToResponse converts a domain user to an API response.
func MapUserToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}

// LoginResponse contains the issued access token.
type LoginResponse struct {
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	AccessToken string    `json:"access_token"` //nolint:gosec // returned to the authenticated user
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// MapSessionToResponse converts a session to a login response.
func MapSessionToResponse(session *domain.Session) LoginResponse {
	return LoginResponse{
		UserID:      session.UserID.String(),
		Username:    session.Username,
		AccessToken: session.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   session.ExpiresAt,
	}
}
