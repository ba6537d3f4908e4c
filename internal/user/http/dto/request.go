// Package dto provides data transfer objects for user HTTP requests and responses.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/filevault/internal/validation"
)

// RegisterRequest contains the parameters for creating an account.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"` //nolint:gosec // request field
}

// Validate checks the request shape. Password strength is enforced by the use case.
func (r *RegisterRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"` //nolint:gosec // request field
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Password, validation.Required),
	)
}
