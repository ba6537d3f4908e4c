package service

import (
	"crypto/rand"
	"encoding/base64"

	apperrors "github.com/allisson/filevault/internal/errors"
)

// TokenSize is the number of random bytes in a public link token.
const TokenSize = 32

// tokenGenerator implements TokenGenerator using crypto/rand.
type tokenGenerator struct{}

// GenerateToken creates a new cryptographically secure 32-byte random token,
// base64 URL-encoded so it can be placed in a path segment.
func (t *tokenGenerator) GenerateToken() (string, error) {
	randomBytes := make([]byte, TokenSize)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate random token")
	}
	return base64.URLEncoding.EncodeToString(randomBytes), nil
}

// NewTokenGenerator creates a TokenGenerator backed by crypto/rand.
func NewTokenGenerator() TokenGenerator {
	return &tokenGenerator{}
}
