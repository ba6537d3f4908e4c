package service

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

// PBKDF2KeyDeriver derives file keys with PBKDF2-HMAC-SHA256.
//
// The file secret is the PBKDF2 password and the file salt is the PBKDF2 salt.
// Keys are never persisted; they are recomputed from the stored salt on every
// decryption.
type PBKDF2KeyDeriver struct {
	secret     *cryptoDomain.FileSecret
	iterations int
}

// NewPBKDF2KeyDeriver creates a key deriver bound to the process-wide secret.
// Returns ErrFileSecretNotSet for a nil or empty secret and ErrInvalidIterations for iterations < 1.
func NewPBKDF2KeyDeriver(secret *cryptoDomain.FileSecret, iterations int) (*PBKDF2KeyDeriver, error) {
	if secret == nil || len(secret.Bytes()) == 0 {
		return nil, cryptoDomain.ErrFileSecretNotSet
	}
	if iterations < 1 {
		return nil, cryptoDomain.ErrInvalidIterations
	}
	return &PBKDF2KeyDeriver{secret: secret, iterations: iterations}, nil
}

// DeriveKey returns the 32-byte key for salt. The caller owns the returned slice and should zero it.
func (d *PBKDF2KeyDeriver) DeriveKey(salt []byte) ([]byte, error) {
	if len(salt) != cryptoDomain.SaltSize {
		return nil, cryptoDomain.ErrInvalidSaltSize
	}
	return pbkdf2.Key(d.secret.Bytes(), salt, d.iterations, cryptoDomain.KeySize, sha256.New), nil
}
