package domain

import (
	"context"
	"encoding/base64"
	"fmt"
)

// FileSecret is the process-wide password fed to the key derivation function.
//
// It is loaded once at startup from FILE_ENCRYPTION_SECRET and is read-only
// afterwards. Every file key is derived from this secret plus the file's salt,
// so losing or changing it makes every stored file unreadable.
type FileSecret struct {
	value []byte
}

// NewFileSecret copies b into a new FileSecret. Returns ErrFileSecretNotSet when b is empty.
func NewFileSecret(b []byte) (*FileSecret, error) {
	if len(b) == 0 {
		return nil, ErrFileSecretNotSet
	}
	value := make([]byte, len(b))
	copy(value, b)
	return &FileSecret{value: value}, nil
}

// Bytes returns the secret material. Callers must not modify the returned slice.
func (s *FileSecret) Bytes() []byte {
	return s.value
}

// Close zeroes the secret material.
func (s *FileSecret) Close() {
	Zero(s.value)
	s.value = nil
}

// LoadFileSecret builds the FileSecret from its configured representation.
//
// Without a keeper the raw value is used verbatim as the secret. With a keeper the
// raw value must be the standard base64 encoding of a KMS ciphertext, which is
// unwrapped through the keeper (see the create-encryption-secret command).
func LoadFileSecret(ctx context.Context, raw string, keeper KMSKeeper) (*FileSecret, error) {
	if raw == "" {
		return nil, ErrFileSecretNotSet
	}

	if keeper == nil {
		return NewFileSecret([]byte(raw))
	}

	ciphertext, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFileSecret, err)
	}

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to unwrap with KMS: %v", ErrInvalidFileSecret, err)
	}
	defer Zero(plaintext)

	return NewFileSecret(plaintext)
}
