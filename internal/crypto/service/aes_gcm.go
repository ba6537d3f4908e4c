package service

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM.
//
// The instance is stateless and safe for concurrent use. Nonces are 12 bytes and
// the 16-byte tag is appended to the ciphertext.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance. The key must be exactly 32 bytes.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt seals plaintext using the caller-supplied nonce.
func (a *AESGCMCipher) Encrypt(nonce, plaintext, aad []byte) ([]byte, error) {
	return seal(a.aead, nonce, plaintext, aad)
}

// Decrypt verifies the tag and opens ciphertext. Any mismatch returns ErrDecryptionFailed.
func (a *AESGCMCipher) Decrypt(nonce, ciphertext, aad []byte) ([]byte, error) {
	return open(a.aead, nonce, ciphertext, aad)
}

func seal(aead cipher.AEAD, nonce, plaintext, aad []byte) ([]byte, error) {
	if len(nonce) != aead.NonceSize() {
		return nil, cryptoDomain.ErrInvalidNonceSize
	}
	return aead.Seal(nil, nonce, plaintext, aad), nil
}

func open(aead cipher.AEAD, nonce, ciphertext, aad []byte) ([]byte, error) {
	if len(nonce) != aead.NonceSize() {
		return nil, cryptoDomain.ErrInvalidNonceSize
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}
