package service

import (
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

// ChaCha20Poly1305Cipher implements the AEAD interface using ChaCha20-Poly1305.
type ChaCha20Poly1305Cipher struct {
	aead cipher.AEAD
}

// NewChaCha20Poly1305 creates a new ChaCha20-Poly1305 cipher. The key must be exactly 32 bytes.
func NewChaCha20Poly1305(key []byte) (*ChaCha20Poly1305Cipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &ChaCha20Poly1305Cipher{aead: aead}, nil
}

// Encrypt seals plaintext using the caller-supplied nonce.
func (c *ChaCha20Poly1305Cipher) Encrypt(nonce, plaintext, aad []byte) ([]byte, error) {
	return seal(c.aead, nonce, plaintext, aad)
}

// Decrypt verifies the tag and opens ciphertext.
func (c *ChaCha20Poly1305Cipher) Decrypt(nonce, ciphertext, aad []byte) ([]byte, error) {
	return open(c.aead, nonce, ciphertext, aad)
}
