// Package service provides the cryptographic primitives behind file encryption:
// PBKDF2 key derivation, AEAD ciphers with caller-supplied nonces, the file cipher
// composing both, and KMS access for wrapping the process-wide file secret.
package service

import (
	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
//
// The nonce is always supplied by the caller and must be unique per key.
type AEAD interface {
	// Encrypt seals plaintext with the given nonce and optional AAD.
	Encrypt(nonce, plaintext, aad []byte) ([]byte, error)

	// Decrypt opens ciphertext with the given nonce and AAD.
	Decrypt(nonce, ciphertext, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyDeriver derives a per-file key from a salt.
type KeyDeriver interface {
	// DeriveKey returns a 32-byte key. Identical salts always yield identical keys.
	DeriveKey(salt []byte) ([]byte, error)
}

// FileCipher encrypts and decrypts file payloads under per-file derived keys.
type FileCipher interface {
	Encrypt(salt, nonce, plaintext []byte) ([]byte, error)
	Decrypt(salt, nonce, ciphertext []byte) ([]byte, error)
}
