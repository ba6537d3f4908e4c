package service

import (
	"errors"
	"fmt"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

// FileCipherService encrypts file payloads under a key derived from the file's salt.
//
// No associated data is bound to file ciphertexts.
type FileCipherService struct {
	deriver     KeyDeriver
	aeadManager AEADManager
	algorithm   cryptoDomain.Algorithm
}

// NewFileCipher creates a FileCipherService.
func NewFileCipher(
	deriver KeyDeriver,
	aeadManager AEADManager,
	algorithm cryptoDomain.Algorithm,
) *FileCipherService {
	return &FileCipherService{
		deriver:     deriver,
		aeadManager: aeadManager,
		algorithm:   algorithm,
	}
}

// Encrypt derives the file key and seals plaintext. Failures wrap ErrEncryptionFailed.
func (f *FileCipherService) Encrypt(salt, nonce, plaintext []byte) ([]byte, error) {
	aead, key, err := f.cipherFor(salt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrEncryptionFailed, err)
	}
	defer cryptoDomain.Zero(key)

	ciphertext, err := aead.Encrypt(nonce, plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrEncryptionFailed, err)
	}
	return ciphertext, nil
}

// Decrypt derives the file key and opens ciphertext. Failures wrap ErrDecryptionFailed.
func (f *FileCipherService) Decrypt(salt, nonce, ciphertext []byte) ([]byte, error) {
	aead, key, err := f.cipherFor(salt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	defer cryptoDomain.Zero(key)

	plaintext, err := aead.Decrypt(nonce, ciphertext, nil)
	if err != nil {
		if errors.Is(err, cryptoDomain.ErrDecryptionFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

func (f *FileCipherService) cipherFor(salt []byte) (AEAD, []byte, error) {
	key, err := f.deriver.DeriveKey(salt)
	if err != nil {
		return nil, nil, err
	}

	aead, err := f.aeadManager.CreateCipher(key, f.algorithm)
	if err != nil {
		cryptoDomain.Zero(key)
		return nil, nil, err
	}
	return aead, key, nil
}
