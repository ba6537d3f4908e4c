package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	apperrors "github.com/allisson/filevault/internal/errors"
)

func newTestFileCipher(t *testing.T, secret string, alg cryptoDomain.Algorithm) *FileCipherService {
	t.Helper()
	deriver, err := NewPBKDF2KeyDeriver(newTestSecret(t, secret), 1000)
	require.NoError(t, err)
	return NewFileCipher(deriver, NewAEADManager(), alg)
}

func TestFileCipherService_RoundTrip(t *testing.T) {
	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			fc := newTestFileCipher(t, "secret", alg)
			salt := randomBytes(t, 16)
			nonce := randomBytes(t, 12)

			ciphertext, err := fc.Encrypt(salt, nonce, []byte("hello"))
			require.NoError(t, err)
			assert.NotEqual(t, []byte("hello"), ciphertext)

			plaintext, err := fc.Decrypt(salt, nonce, ciphertext)
			require.NoError(t, err)
			assert.Equal(t, []byte("hello"), plaintext)
		})
	}
}

func TestFileCipherService_Decrypt_Failures(t *testing.T) {
	fc := newTestFileCipher(t, "secret", cryptoDomain.AESGCM)
	salt := randomBytes(t, 16)
	nonce := randomBytes(t, 12)

	ciphertext, err := fc.Encrypt(salt, nonce, []byte("hello"))
	require.NoError(t, err)

	t.Run("wrong salt", func(t *testing.T) {
		_, err := fc.Decrypt(randomBytes(t, 16), nonce, ciphertext)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		assert.True(t, apperrors.Is(err, apperrors.ErrCrypto))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := newTestFileCipher(t, "other-secret", cryptoDomain.AESGCM)
		_, err := other.Decrypt(salt, nonce, ciphertext)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		tampered := append([]byte(nil), ciphertext...)
		tampered[0] ^= 0x01
		_, err := fc.Decrypt(salt, nonce, tampered)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("malformed salt", func(t *testing.T) {
		_, err := fc.Decrypt([]byte("short"), nonce, ciphertext)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("malformed nonce", func(t *testing.T) {
		_, err := fc.Decrypt(salt, []byte("short"), ciphertext)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})
}

func TestFileCipherService_Encrypt_Failures(t *testing.T) {
	fc := newTestFileCipher(t, "secret", cryptoDomain.AESGCM)

	_, err := fc.Encrypt([]byte("short"), randomBytes(t, 12), []byte("x"))
	assert.ErrorIs(t, err, cryptoDomain.ErrEncryptionFailed)

	_, err = fc.Encrypt(randomBytes(t, 16), []byte("short"), []byte("x"))
	assert.ErrorIs(t, err, cryptoDomain.ErrEncryptionFailed)

	bad := NewFileCipher(
		mustDeriver(t),
		NewAEADManager(),
		cryptoDomain.Algorithm("rot13"),
	)
	_, err = bad.Encrypt(randomBytes(t, 16), randomBytes(t, 12), []byte("x"))
	assert.ErrorIs(t, err, cryptoDomain.ErrEncryptionFailed)
}

func mustDeriver(t *testing.T) *PBKDF2KeyDeriver {
	t.Helper()
	d, err := NewPBKDF2KeyDeriver(newTestSecret(t, "secret"), 1000)
	require.NoError(t, err)
	return d
}
