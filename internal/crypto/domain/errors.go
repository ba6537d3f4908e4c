package domain

import (
	"github.com/allisson/filevault/internal/errors"
)

// Cryptographic error definitions.
//
// Encryption and decryption failures wrap errors.ErrCrypto and surface as
// server-side failures. Configuration failures wrap errors.ErrConfiguration and
// are fatal at startup.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidNonceSize indicates a nonce is not exactly 12 bytes.
	ErrInvalidNonceSize = errors.Wrap(errors.ErrInvalidInput, "invalid nonce size")

	// ErrInvalidSaltSize indicates a salt is not exactly 16 bytes.
	ErrInvalidSaltSize = errors.Wrap(errors.ErrInvalidInput, "invalid salt size")

	// ErrEncryptionFailed indicates the payload could not be encrypted.
	ErrEncryptionFailed = errors.Wrap(errors.ErrCrypto, "encryption failed")

	// ErrDecryptionFailed indicates the authentication tag did not verify.
	//
	// Wrong key, wrong nonce and tampered ciphertext are deliberately indistinguishable.
	ErrDecryptionFailed = errors.Wrap(errors.ErrCrypto, "decryption failed")

	// ErrFileSecretNotSet indicates FILE_ENCRYPTION_SECRET is absent or empty.
	ErrFileSecretNotSet = errors.Wrap(errors.ErrConfiguration, "file encryption secret is not set")

	// ErrInvalidFileSecret indicates the KMS-wrapped file secret could not be decoded or unwrapped.
	ErrInvalidFileSecret = errors.Wrap(errors.ErrConfiguration, "invalid file encryption secret")

	// ErrInvalidIterations indicates a non-positive KDF iteration count.
	ErrInvalidIterations = errors.Wrap(errors.ErrConfiguration, "kdf iterations must be positive")
)
