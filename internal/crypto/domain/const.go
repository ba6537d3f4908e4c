package domain

// Algorithm represents the AEAD algorithm used for file payloads.
//
// Both supported algorithms take a 256-bit key and a 12-byte nonce and append a
// 16-byte authentication tag to the ciphertext.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM. Preferred on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305. Preferred where AES hardware support is missing.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the size in bytes of every derived file key.
	KeySize = 32

	// SaltSize is the size in bytes of the per-file KDF salt.
	SaltSize = 16

	// NonceSize is the size in bytes of the per-file AEAD nonce.
	NonceSize = 12

	// DefaultKDFIterations is the PBKDF2 round count used when none is configured.
	DefaultKDFIterations = 100000
)

// ParseAlgorithm converts a configuration string into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
