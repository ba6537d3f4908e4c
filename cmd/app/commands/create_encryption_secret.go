package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	cryptoService "github.com/allisson/filevault/internal/crypto/service"
)

// encryptionSecretSize is the number of random bytes behind a generated secret.
const encryptionSecretSize = 32

// RunCreateEncryptionSecret generates a random FILE_ENCRYPTION_SECRET and prints it as env lines.
//
// The secret is 32 random bytes in standard base64. When kmsKeyURI is set the encoded secret is
// wrapped by the KMS key and the base64 ciphertext is printed instead, together with KMS_KEY_URI.
// Both forms load to the same KDF password.
//
// For local development use kmsKeyURI="base64key://<32-byte-base64-key>".
func RunCreateEncryptionSecret(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
) error {
	raw := make([]byte, encryptionSecretSize)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate encryption secret: %w", err)
	}
	defer cryptoDomain.Zero(raw)

	secret := []byte(base64.StdEncoding.EncodeToString(raw))
	defer cryptoDomain.Zero(secret)

	if kmsKeyURI == "" {
		logger.Warn("encryption secret generated without KMS, store it in a secrets manager")
		_, _ = fmt.Fprintln(writer, "# File encryption secret (plaintext mode)")
		_, _ = fmt.Fprintf(writer, "FILE_ENCRYPTION_SECRET=\"%s\"\n", secret)
		return nil
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, secret)
	if err != nil {
		return fmt.Errorf("failed to encrypt secret with KMS: %w", err)
	}

	logger.Info("encryption secret generated and wrapped with KMS")
	_, _ = fmt.Fprintln(writer, "# File encryption secret (KMS mode)")
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "FILE_ENCRYPTION_SECRET=\"%s\"\n", base64.StdEncoding.EncodeToString(ciphertext))
	return nil
}
