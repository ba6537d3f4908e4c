package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

// generateLocalSecretsURI generates a base64key:// URI for testing.
func generateLocalSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestKMSService_OpenKeeper(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()

	t.Run("Success_LocalSecrets", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		assert.NoError(t, keeper.Close())
	})

	t.Run("Error_InvalidURI", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "invalid://uri")
		assert.Error(t, err)
		assert.Nil(t, keeper)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
	})
}

func TestLoadFileSecret_WithKMS(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()
	keyURI := generateLocalSecretsURI(t)

	keeper, err := kmsService.OpenKeeper(ctx, keyURI)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, keeper.Close())
	}()

	wrapped, err := keeper.Encrypt(ctx, []byte("file-secret-material"))
	require.NoError(t, err)
	raw := base64.StdEncoding.EncodeToString(wrapped)

	t.Run("unwraps with the same key", func(t *testing.T) {
		secret, err := LoadFileSecret(ctx, kmsService, raw, keyURI)
		require.NoError(t, err)
		assert.Equal(t, []byte("file-secret-material"), secret.Bytes())
	})

	t.Run("fails with another key", func(t *testing.T) {
		_, err := LoadFileSecret(ctx, kmsService, raw, generateLocalSecretsURI(t))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidFileSecret)
	})

	t.Run("plain secret without key uri", func(t *testing.T) {
		secret, err := LoadFileSecret(ctx, kmsService, "plain", "")
		require.NoError(t, err)
		assert.Equal(t, []byte("plain"), secret.Bytes())
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := LoadFileSecret(ctx, kmsService, "", keyURI)
		assert.ErrorIs(t, err, cryptoDomain.ErrFileSecretNotSet)
	})
}
