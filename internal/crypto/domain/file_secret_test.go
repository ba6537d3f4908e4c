package domain

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/filevault/internal/errors"
)

type fakeKeeper struct {
	plaintext []byte
	err       error
	got       []byte
}

func (f *fakeKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	return plaintext, nil
}

func (f *fakeKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	f.got = ciphertext
	if f.err != nil {
		return nil, f.err
	}
	out := make([]byte, len(f.plaintext))
	copy(out, f.plaintext)
	return out, nil
}

func (f *fakeKeeper) Close() error { return nil }

func TestNewFileSecret(t *testing.T) {
	t.Run("copies input", func(t *testing.T) {
		in := []byte("super-secret")
		s, err := NewFileSecret(in)
		require.NoError(t, err)

		in[0] = 'X'
		assert.Equal(t, []byte("super-secret"), s.Bytes())
	})

	t.Run("empty is a configuration error", func(t *testing.T) {
		s, err := NewFileSecret(nil)
		assert.Nil(t, s)
		assert.ErrorIs(t, err, ErrFileSecretNotSet)
		assert.True(t, apperrors.Is(err, apperrors.ErrConfiguration))
	})
}

func TestFileSecret_Close(t *testing.T) {
	s, err := NewFileSecret([]byte("abc"))
	require.NoError(t, err)

	value := s.Bytes()
	s.Close()

	assert.Equal(t, []byte{0, 0, 0}, value)
	assert.Nil(t, s.Bytes())
}

func TestLoadFileSecret(t *testing.T) {
	ctx := context.Background()

	t.Run("plain value", func(t *testing.T) {
		s, err := LoadFileSecret(ctx, "plain-secret", nil)
		require.NoError(t, err)
		assert.Equal(t, []byte("plain-secret"), s.Bytes())
	})

	t.Run("empty value", func(t *testing.T) {
		_, err := LoadFileSecret(ctx, "", nil)
		assert.ErrorIs(t, err, ErrFileSecretNotSet)
	})

	t.Run("kms wrapped value", func(t *testing.T) {
		keeper := &fakeKeeper{plaintext: []byte("unwrapped")}
		raw := base64.StdEncoding.EncodeToString([]byte("wrapped"))

		s, err := LoadFileSecret(ctx, raw, keeper)
		require.NoError(t, err)
		assert.Equal(t, []byte("unwrapped"), s.Bytes())
		assert.Equal(t, []byte("wrapped"), keeper.got)
	})

	t.Run("kms value is not base64", func(t *testing.T) {
		_, err := LoadFileSecret(ctx, "%%%", &fakeKeeper{})
		assert.ErrorIs(t, err, ErrInvalidFileSecret)
	})

	t.Run("kms unwrap fails", func(t *testing.T) {
		keeper := &fakeKeeper{err: errors.New("kms down")}
		raw := base64.StdEncoding.EncodeToString([]byte("wrapped"))

		_, err := LoadFileSecret(ctx, raw, keeper)
		assert.ErrorIs(t, err, ErrInvalidFileSecret)
		assert.Contains(t, err.Error(), "kms down")
	})
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := ParseAlgorithm("aes-gcm")
	require.NoError(t, err)
	assert.Equal(t, AESGCM, alg)

	alg, err = ParseAlgorithm("chacha20-poly1305")
	require.NoError(t, err)
	assert.Equal(t, ChaCha20, alg)

	_, err = ParseAlgorithm("rot13")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}
