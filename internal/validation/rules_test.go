package validation

import (
	"encoding/base64"
	"errors"
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/filevault/internal/errors"
)

func TestPasswordStrength(t *testing.T) {
	rule := PasswordStrength{
		MinLength:      8,
		RequireUpper:   true,
		RequireLower:   true,
		RequireNumber:  true,
		RequireSpecial: true,
	}

	tests := []struct {
		name      string
		password  string
		shouldErr bool
		errMsg    string
	}{
		{name: "valid password", password: "SecurePass123!", shouldErr: false},
		{name: "too short", password: "Short1!", shouldErr: true, errMsg: "at least 8 characters"},
		{name: "missing uppercase", password: "securepass123!", shouldErr: true, errMsg: "uppercase letter"},
		{name: "missing lowercase", password: "SECUREPASS123!", shouldErr: true, errMsg: "lowercase letter"},
		{name: "missing number", password: "SecurePass!", shouldErr: true, errMsg: "number"},
		{name: "missing special char", password: "SecurePass123", shouldErr: true, errMsg: "special character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rule.Validate(tt.password)
			if tt.shouldErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("non string", func(t *testing.T) {
		assert.Error(t, rule.Validate(42))
	})

	t.Run("two digit min length message", func(t *testing.T) {
		err := PasswordStrength{MinLength: 12}.Validate("short")
		assert.EqualError(t, err, "password must be at least 12 characters")
	})
}

func TestUsername(t *testing.T) {
	valid := []string{"bob", "alice.smith", "user_01", "a+b@c-d"}
	invalid := []string{"ab", "has space", "semi;colon", "slash/name"}

	for _, s := range valid {
		assert.NoError(t, validation.Validate(s, Username), s)
	}
	for _, s := range invalid {
		assert.Error(t, validation.Validate(s, Username), s)
	}
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, validation.Validate("x", NotBlank))
	assert.Error(t, validation.Validate("   ", NotBlank))
}

func TestBase64Length(t *testing.T) {
	rule := Base64Length(16)

	assert.NoError(t, validation.Validate(base64.StdEncoding.EncodeToString(make([]byte, 16)), rule))
	assert.NoError(t, validation.Validate("", rule))

	err := validation.Validate(base64.StdEncoding.EncodeToString(make([]byte, 12)), rule)
	assert.EqualError(t, err, "must decode to exactly 16 bytes")

	err = validation.Validate("not base64!", rule)
	assert.EqualError(t, err, "must be valid base64-encoded data")
}

func TestBase64(t *testing.T) {
	assert.NoError(t, validation.Validate("aGVsbG8=", Base64))
	assert.Error(t, validation.Validate("***", Base64))
}

func TestWrapValidationError(t *testing.T) {
	assert.Nil(t, WrapValidationError(nil))

	err := WrapValidationError(errors.New("name: cannot be blank."))
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "name: cannot be blank.")
}
