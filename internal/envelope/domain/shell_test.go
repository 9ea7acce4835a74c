package domain_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/actionserver/internal/envelope/domain"
	apperrors "github.com/allisson/actionserver/internal/errors"
)

func b64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func validShell() map[string]any {
	return map[string]any{
		"cipher":    b64([]byte("some ciphertext")),
		"algorithm": "aes256-gcm",
		"iv":        b64(make([]byte, 12)),
		"auth-tag":  b64(make([]byte, 16)),
	}
}

func TestIsEncrypted(t *testing.T) {
	tests := []struct {
		name  string
		shell map[string]any
		want  bool
	}{
		{
			name:  "all discriminator keys present",
			shell: validShell(),
			want:  true,
		},
		{
			name: "auth-tag does not participate in classification",
			shell: map[string]any{
				"cipher":    b64([]byte("x")),
				"algorithm": "aes256-gcm",
				"iv":        b64(make([]byte, 12)),
			},
			want: true,
		},
		{
			name: "missing cipher",
			shell: map[string]any{
				"algorithm": "aes256-gcm",
				"iv":        b64(make([]byte, 12)),
			},
			want: false,
		},
		{
			name: "missing algorithm",
			shell: map[string]any{
				"cipher": b64([]byte("x")),
				"iv":     b64(make([]byte, 12)),
			},
			want: false,
		},
		{
			name: "missing iv",
			shell: map[string]any{
				"cipher":    b64([]byte("x")),
				"algorithm": "aes256-gcm",
			},
			want: false,
		},
		{
			name: "plain secrets shell",
			shell: map[string]any{
				"secrets": map[string]any{"api_key": "value"},
			},
			want: false,
		},
		{
			name:  "empty shell",
			shell: map[string]any{},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.IsEncrypted(tt.shell))
		})
	}
}

func TestParseEncryptedShell(t *testing.T) {
	t.Run("valid shell", func(t *testing.T) {
		shell, err := domain.ParseEncryptedShell(validShell())
		require.NoError(t, err)

		assert.Equal(t, "aes256-gcm", shell.Algorithm)
		assert.Equal(t, []byte("some ciphertext"), shell.Cipher)
		assert.Len(t, shell.IV, 12)
		assert.Len(t, shell.AuthTag, 16)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		raw := validShell()
		raw["algorithm"] = "aes128-cbc"

		_, err := domain.ParseEncryptedShell(raw)
		assert.ErrorIs(t, err, domain.ErrUnsupportedAlgorithm)
		assert.Contains(t, err.Error(), "aes128-cbc")
	})

	t.Run("algorithm checked before field decoding", func(t *testing.T) {
		raw := validShell()
		raw["algorithm"] = "aes128-cbc"
		raw["cipher"] = "not/valid/base64!!!"
		delete(raw, "auth-tag")

		_, err := domain.ParseEncryptedShell(raw)
		assert.ErrorIs(t, err, domain.ErrUnsupportedAlgorithm)
	})

	t.Run("non-string algorithm", func(t *testing.T) {
		raw := validShell()
		raw["algorithm"] = float64(5)

		_, err := domain.ParseEncryptedShell(raw)
		assert.ErrorIs(t, err, domain.ErrMalformedEnvelope)
		assert.Contains(t, err.Error(), `"algorithm"`)
	})

	t.Run("missing auth-tag", func(t *testing.T) {
		raw := validShell()
		delete(raw, "auth-tag")

		_, err := domain.ParseEncryptedShell(raw)
		assert.ErrorIs(t, err, domain.ErrMalformedEnvelope)
		assert.Contains(t, err.Error(), `"auth-tag"`)
	})

	t.Run("cipher not valid base64", func(t *testing.T) {
		raw := validShell()
		raw["cipher"] = "not/valid/base64!!!"

		_, err := domain.ParseEncryptedShell(raw)
		assert.ErrorIs(t, err, domain.ErrMalformedEnvelope)
		assert.Contains(t, err.Error(), `"cipher"`)
	})

	t.Run("iv with wrong length", func(t *testing.T) {
		raw := validShell()
		raw["iv"] = b64(make([]byte, 16))

		_, err := domain.ParseEncryptedShell(raw)
		assert.ErrorIs(t, err, domain.ErrMalformedEnvelope)
		assert.Contains(t, err.Error(), `"iv"`)
	})

	t.Run("auth-tag with wrong length", func(t *testing.T) {
		raw := validShell()
		raw["auth-tag"] = b64(make([]byte, 12))

		_, err := domain.ParseEncryptedShell(raw)
		assert.ErrorIs(t, err, domain.ErrMalformedEnvelope)
		assert.Contains(t, err.Error(), `"auth-tag"`)
	})

	t.Run("non-string iv", func(t *testing.T) {
		raw := validShell()
		raw["iv"] = []any{"a", "b"}

		_, err := domain.ParseEncryptedShell(raw)
		assert.ErrorIs(t, err, domain.ErrMalformedEnvelope)
		assert.Contains(t, err.Error(), `"iv"`)
	})

	t.Run("field errors never echo field content", func(t *testing.T) {
		raw := validShell()
		raw["cipher"] = "c2VjcmV0LWNpcGhlcnRleHQ" // invalid padding

		_, err := domain.ParseEncryptedShell(raw)
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "c2VjcmV0")
	})

	t.Run("all parse errors are invalid input", func(t *testing.T) {
		raw := validShell()
		raw["algorithm"] = "rot13"

		_, err := domain.ParseEncryptedShell(raw)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
