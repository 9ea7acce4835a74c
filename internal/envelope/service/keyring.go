package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	cryptoDomain "github.com/allisson/actionserver/internal/crypto/domain"
	envelopeDomain "github.com/allisson/actionserver/internal/envelope/domain"
)

// EnvKeyring resolves decryption configuration from the process environment.
//
// Both variables share the same contract: an unset or blank variable yields
// an empty list with no error, while a present but malformed value is a hard
// configuration error. The environment is re-read on every call; nothing is
// cached, so key material cannot outlive a configuration change by more than
// one in-flight resolution.
type EnvKeyring struct{}

// NewEnvKeyring creates an EnvKeyring.
func NewEnvKeyring() *EnvKeyring {
	return &EnvKeyring{}
}

// Keys reads ACTION_SERVER_DECRYPT_KEYS: a JSON array of base64-encoded
// 32-byte AES keys, in trial order.
//
// Errors reference entries by position only; key bytes never appear in error
// messages.
func (k *EnvKeyring) Keys() ([][]byte, error) {
	entries, err := stringListFromEnv(envelopeDomain.EnvDecryptKeys)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", envelopeDomain.ErrInvalidDecryptKeys, err)
	}

	keys := make([][]byte, 0, len(entries))
	for i, entry := range entries {
		key, err := base64.StdEncoding.DecodeString(entry)
		if err != nil {
			return nil, fmt.Errorf(
				"%w: entry %d is not valid base64", envelopeDomain.ErrInvalidDecryptKeys, i,
			)
		}
		if len(key) != cryptoDomain.KeySize {
			return nil, fmt.Errorf(
				"%w: entry %d must decode to %d bytes, got %d",
				envelopeDomain.ErrInvalidDecryptKeys, i, cryptoDomain.KeySize, len(key),
			)
		}
		keys = append(keys, key)
	}

	return keys, nil
}

// DecryptSources reads ACTION_SERVER_DECRYPT_INFORMATION: a JSON array of
// "type:name" entries naming the sources to treat as potentially encrypted.
func (k *EnvKeyring) DecryptSources() ([]envelopeDomain.Source, error) {
	entries, err := stringListFromEnv(envelopeDomain.EnvDecryptInformation)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", envelopeDomain.ErrInvalidDecryptInformation, err)
	}

	sources := make([]envelopeDomain.Source, 0, len(entries))
	for _, entry := range entries {
		source, err := envelopeDomain.ParseSource(entry)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}

	return sources, nil
}

// stringListFromEnv implements the shared JSON-array-of-strings contract for
// the two decrypt configuration variables.
func stringListFromEnv(name string) ([]string, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return nil, nil
	}

	var entries []string
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, errors.New("not a JSON array of strings")
	}

	return entries, nil
}
