package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/actionserver/internal/errors"
)

// apiKeyService implements APIKeyService using Argon2id for key hashing.
type apiKeyService struct {
	hasher *pwdhash.PasswordHasher
}

// GenerateKey creates a new cryptographically secure 32-byte random API key.
// The key is base64-encoded for easy transmission and storage.
func (s *apiKeyService) GenerateKey() (plainKey string, hashedKey string, error error) {
	// 256 bits of entropy
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random api key")
	}

	// URL-safe base64 so the key survives headers and .env files unquoted
	plainKey = base64.URLEncoding.EncodeToString(randomBytes)

	// Hash the key
	hashedKey, err := s.HashKey(plainKey)
	if err != nil {
		return "", "", err
	}

	return plainKey, hashedKey, nil
}

// HashKey hashes a plain text API key using Argon2id.
func (s *apiKeyService) HashKey(plainKey string) (hashedKey string, error error) {
	hashedKey, err := s.hasher.Hash([]byte(plainKey))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash api key")
	}
	return hashedKey, nil
}

// CompareKey performs a constant-time comparison between a plain key and its hash.
func (s *apiKeyService) CompareKey(plainKey string, hashedKey string) bool {
	ok, err := s.hasher.Verify([]byte(plainKey), hashedKey)
	if err != nil {
		return false
	}
	return ok
}

// NewAPIKeyService creates a new APIKeyService instance using Argon2id hashing.
// Uses the Interactive policy: verification runs on every authenticated
// request, so the heavier policies would dominate request latency.
func NewAPIKeyService() APIKeyService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyInteractive),
	)
	if err != nil {
		// Only reachable with an invalid policy option
		panic(err)
	}

	return &apiKeyService{
		hasher: hasher,
	}
}
