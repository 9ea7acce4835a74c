// Package service provides technical services for API key authentication.
//
// This package implements reusable services for API key generation, hashing,
// and validation using industry-standard cryptographic practices.
package service

// APIKeyService defines operations for API key generation and validation.
//
// The server authenticates callers against a single static key configured by
// the operator, either as an Argon2id hash (preferred) or as the plain key.
// Implementations must use cryptographically secure random generation and
// industry-standard hashing algorithms (e.g., bcrypt, argon2).
type APIKeyService interface {
	// GenerateKey creates a new cryptographically secure random API key.
	// Returns both the plain text key (to be shared with the operator) and
	// the hashed version (to be placed in the server configuration).
	//
	// The plain key should be treated as sensitive data and only displayed
	// once during generation.
	GenerateKey() (plainKey string, hashedKey string, error error)

	// HashKey hashes a plain text API key using a secure hashing algorithm.
	// Used when operators need to hash a key they provisioned elsewhere.
	HashKey(plainKey string) (hashedKey string, error error)

	// CompareKey compares a plain text API key against a hashed key.
	// Returns true if the plain key matches the hash, false otherwise.
	// A corrupt or malformed hash yields false rather than an error.
	CompareKey(plainKey string, hashedKey string) bool
}
