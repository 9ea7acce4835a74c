// Package service implements credential sealing for at-rest storage. Two
// sealers exist: one backed by the environment storage keychain and one
// backed by a gocloud.dev KMS keeper. The deployment configures exactly one.
package service

import (
	"context"

	credentialsDomain "github.com/allisson/actionserver/internal/credentials/domain"
)

// SealedValue is the persistable result of sealing a credential value.
type SealedValue struct {
	// Ciphertext contains the sealed bytes.
	Ciphertext []byte
	// Nonce is the AEAD nonce. Empty for KMS-sealed values.
	Nonce []byte
	// Algorithm identifies the sealing method for later unsealing.
	Algorithm string
	// StorageKeyID names the keychain entry used. Empty for KMS-sealed values.
	StorageKeyID string
}

// CredentialSealer seals credential values for storage and unseals stored rows.
type CredentialSealer interface {
	// Seal encrypts plaintext for persistence.
	Seal(ctx context.Context, plaintext []byte) (*SealedValue, error)

	// Unseal decrypts a stored credential row back to its plaintext value.
	Unseal(ctx context.Context, credential *credentialsDomain.CloudCredential) ([]byte, error)
}
