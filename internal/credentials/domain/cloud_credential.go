// Package domain defines the core domain models for stored cloud credentials.
// Credentials are sealed at rest with either the environment storage keychain
// or a KMS keeper; only ciphertext and unseal metadata are persisted.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// KMSSealed is the Algorithm value for rows sealed through a KMS keeper
// instead of the storage keychain. Such rows carry no nonce and no storage
// key id: the keeper manages nonce and key material on its side.
const KMSSealed = "kms"

// CloudCredential represents a cloud access credential sealed at rest.
type CloudCredential struct {
	// ID is the unique identifier for this credential row.
	ID uuid.UUID
	// Name is the logical credential name, unique across the store.
	Name string
	// Ciphertext contains the sealed credential value.
	Ciphertext []byte
	// Nonce is the random value used during AEAD sealing. Empty for KMS-sealed rows.
	Nonce []byte
	// Algorithm identifies how the row was sealed: an AEAD algorithm name for
	// keychain-sealed rows, or KMSSealed.
	Algorithm string
	// StorageKeyID names the keychain entry that sealed this row. Empty for
	// KMS-sealed rows.
	StorageKeyID string
	// Hostname is the control-room endpoint this credential authenticates against.
	Hostname string
	// Plaintext holds the unsealed credential value in memory only; must be zeroed after use.
	Plaintext []byte `json:"-"`
	// CreatedAt is the UTC timestamp when the credential was first stored.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp of the last re-seal or hostname change.
	UpdatedAt time.Time
}
