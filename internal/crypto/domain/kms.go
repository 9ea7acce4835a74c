package domain

import "context"

// KMSKeeper abstracts a KMS-backed envelope keeper used to seal credentials
// when the operator configures a cloud key management service instead of the
// environment keychain. *secrets.Keeper from gocloud.dev implements it.
type KMSKeeper interface {
	// Encrypt encrypts plaintext using the KMS-managed key.
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	// Decrypt decrypts ciphertext using the KMS-managed key.
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	// Close releases resources held by the keeper.
	Close() error
}
