package service

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/actionserver/internal/crypto/domain"
	credentialsDomain "github.com/allisson/actionserver/internal/credentials/domain"
	apperrors "github.com/allisson/actionserver/internal/errors"
)

// kmsSealer delegates sealing to a KMS keeper. The keeper handles nonce and
// key management internally, so sealed values carry neither.
type kmsSealer struct {
	keeper cryptoDomain.KMSKeeper
}

// Seal encrypts plaintext through the KMS keeper.
func (s *kmsSealer) Seal(ctx context.Context, plaintext []byte) (*SealedValue, error) {
	ciphertext, err := s.keeper.Encrypt(ctx, plaintext)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to seal credential with KMS keeper")
	}

	return &SealedValue{
		Ciphertext: ciphertext,
		Algorithm:  credentialsDomain.KMSSealed,
	}, nil
}

// Unseal decrypts a KMS-sealed row through the keeper.
func (s *kmsSealer) Unseal(
	ctx context.Context,
	credential *credentialsDomain.CloudCredential,
) ([]byte, error) {
	if credential.Algorithm != credentialsDomain.KMSSealed {
		return nil, fmt.Errorf(
			"%w: row is keychain-sealed but a KMS keeper is configured",
			credentialsDomain.ErrSealerMismatch,
		)
	}

	plaintext, err := s.keeper.Decrypt(ctx, credential.Ciphertext)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	return plaintext, nil
}

// NewKMSSealer creates a CredentialSealer backed by an opened KMS keeper.
func NewKMSSealer(keeper cryptoDomain.KMSKeeper) CredentialSealer {
	return &kmsSealer{keeper: keeper}
}
