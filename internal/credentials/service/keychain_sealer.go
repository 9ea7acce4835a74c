package service

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/actionserver/internal/crypto/domain"
	cryptoService "github.com/allisson/actionserver/internal/crypto/service"
	credentialsDomain "github.com/allisson/actionserver/internal/credentials/domain"
)

// keychainSealer seals credentials with the active storage key and unseals
// rows with whichever keychain entry sealed them, so old rows stay readable
// across key rotations.
type keychainSealer struct {
	keychain    *cryptoDomain.StorageKeyChain
	aeadManager cryptoService.AEADManager
	algorithm   cryptoDomain.Algorithm
}

// Seal encrypts plaintext with the active storage key.
func (s *keychainSealer) Seal(_ context.Context, plaintext []byte) (*SealedValue, error) {
	activeID := s.keychain.ActiveStorageKeyID()
	storageKey, found := s.keychain.Get(activeID)
	if !found {
		return nil, fmt.Errorf("%w: %s", credentialsDomain.ErrStorageKeyUnavailable, activeID)
	}

	cipher, err := s.aeadManager.CreateCipher(storageKey.Key, s.algorithm)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := cipher.Encrypt(plaintext, nil)
	if err != nil {
		return nil, err
	}

	return &SealedValue{
		Ciphertext:   ciphertext,
		Nonce:        nonce,
		Algorithm:    string(s.algorithm),
		StorageKeyID: storageKey.ID,
	}, nil
}

// Unseal decrypts a stored row using the keychain entry named by the row.
func (s *keychainSealer) Unseal(
	_ context.Context,
	credential *credentialsDomain.CloudCredential,
) ([]byte, error) {
	if credential.Algorithm == credentialsDomain.KMSSealed {
		return nil, fmt.Errorf(
			"%w: row is KMS-sealed but the storage keychain is configured",
			credentialsDomain.ErrSealerMismatch,
		)
	}

	storageKey, found := s.keychain.Get(credential.StorageKeyID)
	if !found {
		return nil, fmt.Errorf("%w: %s", credentialsDomain.ErrStorageKeyUnavailable, credential.StorageKeyID)
	}

	cipher, err := s.aeadManager.CreateCipher(storageKey.Key, cryptoDomain.Algorithm(credential.Algorithm))
	if err != nil {
		return nil, err
	}

	plaintext, err := cipher.Decrypt(credential.Ciphertext, credential.Nonce, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	return plaintext, nil
}

// NewKeychainSealer creates a CredentialSealer backed by the storage keychain.
func NewKeychainSealer(
	keychain *cryptoDomain.StorageKeyChain,
	aeadManager cryptoService.AEADManager,
	algorithm cryptoDomain.Algorithm,
) CredentialSealer {
	return &keychainSealer{
		keychain:    keychain,
		aeadManager: aeadManager,
		algorithm:   algorithm,
	}
}
