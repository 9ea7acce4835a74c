package service

import (
	cryptoDomain "github.com/allisson/actionserver/internal/crypto/domain"
)

// AEADManagerService builds AEAD ciphers by algorithm name. The credential
// sealer resolves STORAGE_ALGORITHM through it, and unsealing uses the
// algorithm recorded on each stored row so old rows keep opening after the
// configured algorithm changes.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher returns an AEAD cipher for the given 32-byte key and algorithm.
// The key is checked here so both cipher constructors see a valid size;
// unknown algorithm names surface ErrUnsupportedAlgorithm.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	switch alg {
	case cryptoDomain.AESGCM:
		return NewAESGCM(key)
	case cryptoDomain.ChaCha20:
		return NewChaCha20Poly1305(key)
	default:
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
}
