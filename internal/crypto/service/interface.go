// Package service provides the AEAD cipher implementations used to seal
// stored credentials (AES-256-GCM, ChaCha20-Poly1305) and the KMS keeper
// opener for operators that keep their sealing key in a cloud KMS.
package service

import (
	cryptoDomain "github.com/allisson/actionserver/internal/crypto/domain"
)

// AEAD seals and opens byte slices with authenticated encryption. Encrypt
// draws a fresh nonce per call; Decrypt fails when ciphertext, nonce, or aad
// do not match what was sealed.
type AEAD interface {
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager builds AEAD ciphers by algorithm identifier.
type AEADManager interface {
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}
