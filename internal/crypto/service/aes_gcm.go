package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
)

// AESGCMCipher implements AEAD using AES-256-GCM. It is the cipher behind
// both sides of the security surface: the envelope codec seals action
// contexts with it, and the keychain sealer uses it for credential rows when
// STORAGE_ALGORITHM selects aes-gcm.
//
// Every Encrypt call draws a fresh 12-byte nonce from crypto/rand; the
// 16-byte GCM tag rides appended to the ciphertext. Instances hold no
// mutable state and are safe for concurrent use.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM builds an AES-256-GCM cipher around a 32-byte key. Shorter or
// longer keys are rejected before touching the AES key schedule.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != 32 {
		return nil, errors.New("key must be exactly 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt seals plaintext and returns the ciphertext (tag appended) together
// with the generated nonce. The caller persists both; the nonce is required
// for decryption and is safe to store in the clear.
//
// aad is authenticated but not encrypted: a ciphertext sealed under one aad
// value will not open under another. Pass nil when there is nothing to bind.
func (a *AESGCMCipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = a.aead.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Decrypt opens ciphertext with the nonce and aad used at sealing time. Tag
// verification happens before any plaintext is returned, so a tampered
// ciphertext, a wrong nonce, or mismatched aad all yield an error and no
// partial output.
func (a *AESGCMCipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	plaintext, err := a.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}
