package service

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ChaCha20Poly1305Cipher implements AEAD using ChaCha20-Poly1305. It serves
// credential sealing when STORAGE_ALGORITHM selects chacha20-poly1305, which
// is worth choosing on hosts without AES hardware acceleration. Envelope
// decoding is not affected: contexts on the wire are always AES-256-GCM.
//
// Nonce and tag handling mirror AESGCMCipher: 12-byte random nonce per
// Encrypt, 16-byte Poly1305 tag appended to the ciphertext.
type ChaCha20Poly1305Cipher struct {
	aead cipher.AEAD
}

// NewChaCha20Poly1305 builds the cipher around a 32-byte key. The key size
// check lives in chacha20poly1305.New, which rejects anything but 32 bytes.
func NewChaCha20Poly1305(key []byte) (*ChaCha20Poly1305Cipher, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &ChaCha20Poly1305Cipher{aead: aead}, nil
}

// Encrypt seals plaintext and returns the ciphertext (tag appended) with the
// generated nonce. aad is authenticated without being encrypted; pass nil
// when there is nothing to bind.
func (c *ChaCha20Poly1305Cipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = c.aead.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Decrypt opens ciphertext with the nonce and aad used at sealing time,
// verifying the tag before returning any plaintext.
func (c *ChaCha20Poly1305Cipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}
