// Package service implements the envelope codec and the context
// decode/decrypt state machine: classification of plain vs encrypted shells,
// multi-key trial decryption for key rotation, lazy memoized resolution, and
// the redaction side effect that keeps decoded secrets out of process output.
package service

import (
	cryptoService "github.com/allisson/actionserver/internal/crypto/service"
	envelopeDomain "github.com/allisson/actionserver/internal/envelope/domain"
)

// Redactor registers secret strings with the output scrubbing subsystem.
// Registration must be idempotent and process-wide; *redact.Registry
// implements it.
type Redactor interface {
	HideFromOutput(value string)
}

// Keyring resolves decryption key material and the encrypted-source list
// from configuration. Implementations re-read their backing store on every
// call; resolution happens per request, not per process.
type Keyring interface {
	// Keys returns the candidate decryption keys in trial order. A missing
	// or empty configuration yields an empty list and no error; a present
	// but malformed configuration is a hard error.
	Keys() ([][]byte, error)

	// DecryptSources returns the sources to treat as potentially encrypted.
	// Same contract as Keys: empty yields an empty list, malformed errors.
	DecryptSources() ([]envelopeDomain.Source, error)
}

// CipherFactory builds an AEAD cipher for one 32-byte key. Injectable so
// tests can count constructions and decrypt calls; production wiring uses
// NewAESGCM from internal/crypto.
type CipherFactory func(key []byte) (cryptoService.AEAD, error)

func defaultCipherFactory(key []byte) (cryptoService.AEAD, error) {
	return cryptoService.NewAESGCM(key)
}
