package domain

import (
	"github.com/allisson/actionserver/internal/errors"
)

var (
	// ErrUnsupportedAlgorithm indicates an unknown algorithm identifier,
	// either in configuration or on a stored credential row.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a key that is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates an AEAD open failure: wrong key, wrong
	// nonce, or tampered ciphertext. The cause is deliberately not
	// distinguished, so a caller cannot be used as a decryption oracle.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")
)
