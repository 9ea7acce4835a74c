package domain

import (
	"github.com/allisson/actionserver/internal/errors"
)

// Envelope protocol error definitions.
//
// Client-input problems wrap ErrInvalidInput and map to 422; configuration
// problems wrap ErrConfiguration and map to 500, so operators can tell a
// missing key installation apart from a caller sending garbage.
//
// None of these errors ever carry key material, ciphertext, or decrypted
// values. Messages are limited to structural information: field names,
// counts, algorithm identifiers.
var (
	// ErrMalformedEnvelope indicates the outer base64/JSON decode failed, the
	// decoded value is not a JSON object, or an encrypted-shell field is
	// missing, not a string, or not valid base64.
	ErrMalformedEnvelope = errors.Wrap(errors.ErrInvalidInput, "malformed envelope")

	// ErrUnsupportedAlgorithm indicates the shell carries an algorithm other
	// than "aes256-gcm". Rejected before any key is fetched or tried.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported envelope algorithm")

	// ErrDecryptionFailed indicates every configured key was tried and none
	// verified. The message never reveals which keys were tried or any
	// partial plaintext, only the aggregate failure.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "envelope decryption failed")

	// ErrNoDecryptionKeys indicates an encrypted envelope arrived but the
	// process has zero configured decryption keys. This is an operator
	// problem, kept distinct from ErrDecryptionFailed so logs show whether
	// keys were never installed or simply all wrong.
	ErrNoDecryptionKeys = errors.Wrap(errors.ErrConfiguration, "no decryption keys available")

	// ErrInvalidDecryptKeys indicates ACTION_SERVER_DECRYPT_KEYS is present
	// but not a JSON array of base64-encoded 32-byte keys.
	ErrInvalidDecryptKeys = errors.Wrap(errors.ErrConfiguration, "invalid ACTION_SERVER_DECRYPT_KEYS")

	// ErrInvalidDecryptInformation indicates ACTION_SERVER_DECRYPT_INFORMATION
	// is present but not a JSON array of "type:name" strings.
	ErrInvalidDecryptInformation = errors.Wrap(errors.ErrConfiguration, "invalid ACTION_SERVER_DECRYPT_INFORMATION")

	// ErrSecretPathNotFound indicates a secret accessor path names a segment
	// that does not exist in the resolved context.
	ErrSecretPathNotFound = errors.Wrap(errors.ErrInvalidInput, "secret path not found")

	// ErrSecretPathType indicates a secret accessor path resolved to a value
	// of the wrong type (non-object segment mid-path or non-string leaf).
	ErrSecretPathType = errors.Wrap(errors.ErrInvalidInput, "secret path has wrong type")
)
