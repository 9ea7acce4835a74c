// Package domain defines the wire format of action-context envelopes: the
// base64(JSON) unit that callers pass through HTTP headers or environment
// variables to deliver secrets into an action process.
package domain

const (
	// WireAlgorithm is the only algorithm identifier accepted on the envelope
	// wire. It is a distinct namespace from the at-rest Algorithm constants in
	// internal/crypto: envelopes reject everything but this literal.
	WireAlgorithm = "aes256-gcm"

	// Encrypted shell field names, exact and case-sensitive.
	FieldCipher    = "cipher"
	FieldAlgorithm = "algorithm"
	FieldIV        = "iv"
	FieldAuthTag   = "auth-tag"

	// IVSize is the nonce length in bytes required by the wire format.
	IVSize = 12

	// AuthTagSize is the authentication tag length in bytes required by the
	// wire format.
	AuthTagSize = 16
)

const (
	// EnvDecryptKeys names the environment variable holding the JSON array of
	// base64-encoded 32-byte decryption keys.
	EnvDecryptKeys = "ACTION_SERVER_DECRYPT_KEYS"

	// EnvDecryptInformation names the environment variable holding the JSON
	// array of sources to treat as potentially encrypted, e.g.
	// "header:x-action-context".
	EnvDecryptInformation = "ACTION_SERVER_DECRYPT_INFORMATION"
)
