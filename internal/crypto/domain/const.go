package domain

// Algorithm identifies an AEAD algorithm for sealing stored credentials.
// These identifiers cover the credential store only; the action-context
// envelope wire format carries its own algorithm literal and rejects
// everything else.
type Algorithm string

const (
	// AESGCM is AES-256-GCM. The default, and the right choice on CPUs
	// with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305, constant-time in software and faster
	// than AES-GCM on CPUs without AES-NI.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the required key length in bytes for every supported
	// algorithm, storage keys and context decryption keys alike.
	KeySize = 32

	// NonceSize is the 96-bit nonce length shared by GCM and
	// ChaCha20-Poly1305.
	NonceSize = 12

	// TagSize is the authentication tag length appended by Seal.
	TagSize = 16
)
