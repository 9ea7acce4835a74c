package domain

import (
	"encoding/base64"
	"fmt"
)

// EncryptedShell is the decoded and validated form of an encrypted envelope:
// all wire fields base64-decoded and length-checked, ready for trial
// decryption.
//
// Fields:
//   - Algorithm: always WireAlgorithm after validation
//   - Cipher: the raw ciphertext (without the authentication tag)
//   - IV: the 12-byte GCM nonce
//   - AuthTag: the 16-byte authentication tag
type EncryptedShell struct {
	Algorithm string
	Cipher    []byte
	IV        []byte
	AuthTag   []byte
}

// IsEncrypted classifies a decoded shell.
//
// A shell is encrypted iff the three keys "cipher", "algorithm" and "iv" are
// all present. "auth-tag" does not participate in classification but is still
// required when the encrypted branch decrypts; ParseEncryptedShell enforces
// that.
func IsEncrypted(shell map[string]any) bool {
	_, hasCipher := shell[FieldCipher]
	_, hasAlgorithm := shell[FieldAlgorithm]
	_, hasIV := shell[FieldIV]
	return hasCipher && hasAlgorithm && hasIV
}

// ParseEncryptedShell validates and decodes the wire fields of a shell
// already classified as encrypted by IsEncrypted.
//
// Validation order matters: the algorithm is checked first, so an unsupported
// algorithm is rejected before any field is decoded and long before any key
// is fetched or tried. Field errors name the offending field but never echo
// its content.
//
// Returns:
//   - The decoded EncryptedShell on success
//   - ErrUnsupportedAlgorithm if algorithm is not "aes256-gcm"
//   - ErrMalformedEnvelope if a field is missing, not a string, not valid
//     base64, or has the wrong decoded length
func ParseEncryptedShell(shell map[string]any) (EncryptedShell, error) {
	algorithm, err := stringField(shell, FieldAlgorithm)
	if err != nil {
		return EncryptedShell{}, err
	}
	if algorithm != WireAlgorithm {
		return EncryptedShell{}, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}

	cipher, err := bytesField(shell, FieldCipher)
	if err != nil {
		return EncryptedShell{}, err
	}

	iv, err := bytesField(shell, FieldIV)
	if err != nil {
		return EncryptedShell{}, err
	}
	if len(iv) != IVSize {
		return EncryptedShell{}, fmt.Errorf(
			"%w: field %q must decode to %d bytes, got %d",
			ErrMalformedEnvelope, FieldIV, IVSize, len(iv),
		)
	}

	authTag, err := bytesField(shell, FieldAuthTag)
	if err != nil {
		return EncryptedShell{}, err
	}
	if len(authTag) != AuthTagSize {
		return EncryptedShell{}, fmt.Errorf(
			"%w: field %q must decode to %d bytes, got %d",
			ErrMalformedEnvelope, FieldAuthTag, AuthTagSize, len(authTag),
		)
	}

	return EncryptedShell{
		Algorithm: algorithm,
		Cipher:    cipher,
		IV:        iv,
		AuthTag:   authTag,
	}, nil
}

func stringField(shell map[string]any, field string) (string, error) {
	raw, ok := shell[field]
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", ErrMalformedEnvelope, field)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q must be a string", ErrMalformedEnvelope, field)
	}
	return s, nil
}

func bytesField(shell map[string]any, field string) ([]byte, error) {
	s, err := stringField(shell, field)
	if err != nil {
		return nil, err
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: field %q is not valid base64", ErrMalformedEnvelope, field)
	}
	return b, nil
}
