package service

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	envelopeDomain "github.com/allisson/actionserver/internal/envelope/domain"
)

// EncodePlain serializes a JSON object into a plain envelope:
// base64(utf8(json)).
func EncodePlain(value map[string]any) (string, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to serialize envelope payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(payload), nil
}

// EncodeEncrypted serializes a JSON object, encrypts it with AES-256-GCM
// under the given 32-byte key, and wraps the result in an encrypted envelope.
//
// The AEAD Seal output carries the 16-byte authentication tag appended to the
// ciphertext; the wire format transports them as separate "cipher" and
// "auth-tag" fields, so the tag is split off here. A fresh random nonce is
// generated per call and travels in the "iv" field.
func EncodeEncrypted(key []byte, value map[string]any) (string, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to serialize envelope payload: %w", err)
	}

	aead, err := defaultCipherFactory(key)
	if err != nil {
		return "", fmt.Errorf("failed to create envelope cipher: %w", err)
	}

	sealed, nonce, err := aead.Encrypt(payload, nil)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt envelope payload: %w", err)
	}
	if len(sealed) < envelopeDomain.AuthTagSize {
		return "", fmt.Errorf("sealed payload shorter than authentication tag")
	}

	tagStart := len(sealed) - envelopeDomain.AuthTagSize
	shell := map[string]any{
		envelopeDomain.FieldCipher:    base64.StdEncoding.EncodeToString(sealed[:tagStart]),
		envelopeDomain.FieldAlgorithm: envelopeDomain.WireAlgorithm,
		envelopeDomain.FieldIV:        base64.StdEncoding.EncodeToString(nonce),
		envelopeDomain.FieldAuthTag:   base64.StdEncoding.EncodeToString(sealed[tagStart:]),
	}

	return EncodePlain(shell)
}

// Decode unwraps the outer envelope unit: base64 decode, JSON decode, and
// the top-level-object constraint. A JSON array or scalar at the top level
// is malformed. The error never echoes the input.
func Decode(raw string) (map[string]any, error) {
	payload, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: outer base64 decode failed", envelopeDomain.ErrMalformedEnvelope)
	}

	var value any
	if err := json.Unmarshal(payload, &value); err != nil {
		return nil, fmt.Errorf("%w: outer JSON decode failed", envelopeDomain.ErrMalformedEnvelope)
	}

	shell, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level JSON value is not an object", envelopeDomain.ErrMalformedEnvelope)
	}

	return shell, nil
}
