package commands

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/actionserver/internal/crypto/domain"
	envelopeDomain "github.com/allisson/actionserver/internal/envelope/domain"
)

// RunGenerateDecryptKey generates a cryptographically secure 32-byte
// action-context decrypt key and prints it as base64 plus a ready-to-paste
// environment entry. Key material is zeroed from memory after encoding.
func RunGenerateDecryptKey(writer io.Writer) error {
	key := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate decrypt key: %w", err)
	}

	encodedKey := base64.StdEncoding.EncodeToString(key)

	fmt.Fprintf(writer, "Decrypt key (base64): %s\n", encodedKey)
	fmt.Fprintln(writer)
	fmt.Fprintln(writer, "# Copy this environment variable to your .env file or secrets manager")
	fmt.Fprintf(writer, "%s='[\"%s\"]'\n", envelopeDomain.EnvDecryptKeys, encodedKey)
	fmt.Fprintln(writer)
	fmt.Fprintln(writer, "# To keep accepting envelopes sealed under an old key during rotation,")
	fmt.Fprintln(writer, "# append it to the array; keys are tried in order:")
	fmt.Fprintf(writer, "# %s='[\"%s\",\"<old-key-base64>\"]'\n", envelopeDomain.EnvDecryptKeys, encodedKey)

	// Zero out the key from memory for security
	cryptoDomain.Zero(key)

	return nil
}
