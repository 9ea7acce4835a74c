package commands

import (
	"fmt"
	"io"

	authService "github.com/allisson/actionserver/internal/auth/service"
)

// RunGenerateAPIKey generates a static API key and prints the plain key
// together with its Argon2id hash. The plain key goes to callers and is
// displayed once; only the hash belongs in the server environment.
func RunGenerateAPIKey(keyService authService.APIKeyService, writer io.Writer) error {
	plainKey, hashedKey, err := keyService.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate api key: %w", err)
	}

	fmt.Fprintf(writer, "API key: %s\n", plainKey)
	fmt.Fprintln(writer)
	fmt.Fprintln(writer, "# Copy this environment variable to the server .env file or secrets manager.")
	fmt.Fprintln(writer, "# The key above cannot be recovered from the hash and is not shown again.")
	fmt.Fprintf(writer, "ACTION_SERVER_API_KEY_HASH='%s'\n", hashedKey)

	return nil
}
