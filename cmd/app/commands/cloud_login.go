package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	credentialsUseCase "github.com/allisson/actionserver/internal/credentials/usecase"
)

// cloudCredentialName is the well-known store entry for the control-room token.
const cloudCredentialName = "cloud-token"

// RunCloudLogin seals and stores the control-room token. An empty token
// triggers an interactive prompt on the reader so the token does not land in
// shell history. The token value itself is never printed or logged.
func RunCloudLogin(
	ctx context.Context,
	credentialUseCase credentialsUseCase.CredentialUseCase,
	logger *slog.Logger,
	reader io.Reader,
	writer io.Writer,
	token string,
	hostname string,
) error {
	token = strings.TrimSpace(token)
	if token == "" {
		fmt.Fprint(writer, "Cloud token: ")
		scanner := bufio.NewScanner(reader)
		if scanner.Scan() {
			token = strings.TrimSpace(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read cloud token: %w", err)
		}
	}
	if token == "" {
		return fmt.Errorf("cloud token is required")
	}

	credential, err := credentialUseCase.Save(ctx, cloudCredentialName, []byte(token), hostname)
	if err != nil {
		return fmt.Errorf("failed to store cloud credentials: %w", err)
	}

	logger.Info("cloud credentials stored",
		slog.String("name", credential.Name),
		slog.String("hostname", credential.Hostname),
	)

	fmt.Fprintln(writer, "Cloud credentials stored.")
	if credential.Hostname != "" {
		fmt.Fprintf(writer, "Hostname: %s\n", credential.Hostname)
	}
	return nil
}
