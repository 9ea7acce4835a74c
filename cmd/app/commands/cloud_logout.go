package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	credentialsDomain "github.com/allisson/actionserver/internal/credentials/domain"
	credentialsUseCase "github.com/allisson/actionserver/internal/credentials/usecase"
)

// RunCloudLogout removes the stored control-room token. Logging out with no
// stored credentials is not an error.
func RunCloudLogout(
	ctx context.Context,
	credentialUseCase credentialsUseCase.CredentialUseCase,
	logger *slog.Logger,
	writer io.Writer,
) error {
	if err := credentialUseCase.Delete(ctx, cloudCredentialName); err != nil {
		if errors.Is(err, credentialsDomain.ErrCredentialNotFound) {
			fmt.Fprintln(writer, "No cloud credentials stored.")
			return nil
		}
		return fmt.Errorf("failed to remove cloud credentials: %w", err)
	}

	logger.Info("cloud credentials removed", slog.String("name", cloudCredentialName))
	fmt.Fprintln(writer, "Cloud credentials removed.")
	return nil
}
