package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	credentialsDomain "github.com/allisson/actionserver/internal/credentials/domain"
)

type mockCredentialUseCase struct {
	mock.Mock
}

func (m *mockCredentialUseCase) Save(
	ctx context.Context, name string, value []byte, hostname string,
) (*credentialsDomain.CloudCredential, error) {
	args := m.Called(ctx, name, value, hostname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialsDomain.CloudCredential), args.Error(1)
}

func (m *mockCredentialUseCase) Get(
	ctx context.Context, name string,
) (*credentialsDomain.CloudCredential, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialsDomain.CloudCredential), args.Error(1)
}

func (m *mockCredentialUseCase) Delete(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *mockCredentialUseCase) Hostname(ctx context.Context, name string) string {
	return m.Called(ctx, name).String(0)
}

func TestRunCloudLogin(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("success-token-flag", func(t *testing.T) {
		useCase := &mockCredentialUseCase{}
		useCase.On("Save", ctx, "cloud-token", []byte("tkn-12345"), "cloud.example.com").
			Return(&credentialsDomain.CloudCredential{
				Name:     "cloud-token",
				Hostname: "cloud.example.com",
			}, nil)

		var out bytes.Buffer
		err := RunCloudLogin(ctx, useCase, logger, nil, &out, "tkn-12345", "cloud.example.com")
		require.NoError(t, err)
		require.Contains(t, out.String(), "Cloud credentials stored.")
		require.Contains(t, out.String(), "Hostname: cloud.example.com")
		// The token value never appears in the output
		require.NotContains(t, out.String(), "tkn-12345")

		useCase.AssertExpectations(t)
	})

	t.Run("success-token-prompt", func(t *testing.T) {
		useCase := &mockCredentialUseCase{}
		useCase.On("Save", ctx, "cloud-token", []byte("prompted-token"), "").
			Return(&credentialsDomain.CloudCredential{Name: "cloud-token"}, nil)

		var out bytes.Buffer
		reader := strings.NewReader("  prompted-token  \n")
		err := RunCloudLogin(ctx, useCase, logger, reader, &out, "", "")
		require.NoError(t, err)
		require.Contains(t, out.String(), "Cloud token: ")
		require.Contains(t, out.String(), "Cloud credentials stored.")
		require.NotContains(t, out.String(), "prompted-token")

		useCase.AssertExpectations(t)
	})

	t.Run("empty-token", func(t *testing.T) {
		useCase := &mockCredentialUseCase{}

		reader := strings.NewReader("\n")
		err := RunCloudLogin(ctx, useCase, logger, reader, &bytes.Buffer{}, "", "")
		require.Error(t, err)
		require.Contains(t, err.Error(), "cloud token is required")

		useCase.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("save-error", func(t *testing.T) {
		useCase := &mockCredentialUseCase{}
		useCase.On("Save", ctx, "cloud-token", []byte("tkn-12345"), "").
			Return(nil, errors.New("sealer unavailable"))

		err := RunCloudLogin(ctx, useCase, logger, nil, &bytes.Buffer{}, "tkn-12345", "")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to store cloud credentials")

		useCase.AssertExpectations(t)
	})
}
