package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	actionsDomain "github.com/allisson/actionserver/internal/actions/domain"
	envelopeDomain "github.com/allisson/actionserver/internal/envelope/domain"
	envelopeService "github.com/allisson/actionserver/internal/envelope/service"
)

// MockActionUseCase is a mock implementation of ActionUseCase for testing.
type MockActionUseCase struct {
	mock.Mock
}

func (m *MockActionUseCase) Get(ctx context.Context, name string) (actionsDomain.Action, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(actionsDomain.Action), args.Error(1)
}

func (m *MockActionUseCase) List(ctx context.Context) []actionsDomain.Action {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]actionsDomain.Action)
}

// MockRunUseCase is a mock implementation of RunUseCase for testing.
type MockRunUseCase struct {
	mock.Mock
}

func (m *MockRunUseCase) Execute(
	ctx context.Context,
	actionName string,
	contexts []*envelopeService.Context,
) (*actionsDomain.Run, error) {
	args := m.Called(ctx, actionName, contexts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*actionsDomain.Run), args.Error(1)
}

func (m *MockRunUseCase) Get(ctx context.Context, runID uuid.UUID) (*actionsDomain.Run, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*actionsDomain.Run), args.Error(1)
}

func (m *MockRunUseCase) List(ctx context.Context, offset, limit int) ([]*actionsDomain.Run, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*actionsDomain.Run), args.Error(1)
}

// staticKeyring serves fixed keys and decrypt sources for handler tests.
type staticKeyring struct {
	keys    [][]byte
	sources []envelopeDomain.Source
}

func (k staticKeyring) Keys() ([][]byte, error) {
	return k.keys, nil
}

func (k staticKeyring) DecryptSources() ([]envelopeDomain.Source, error) {
	return k.sources, nil
}

type nopRedactor struct{}

func (nopRedactor) HideFromOutput(string) {}

// setupActionTestHandler creates a test action handler with mocked dependencies.
func setupActionTestHandler(t *testing.T) (*ActionHandler, *MockActionUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockActionUseCase := &MockActionUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := NewActionHandler(mockActionUseCase, logger)

	return handler, mockActionUseCase
}

// setupRunTestHandler creates a test run handler with mocked dependencies.
// The context service is real: tests control its behavior through the keyring
// sources and the request headers.
func setupRunTestHandler(t *testing.T, keyring staticKeyring) (*RunHandler, *MockRunUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockRunUseCase := &MockRunUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	contextService := envelopeService.NewContextService(keyring, nopRedactor{})

	handler := NewRunHandler(mockRunUseCase, contextService, logger)

	return handler, mockRunUseCase
}

// createTestContext creates a test Gin context with the given request.
func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}
