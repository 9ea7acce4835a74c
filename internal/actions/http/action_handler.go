// Package http provides HTTP handlers for the action catalog and run execution.
// Context envelopes arrive in request headers and are resolved before any
// action process is spawned.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/actionserver/internal/actions/http/dto"
	actionsUseCase "github.com/allisson/actionserver/internal/actions/usecase"
)

// ActionHandler handles HTTP requests for the action catalog.
type ActionHandler struct {
	actionUseCase actionsUseCase.ActionUseCase
	logger        *slog.Logger
}

// NewActionHandler creates a new action handler with required dependencies.
func NewActionHandler(actionUseCase actionsUseCase.ActionUseCase, logger *slog.Logger) *ActionHandler {
	return &ActionHandler{
		actionUseCase: actionUseCase,
		logger:        logger,
	}
}

// ListHandler returns every action declared in the manifest.
// GET /api/actions
// Returns 200 OK with the catalog. Command lines are not exposed.
func (h *ActionHandler) ListHandler(c *gin.Context) {
	actions := h.actionUseCase.List(c.Request.Context())

	response := dto.MapActionsToListResponse(actions)
	c.JSON(http.StatusOK, response)
}
