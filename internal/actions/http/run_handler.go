// Package http provides HTTP handlers for the action catalog and run execution.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/actionserver/internal/actions/http/dto"
	actionsUseCase "github.com/allisson/actionserver/internal/actions/usecase"
	envelopeDomain "github.com/allisson/actionserver/internal/envelope/domain"
	envelopeHTTP "github.com/allisson/actionserver/internal/envelope/http"
	envelopeService "github.com/allisson/actionserver/internal/envelope/service"
	"github.com/allisson/actionserver/internal/httputil"
	customValidation "github.com/allisson/actionserver/internal/validation"
)

// RunHandler handles HTTP requests for action execution and run history.
// It extracts context envelopes from request headers and coordinates with
// the RunUseCase, which resolves them before spawning the process.
type RunHandler struct {
	runUseCase     actionsUseCase.RunUseCase
	contextService *envelopeService.ContextService
	logger         *slog.Logger
}

// NewRunHandler creates a new run handler with required dependencies.
func NewRunHandler(
	runUseCase actionsUseCase.RunUseCase,
	contextService *envelopeService.ContextService,
	logger *slog.Logger,
) *RunHandler {
	return &RunHandler{
		runUseCase:     runUseCase,
		contextService: contextService,
		logger:         logger,
	}
}

// ExecuteHandler runs a named action to completion.
// POST /api/actions/:name/run
// Context envelopes are read from the x-action-context, x-data-context and
// x-action-invocation-context headers (with multi-segment reassembly). A
// malformed or undecryptable envelope rejects the request before any run row
// is created or process spawned.
// Returns 201 Created with the finished run.
func (h *RunHandler) ExecuteHandler(c *gin.Context) {
	req := dto.ExecuteRunRequest{ActionName: c.Param("name")}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// Build a context per kind from the request headers. Absent headers yield
	// nil contexts and are skipped.
	var contexts []*envelopeService.Context
	for _, kind := range envelopeDomain.Kinds() {
		envelopeContext, err := envelopeHTTP.FromRequest(h.contextService, c.Request.Header, kind)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		if envelopeContext != nil {
			contexts = append(contexts, envelopeContext)
		}
	}

	// Call use case
	run, err := h.runUseCase.Execute(c.Request.Context(), req.ActionName, contexts)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapRunToResponse(run)
	c.JSON(http.StatusCreated, response)
}

// GetHandler retrieves a single run by its id, including captured output.
// GET /api/runs/:id
// Returns 200 OK with the run.
func (h *RunHandler) GetHandler(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid run id: must be a valid UUID"),
			h.logger,
		)
		return
	}

	// Call use case
	run, err := h.runUseCase.Get(c.Request.Context(), runID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapRunToResponse(run)
	c.JSON(http.StatusOK, response)
}

// ListHandler retrieves run history with pagination support.
// GET /api/runs?offset=0&limit=50
// Returns 200 OK with the most recent runs first. Output is excluded from
// list entries.
func (h *RunHandler) ListHandler(c *gin.Context) {
	// Parse offset and limit query parameters
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Call use case
	runs, err := h.runUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapRunsToListResponse(runs)
	c.JSON(http.StatusOK, response)
}
