// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	actionsDomain "github.com/allisson/actionserver/internal/actions/domain"
)

// ActionResponse represents a manifest action in API responses.
// The command line is never exposed: callers only need the name to trigger a
// run, and argv values may embed paths or flags worth keeping private.
type ActionResponse struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// MapActionToResponse converts a domain action to an API response.
func MapActionToResponse(action actionsDomain.Action) ActionResponse {
	return ActionResponse{
		Name:           action.Name,
		Description:    action.Description,
		TimeoutSeconds: int(action.Timeout / time.Second),
	}
}

// RunResponse represents an action run in API responses.
// Output is scrubbed of registered secrets before persistence, so it is safe
// to return as-is.
type RunResponse struct {
	ID         string     `json:"id"`
	ActionName string     `json:"action_name"`
	Status     string     `json:"status"`
	ExitCode   *int       `json:"exit_code,omitempty"`
	Output     string     `json:"output,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// MapRunToResponse converts a domain run to an API response, including the
// captured process output.
func MapRunToResponse(run *actionsDomain.Run) RunResponse {
	return RunResponse{
		ID:         run.ID.String(),
		ActionName: run.ActionName,
		Status:     string(run.Status),
		ExitCode:   run.ExitCode,
		Output:     run.Output,
		Error:      run.Error,
		CreatedAt:  run.CreatedAt,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
}
