// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	actionsDomain "github.com/allisson/actionserver/internal/actions/domain"
)

// ListRunsResponse represents a paginated list of runs in API responses.
type ListRunsResponse struct {
	Data []RunResponse `json:"data"`
}

// MapRunsToListResponse converts a slice of domain runs to a list response.
// Process output is excluded from list entries (fetch a single run to see it).
func MapRunsToListResponse(runs []*actionsDomain.Run) ListRunsResponse {
	data := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		data = append(data, RunResponse{
			ID:         run.ID.String(),
			ActionName: run.ActionName,
			Status:     string(run.Status),
			ExitCode:   run.ExitCode,
			Error:      run.Error,
			CreatedAt:  run.CreatedAt,
			StartedAt:  run.StartedAt,
			FinishedAt: run.FinishedAt,
		})
	}

	return ListRunsResponse{
		Data: data,
	}
}
