// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	actionsDomain "github.com/allisson/actionserver/internal/actions/domain"
)

// ListActionsResponse represents the action catalog in API responses.
type ListActionsResponse struct {
	Data []ActionResponse `json:"data"`
}

// MapActionsToListResponse converts a slice of domain actions to a list response.
func MapActionsToListResponse(actions []actionsDomain.Action) ListActionsResponse {
	data := make([]ActionResponse, 0, len(actions))
	for _, action := range actions {
		data = append(data, MapActionToResponse(action))
	}

	return ListActionsResponse{
		Data: data,
	}
}
