// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/actionserver/internal/validation"
)

// ExecuteRunRequest contains the parameters for executing an action.
// The action name is extracted from the URL parameter, not the request body;
// context envelopes travel in dedicated request headers.
type ExecuteRunRequest struct {
	ActionName string
}

// Validate checks if the execute run request is valid.
func (r *ExecuteRunRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ActionName,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
			customValidation.Slug,
		),
	)
}
