package domain

import (
	"github.com/allisson/actionserver/internal/errors"
)

var (
	// ErrActionNotFound indicates the requested action is not declared in the
	// manifest.
	ErrActionNotFound = errors.Wrap(errors.ErrNotFound, "action not found")

	// ErrRunNotFound indicates no run exists with the requested ID.
	ErrRunNotFound = errors.Wrap(errors.ErrNotFound, "run not found")

	// ErrInvalidManifest indicates the action manifest could not be parsed or
	// failed validation. This is an operator problem.
	ErrInvalidManifest = errors.Wrap(errors.ErrConfiguration, "invalid action manifest")
)
