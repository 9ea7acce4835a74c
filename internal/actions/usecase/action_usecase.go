package usecase

import (
	"context"

	actionsDomain "github.com/allisson/actionserver/internal/actions/domain"
)

// actionUseCase implements the ActionUseCase interface backed by the manifest registry.
type actionUseCase struct {
	registry ActionRegistry
}

// Get retrieves a registered action by name.
func (a *actionUseCase) Get(_ context.Context, name string) (actionsDomain.Action, error) {
	return a.registry.Get(name)
}

// List returns all registered actions ordered by name.
func (a *actionUseCase) List(_ context.Context) []actionsDomain.Action {
	return a.registry.List()
}

// NewActionUseCase creates a new action use case instance backed by the registry.
func NewActionUseCase(registry ActionRegistry) ActionUseCase {
	return &actionUseCase{registry: registry}
}
