// Package usecase defines the interfaces and implementations for action execution use cases.
// Use cases orchestrate operations between the manifest registry, the process runner, and
// run persistence to implement the action execution business logic.
package usecase

import (
	"context"

	"github.com/google/uuid"

	actionsDomain "github.com/allisson/actionserver/internal/actions/domain"
	actionsService "github.com/allisson/actionserver/internal/actions/service"
	envelopeService "github.com/allisson/actionserver/internal/envelope/service"
)

// ActionRegistry defines the interface for manifest-backed action lookups.
type ActionRegistry interface {
	Get(name string) (actionsDomain.Action, error)
	List() []actionsDomain.Action
}

// RunRepository defines the interface for Run persistence operations.
type RunRepository interface {
	Create(ctx context.Context, run *actionsDomain.Run) error
	Update(ctx context.Context, run *actionsDomain.Run) error
	GetByID(ctx context.Context, runID uuid.UUID) (*actionsDomain.Run, error)
	List(ctx context.Context, offset, limit int) ([]*actionsDomain.Run, error)
}

// Runner defines the interface for executing action commands as child processes.
type Runner interface {
	Execute(
		ctx context.Context,
		action actionsDomain.Action,
		contexts []*envelopeService.Context,
	) (*actionsService.RunResult, error)
}

// ActionUseCase defines the interface for querying the registered actions.
type ActionUseCase interface {
	Get(ctx context.Context, name string) (actionsDomain.Action, error)
	List(ctx context.Context) []actionsDomain.Action
}

// RunUseCase defines the interface for action execution business logic.
type RunUseCase interface {
	// Execute runs the named action to completion and returns the persisted run.
	//
	// Every supplied context is resolved before the run row is created, so a
	// malformed or undecryptable envelope rejects the request without side
	// effects. A process that starts and fails is a failed run, not an error.
	Execute(
		ctx context.Context,
		actionName string,
		contexts []*envelopeService.Context,
	) (*actionsDomain.Run, error)
	Get(ctx context.Context, runID uuid.UUID) (*actionsDomain.Run, error)
	List(ctx context.Context, offset, limit int) ([]*actionsDomain.Run, error)
}
