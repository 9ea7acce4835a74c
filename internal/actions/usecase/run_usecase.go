// Package usecase implements business logic orchestration for action execution.
// This package coordinates between the manifest registry, envelope resolution,
// the process runner, and run persistence.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	actionsDomain "github.com/allisson/actionserver/internal/actions/domain"
	envelopeService "github.com/allisson/actionserver/internal/envelope/service"
)

// runUseCase implements the RunUseCase interface for executing actions.
type runUseCase struct {
	registry ActionRegistry
	runRepo  RunRepository
	runner   Runner
}

// Execute runs the named action to completion and returns the persisted run.
func (r *runUseCase) Execute(
	ctx context.Context,
	actionName string,
	contexts []*envelopeService.Context,
) (*actionsDomain.Run, error) {
	action, err := r.registry.Get(actionName)
	if err != nil {
		return nil, err
	}

	// Resolve every supplied context before any side effect. A broken
	// envelope rejects the request here, and resolution registers the
	// contained secrets with the output scrubber before the process can
	// produce its first byte of output.
	for _, c := range contexts {
		if c == nil {
			continue
		}
		if _, err := c.Value(); err != nil {
			return nil, err
		}
	}

	run := &actionsDomain.Run{
		ID:         uuid.Must(uuid.NewV7()),
		ActionName: action.Name,
		Status:     actionsDomain.RunStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.runRepo.Create(ctx, run); err != nil {
		return nil, err
	}

	startedAt := time.Now().UTC()
	run.Status = actionsDomain.RunStatusRunning
	run.StartedAt = &startedAt
	if err := r.runRepo.Update(ctx, run); err != nil {
		return nil, err
	}

	result, execErr := r.runner.Execute(ctx, action, contexts)

	finishedAt := time.Now().UTC()
	run.FinishedAt = &finishedAt

	switch {
	case execErr != nil:
		// The process never started; there is no exit code or output.
		run.Status = actionsDomain.RunStatusFailed
		run.Error = execErr.Error()
	case result.Succeeded():
		run.Status = actionsDomain.RunStatusSucceeded
		run.Output = result.Output
		exitCode := result.ExitCode
		run.ExitCode = &exitCode
	default:
		run.Status = actionsDomain.RunStatusFailed
		run.Output = result.Output
		exitCode := result.ExitCode
		run.ExitCode = &exitCode
		if result.TimedOut {
			run.Error = "action timed out"
		} else {
			run.Error = fmt.Sprintf("process exited with code %d", result.ExitCode)
		}
	}

	// The terminal status must land even when the request context is already
	// gone (client disconnect kills the process through ctx).
	if err := r.runRepo.Update(context.WithoutCancel(ctx), run); err != nil {
		return nil, err
	}

	return run, nil
}

// Get retrieves a run by its unique identifier.
func (r *runUseCase) Get(ctx context.Context, runID uuid.UUID) (*actionsDomain.Run, error) {
	return r.runRepo.GetByID(ctx, runID)
}

// List retrieves runs ordered by creation time descending with pagination.
func (r *runUseCase) List(ctx context.Context, offset, limit int) ([]*actionsDomain.Run, error) {
	return r.runRepo.List(ctx, offset, limit)
}

// NewRunUseCase creates a new run use case instance with the provided dependencies.
func NewRunUseCase(registry ActionRegistry, runRepo RunRepository, runner Runner) RunUseCase {
	return &runUseCase{
		registry: registry,
		runRepo:  runRepo,
		runner:   runner,
	}
}
