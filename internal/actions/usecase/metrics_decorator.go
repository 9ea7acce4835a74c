package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	actionsDomain "github.com/allisson/actionserver/internal/actions/domain"
	envelopeService "github.com/allisson/actionserver/internal/envelope/service"
	"github.com/allisson/actionserver/internal/metrics"
)

// runUseCaseWithMetrics decorates RunUseCase with metrics instrumentation.
type runUseCaseWithMetrics struct {
	next    RunUseCase
	metrics metrics.BusinessMetrics
}

// NewRunUseCaseWithMetrics wraps a RunUseCase with metrics recording.
func NewRunUseCaseWithMetrics(useCase RunUseCase, m metrics.BusinessMetrics) RunUseCase {
	return &runUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Execute records metrics for action execution operations.
func (r *runUseCaseWithMetrics) Execute(
	ctx context.Context,
	actionName string,
	contexts []*envelopeService.Context,
) (*actionsDomain.Run, error) {
	start := time.Now()
	run, err := r.next.Execute(ctx, actionName, contexts)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "actions", "run_execute", status)
	r.metrics.RecordDuration(ctx, "actions", "run_execute", time.Since(start), status)

	return run, err
}

// Get records metrics for run retrieval operations.
func (r *runUseCaseWithMetrics) Get(ctx context.Context, runID uuid.UUID) (*actionsDomain.Run, error) {
	start := time.Now()
	run, err := r.next.Get(ctx, runID)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "actions", "run_get", status)
	r.metrics.RecordDuration(ctx, "actions", "run_get", time.Since(start), status)

	return run, err
}

// List records metrics for run listing operations.
func (r *runUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*actionsDomain.Run, error) {
	start := time.Now()
	runs, err := r.next.List(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "actions", "run_list", status)
	r.metrics.RecordDuration(ctx, "actions", "run_list", time.Since(start), status)

	return runs, err
}
