package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the lifecycle state of an action run.
type RunStatus string

const (
	// RunStatusPending marks a run row created but not yet started.
	RunStatusPending RunStatus = "pending"
	// RunStatusRunning marks a run whose process has been spawned.
	RunStatusRunning RunStatus = "running"
	// RunStatusSucceeded marks a run whose process exited with code 0.
	RunStatusSucceeded RunStatus = "succeeded"
	// RunStatusFailed marks a run that exited non-zero, timed out, or could
	// not be started.
	RunStatusFailed RunStatus = "failed"
)

// Run records one execution of an action.
type Run struct {
	// ID is the unique identifier for this run.
	ID uuid.UUID
	// ActionName is the manifest name of the executed action.
	ActionName string
	// Status is the current lifecycle state.
	Status RunStatus
	// ExitCode is the process exit code; nil while the run is in flight or
	// when the process could not be started.
	ExitCode *int
	// Output is the combined stdout/stderr of the process, scrubbed of every
	// registered secret and truncated to the configured limit.
	Output string
	// Error describes why a failed run failed (scrubbed). Empty on success.
	Error string
	// CreatedAt is the UTC timestamp when the run row was created.
	CreatedAt time.Time
	// StartedAt is when the process was spawned (nil if it never started).
	StartedAt *time.Time
	// FinishedAt is when the run reached a terminal status.
	FinishedAt *time.Time
}

// Finished reports whether the run reached a terminal status.
func (r *Run) Finished() bool {
	return r.Status == RunStatusSucceeded || r.Status == RunStatusFailed
}
