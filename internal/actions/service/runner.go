package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"

	actionsDomain "github.com/allisson/actionserver/internal/actions/domain"
	envelopeService "github.com/allisson/actionserver/internal/envelope/service"
	"github.com/allisson/actionserver/internal/redact"
)

// RunResult is the outcome of one finished action process.
type RunResult struct {
	// ExitCode is the process exit code (-1 when the process was killed).
	ExitCode int
	// Output is the combined stdout/stderr, scrubbed and capped.
	Output string
	// TimedOut reports whether the run was killed by its deadline.
	TimedOut bool
}

// Succeeded reports whether the process completed with exit code 0.
func (r *RunResult) Succeeded() bool {
	return r.ExitCode == 0 && !r.TimedOut
}

// Runner executes action commands as child processes.
//
// The child inherits the server environment, so the ACTION_SERVER_DECRYPT_*
// configuration travels along and the action can resolve its own envelopes.
// The raw envelopes themselves are forwarded per kind (ACTION_CONTEXT,
// DATA_CONTEXT, ACTION_INVOCATION_CONTEXT) exactly as received: decoded
// secrets are never written to the child environment or to disk.
type Runner struct {
	scrubber       *redact.Registry
	logger         *slog.Logger
	defaultTimeout time.Duration
	outputLimit    int
}

// NewRunner creates a Runner. defaultTimeout applies to actions without a
// manifest timeout; outputLimit caps the bytes of scrubbed output retained
// per run.
func NewRunner(
	scrubber *redact.Registry,
	logger *slog.Logger,
	defaultTimeout time.Duration,
	outputLimit int,
) *Runner {
	return &Runner{
		scrubber:       scrubber,
		logger:         logger,
		defaultTimeout: defaultTimeout,
		outputLimit:    outputLimit,
	}
}

// Execute runs the action command to completion and returns the result.
//
// A process that starts and then fails (non-zero exit, timeout kill) is a
// normal result, not an error; the returned error is reserved for processes
// that could not be started at all.
func (r *Runner) Execute(
	ctx context.Context,
	action actionsDomain.Action,
	contexts []*envelopeService.Context,
) (*RunResult, error) {
	timeout := action.Timeout
	if timeout == 0 {
		timeout = r.defaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, action.Command[0], action.Command[1:]...)
	cmd.Dir = action.WorkingDir
	cmd.Env = childEnv(contexts)

	capped := &capWriter{limit: r.outputLimit}
	scrubbed := redact.NewWriter(capped, r.scrubber)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start action command: %w", err)
	}

	// Both streams pass through the same scrub writer; it serializes writes.
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(scrubbed, stdout)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(scrubbed, stderr)
		return err
	})

	copyErr := g.Wait()
	waitErr := cmd.Wait()
	if flushErr := scrubbed.Flush(); flushErr != nil {
		r.logger.Warn("failed to flush run output", slog.Any("error", flushErr))
	}
	if copyErr != nil {
		r.logger.Warn("failed to drain run output", slog.Any("error", copyErr))
	}

	result := &RunResult{
		Output:   capped.String(),
		TimedOut: errors.Is(runCtx.Err(), context.DeadlineExceeded),
	}

	if waitErr == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	return nil, fmt.Errorf("action command failed: %w", waitErr)
}

// childEnv builds the child process environment: the server environment plus
// the raw envelope of every provided context under its kind's variable.
func childEnv(contexts []*envelopeService.Context) []string {
	env := os.Environ()
	for _, c := range contexts {
		if c == nil {
			continue
		}
		if name := c.Kind().EnvVar(); name != "" {
			env = append(env, name+"="+c.Raw())
		}
	}
	return env
}

// capWriter buffers up to limit bytes and silently discards the rest, so a
// runaway action cannot grow server memory without bound.
type capWriter struct {
	buf   bytes.Buffer
	limit int
}

func (w *capWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil
	}
	if len(p) > remaining {
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	w.buf.Write(p)
	return len(p), nil
}

func (w *capWriter) String() string {
	return w.buf.String()
}
