// Package domain defines the core domain models for hosted actions and their
// runs. Actions are declared in a YAML manifest loaded at startup; every
// execution is recorded as a Run row with scrubbed output.
package domain

import (
	"time"
)

// Action is one entry of the action manifest: a named command the server is
// willing to execute on request.
type Action struct {
	// Name is the manifest key, used in URLs (e.g., POST /api/actions/deploy/run).
	Name string
	// Description is a human-readable summary shown in the action listing.
	Description string
	// Command is the argv to execute; Command[0] is the executable.
	Command []string
	// WorkingDir is the directory the command runs in. Empty means the
	// server's working directory.
	WorkingDir string
	// Timeout is the execution deadline for a single run. Zero means the
	// server-wide default applies.
	Timeout time.Duration
}
