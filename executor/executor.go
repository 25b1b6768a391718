// Package executor defines the capability interface the turn loop uses to
// carry out built-in actions against a concrete environment, plus a Local
// implementation backed by the host filesystem and shell.
package executor

import (
	"context"
	"fmt"
	"time"
)

// DefaultTimeout bounds command execution when Options.Timeout is unset.
const DefaultTimeout = 10 * time.Second

// Options are forwarded unchanged to every executor and plugin call made
// during a run.
type Options struct {
	// WorkingDir anchors relative paths and command execution. Empty means
	// the process working directory.
	WorkingDir string `json:"working_dir,omitempty"`

	// Timeout bounds Exec. Zero means DefaultTimeout.
	Timeout time.Duration `json:"timeout,omitempty"`

	// Env adds or overrides environment variables for Exec.
	Env map[string]string `json:"env,omitempty"`

	// DirectExec runs commands without a shell, splitting the command line
	// with shell word rules. Pipes and redirections are not interpreted in
	// this mode.
	DirectExec bool `json:"direct_exec,omitempty"`
}

// ExecTimeout returns the effective command timeout.
func (o Options) ExecTimeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}

// Executor performs the built-in actions. Implementations must be safe for
// sequential reuse across runs; the loop never calls an executor
// concurrently within one run.
type Executor interface {
	// ReadFile returns the full content of the file at path.
	ReadFile(ctx context.Context, path string, opts Options) (string, error)

	// WriteFile replaces the file at path with content, creating parent
	// directories as needed.
	WriteFile(ctx context.Context, path, content string, opts Options) error

	// EditFile replaces the first occurrence of oldStr in the file at path
	// with newStr. It fails with a NotFoundError when oldStr is absent.
	EditFile(ctx context.Context, path, oldStr, newStr string, opts Options) error

	// Exec runs a command and returns its combined stdout and stderr. On
	// timeout the process is killed and a TimeoutError is returned.
	Exec(ctx context.Context, command string, opts Options) (string, error)
}

// NotFoundError reports a missing file, or a missing edit target inside an
// existing file when Target is set.
type NotFoundError struct {
	Path   string
	Target string
}

func (e *NotFoundError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("old_string not found in %s", e.Path)
	}
	return fmt.Sprintf("file not found: %s", e.Path)
}

// TimeoutError reports a command that was killed after exceeding its
// timeout.
type TimeoutError struct {
	Command string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command timed out after %s: %s", e.Timeout, e.Command)
}
