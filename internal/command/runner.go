// Package command abstracts subprocess execution for hooks and
// validators, so both are testable with a fake runner.
package command

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

// Result captures one subprocess invocation.
type Result struct {
	// ExitCode is the process exit code; -1 when the process never ran
	// or was killed.
	ExitCode int

	// Stdout is the captured standard output.
	Stdout string

	// Stderr is the captured standard error.
	Stderr string

	// TimedOut reports whether the timeout killed the process.
	TimedOut bool

	// Duration is the wall-clock run time.
	Duration time.Duration
}

// OK reports whether the process ran and exited zero.
func (r Result) OK() bool {
	return !r.TimedOut && r.ExitCode == 0
}

// Runner executes a command line in a working directory with a timeout.
// Zero timeout means no limit.
type Runner interface {
	Run(ctx context.Context, cmdline, cwd string, env map[string]string, timeout time.Duration) (Result, error)
}

// ExecRunner runs commands through the system shell.
type ExecRunner struct{}

// NewExecRunner creates the production runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes cmdline via `sh -c` in cwd. A timeout expiry kills the
// process (best effort) and returns a Result with TimedOut set rather
// than an error, so callers can record it as a timeout outcome.
func (r *ExecRunner) Run(ctx context.Context, cmdline, cwd string, env map[string]string, timeout time.Duration) (Result, error) {
	runCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, "sh", "-c", cmdline)
	cmd.Dir = cwd

	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if runCtx.Err() == context.DeadlineExceeded {
		result.ExitCode = -1
		result.TimedOut = true
		return result, nil
	}

	if ctx.Err() != nil {
		// Caller cancellation killed the process; report it as such
		// rather than as a -1 exit.
		result.ExitCode = -1
		return result, ctx.Err()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		// The command never started (e.g. sh missing).
		result.ExitCode = -1
		return result, err
	}

	result.ExitCode = 0
	return result, nil
}
