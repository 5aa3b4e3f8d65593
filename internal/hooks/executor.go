// Package hooks runs pre- and post-generation hooks for one template.
//
// Hooks are short-lived subprocesses executed sequentially in declared
// order with the generation output directory as working context. The
// chmod and git hook types are convenience wrappers around the shell
// execution path; info hooks only print a message.
package hooks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/command"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/descriptor"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/output"
)

// hookTimeout bounds every hook subprocess.
const hookTimeout = 30 * time.Second

// Outcome records the result of one hook.
type Outcome struct {
	// Description identifies the hook in the report.
	Description string

	// Type is the hook type that ran.
	Type descriptor.HookType

	// OnFailure is the hook's declared failure policy.
	OnFailure descriptor.FailurePolicy

	// Failed reports whether the hook failed. Hooks with the ignore
	// policy never set this.
	Failed bool

	// Message carries failure detail (stderr tail or error text).
	Message string
}

// Executor runs a template's hooks through an injected command runner.
type Executor struct {
	runner command.Runner
}

// NewExecutor creates an executor over the given runner.
func NewExecutor(runner command.Runner) *Executor {
	return &Executor{runner: runner}
}

// Run executes hooks in declared order with answers substituted into
// each command. It stops early when a hook with the fail policy fails;
// aborted is then true and the remaining hooks do not run. Outcomes for
// every executed hook are returned regardless.
func (e *Executor) Run(ctx context.Context, hooks []descriptor.HookSpec, workDir string, answers map[string]any) (outcomes []Outcome, aborted bool) {
	for _, h := range hooks {
		desc := h.Description
		if desc == "" {
			desc = h.Command
		}

		o := Outcome{
			Description: desc,
			Type:        h.Type,
			OnFailure:   h.OnFailure,
		}

		failMsg, err := e.runOne(ctx, h, workDir, answers)
		if err != nil || failMsg != "" {
			msg := failMsg
			if err != nil {
				msg = err.Error()
			}

			switch h.OnFailure {
			case descriptor.FailureIgnore:
				output.Debug("hook failed (ignored)", "hook", desc, "error", msg)
			case descriptor.FailureFail:
				o.Failed = true
				o.Message = msg
				outcomes = append(outcomes, o)
				output.Error("hook failed", "hook", desc, "error", msg)
				return outcomes, true
			default:
				o.Failed = true
				o.Message = msg
				output.Warn("hook failed", "hook", desc, "error", msg)
			}
		} else {
			output.Debug("hook completed", "hook", desc)
		}

		outcomes = append(outcomes, o)
	}

	return outcomes, false
}

// runOne executes a single hook. It returns a non-empty failure message
// for a command that ran and failed, or an error when the hook could not
// run at all.
func (e *Executor) runOne(ctx context.Context, h descriptor.HookSpec, workDir string, answers map[string]any) (string, error) {
	cmdline := substitute(h.Command, answers)

	switch h.Type {
	case descriptor.HookInfo:
		output.Println("  " + cmdline)
		return "", nil

	case descriptor.HookChmod:
		return runChmod(cmdline, workDir)

	case descriptor.HookGit:
		return e.runShell(ctx, "git "+cmdline, workDir, h.Env)

	default:
		return e.runShell(ctx, cmdline, workDir, h.Env)
	}
}

// runShell executes a command line through the runner.
func (e *Executor) runShell(ctx context.Context, cmdline, workDir string, env map[string]string) (string, error) {
	result, err := e.runner.Run(ctx, cmdline, workDir, env, hookTimeout)
	if err != nil {
		return "", err
	}
	if result.TimedOut {
		return fmt.Sprintf("timed out after %s", hookTimeout), nil
	}
	if result.ExitCode != 0 {
		msg := fmt.Sprintf("exit code %d", result.ExitCode)
		if tail := lastLine(result.Stderr); tail != "" {
			msg += ": " + tail
		}
		return msg, nil
	}
	return "", nil
}

// runChmod applies "<octal-mode> <file>" inside workDir without spawning
// a subprocess.
func runChmod(cmdline, workDir string) (string, error) {
	parts := strings.Fields(cmdline)
	if len(parts) != 2 {
		return "", fmt.Errorf("chmod hook expects \"<mode> <file>\", got %q", cmdline)
	}

	mode, err := strconv.ParseUint(parts[0], 8, 32)
	if err != nil {
		return "", fmt.Errorf("chmod hook mode %q is not octal: %w", parts[0], err)
	}

	target := filepath.Join(workDir, parts[1])
	if err := os.Chmod(target, os.FileMode(mode)); err != nil {
		return err.Error(), nil
	}
	return "", nil
}

// substitute replaces {{name}} references in a hook command with the
// corresponding answer values.
func substitute(cmdline string, answers map[string]any) string {
	for k, v := range answers {
		cmdline = strings.ReplaceAll(cmdline, "{{"+k+"}}", fmt.Sprintf("%v", v))
	}
	return cmdline
}

// lastLine returns the final non-empty line of s.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
