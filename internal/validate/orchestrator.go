// Package validate runs declared validators against generated outputs.
//
// Validators are short-lived subprocesses executed in the output
// directory. The default mode runs them sequentially in declared order;
// the opt-in parallel mode runs them under a bounded worker pool. Either
// way every validator runs (no fail-fast) and results are reported in
// declared order, so the report is mode-independent.
package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/command"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/descriptor"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/output"
)

// Status is a validator outcome.
type Status string

// Validator statuses.
const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusTimeout Status = "timeout"
	StatusSkipped Status = "skipped"
)

// Result is the outcome of one validator.
type Result struct {
	// ValidatorID identifies the validator (its description).
	ValidatorID string

	// Status is the outcome.
	Status Status

	// Message carries failure detail: failing rule and offending
	// file/line when determinable.
	Message string

	// Suggestions are remediation hints for a failing check.
	Suggestions []string

	// Duration is the validator's wall-clock run time.
	Duration time.Duration
}

// Options configures validator execution.
type Options struct {
	// Parallel enables the bounded worker pool.
	Parallel bool

	// Concurrency bounds the pool. Values below one fall back to 4.
	Concurrency int

	// DefaultTimeout applies when a validator declares none.
	DefaultTimeout time.Duration
}

// Orchestrator executes a template's validators through an injected
// command runner.
type Orchestrator struct {
	runner command.Runner
	opts   Options
}

// NewOrchestrator creates an orchestrator over the given runner.
func NewOrchestrator(runner command.Runner, opts Options) *Orchestrator {
	if opts.Concurrency < 1 {
		opts.Concurrency = 4
	}
	if opts.DefaultTimeout <= 0 {
		opts.DefaultTimeout = 30 * time.Second
	}
	return &Orchestrator{runner: runner, opts: opts}
}

// Run executes the declared validators against outDir. The returned
// results always follow declared order, regardless of execution mode.
// Built-in cross-file checks over a whole run's outputs live in
// CrossFileResults and are the pipeline's responsibility.
func (o *Orchestrator) Run(ctx context.Context, specs []descriptor.ValidatorSpec, outDir string) []Result {
	if o.opts.Parallel {
		return o.runParallel(ctx, specs, outDir)
	}
	return o.runSequential(ctx, specs, outDir)
}

// runSequential runs validators one at a time in declared order. A
// failure never stops later validators.
func (o *Orchestrator) runSequential(ctx context.Context, specs []descriptor.ValidatorSpec, outDir string) []Result {
	results := make([]Result, len(specs))
	for i, spec := range specs {
		if ctx.Err() != nil {
			results[i] = skippedResult(spec)
			continue
		}
		results[i] = o.runOne(ctx, spec, outDir)
	}
	return results
}

// runParallel runs validators under a bounded worker pool. Completion
// order is irrelevant: each result lands in its declared slot. On
// cancellation, already-completed results are preserved and unfinished
// validators are marked skipped.
func (o *Orchestrator) runParallel(ctx context.Context, specs []descriptor.ValidatorSpec, outDir string) []Result {
	results := make([]Result, len(specs))
	sem := make(chan struct{}, o.opts.Concurrency)

	var wg sync.WaitGroup
	for i, spec := range specs {
		wg.Add(1)
		go func(i int, spec descriptor.ValidatorSpec) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = skippedResult(spec)
				return
			}

			if ctx.Err() != nil {
				results[i] = skippedResult(spec)
				return
			}
			results[i] = o.runOne(ctx, spec, outDir)
		}(i, spec)
	}
	wg.Wait()

	return results
}

// runOne executes one validator subprocess with its timeout.
func (o *Orchestrator) runOne(ctx context.Context, spec descriptor.ValidatorSpec, outDir string) Result {
	timeout := o.opts.DefaultTimeout
	if spec.TimeoutSeconds > 0 {
		timeout = time.Duration(spec.TimeoutSeconds) * time.Second
	}

	output.Debug("running validator", "validator", spec.Description, "timeout", timeout)

	res, err := o.runner.Run(ctx, commandLine(spec), outDir, nil, timeout)
	if errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled) {
		// The run was canceled while this validator was in flight; it is
		// unfinished, not failed.
		return skippedResult(spec)
	}
	if err != nil {
		// The command never started; most often it is not installed.
		name := commandName(spec.Command)
		return Result{
			ValidatorID: spec.Description,
			Status:      StatusFail,
			Message:     fmt.Sprintf("command could not run: %v", err),
			Suggestions: []string{
				fmt.Sprintf("install %q or check PATH", name),
			},
			Duration: res.Duration,
		}
	}

	switch {
	case res.TimedOut:
		return Result{
			ValidatorID: spec.Description,
			Status:      StatusTimeout,
			Message:     fmt.Sprintf("timed out after %s", timeout),
			Suggestions: []string{
				"check for hangs or increase the validator timeout",
			},
			Duration: res.Duration,
		}

	case res.ExitCode != 0:
		return Result{
			ValidatorID: spec.Description,
			Status:      StatusFail,
			Message:     failureMessage(spec, res),
			Suggestions: failureSuggestions(spec),
			Duration:    res.Duration,
		}

	default:
		return Result{
			ValidatorID: spec.Description,
			Status:      StatusPass,
			Duration:    res.Duration,
		}
	}
}

// skippedResult marks a validator the run's cancellation kept from
// finishing, whether it was still queued or already in flight.
func skippedResult(spec descriptor.ValidatorSpec) Result {
	return Result{
		ValidatorID: spec.Description,
		Status:      StatusSkipped,
		Message:     "run canceled before this validator finished",
	}
}

// commandLine assembles the validator's command line. A cross-file
// validator receives its declared outputs as trailing arguments, so the
// command sees every file it must check against the others.
func commandLine(spec descriptor.ValidatorSpec) string {
	if len(spec.Files) == 0 {
		return spec.Command
	}
	return spec.Command + " " + strings.Join(spec.Files, " ")
}

// failureMessage assembles actionable context for a failed validator:
// exit code, target file(s), and the stderr tail where the failing rule
// usually lives.
func failureMessage(spec descriptor.ValidatorSpec, res command.Result) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("exit code %d", res.ExitCode))
	switch {
	case spec.TargetFile != "":
		parts = append(parts, "file "+spec.TargetFile)
	case len(spec.Files) > 0:
		parts = append(parts, "files "+strings.Join(spec.Files, ", "))
	}
	if tail := stderrTail(res.Stderr, 3); tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ": ")
}

// failureSuggestions maps a failed validator to remediation hints.
func failureSuggestions(spec descriptor.ValidatorSpec) []string {
	var suggestions []string
	if spec.TargetFile != "" {
		suggestions = append(suggestions, fmt.Sprintf("review %s for the reported issue", spec.TargetFile))
	}
	if spec.IsCrossFile() {
		suggestions = append(suggestions, fmt.Sprintf("check %s for consistency with each other", strings.Join(spec.Files, " and ")))
	}
	suggestions = append(suggestions, fmt.Sprintf("run %q in the output directory for full diagnostics", commandLine(spec)))
	return suggestions
}

// stderrTail returns the last n non-empty stderr lines joined by "; ".
func stderrTail(stderr string, n int) string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(stderr), "\n") {
		if s := strings.TrimSpace(line); s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "; ")
}

// commandName extracts the executable name from a command line.
func commandName(cmdline string) string {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return cmdline
	}
	return fields[0]
}
