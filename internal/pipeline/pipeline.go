// Package pipeline composes resolution, rendering, materialization,
// hooks and validation into a single generation run.
package pipeline

import (
	"context"
	"os/exec"
	"sort"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/command"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/descriptor"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/hooks"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/materialize"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/output"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/render"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/resolver"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/validate"
)

// GenerationContext carries everything one run needs beyond the root
// template id. The engine never prompts; Answers must already satisfy
// every prompt of every template in the resolved order.
type GenerationContext struct {
	// Answers are the caller-supplied values, highest precedence.
	Answers map[string]any

	// Environment selects a named environment-defaults overlay, e.g.
	// "prod". Empty means no overlay.
	Environment string

	// OutputDir is the destination tree root.
	OutputDir string

	// Strategy decides how existing files are handled.
	Strategy materialize.Strategy

	// Conflict resolves per-file conflicts under the prompt and
	// diff-merge strategies. Nil degrades unresolved conflicts to skip.
	Conflict materialize.ConflictFunc

	// SkipHooks disables both hook phases for every template.
	SkipHooks bool

	// SkipValidators disables declared validators and cross-file checks.
	SkipValidators bool

	// Validation configures the validator orchestrator.
	Validation validate.Options
}

// Pipeline is the engine's entry point. It holds no per-run state;
// one Pipeline may serve any number of sequential runs.
type Pipeline struct {
	lookup resolver.Lookup
	runner command.Runner
}

// New creates a pipeline over the given descriptor lookup. runner
// executes hook and validator subprocesses; pass command.NewExecRunner()
// outside of tests.
func New(lookup resolver.Lookup, runner command.Runner) *Pipeline {
	return &Pipeline{lookup: lookup, runner: runner}
}

// Resolve returns the generation order for rootID without generating
// anything: dependencies first, the root last.
func (p *Pipeline) Resolve(rootID string) ([]string, error) {
	return resolver.New(p.lookup).Resolve(rootID)
}

// Generate runs the full pipeline for rootID. Resolution errors (cycle,
// missing dependency, unknown root) are returned before any file is
// touched. All later failures are collected into the report instead;
// the returned error is nil and the caller inspects Report.Failed.
func (p *Pipeline) Generate(ctx context.Context, rootID string, gen GenerationContext) (*Report, error) {
	order, err := p.Resolve(rootID)
	if err != nil {
		return nil, err
	}

	descriptors := make([]*descriptor.Descriptor, 0, len(order))
	for _, id := range order {
		d, err := p.lookup.Get(id)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}

	report := &Report{
		RootID:       rootID,
		Order:        order,
		MissingTools: missingTools(descriptors),
	}

	var runFiles []string
	for _, d := range descriptors {
		tr := p.generateOne(ctx, d, gen)
		report.Templates = append(report.Templates, tr)
		report.NextSteps = append(report.NextSteps, d.NextSteps...)

		for _, f := range tr.Files {
			if f.Err == nil {
				runFiles = append(runFiles, f.Path)
			}
		}
	}

	if !gen.SkipValidators {
		report.CrossChecks = validate.CrossFileResults(gen.OutputDir, runFiles)
	}

	return report, nil
}

// generateOne runs every stage for a single template: pre-generation
// hooks, rendering and materialization, post-generation hooks, then
// declared validators. A fail-policy hook truncates the remaining
// stages; already-written files stay in place.
func (p *Pipeline) generateOne(ctx context.Context, d *descriptor.Descriptor, gen GenerationContext) TemplateReport {
	tr := TemplateReport{TemplateID: d.ID}

	data := render.Overlay(d.Prompts, d.EnvironmentDefaults[gen.Environment], gen.Answers)
	hookExec := hooks.NewExecutor(p.runner)

	if !gen.SkipHooks {
		outcomes, aborted := hookExec.Run(ctx, d.Hooks.PreGeneration, gen.OutputDir, data)
		tr.PreHooks = outcomes
		if aborted {
			tr.Aborted = true
			return tr
		}
	}

	renderer := render.NewRenderer(data)
	mat := materialize.New(gen.OutputDir, gen.Strategy, gen.Conflict)

	for _, out := range d.Outputs {
		path, content, err := renderer.RenderOutput(d, out)
		if err != nil {
			// A broken output is recorded and skipped; sibling outputs
			// still render so the report is complete.
			tr.Files = append(tr.Files, materialize.Outcome{
				Path:   out.Path,
				Status: output.StatusFailed,
				Err:    err,
			})
			continue
		}

		tr.Files = append(tr.Files, mat.Write(path, content))
	}

	if !gen.SkipHooks {
		outcomes, aborted := hookExec.Run(ctx, d.Hooks.PostGeneration, gen.OutputDir, data)
		tr.PostHooks = outcomes
		if aborted {
			tr.Aborted = true
			return tr
		}
	}

	if !gen.SkipValidators && len(d.Validators) > 0 {
		orch := validate.NewOrchestrator(p.runner, gen.Validation)
		tr.Validators = orch.Run(ctx, d.Validators, gen.OutputDir)
	}

	return tr
}

// missingTools returns the required tools, across all templates, that
// are not on PATH. Sorted and deduplicated.
func missingTools(descriptors []*descriptor.Descriptor) []string {
	seen := make(map[string]struct{})
	var missing []string

	for _, d := range descriptors {
		for _, tool := range d.RequiredTools {
			if _, ok := seen[tool]; ok {
				continue
			}
			seen[tool] = struct{}{}
			if _, err := exec.LookPath(tool); err != nil {
				missing = append(missing, tool)
			}
		}
	}

	sort.Strings(missing)
	return missing
}
