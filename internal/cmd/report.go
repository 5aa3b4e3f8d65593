package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/hooks"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/output"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/pipeline"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/validate"
)

// printReport renders a generation report to stdout: per-template file
// and check outcomes, then a summary line.
func printReport(r *pipeline.Report) {
	for _, tool := range r.MissingTools {
		output.Warn("required tool not found on PATH", "tool", tool)
	}

	for _, t := range r.Templates {
		output.Println(output.StyleAction.Render("template ") + output.StyleNoun.Render(t.TemplateID))

		printHookOutcomes(t.PreHooks)
		for _, f := range t.Files {
			output.Println("  " + output.FormatFileLine(f.Path, f.Status))
			if f.Err != nil {
				output.Println("    " + output.FormatCross(f.Err.Error()))
			}
		}
		printHookOutcomes(t.PostHooks)

		for _, v := range t.Validators {
			printValidatorResult(v)
		}
		if t.Aborted {
			output.Println("  " + output.FormatCross("remaining steps skipped after hook failure"))
		}
	}

	for _, c := range r.CrossChecks {
		printValidatorResult(c)
	}

	if r.Failed() {
		output.Println(output.FormatCross(output.StyleSummary.Render(
			fmt.Sprintf("completed with failures, %d file(s) written", r.FilesWritten()))))
		return
	}

	output.Println(output.FormatCheckmark(output.StyleSummary.Render(
		fmt.Sprintf("generated %s, %d file(s) written", r.RootID, r.FilesWritten()))))

	if len(r.NextSteps) > 0 {
		output.Println("")
		output.Println(output.StyleAction.Render("Next steps:"))
		for _, step := range r.NextSteps {
			output.Println("  " + step)
		}
	}
}

// printHookOutcomes reports failed hooks; successful ones stay quiet.
func printHookOutcomes(outcomes []hooks.Outcome) {
	for _, h := range outcomes {
		if !h.Failed {
			continue
		}
		output.Warn("hook failed",
			"hook", h.Description,
			"policy", string(h.OnFailure),
			"detail", h.Message)
	}
}

// printValidatorResult renders one validator line with suggestions.
func printValidatorResult(v validate.Result) {
	var parts []string
	if v.Message != "" {
		parts = append(parts, v.Message)
	}
	if v.Duration > 0 {
		parts = append(parts, v.Duration.Round(time.Millisecond).String())
	}
	detail := strings.Join(parts, " ")
	output.Println("  " + output.FormatValidatorLine(v.ValidatorID, string(v.Status), detail))
	for _, s := range v.Suggestions {
		output.Println("    " + output.StyleDim.Render("hint: "+s))
	}
}
