package pipeline

import (
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/hooks"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/materialize"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/output"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/validate"
)

// TemplateReport collects the outcomes of one template's generation
// stages, in the order they ran.
type TemplateReport struct {
	// TemplateID is the template this report covers.
	TemplateID string

	// PreHooks are the pre-generation hook outcomes.
	PreHooks []hooks.Outcome

	// Files are the per-output write outcomes, in declared output order.
	Files []materialize.Outcome

	// PostHooks are the post-generation hook outcomes.
	PostHooks []hooks.Outcome

	// Validators are the declared validator results, in declared order.
	Validators []validate.Result

	// Aborted is true when a fail-policy hook stopped this template's
	// remaining stages. Already-written files are not rolled back.
	Aborted bool
}

// Failed reports whether any stage of this template recorded a failure.
func (t *TemplateReport) Failed() bool {
	if t.Aborted {
		return true
	}
	for _, h := range t.PreHooks {
		if h.Failed {
			return true
		}
	}
	for _, f := range t.Files {
		if f.Err != nil {
			return true
		}
	}
	for _, h := range t.PostHooks {
		if h.Failed {
			return true
		}
	}
	for _, v := range t.Validators {
		if v.Status == validate.StatusFail || v.Status == validate.StatusTimeout {
			return true
		}
	}
	return false
}

// Report is the aggregate result of one generation run. It is created
// fresh per run and holds no state the engine reads back later.
type Report struct {
	// RootID is the requested template.
	RootID string

	// Order is the resolved generation order, dependencies first.
	Order []string

	// Templates holds one entry per template in Order.
	Templates []TemplateReport

	// CrossChecks are the built-in cross-file results computed over
	// every output of the run.
	CrossChecks []validate.Result

	// MissingTools lists declared required tools absent from PATH,
	// deduplicated across templates.
	MissingTools []string

	// NextSteps aggregates the next-step lines of every generated
	// template, in generation order.
	NextSteps []string
}

// FilesWritten counts outputs that materially changed the output tree.
func (r *Report) FilesWritten() int {
	n := 0
	for _, t := range r.Templates {
		for _, f := range t.Files {
			switch f.Status {
			case output.StatusCreated, output.StatusOverwritten,
				output.StatusMerged, output.StatusBackedUp:
				n++
			}
		}
	}
	return n
}

// Failed reports whether any template or cross-file check failed. A
// failed report may still have written files; callers use FilesWritten
// to pick warning versus error framing.
func (r *Report) Failed() bool {
	for i := range r.Templates {
		if r.Templates[i].Failed() {
			return true
		}
	}
	for _, c := range r.CrossChecks {
		if c.Status == validate.StatusFail || c.Status == validate.StatusTimeout {
			return true
		}
	}
	return false
}
