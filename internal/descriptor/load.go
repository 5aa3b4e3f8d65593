package descriptor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	oerrors "github.com/mehrdadmoradabadi/OpsArtisan/internal/errors"
)

// LoadBundle reads and validates the descriptor of the bundle at dir.
// The returned descriptor has defaults applied (hook type shell, hook
// policy warn, prompt type text) and BundleDir set.
func LoadBundle(dir string) (*Descriptor, error) {
	path := filepath.Join(dir, DescriptorFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError(
				fmt.Sprintf("bundle has no %s", DescriptorFileName), dir, "")
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("parsing descriptor: %v", err), path, "", "")
	}

	d.BundleDir = dir
	d.applyDefaults()

	if err := d.Validate(); err != nil {
		return nil, err
	}

	return &d, nil
}

// applyDefaults fills the optional enum fields the schema leaves open.
func (d *Descriptor) applyDefaults() {
	for i := range d.Prompts {
		if d.Prompts[i].Type == "" {
			d.Prompts[i].Type = PromptText
		}
	}
	for _, phase := range [][]HookSpec{d.Hooks.PreGeneration, d.Hooks.PostGeneration} {
		for i := range phase {
			if phase[i].Type == "" {
				phase[i].Type = HookShell
			}
			if phase[i].OnFailure == "" {
				phase[i].OnFailure = FailureWarn
			}
		}
	}
	for i := range d.Validators {
		if d.Validators[i].Description == "" {
			d.Validators[i].Description = d.Validators[i].Command
		}
	}
}

// Validate checks the descriptor against the schema: required fields,
// known enum values, and render sources present on disk.
func (d *Descriptor) Validate() error {
	loc := filepath.Join(d.BundleDir, DescriptorFileName)

	if d.ID == "" {
		return oerrors.NewValidationError("missing required field", loc, "id", "")
	}
	if d.Title == "" {
		return oerrors.NewValidationError("missing required field", loc, "title", "")
	}
	if d.Description == "" {
		return oerrors.NewValidationError("missing required field", loc, "description", "")
	}
	if len(d.Outputs) == 0 {
		return oerrors.NewValidationError("template declares no outputs", loc, "outputs",
			"every template must produce at least one file")
	}

	templatesDir := filepath.Join(d.BundleDir, TemplatesDirName)
	for i, out := range d.Outputs {
		field := fmt.Sprintf("outputs[%d]", i)
		if out.Path == "" {
			return oerrors.NewValidationError("output missing path", loc, field+".path", "")
		}
		if out.Template == "" {
			return oerrors.NewValidationError("output missing template", loc, field+".template", "")
		}
		src := filepath.Join(templatesDir, out.Template)
		if _, err := os.Stat(src); err != nil {
			return oerrors.NewValidationError(
				fmt.Sprintf("render source not found: %s", out.Template), loc, field+".template",
				fmt.Sprintf("expected file %s", src))
		}
	}

	seen := make(map[string]bool, len(d.Prompts))
	for i, p := range d.Prompts {
		field := fmt.Sprintf("prompts[%d]", i)
		if p.ID == "" {
			return oerrors.NewValidationError("prompt missing id", loc, field+".id", "")
		}
		if seen[p.ID] {
			return oerrors.NewValidationError(
				fmt.Sprintf("duplicate prompt id %q", p.ID), loc, field+".id", "")
		}
		seen[p.ID] = true
		if !p.Type.IsValid() {
			return oerrors.NewValidationError(
				fmt.Sprintf("unknown prompt type %q", p.Type), loc, field+".type",
				"valid types: text, number, confirm, select")
		}
		if p.Type == PromptSelect && len(p.Choices) == 0 {
			return oerrors.NewValidationError(
				fmt.Sprintf("select prompt %q has no choices", p.ID), loc, field+".choices", "")
		}
	}

	if err := d.validateHooks(loc, "pre_generation", d.Hooks.PreGeneration); err != nil {
		return err
	}
	if err := d.validateHooks(loc, "post_generation", d.Hooks.PostGeneration); err != nil {
		return err
	}

	for i, v := range d.Validators {
		field := fmt.Sprintf("validators[%d]", i)
		if v.Command == "" {
			return oerrors.NewValidationError("validator missing command", loc, field+".command", "")
		}
		if v.TimeoutSeconds < 0 {
			return oerrors.NewValidationError("validator timeout must not be negative", loc, field+".timeout", "")
		}
	}

	return nil
}

func (d *Descriptor) validateHooks(loc, phase string, hooks []HookSpec) error {
	for i, h := range hooks {
		field := fmt.Sprintf("hooks.%s[%d]", phase, i)
		if !h.Type.IsValid() {
			return oerrors.NewValidationError(
				fmt.Sprintf("unknown hook type %q", h.Type), loc, field+".type",
				"valid types: shell, chmod, git, info")
		}
		if h.Command == "" {
			return oerrors.NewValidationError("hook missing command", loc, field+".command", "")
		}
	}
	return nil
}
