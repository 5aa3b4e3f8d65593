// Package descriptor provides the template bundle manifest model.
//
// A template bundle is a directory containing a descriptor.json manifest
// and a templates/ subdirectory with the render sources referenced by the
// manifest's outputs. The descriptor is parsed and validated eagerly at
// load time; a malformed bundle fails before any generation work begins.
package descriptor

// DescriptorFileName is the manifest file expected in every bundle.
const DescriptorFileName = "descriptor.json"

// TemplatesDirName is the render-source subdirectory inside a bundle.
const TemplatesDirName = "templates"

// Descriptor is the structured, validated manifest of one template bundle.
// Immutable once loaded; owned by the pipeline for a single generation run.
type Descriptor struct {
	// ID is the unique template identifier (e.g. "docker-compose").
	ID string `json:"id"`

	// Title is the human-readable template name.
	Title string `json:"title"`

	// Description explains what the template generates.
	Description string `json:"description"`

	// Outputs is the ordered list of files this template produces.
	Outputs []OutputSpec `json:"outputs"`

	// Prompts declares the answer variables the template consumes.
	Prompts []PromptSpec `json:"prompts,omitempty"`

	// Dependencies lists template ids that must be generated first,
	// in declared order.
	Dependencies []string `json:"dependencies,omitempty"`

	// RequiredTools lists external commands the generated output expects
	// on PATH (e.g. "docker"). Checked as a warning, never fatal.
	RequiredTools []string `json:"required_tools,omitempty"`

	// EnvironmentDefaults maps an environment name (e.g. "prod") to a
	// partial answer set merged under explicit answers.
	EnvironmentDefaults map[string]map[string]any `json:"environment_defaults,omitempty"`

	// Validators are command-based checks run against generated outputs.
	Validators []ValidatorSpec `json:"validators,omitempty"`

	// Hooks are command-based side effects run around materialization.
	Hooks HookSet `json:"hooks,omitempty"`

	// NextSteps are informational lines printed after generation.
	NextSteps []string `json:"next_steps,omitempty"`

	// Tags categorize the template for list/search.
	Tags []string `json:"tags,omitempty"`

	// Category groups templates in listings.
	Category string `json:"category,omitempty"`

	// BundleDir is the on-disk bundle directory. Set by the loader,
	// never read from JSON.
	BundleDir string `json:"-"`
}

// OutputSpec describes one file a template produces.
type OutputSpec struct {
	// Path is the destination path relative to the output directory.
	// It is itself a template and may reference answer variables.
	Path string `json:"path"`

	// Template is the render source file name under the bundle's
	// templates/ directory.
	Template string `json:"template"`
}

// PromptSpec declares one answer variable.
type PromptSpec struct {
	// ID is the answer variable name.
	ID string `json:"id"`

	// Type is one of: text, number, confirm, select. Defaults to text.
	Type PromptType `json:"type,omitempty"`

	// Label is the human-readable question.
	Label string `json:"label,omitempty"`

	// Default is the answer used when the caller opts into defaults.
	Default any `json:"default,omitempty"`

	// Choices constrains select prompts.
	Choices []string `json:"choices,omitempty"`
}

// PromptType enumerates prompt kinds.
type PromptType string

// Prompt types.
const (
	PromptText    PromptType = "text"
	PromptNumber  PromptType = "number"
	PromptConfirm PromptType = "confirm"
	PromptSelect  PromptType = "select"
)

// IsValid reports whether the prompt type is a known kind.
func (t PromptType) IsValid() bool {
	switch t {
	case PromptText, PromptNumber, PromptConfirm, PromptSelect:
		return true
	default:
		return false
	}
}

// HookSet groups hooks by phase, each phase ordered as declared.
type HookSet struct {
	// PreGeneration hooks run before the template's files are written.
	PreGeneration []HookSpec `json:"pre_generation,omitempty"`

	// PostGeneration hooks run after the template's files are written.
	PostGeneration []HookSpec `json:"post_generation,omitempty"`
}

// HookSpec describes one command-based side effect.
type HookSpec struct {
	// Type selects the execution shape. Defaults to shell.
	Type HookType `json:"type,omitempty"`

	// Command is the command line. For chmod hooks it is
	// "<octal-mode> <file>"; for git hooks the arguments after "git";
	// for info hooks the message to display.
	Command string `json:"command"`

	// Description is shown while the hook runs.
	Description string `json:"description,omitempty"`

	// OnFailure selects the failure policy. Defaults to warn.
	OnFailure FailurePolicy `json:"on_failure,omitempty"`

	// Env adds environment variables to the hook's subprocess.
	Env map[string]string `json:"env,omitempty"`
}

// HookType enumerates hook kinds.
type HookType string

// Hook types.
const (
	HookShell HookType = "shell"
	HookChmod HookType = "chmod"
	HookGit   HookType = "git"
	HookInfo  HookType = "info"
)

// IsValid reports whether the hook type is a known kind.
func (t HookType) IsValid() bool {
	switch t {
	case HookShell, HookChmod, HookGit, HookInfo:
		return true
	default:
		return false
	}
}

// FailurePolicy enumerates per-hook failure handling.
type FailurePolicy string

// Failure policies.
const (
	// FailureFail aborts the remaining pipeline steps for the template.
	FailureFail FailurePolicy = "fail"

	// FailureWarn records the failure and continues.
	FailureWarn FailurePolicy = "warn"

	// FailureIgnore discards the failure entirely.
	FailureIgnore FailurePolicy = "ignore"
)

// IsValid reports whether the failure policy is a known value.
func (p FailurePolicy) IsValid() bool {
	switch p {
	case FailureFail, FailureWarn, FailureIgnore:
		return true
	default:
		return false
	}
}

// ValidatorSpec describes one command-based check.
type ValidatorSpec struct {
	// Command is the command line executed in the output directory.
	Command string `json:"command"`

	// Description is shown with the result. Defaults to the command.
	Description string `json:"description,omitempty"`

	// TargetFile names the single output the check concerns, when one
	// is determinable. Empty for whole-directory checks.
	TargetFile string `json:"file,omitempty"`

	// Files names multiple outputs for cross-file checks. A validator
	// with Files set receives every listed output of the current run.
	Files []string `json:"files,omitempty"`

	// TimeoutSeconds bounds the validator subprocess. Zero means the
	// configured default applies.
	TimeoutSeconds int `json:"timeout,omitempty"`
}

// IsCrossFile reports whether the validator targets multiple outputs.
func (v ValidatorSpec) IsCrossFile() bool {
	return len(v.Files) > 1
}
