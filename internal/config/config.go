// Package config provides configuration loading and management.
package config

// Config represents the OpsArtisan CLI configuration.
// Loaded from ~/.opsartisan/config.yaml with OPSARTISAN_* env overrides.
type Config struct {
	// TemplateDirs lists directories searched for template bundles,
	// highest priority first.
	// Env: OPSARTISAN_TEMPLATE_DIRS, Default: ./templates,
	// ~/.opsartisan/templates, /usr/share/opsartisan/templates
	TemplateDirs []string `json:"templateDirs,omitempty" mapstructure:"templateDirs"`

	// MergeStrategy is the default strategy for existing destination files.
	// One of: skip, overwrite, prompt, diff-merge.
	// Env: OPSARTISAN_MERGE_STRATEGY, Default: "prompt"
	MergeStrategy string `json:"mergeStrategy,omitempty" mapstructure:"mergeStrategy"`

	// Validation contains validator execution settings.
	Validation ValidationConfig `json:"validation,omitempty" mapstructure:"validation"`
}

// ValidationConfig contains validator execution settings.
type ValidationConfig struct {
	// Parallel enables the bounded-concurrency validation mode.
	// Env: OPSARTISAN_VALIDATION_PARALLEL, Default: false
	Parallel bool `json:"parallel,omitempty" mapstructure:"parallel"`

	// Concurrency bounds the parallel validator pool.
	// Env: OPSARTISAN_VALIDATION_CONCURRENCY, Default: 4
	Concurrency int `json:"concurrency,omitempty" mapstructure:"concurrency"`

	// TimeoutSeconds is the default per-validator timeout when a
	// descriptor does not declare one.
	// Env: OPSARTISAN_VALIDATION_TIMEOUT_SECONDS, Default: 30
	TimeoutSeconds int `json:"timeoutSeconds,omitempty" mapstructure:"timeoutSeconds"`
}

// Default values applied by WithDefaults.
const (
	DefaultMergeStrategy  = "prompt"
	DefaultConcurrency    = 4
	DefaultTimeoutSeconds = 30
)

// WithDefaults returns a copy of the config with defaults filled in for
// any unset fields.
func (c *Config) WithDefaults() *Config {
	out := *c
	if len(out.TemplateDirs) == 0 {
		out.TemplateDirs = DefaultTemplateDirs()
	}
	if out.MergeStrategy == "" {
		out.MergeStrategy = DefaultMergeStrategy
	}
	if out.Validation.Concurrency <= 0 {
		out.Validation.Concurrency = DefaultConcurrency
	}
	if out.Validation.TimeoutSeconds <= 0 {
		out.Validation.TimeoutSeconds = DefaultTimeoutSeconds
	}
	return &out
}
