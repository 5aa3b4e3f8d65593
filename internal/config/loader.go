package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable prefix for OpsArtisan configuration.
const envPrefix = "OPSARTISAN"

// Loader handles loading and merging configuration from multiple sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	// Set up environment variable bindings
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific environment variables
	_ = v.BindEnv("templateDirs", "OPSARTISAN_TEMPLATE_DIRS")
	_ = v.BindEnv("mergeStrategy", "OPSARTISAN_MERGE_STRATEGY")
	_ = v.BindEnv("validation.parallel", "OPSARTISAN_VALIDATION_PARALLEL")
	_ = v.BindEnv("validation.concurrency", "OPSARTISAN_VALIDATION_CONCURRENCY")
	_ = v.BindEnv("validation.timeoutSeconds", "OPSARTISAN_VALIDATION_TIMEOUT_SECONDS")

	return &Loader{v: v}
}

// Load loads configuration from the given file path.
// If configFile is empty, it uses the default config file path.
// Environment variables take precedence over file values.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	// Expand ~ in path
	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	// A missing config file is fine; defaults + env vars apply.
	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads configuration and applies defaults.
func (l *Loader) LoadWithDefaults(configFile string) (*Config, error) {
	cfg, err := l.Load(configFile)
	if err != nil {
		return nil, err
	}

	return cfg.WithDefaults(), nil
}
