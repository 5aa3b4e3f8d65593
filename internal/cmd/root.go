// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/config"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/descriptor"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/output"
)

var (
	// Global flags
	configFlag       string
	templateDirFlags []string
	verboseFlag      bool

	// Resolved configuration (loaded during PersistentPreRunE)
	cliConfig *config.Config
)

// NewRootCmd creates the root command for the OpsArtisan CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "opsartisan",
		Short:         "Project scaffolding from template bundles",
		Long:          `OpsArtisan generates configuration and infrastructure artifacts from parameterized template bundles.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals()
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: OPSARTISAN_CONFIG)")
	rootCmd.PersistentFlags().StringArrayVar(&templateDirFlags, "template-dir", nil, "Template bundle directory, highest priority first (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(NewNewCmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewInfoCmd())
	rootCmd.AddCommand(NewValidateCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals sets up logging and loads configuration.
func initializeGlobals() error {
	output.SetupLogging(verboseFlag)

	cfg, err := config.NewLoader().LoadWithDefaults(configFlag)
	if err != nil {
		return err
	}
	if len(templateDirFlags) > 0 {
		// Flag dirs replace configured dirs rather than appending, so a
		// test fixture directory sees only its own bundles.
		cfg.TemplateDirs = templateDirFlags
	}
	cliConfig = cfg

	output.Debug("configuration loaded",
		"templateDirs", cfg.TemplateDirs,
		"mergeStrategy", cfg.MergeStrategy)
	return nil
}

// GetConfig returns the resolved configuration. Valid after
// PersistentPreRunE has run.
func GetConfig() *config.Config {
	return cliConfig
}

// openStore discovers template bundles in the configured directories.
func openStore() (*descriptor.Store, error) {
	store := descriptor.NewStore(GetConfig().TemplateDirs)
	if err := store.Discover(); err != nil {
		return nil, err
	}
	return store, nil
}
