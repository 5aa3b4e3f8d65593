package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/command"
	oerrors "github.com/mehrdadmoradabadi/OpsArtisan/internal/errors"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/materialize"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/output"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/pipeline"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/validate"
)

// NewNewCmd creates the new command.
func NewNewCmd() *cobra.Command {
	var (
		outDirFlag     string
		mergeFlag      string
		setFlags       []string
		answersFlag    string
		envFlag        string
		yesFlag        bool
		noValidateFlag bool
		parallelFlag   bool
		skipHooksFlag  bool
	)

	cmd := &cobra.Command{
		Use:   "new <template-id>",
		Short: "Generate a project from a template",
		Long: `Generate output files from a template bundle and its dependencies.

Dependencies are generated first, the requested template last. Existing
files are handled per the merge strategy; under prompt and diff-merge a
terminal asks per file, and without a terminal conflicting files are
skipped.

Examples:
  # Generate into the current directory
  opsartisan new docker-compose

  # Generate with explicit answers
  opsartisan new docker-compose --set app_name=web --set port=8080

  # Generate with a preset and production defaults
  opsartisan new k8s-deployment --answers prod.json --env prod

  # Never prompt, overwrite conflicts
  opsartisan new docker-compose -y --merge overwrite`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(args[0], newOptions{
				outDir:      outDirFlag,
				merge:       mergeFlag,
				sets:        setFlags,
				answersFile: answersFlag,
				environment: envFlag,
				yes:         yesFlag,
				noValidate:  noValidateFlag,
				parallel:    parallelFlag,
				skipHooks:   skipHooksFlag,
			})
		},
	}

	cmd.Flags().StringVarP(&outDirFlag, "out-dir", "d", ".", "Output directory")
	cmd.Flags().StringVar(&mergeFlag, "merge", "", "Merge strategy: skip, overwrite, prompt, diff-merge (default from config)")
	cmd.Flags().StringArrayVar(&setFlags, "set", nil, "Answer as key=value (repeatable)")
	cmd.Flags().StringVar(&answersFlag, "answers", "", "JSON file of answers")
	cmd.Flags().StringVar(&envFlag, "env", "", "Environment defaults overlay (e.g. prod)")
	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Never prompt; rely on declared defaults and overwrite conflicts")
	cmd.Flags().BoolVar(&noValidateFlag, "no-validate", false, "Skip declared validators and cross-file checks")
	cmd.Flags().BoolVar(&parallelFlag, "parallel-validation", false, "Run validators concurrently (bounded)")
	cmd.Flags().BoolVar(&skipHooksFlag, "skip-hooks", false, "Skip pre- and post-generation hooks")

	return cmd
}

type newOptions struct {
	outDir      string
	merge       string
	sets        []string
	answersFile string
	environment string
	yes         bool
	noValidate  bool
	parallel    bool
	skipHooks   bool
}

// runNew executes the new command.
func runNew(templateID string, opts newOptions) error {
	ctx := context.Background()
	cfg := GetConfig()

	store, err := openStore()
	if err != nil {
		return exitWith(err)
	}

	answers, err := collectAnswers(opts.answersFile, opts.sets)
	if err != nil {
		return exitWith(err)
	}

	mergeName := opts.merge
	if mergeName == "" {
		mergeName = cfg.MergeStrategy
	}
	strategy, valid := materialize.ParseStrategy(mergeName)
	if !valid {
		return exitWith(fmt.Errorf("invalid merge strategy %q (valid: skip, overwrite, prompt, diff-merge)", mergeName))
	}

	interactive := output.IsTTY() && !opts.yes
	var conflict materialize.ConflictFunc
	switch {
	case opts.yes:
		conflict = overwriteConflict
	case interactive:
		conflict = terminalConflict
	}

	gen := pipeline.GenerationContext{
		Answers:        answers,
		Environment:    opts.environment,
		OutputDir:      opts.outDir,
		Strategy:       strategy,
		Conflict:       conflict,
		SkipHooks:      opts.skipHooks,
		SkipValidators: opts.noValidate,
		Validation: validate.Options{
			Parallel:       opts.parallel || cfg.Validation.Parallel,
			Concurrency:    cfg.Validation.Concurrency,
			DefaultTimeout: time.Duration(cfg.Validation.TimeoutSeconds) * time.Second,
		},
	}

	p := pipeline.New(store, command.NewExecRunner())

	var report *pipeline.Report
	generate := func() error {
		var genErr error
		report, genErr = p.Generate(ctx, templateID, gen)
		return genErr
	}

	// A spinner would fight the per-file conflict prompt for the
	// terminal, so it only runs when nothing can prompt.
	promptsPossible := interactive &&
		(strategy == materialize.StrategyPrompt || strategy == materialize.StrategyDiffMerge)
	if output.IsTTY() && !promptsPossible {
		err = output.RunWithSpinner(ctx, generate,
			output.WithTitle(fmt.Sprintf("Generating %s...", templateID)))
	} else {
		err = generate()
	}
	if err != nil {
		return exitWith(err)
	}

	printReport(report)

	if report.Failed() {
		return exitPrinted(oerrors.ExitGenerationFailed,
			fmt.Errorf("generation of %s completed with failures", templateID))
	}
	return nil
}
