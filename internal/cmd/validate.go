package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/output"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/resolver"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <template-id>",
		Short: "Check a template without generating",
		Long: `Check a template bundle's descriptor and its dependency closure
without writing any files: the descriptor must load and validate, every
dependency must exist, and the dependency graph must be acyclic.

Examples:
  opsartisan validate docker-compose`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
	return cmd
}

// runValidate executes the validate command.
func runValidate(templateID string) error {
	store, err := openStore()
	if err != nil {
		return exitWith(err)
	}

	if _, err := store.Get(templateID); err != nil {
		return exitWith(err)
	}

	order, err := resolver.New(store).Resolve(templateID)
	if err != nil {
		output.Println(output.FormatCross(err.Error()))
		return exitPrinted(exitCodeFor(err), err)
	}

	for _, id := range order {
		output.Println("  " + output.FormatCheckmark(output.StyleNoun.Render(id)))
	}
	output.Println(output.FormatCheckmark(output.StyleSummary.Render(
		fmt.Sprintf("%s is valid (%d template(s) in generation order)", templateID, len(order)))))
	return nil
}
