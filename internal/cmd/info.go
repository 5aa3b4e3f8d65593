package cmd

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/output"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/resolver"
)

// NewInfoCmd creates the info command.
func NewInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <template-id>",
		Short: "Show template details",
		Long: `Show a template's descriptor summary: outputs, prompts, required
tools, and the dependency tree.

Examples:
  opsartisan info docker-compose`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}
	return cmd
}

// runInfo executes the info command.
func runInfo(templateID string) error {
	store, err := openStore()
	if err != nil {
		return exitWith(err)
	}

	d, err := store.Get(templateID)
	if err != nil {
		return exitWith(err)
	}

	output.Println(output.StyleSummary.Render(d.Title) + output.StyleDim.Render("  ("+d.ID+")"))
	output.Println(d.Description)
	output.Println("")

	output.Println(output.StyleAction.Render("Outputs:"))
	for _, out := range d.Outputs {
		output.Println("  " + output.StyleNoun.Render(out.Path))
	}

	if len(d.Prompts) > 0 {
		output.Println(output.StyleAction.Render("Prompts:"))
		for _, p := range d.Prompts {
			line := fmt.Sprintf("  %-20s %s", p.ID, p.Label)
			if p.Default != nil {
				line += output.StyleDim.Render(fmt.Sprintf("  (default: %v)", p.Default))
			}
			output.Println(line)
		}
	}

	if len(d.RequiredTools) > 0 {
		output.Println(output.StyleAction.Render("Required tools:"))
		for _, tool := range d.RequiredTools {
			if _, lookErr := exec.LookPath(tool); lookErr != nil {
				output.Println("  " + output.FormatCross(tool+" (not found)"))
			} else {
				output.Println("  " + output.FormatCheckmark(tool))
			}
		}
	}

	if len(d.Dependencies) > 0 {
		output.Println(output.StyleAction.Render("Dependencies:"))
		tree, treeErr := resolver.New(store).Tree(d.ID)
		if treeErr != nil {
			return exitWith(treeErr)
		}
		output.Println(strings.TrimRight(output.RenderTree(tree), "\n"))
	}

	return nil
}
