package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/descriptor"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/output"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var (
		tagFlag    string
		searchFlag string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		Long: `List template bundles discovered in the configured directories.

Examples:
  # All templates
  opsartisan list

  # Templates tagged "docker"
  opsartisan list --tag docker

  # Templates mentioning nginx
  opsartisan list --search nginx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(tagFlag, searchFlag)
		},
	}

	cmd.Flags().StringVar(&tagFlag, "tag", "", "Only templates carrying this tag")
	cmd.Flags().StringVar(&searchFlag, "search", "", "Only templates matching this keyword")

	return cmd
}

// runList executes the list command.
func runList(tag, search string) error {
	store, err := openStore()
	if err != nil {
		return exitWith(err)
	}

	var descriptors []*descriptor.Descriptor
	if search != "" {
		descriptors = store.Search(search)
	} else {
		descriptors = store.List()
	}
	if tag != "" {
		descriptors = slices.DeleteFunc(descriptors, func(d *descriptor.Descriptor) bool {
			return !slices.Contains(d.Tags, tag)
		})
	}

	if len(descriptors) == 0 {
		output.Println("no templates found")
		return nil
	}

	for _, d := range descriptors {
		line := fmt.Sprintf("%s  %s",
			output.StyleNoun.Render(fmt.Sprintf("%-24s", d.ID)), d.Title)
		if len(d.Dependencies) > 0 {
			line += output.StyleDim.Render(fmt.Sprintf("  (depends on %d)", len(d.Dependencies)))
		}
		output.Println(line)
	}
	return nil
}
