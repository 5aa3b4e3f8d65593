package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/output"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.GetInfo()

	output.Println(fmt.Sprintf("opsartisan version %s", info.Version))
	output.Println(fmt.Sprintf("  Commit:  %s", info.GitCommit))
	output.Println(fmt.Sprintf("  Built:   %s", info.BuildDate))
	output.Println(fmt.Sprintf("  Go:      %s", info.GoVersion))
	return nil
}
