package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/materialize"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/output"
)

// terminalConflict asks the user how to handle one existing file. Used
// only when stdin is a terminal; without it unresolved conflicts degrade
// to skip inside the materializer.
func terminalConflict(path string, existing, rendered []byte, diff string) (materialize.Decision, error) {
	if diff != "" {
		output.Println(output.StyleDim.Render("changes for ") + output.StyleNoun.Render(path))
		output.Println(diff)
	}

	decision := materialize.DecisionSkip
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[materialize.Decision]().
			Title(fmt.Sprintf("%s already exists", path)).
			Options(
				huh.NewOption("Keep existing file", materialize.DecisionSkip),
				huh.NewOption("Overwrite with generated content", materialize.DecisionOverwrite),
				huh.NewOption("Merge (keep lines from both)", materialize.DecisionMerge),
				huh.NewOption("Back up existing, then write", materialize.DecisionBackup),
			).
			Value(&decision),
	))

	if err := form.Run(); err != nil {
		return materialize.DecisionSkip, err
	}
	return decision, nil
}

// overwriteConflict resolves every conflict as overwrite. Used with
// --yes so a run never blocks on input.
func overwriteConflict(string, []byte, []byte, string) (materialize.Decision, error) {
	return materialize.DecisionOverwrite, nil
}
