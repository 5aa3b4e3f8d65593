package output

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether both stdin and stdout are attached to a terminal.
// Non-interactive contexts (pipes, CI) never get spinners or prompts.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
