package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette — named constants for all ANSI 256 colors used in the CLI.
// These are the single source of truth; never use inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: template ids, file paths.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the "created" file status and passing validators.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for "skipped" outcomes and warnings.
	ColorYellow = lipgloss.Color("220")

	// ColorRed is used for failed validators and hooks.
	ColorRed = lipgloss.Color("196")

	// ColorBoldRed is used for fatal outcomes (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark (✔).
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles — map domain concepts to visual presentation.
var (
	// StyleNoun styles identifiable nouns (template ids, output paths).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles action verbs (generating, validating, running).
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome (prefixes, separators, timestamps).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// File write status constants.
const (
	StatusCreated     = "created"
	StatusOverwritten = "overwritten"
	StatusMerged      = "merged"
	StatusBackedUp    = "backed up"
	StatusSkipped     = "skipped"
	StatusUnchanged   = "unchanged"
	StatusFailed      = "failed"
)

// StatusStyle returns the lipgloss style for a given file status string.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusCreated, StatusMerged:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusOverwritten, StatusBackedUp:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusSkipped, StatusUnchanged:
		return lipgloss.NewStyle().Faint(true)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minPathColumnWidth is the minimum width for the file path column before
// the status suffix, so status words align consistently.
const minPathColumnWidth = 48

// FormatFileLine renders an output file path with a right-aligned,
// color-coded status suffix.
//
// Format: f:<path>  <status>
//
// The "f:" prefix is dim, the path is cyan, and the status uses StatusStyle.
func FormatFileLine(path, status string) string {
	padding := minPathColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}

	prefix := StyleDim.Render("f:")
	styledPath := StyleNoun.Render(path)
	styledStatus := StatusStyle(status).Render(status)

	return prefix + styledPath + strings.Repeat(" ", padding) + styledStatus
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatCross renders a red cross with a message for stdout output.
func FormatCross(msg string) string {
	cross := lipgloss.NewStyle().Foreground(ColorRed).Render("✗")
	return cross + " " + msg
}

// FormatValidatorLine renders a validator result line: id, status, and an
// optional duration suffix.
func FormatValidatorLine(id, status, detail string) string {
	var mark string
	switch status {
	case "pass":
		mark = lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	case "fail", "timeout":
		mark = lipgloss.NewStyle().Foreground(ColorRed).Render("✗")
	default:
		mark = StyleDim.Render("-")
	}

	line := fmt.Sprintf("%s %s  %s", mark, StyleNoun.Render(id), status)
	if detail != "" {
		line += " " + StyleDim.Render(detail)
	}
	return line
}
