package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// parseSetFlags converts repeated --set key=value flags into answer
// values. Values parse as bool, then integer, then float, then fall back
// to string, matching what descriptor prompts declare.
func parseSetFlags(sets []string) (map[string]any, error) {
	answers := make(map[string]any, len(sets))

	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q (expected key=value)", s)
		}
		answers[key] = coerceValue(value)
	}
	return answers, nil
}

// coerceValue parses a flag value into its most specific type.
func coerceValue(value string) any {
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}

// loadAnswersFile reads a JSON object of answers from path.
func loadAnswersFile(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading answers file: %w", err)
	}

	var answers map[string]any
	if err := json.Unmarshal(raw, &answers); err != nil {
		return nil, fmt.Errorf("parsing answers file %s: %w", path, err)
	}
	return answers, nil
}

// collectAnswers merges the answers file under the --set flags. A key
// present in both takes the --set value.
func collectAnswers(answersFile string, sets []string) (map[string]any, error) {
	answers := make(map[string]any)

	if answersFile != "" {
		fromFile, err := loadAnswersFile(answersFile)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			answers[k] = v
		}
	}

	fromFlags, err := parseSetFlags(sets)
	if err != nil {
		return nil, err
	}
	for k, v := range fromFlags {
		answers[k] = v
	}

	return answers, nil
}
