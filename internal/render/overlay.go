// Package render renders template sources against an answer context.
package render

import (
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/descriptor"
)

// Overlay merges answer sources with fixed precedence: explicit answers
// override environment defaults, which override prompt defaults. The
// inputs are never mutated; the result is a fresh map.
func Overlay(prompts []descriptor.PromptSpec, envDefaults map[string]any, answers map[string]any) map[string]any {
	merged := make(map[string]any, len(prompts)+len(envDefaults)+len(answers))

	for _, p := range prompts {
		if p.Default != nil {
			merged[p.ID] = p.Default
		}
	}
	for k, v := range envDefaults {
		merged[k] = v
	}
	for k, v := range answers {
		merged[k] = v
	}

	return merged
}
