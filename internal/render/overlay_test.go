package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/descriptor"
)

func TestOverlay_Precedence(t *testing.T) {
	prompts := []descriptor.PromptSpec{
		{ID: "app_name", Default: "web"},
		{ID: "port", Default: 8080},
		{ID: "replicas", Default: 1},
		{ID: "no_default"},
	}
	envDefaults := map[string]any{
		"port":     9090,
		"replicas": 3,
	}
	answers := map[string]any{
		"replicas": 5,
	}

	merged := Overlay(prompts, envDefaults, answers)

	assert.Equal(t, "web", merged["app_name"], "prompt default survives when nothing overrides it")
	assert.Equal(t, 9090, merged["port"], "environment default beats prompt default")
	assert.Equal(t, 5, merged["replicas"], "explicit answer beats everything")

	_, ok := merged["no_default"]
	assert.False(t, ok, "prompts without defaults contribute nothing")
}

func TestOverlay_DoesNotMutateInputs(t *testing.T) {
	envDefaults := map[string]any{"a": 1}
	answers := map[string]any{"b": 2}

	merged := Overlay(nil, envDefaults, answers)
	merged["a"] = 99
	merged["c"] = 3

	assert.Equal(t, map[string]any{"a": 1}, envDefaults)
	assert.Equal(t, map[string]any{"b": 2}, answers)
}

func TestOverlay_NilSources(t *testing.T) {
	merged := Overlay(nil, nil, nil)
	assert.Empty(t, merged)
}
