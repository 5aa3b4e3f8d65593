package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/testutil"
)

func TestParseSetFlags(t *testing.T) {
	answers, err := parseSetFlags([]string{
		"app_name=web",
		"port=8080",
		"debug=true",
		"ratio=0.5",
		"empty=",
		"image=nginx=latest",
	})
	require.NoError(t, err)

	assert.Equal(t, "web", answers["app_name"])
	assert.Equal(t, 8080, answers["port"])
	assert.Equal(t, true, answers["debug"])
	assert.Equal(t, 0.5, answers["ratio"])
	assert.Equal(t, "", answers["empty"])
	assert.Equal(t, "nginx=latest", answers["image"], "only the first = splits")
}

func TestParseSetFlags_Invalid(t *testing.T) {
	for _, bad := range []string{"no-equals", "=value"} {
		_, err := parseSetFlags([]string{bad})
		assert.Error(t, err, "input %q", bad)
	}
}

func TestCollectAnswers_SetBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "answers.json",
		`{"app_name": "from-file", "port": 80}`)

	answers, err := collectAnswers(path, []string{"app_name=from-flag"})
	require.NoError(t, err)

	assert.Equal(t, "from-flag", answers["app_name"])
	assert.Equal(t, float64(80), answers["port"])
}

func TestCollectAnswers_BadFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "answers.json", "{broken")

	_, err := collectAnswers(path, nil)
	assert.Error(t, err)

	_, err = collectAnswers(dir+"/missing.json", nil)
	assert.Error(t, err)
}
