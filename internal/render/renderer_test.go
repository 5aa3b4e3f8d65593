package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/descriptor"
	oerrors "github.com/mehrdadmoradabadi/OpsArtisan/internal/errors"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/testutil"
)

func TestRenderString(t *testing.T) {
	r := NewRenderer(map[string]any{"name": "World", "port": 8080})

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"plain substitution", "Hello, {{.name}}!", "Hello, World!"},
		{"number value", "port={{.port}}", "port=8080"},
		{"upper helper", "{{upper .name}}", "WORLD"},
		{"lower helper", "{{lower .name}}", "world"},
		{"title helper", "{{title \"web app\"}}", "Web app"},
		{"title helper multibyte", "{{title \"über app\"}}", "Über app"},
		{"title helper empty", "{{title \"\"}}", ""},
		{"replace helper", "{{replace \"o\" \"0\" .name}}", "W0rld"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.RenderString("test", tt.template)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderString_Deterministic(t *testing.T) {
	r := NewRenderer(map[string]any{"name": "World"})

	first, err := r.RenderString("test", "Hello, {{.name}}!")
	require.NoError(t, err)
	second, err := r.RenderString("test", "Hello, {{.name}}!")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderString_UnresolvedVariable(t *testing.T) {
	r := NewRenderer(map[string]any{})

	_, err := r.RenderString("test", "Hello, {{.missing}}!")
	assert.Error(t, err, "unresolved variables must not render as <no value>")
}

func TestRenderString_SyntaxError(t *testing.T) {
	r := NewRenderer(nil)

	_, err := r.RenderString("test", "{{.unclosed")
	assert.Error(t, err)
}

func TestRenderOutput(t *testing.T) {
	root := t.TempDir()
	dir := testutil.WriteBundle(t, root, "greeting", map[string]any{
		"title":       "Greeting",
		"description": "Greets",
		"outputs": []map[string]any{
			{"path": "{{.name}}/hello.sh", "template": "hello.sh.tmpl"},
		},
	}, map[string]string{
		"hello.sh.tmpl": "echo Hello, {{.name}}!\n",
	})

	d, err := descriptor.LoadBundle(dir)
	require.NoError(t, err)

	r := NewRenderer(map[string]any{"name": "World"})
	path, content, err := r.RenderOutput(d, d.Outputs[0])
	require.NoError(t, err)

	assert.Equal(t, "World/hello.sh", path)
	assert.Equal(t, "echo Hello, World!\n", string(content))
}

func TestRenderOutput_ErrorNamesTemplateAndPath(t *testing.T) {
	root := t.TempDir()
	dir := testutil.WriteBundle(t, root, "greeting", map[string]any{
		"title":       "Greeting",
		"description": "Greets",
		"outputs": []map[string]any{
			{"path": "hello.sh", "template": "hello.sh.tmpl"},
		},
	}, map[string]string{
		"hello.sh.tmpl": "echo {{.missing}}\n",
	})

	d, err := descriptor.LoadBundle(dir)
	require.NoError(t, err)

	_, _, err = NewRenderer(map[string]any{}).RenderOutput(d, d.Outputs[0])
	require.Error(t, err)

	var renderErr *Error
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, "greeting", renderErr.TemplateID)
	assert.Equal(t, "hello.sh", renderErr.OutputPath)
	assert.True(t, errors.Is(err, oerrors.ErrRender))
}

func TestRenderOutput_EmptyRenderedPath(t *testing.T) {
	root := t.TempDir()
	dir := testutil.WriteBundle(t, root, "greeting", map[string]any{
		"title":       "Greeting",
		"description": "Greets",
		"outputs": []map[string]any{
			{"path": "{{.name}}", "template": "hello.sh.tmpl"},
		},
	}, map[string]string{
		"hello.sh.tmpl": "hi\n",
	})

	d, err := descriptor.LoadBundle(dir)
	require.NoError(t, err)

	_, _, err = NewRenderer(map[string]any{"name": "  "}).RenderOutput(d, d.Outputs[0])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}
