package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/descriptor"
	oerrors "github.com/mehrdadmoradabadi/OpsArtisan/internal/errors"
)

// Renderer handles template rendering with data substitution. Rendering
// is pure: identical (template, answers) input always produces identical
// output bytes.
type Renderer struct {
	data map[string]any
}

// NewRenderer creates a new renderer over the merged answer context.
func NewRenderer(data map[string]any) *Renderer {
	return &Renderer{data: data}
}

// funcs are the helper functions available inside render sources.
var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"title": func(s string) string {
		if s == "" {
			return s
		}
		first, size := utf8.DecodeRuneInString(s)
		return string(unicode.ToUpper(first)) + s[size:]
	},
	"replace": func(old, new, s string) string {
		return strings.ReplaceAll(s, old, new)
	},
}

// RenderBytes renders a template source and returns the content.
// Unresolved variables are errors, not silent "<no value>" output.
func (r *Renderer) RenderBytes(name string, content []byte) ([]byte, error) {
	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	return buf.Bytes(), nil
}

// RenderString renders a template string and returns the result.
func (r *Renderer) RenderString(name, content string) (string, error) {
	result, err := r.RenderBytes(name, []byte(content))
	if err != nil {
		return "", err
	}
	return string(result), nil
}

// RenderOutput renders one output of a bundle: the destination path
// template and the content of the referenced render source.
func (r *Renderer) RenderOutput(d *descriptor.Descriptor, out descriptor.OutputSpec) (path string, content []byte, err error) {
	path, err = r.RenderString("path", out.Path)
	if err != nil {
		return "", nil, &Error{TemplateID: d.ID, OutputPath: out.Path, Cause: err}
	}
	if strings.TrimSpace(path) == "" {
		return "", nil, &Error{
			TemplateID: d.ID,
			OutputPath: out.Path,
			Cause:      fmt.Errorf("output path rendered to an empty string"),
		}
	}

	src := filepath.Join(d.BundleDir, descriptor.TemplatesDirName, out.Template)
	raw, err := os.ReadFile(src)
	if err != nil {
		return "", nil, &Error{TemplateID: d.ID, OutputPath: path, Cause: fmt.Errorf("reading render source: %w", err)}
	}

	content, err = r.RenderBytes(out.Template, raw)
	if err != nil {
		return "", nil, &Error{TemplateID: d.ID, OutputPath: path, Cause: err}
	}

	return path, content, nil
}

// Error reports a rendering failure for one output. It names the
// template id and output path so a degraded-mode report stays actionable.
type Error struct {
	// TemplateID is the template whose output failed to render.
	TemplateID string

	// OutputPath is the output's destination path (or its path template
	// when the path itself failed to render).
	OutputPath string

	// Cause is the underlying template error.
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("rendering %s output %q: %v", e.TemplateID, e.OutputPath, e.Cause)
}

// Unwrap marks the error as a render failure.
func (e *Error) Unwrap() error {
	return oerrors.ErrRender
}
