package materialize

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// RenderFileDiff renders a human-readable diff between the existing and
// rendered content of one file. YAML files get a structural dyff report;
// everything else gets a line-level diff. An empty string means no
// changes.
func RenderFileDiff(path string, existing, rendered []byte) string {
	if isYAMLPath(path) {
		if report, ok := yamlDiff(existing, rendered); ok {
			return report
		}
		// Unparseable YAML falls through to the line diff.
	}
	return lineDiff(existing, rendered)
}

// isYAMLPath reports whether the path looks like a YAML document.
func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// yamlDiff compares two YAML documents structurally with dyff.
// The second return value is false when either side fails to parse.
func yamlDiff(existing, rendered []byte) (string, bool) {
	existingInput, err := parseYAMLInput("existing", existing)
	if err != nil {
		return "", false
	}
	renderedInput, err := parseYAMLInput("rendered", rendered)
	if err != nil {
		return "", false
	}

	report, err := dyff.CompareInputFiles(existingInput, renderedInput)
	if err != nil {
		return "", false
	}
	if len(report.Diffs) == 0 {
		return "", true
	}

	var buf bytes.Buffer
	human := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      true,
		OmitHeader:        true,
	}
	if err := human.WriteReport(io.Writer(&buf)); err != nil {
		return "", false
	}
	return strings.TrimSpace(buf.String()), true
}

// parseYAMLInput parses YAML bytes into a dyff input file.
func parseYAMLInput(name string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ytbx.InputFile{Location: name}, nil
	}

	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}
	return ytbx.InputFile{Location: name, Documents: docs}, nil
}

// lineDiff renders a minimal line-level diff with -/+ prefixes.
// An empty string means the contents are line-identical.
func lineDiff(existing, rendered []byte) string {
	diffs := lineDiffs(existing, rendered)

	var sb strings.Builder
	changed := false
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
			changed = true
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
			changed = true
		default:
			continue
		}
		for _, line := range splitLines(d.Text) {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	if !changed {
		return ""
	}
	return strings.TrimRight(sb.String(), "\n")
}

// UnionMerge produces the line-level union of existing and rendered
// content: lines unique to either side are kept, shared lines appear
// once, all in diff order. This is the content written for
// DecisionMerge.
func UnionMerge(existing, rendered []byte) []byte {
	diffs := lineDiffs(existing, rendered)

	var sb strings.Builder
	for _, d := range diffs {
		sb.WriteString(d.Text)
	}

	out := sb.String()
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return []byte(out)
}

// lineDiffs computes line-mode diffs between two byte slices.
func lineDiffs(existing, rendered []byte) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	c1, c2, lines := dmp.DiffLinesToChars(string(existing), string(rendered))
	diffs := dmp.DiffMain(c1, c2, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

// splitLines splits text into lines without a trailing empty element.
func splitLines(text string) []string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	return lines
}
