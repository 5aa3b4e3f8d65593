// Package materialize writes rendered outputs into the destination tree.
//
// Writes are per-file atomic (write-to-temp-then-rename) and confined to
// the output directory; a rendered path that escapes it is rejected
// before anything touches the disk. When a destination already exists,
// the configured merge strategy decides what happens.
package materialize

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/output"
)

// Strategy is the policy for existing destination files.
type Strategy string

// Merge strategies.
const (
	// StrategySkip leaves existing files untouched.
	StrategySkip Strategy = "skip"

	// StrategyOverwrite replaces existing files unconditionally.
	StrategyOverwrite Strategy = "overwrite"

	// StrategyPrompt defers the decision to the conflict callback.
	StrategyPrompt Strategy = "prompt"

	// StrategyDiffMerge diffs existing against rendered content and
	// surfaces the diff to the conflict callback.
	StrategyDiffMerge Strategy = "diff-merge"
)

// IsValid reports whether the strategy is a known value.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategySkip, StrategyOverwrite, StrategyPrompt, StrategyDiffMerge:
		return true
	default:
		return false
	}
}

// ParseStrategy parses a strategy string, case-insensitively. valid is
// false for unknown names.
func ParseStrategy(s string) (Strategy, bool) {
	strategy := Strategy(strings.ToLower(s))
	return strategy, strategy.IsValid()
}

// Decision is the conflict callback's answer for one file.
type Decision string

// Conflict decisions.
const (
	// DecisionSkip keeps the existing file.
	DecisionSkip Decision = "skip"

	// DecisionOverwrite replaces the existing file with rendered content.
	DecisionOverwrite Decision = "overwrite"

	// DecisionMerge writes the line-level union of existing and
	// rendered content.
	DecisionMerge Decision = "merge"

	// DecisionBackup renames the existing file to <name>.backup and
	// writes the rendered content fresh.
	DecisionBackup Decision = "backup"
)

// ConflictFunc resolves a merge conflict for one file. diff is a
// human-readable rendering of the changes (empty under the prompt
// strategy, which does not compute one). The engine blocks only this
// file's write on the answer.
type ConflictFunc func(path string, existing, rendered []byte, diff string) (Decision, error)

// PathEscapeError reports a rendered output path that is absolute or
// resolves outside the output directory.
type PathEscapeError struct {
	// Path is the offending rendered path.
	Path string
}

func (e *PathEscapeError) Error() string {
	return fmt.Sprintf("output path %q escapes the output directory", e.Path)
}

// Outcome records the result of materializing one output file.
type Outcome struct {
	// Path is the destination path relative to the output directory.
	Path string

	// Status is one of the output.Status* values.
	Status string

	// Err is set when the write failed or was rejected.
	Err error
}

// Materializer writes rendered files under a single output directory.
// It is the sole writer of the destination tree during a generation run.
type Materializer struct {
	outputDir string
	strategy  Strategy
	conflict  ConflictFunc
}

// New creates a materializer rooted at outputDir. conflict may be nil;
// unresolved conflicts under prompt or diff-merge then degrade to skip.
func New(outputDir string, strategy Strategy, conflict ConflictFunc) *Materializer {
	return &Materializer{
		outputDir: outputDir,
		strategy:  strategy,
		conflict:  conflict,
	}
}

// Write materializes one rendered output at relPath. The destination's
// parent directories are created as needed.
func (m *Materializer) Write(relPath string, content []byte) Outcome {
	dest, err := m.securePath(relPath)
	if err != nil {
		return Outcome{Path: relPath, Status: output.StatusFailed, Err: err}
	}

	existing, err := os.ReadFile(dest)
	switch {
	case err == nil:
		return m.writeExisting(relPath, dest, existing, content)
	case os.IsNotExist(err):
		if err := m.atomicWrite(dest, content); err != nil {
			return Outcome{Path: relPath, Status: output.StatusFailed, Err: err}
		}
		return Outcome{Path: relPath, Status: output.StatusCreated}
	default:
		return Outcome{Path: relPath, Status: output.StatusFailed, Err: fmt.Errorf("reading existing file: %w", err)}
	}
}

// writeExisting applies the merge strategy to a destination that already
// has content.
func (m *Materializer) writeExisting(relPath, dest string, existing, rendered []byte) Outcome {
	switch m.strategy {
	case StrategySkip:
		return Outcome{Path: relPath, Status: output.StatusSkipped}

	case StrategyOverwrite:
		if err := m.atomicWrite(dest, rendered); err != nil {
			return Outcome{Path: relPath, Status: output.StatusFailed, Err: err}
		}
		return Outcome{Path: relPath, Status: output.StatusOverwritten}

	case StrategyPrompt:
		return m.resolveConflict(relPath, dest, existing, rendered, "")

	case StrategyDiffMerge:
		if bytes.Equal(existing, rendered) {
			return Outcome{Path: relPath, Status: output.StatusUnchanged}
		}
		diff := RenderFileDiff(relPath, existing, rendered)
		if diff == "" {
			// Structural diff found no changes (e.g. YAML key reordering).
			return Outcome{Path: relPath, Status: output.StatusUnchanged}
		}
		return m.resolveConflict(relPath, dest, existing, rendered, diff)

	default:
		return Outcome{
			Path:   relPath,
			Status: output.StatusFailed,
			Err:    fmt.Errorf("unknown merge strategy %q", m.strategy),
		}
	}
}

// resolveConflict asks the callback what to do with an existing file.
// A missing callback is an unresolved conflict: the file is skipped and
// the condition recorded, never a hard failure.
func (m *Materializer) resolveConflict(relPath, dest string, existing, rendered []byte, diff string) Outcome {
	if m.conflict == nil {
		return Outcome{
			Path:   relPath,
			Status: output.StatusSkipped,
			Err:    &ConflictUnresolvedError{Path: relPath},
		}
	}

	decision, err := m.conflict(relPath, existing, rendered, diff)
	if err != nil {
		return Outcome{Path: relPath, Status: output.StatusSkipped, Err: &ConflictUnresolvedError{Path: relPath, Cause: err}}
	}

	switch decision {
	case DecisionSkip:
		return Outcome{Path: relPath, Status: output.StatusSkipped}

	case DecisionOverwrite:
		if err := m.atomicWrite(dest, rendered); err != nil {
			return Outcome{Path: relPath, Status: output.StatusFailed, Err: err}
		}
		return Outcome{Path: relPath, Status: output.StatusOverwritten}

	case DecisionMerge:
		merged := UnionMerge(existing, rendered)
		if err := m.atomicWrite(dest, merged); err != nil {
			return Outcome{Path: relPath, Status: output.StatusFailed, Err: err}
		}
		return Outcome{Path: relPath, Status: output.StatusMerged}

	case DecisionBackup:
		if err := os.Rename(dest, dest+".backup"); err != nil {
			return Outcome{Path: relPath, Status: output.StatusFailed, Err: fmt.Errorf("backing up: %w", err)}
		}
		if err := m.atomicWrite(dest, rendered); err != nil {
			return Outcome{Path: relPath, Status: output.StatusFailed, Err: err}
		}
		return Outcome{Path: relPath, Status: output.StatusBackedUp}

	default:
		return Outcome{
			Path:   relPath,
			Status: output.StatusSkipped,
			Err:    &ConflictUnresolvedError{Path: relPath, Cause: fmt.Errorf("unknown decision %q", decision)},
		}
	}
}

// securePath resolves relPath under the output directory and rejects
// absolute or parent-escaping paths before any write.
func (m *Materializer) securePath(relPath string) (string, error) {
	if filepath.IsAbs(relPath) {
		return "", &PathEscapeError{Path: relPath}
	}

	cleaned := filepath.Clean(relPath)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", &PathEscapeError{Path: relPath}
	}

	root, err := filepath.Abs(m.outputDir)
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}

	dest := filepath.Join(root, cleaned)
	if dest != root && !strings.HasPrefix(dest, root+string(filepath.Separator)) {
		return "", &PathEscapeError{Path: relPath}
	}

	return dest, nil
}

// atomicWrite writes content to a temp file in the destination directory
// and renames it into place, so a crash mid-write never leaves a
// half-written destination file.
func (m *Materializer) atomicWrite(dest string, content []byte) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}

// ConflictUnresolvedError records a merge conflict that could not be
// resolved (no callback, callback error, or unknown decision). The file
// is skipped; the run continues.
type ConflictUnresolvedError struct {
	// Path is the conflicted destination path.
	Path string

	// Cause is the callback error, if any.
	Cause error
}

func (e *ConflictUnresolvedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("merge conflict for %q unresolved: %v (file skipped)", e.Path, e.Cause)
	}
	return fmt.Sprintf("merge conflict for %q unresolved: no callback available (file skipped)", e.Path)
}

func (e *ConflictUnresolvedError) Unwrap() error {
	return e.Cause
}
