// Package testutil provides test helpers for engine and CLI tests.
package testutil

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/command"
)

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// WriteBundle materializes a template bundle on disk: descriptor.json
// from the given document plus the named render sources under templates/.
// It returns the bundle directory.
func WriteBundle(t *testing.T, root, id string, doc map[string]any, sources map[string]string) string {
	t.Helper()

	if _, ok := doc["id"]; !ok {
		doc["id"] = id
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal descriptor for %s: %v", id, err)
	}

	dir := filepath.Join(root, id)
	WriteFile(t, dir, "descriptor.json", string(raw))
	for name, content := range sources {
		WriteFile(t, filepath.Join(dir, "templates"), name, content)
	}
	return dir
}

// FakeResult scripts one command invocation for a FakeRunner.
type FakeResult struct {
	// Result is returned for a matching command line.
	Result command.Result

	// Err is returned instead when set (a start failure).
	Err error

	// Delay blocks the call before returning, bounded by the context
	// and the caller's timeout.
	Delay time.Duration
}

// FakeRunner is a scripted command.Runner. Commands without a script
// entry succeed with exit code 0.
type FakeRunner struct {
	mu sync.Mutex

	// Scripts maps a command line to its scripted outcome.
	Scripts map[string]FakeResult

	// Calls records every command line in invocation order.
	Calls []string

	// MaxActive is the peak number of concurrent in-flight calls.
	MaxActive int

	active int
}

// NewFakeRunner creates a runner with the given scripts.
func NewFakeRunner(scripts map[string]FakeResult) *FakeRunner {
	if scripts == nil {
		scripts = make(map[string]FakeResult)
	}
	return &FakeRunner{Scripts: scripts}
}

// Run implements command.Runner.
func (r *FakeRunner) Run(ctx context.Context, cmdline, cwd string, env map[string]string, timeout time.Duration) (command.Result, error) {
	r.mu.Lock()
	r.Calls = append(r.Calls, cmdline)
	r.active++
	if r.active > r.MaxActive {
		r.MaxActive = r.active
	}
	script, scripted := r.Scripts[cmdline]
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.active--
		r.mu.Unlock()
	}()

	if scripted && script.Delay > 0 {
		wait := script.Delay
		timedOut := false
		if timeout > 0 && timeout < wait {
			wait = timeout
			timedOut = true
		}
		select {
		case <-ctx.Done():
			return command.Result{}, ctx.Err()
		case <-time.After(wait):
		}
		if timedOut {
			res := script.Result
			res.TimedOut = true
			res.Duration = wait
			return res, script.Err
		}
	}

	if !scripted {
		return command.Result{ExitCode: 0}, nil
	}
	return script.Result, script.Err
}

// CallCount returns how many commands ran.
func (r *FakeRunner) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Calls)
}
