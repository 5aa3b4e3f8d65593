package validate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/command"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/descriptor"
	"github.com/mehrdadmoradabadi/OpsArtisan/internal/testutil"
)

func specFor(cmd string) descriptor.ValidatorSpec {
	return descriptor.ValidatorSpec{Command: cmd, Description: cmd}
}

func TestRun_SequentialDeclaredOrder(t *testing.T) {
	runner := testutil.NewFakeRunner(map[string]testutil.FakeResult{
		"check-b": {Result: command.Result{ExitCode: 1, Stderr: "rule broken\n"}},
	})
	o := NewOrchestrator(runner, Options{})

	specs := []descriptor.ValidatorSpec{specFor("check-a"), specFor("check-b"), specFor("check-c")}
	results := o.Run(context.Background(), specs, t.TempDir())

	require.Len(t, results, 3)
	assert.Equal(t, StatusPass, results[0].Status)
	assert.Equal(t, StatusFail, results[1].Status)
	assert.Equal(t, StatusPass, results[2].Status, "a failure never stops later validators")
	assert.Equal(t, []string{"check-a", "check-b", "check-c"}, runner.Calls)
}

func TestRun_FailureCarriesDetailAndSuggestions(t *testing.T) {
	runner := testutil.NewFakeRunner(map[string]testutil.FakeResult{
		"yamllint deploy.yaml": {Result: command.Result{ExitCode: 2, Stderr: "line 4: bad indent\n"}},
	})
	o := NewOrchestrator(runner, Options{})

	spec := descriptor.ValidatorSpec{
		Command:     "yamllint deploy.yaml",
		Description: "yaml lint",
		TargetFile:  "deploy.yaml",
	}
	results := o.Run(context.Background(), []descriptor.ValidatorSpec{spec}, t.TempDir())

	require.Len(t, results, 1)
	assert.Equal(t, "yaml lint", results[0].ValidatorID)
	assert.Contains(t, results[0].Message, "exit code 2")
	assert.Contains(t, results[0].Message, "deploy.yaml")
	assert.Contains(t, results[0].Message, "bad indent")
	assert.NotEmpty(t, results[0].Suggestions)
}

func TestRun_StartFailureIsFailStatus(t *testing.T) {
	runner := testutil.NewFakeRunner(map[string]testutil.FakeResult{
		"missing-tool .": {Err: errors.New(`exec: "missing-tool": executable file not found`)},
	})
	o := NewOrchestrator(runner, Options{})

	results := o.Run(context.Background(), []descriptor.ValidatorSpec{specFor("missing-tool .")}, t.TempDir())

	require.Len(t, results, 1)
	assert.Equal(t, StatusFail, results[0].Status)
	assert.Contains(t, results[0].Message, "could not run")
}

func TestRun_ParallelReportsDeclaredOrder(t *testing.T) {
	// The slow pass finishes after the fast fail; declared order must
	// still hold in the results.
	runner := testutil.NewFakeRunner(map[string]testutil.FakeResult{
		"slow-pass": {Delay: 50 * time.Millisecond},
		"fast-fail": {Result: command.Result{ExitCode: 1}},
	})
	o := NewOrchestrator(runner, Options{Parallel: true, Concurrency: 4})

	specs := []descriptor.ValidatorSpec{specFor("slow-pass"), specFor("fast-fail")}
	results := o.Run(context.Background(), specs, t.TempDir())

	require.Len(t, results, 2)
	assert.Equal(t, "slow-pass", results[0].ValidatorID)
	assert.Equal(t, StatusPass, results[0].Status)
	assert.Equal(t, "fast-fail", results[1].ValidatorID)
	assert.Equal(t, StatusFail, results[1].Status)
}

func TestRun_ParallelTimeoutDoesNotBlockSiblings(t *testing.T) {
	runner := testutil.NewFakeRunner(map[string]testutil.FakeResult{
		"v1": {Delay: 10 * time.Millisecond},
		"v2": {Delay: 10 * time.Second},
	})
	o := NewOrchestrator(runner, Options{Parallel: true, Concurrency: 4})

	specs := []descriptor.ValidatorSpec{
		{Command: "v1", Description: "v1"},
		{Command: "v2", Description: "v2", TimeoutSeconds: 1},
	}

	start := time.Now()
	results := o.Run(context.Background(), specs, t.TempDir())
	elapsed := time.Since(start)

	require.Len(t, results, 2)
	assert.Equal(t, StatusPass, results[0].Status)
	assert.Equal(t, StatusTimeout, results[1].Status)
	assert.Contains(t, results[1].Message, "timed out")
	assert.Less(t, elapsed, 5*time.Second, "the batch is bounded by the longest timeout, not the sum")
}

func TestRun_ParallelRespectsConcurrencyBound(t *testing.T) {
	scripts := map[string]testutil.FakeResult{
		"a": {Delay: 20 * time.Millisecond},
		"b": {Delay: 20 * time.Millisecond},
		"c": {Delay: 20 * time.Millisecond},
		"d": {Delay: 20 * time.Millisecond},
		"e": {Delay: 20 * time.Millisecond},
		"f": {Delay: 20 * time.Millisecond},
	}
	runner := testutil.NewFakeRunner(scripts)
	o := NewOrchestrator(runner, Options{Parallel: true, Concurrency: 2})

	var specs []descriptor.ValidatorSpec
	for cmd := range scripts {
		specs = append(specs, specFor(cmd))
	}
	o.Run(context.Background(), specs, t.TempDir())

	assert.LessOrEqual(t, runner.MaxActive, 2)
	assert.Equal(t, len(scripts), runner.CallCount())
}

func TestRun_CancellationMarksUnfinishedSkipped(t *testing.T) {
	runner := testutil.NewFakeRunner(map[string]testutil.FakeResult{
		"blocked": {Delay: 10 * time.Second},
	})
	o := NewOrchestrator(runner, Options{Parallel: true, Concurrency: 1})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	specs := []descriptor.ValidatorSpec{specFor("blocked"), specFor("queued")}
	start := time.Now()
	results := o.Run(ctx, specs, t.TempDir())

	require.Len(t, results, 2)
	assert.Equal(t, StatusSkipped, results[0].Status, "in-flight validator was unfinished at cancellation")
	assert.Equal(t, StatusSkipped, results[1].Status, "queued validator never started")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_SequentialCancellationSkipsRemaining(t *testing.T) {
	runner := testutil.NewFakeRunner(nil)
	o := NewOrchestrator(runner, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := o.Run(ctx, []descriptor.ValidatorSpec{specFor("never-runs")}, t.TempDir())

	require.Len(t, results, 1)
	assert.Equal(t, StatusSkipped, results[0].Status)
	assert.Zero(t, runner.CallCount())
}

func TestRun_CrossFileValidatorReceivesDeclaredFiles(t *testing.T) {
	runner := testutil.NewFakeRunner(map[string]testutil.FakeResult{
		"compose-check docker-compose.yml .env": {Result: command.Result{ExitCode: 1, Stderr: "NGINX_VERSION undefined\n"}},
	})
	o := NewOrchestrator(runner, Options{})

	spec := descriptor.ValidatorSpec{
		Command:     "compose-check",
		Description: "compose env consistency",
		Files:       []string{"docker-compose.yml", ".env"},
	}
	results := o.Run(context.Background(), []descriptor.ValidatorSpec{spec}, t.TempDir())

	require.Len(t, results, 1)
	assert.Equal(t, []string{"compose-check docker-compose.yml .env"}, runner.Calls,
		"declared files become trailing arguments")
	assert.Equal(t, StatusFail, results[0].Status)
	assert.Contains(t, results[0].Message, "files docker-compose.yml, .env")
	assert.Contains(t, results[0].Message, "NGINX_VERSION undefined")

	joined := strings.Join(results[0].Suggestions, "\n")
	assert.Contains(t, joined, "docker-compose.yml and .env")
}

func TestRun_NoValidators(t *testing.T) {
	o := NewOrchestrator(testutil.NewFakeRunner(nil), Options{})
	results := o.Run(context.Background(), nil, t.TempDir())
	assert.Empty(t, results)
}
