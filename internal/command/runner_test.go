package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_Success(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), "echo hello", t.TempDir(), nil, 0)
	require.NoError(t, err)

	assert.True(t, res.OK())
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello\n", res.Stdout)
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), "echo oops >&2; exit 3", t.TempDir(), nil, 0)
	require.NoError(t, err, "a failing command is a result, not an error")

	assert.False(t, res.OK())
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "oops\n", res.Stderr)
}

func TestExecRunner_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	r := NewExecRunner()

	res, err := r.Run(context.Background(), "pwd", dir, nil, 0)
	require.NoError(t, err)
	assert.Contains(t, res.Stdout, dir)
}

func TestExecRunner_ExtraEnvironment(t *testing.T) {
	r := NewExecRunner()

	res, err := r.Run(context.Background(), "echo $GREETING", t.TempDir(),
		map[string]string{"GREETING": "hi"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", res.Stdout)
}

func TestExecRunner_Cancellation(t *testing.T) {
	r := NewExecRunner()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	res, err := r.Run(ctx, "sleep 5", t.TempDir(), nil, 0)

	require.ErrorIs(t, err, context.Canceled, "cancellation surfaces as the context error, not an exit code")
	assert.False(t, res.TimedOut)
	assert.Equal(t, -1, res.ExitCode)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestExecRunner_Timeout(t *testing.T) {
	r := NewExecRunner()

	start := time.Now()
	res, err := r.Run(context.Background(), "sleep 5", t.TempDir(), nil, 100*time.Millisecond)
	require.NoError(t, err, "a timeout is a result, not an error")

	assert.True(t, res.TimedOut)
	assert.False(t, res.OK())
	assert.Less(t, time.Since(start), 3*time.Second)
}
