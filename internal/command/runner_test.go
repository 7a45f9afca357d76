package command_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/askiada/go-provision/internal/command"
)

func TestExecRunnerCapturesStdout(t *testing.T) {
	t.Parallel()

	runner := command.NewExecRunner(zap.NewNop())

	res, err := runner.Run(context.Background(), "echo", "hello")
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello\n", res.Stdout)
	assert.Empty(t, res.Stderr)
}

func TestExecRunnerNonZeroExit(t *testing.T) {
	t.Parallel()

	runner := command.NewExecRunner(zap.NewNop())

	res, err := runner.Run(context.Background(), "sh", "-c", "echo oops >&2; exit 3")
	require.NoError(t, err)
	assert.False(t, res.Success())
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "oops\n", res.Stderr)
}

func TestExecRunnerMissingBinary(t *testing.T) {
	t.Parallel()

	runner := command.NewExecRunner(zap.NewNop())

	_, err := runner.Run(context.Background(), "definitely-not-a-binary-4567")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to run")
}

func TestExecRunnerCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := command.NewExecRunner(zap.NewNop())

	_, err := runner.Run(ctx, "sleep", "5")
	require.Error(t, err)
}
