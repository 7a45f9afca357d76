package stages_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/askiada/go-provision/internal/command"
	"github.com/askiada/go-provision/internal/stages"
)

func TestRuntimeInstallCheckAlreadyInstalled(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		respond: func(name string, args ...string) (command.Result, error) {
			require.Equal(t, "ollama", name)
			require.Equal(t, []string{"--version"}, args)

			return command.Result{Stdout: "ollama version is 0.5.7"}, nil
		},
	}

	stage := stages.NewRuntimeInstall(runner, "ollama", zap.NewNop())

	ok, err := stage.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRuntimeInstallCheckNotOnPath(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		respond: func(_ string, _ ...string) (command.Result, error) {
			return command.Result{}, errors.New("executable file not found in $PATH")
		},
	}

	stage := stages.NewRuntimeInstall(runner, "ollama", zap.NewNop())

	ok, err := stage.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRuntimeInstallRun(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	stage := stages.NewRuntimeInstall(runner, "ollama", zap.NewNop())

	require.NoError(t, stage.Run(context.Background()))
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "sh", runner.calls[0].name)
	require.Len(t, runner.calls[0].args, 2)
	assert.Equal(t, "-c", runner.calls[0].args[0])
	assert.Contains(t, runner.calls[0].args[1], "install.sh")
}

func TestRuntimeInstallRunScriptFails(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		respond: func(_ string, _ ...string) (command.Result, error) {
			return command.Result{ExitCode: 1, Stderr: "curl: (6) could not resolve host"}, nil
		},
	}

	stage := stages.NewRuntimeInstall(runner, "ollama", zap.NewNop())

	err := stage.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "install script failed")
}
