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

func TestSystemPackagesCheckAllInstalled(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		respond: func(name string, _ ...string) (command.Result, error) {
			require.Equal(t, "dpkg-query", name)

			return command.Result{Stdout: "installed"}, nil
		},
	}

	stage := stages.NewSystemPackages(runner, []string{"curl", "ca-certificates"}, zap.NewNop())

	ok, err := stage.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, runner.calls, 2)
}

func TestSystemPackagesCheckMissingPackage(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		respond: func(_ string, args ...string) (command.Result, error) {
			if args[len(args)-1] == "curl" {
				return command.Result{Stdout: "installed"}, nil
			}

			// dpkg-query exits 1 for packages it does not know.
			return command.Result{ExitCode: 1, Stderr: "no packages found"}, nil
		},
	}

	stage := stages.NewSystemPackages(runner, []string{"curl", "missing-pkg"}, zap.NewNop())

	ok, err := stage.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSystemPackagesCheckRunnerError(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		respond: func(_ string, _ ...string) (command.Result, error) {
			return command.Result{}, errors.New("exec blew up")
		},
	}

	stage := stages.NewSystemPackages(runner, []string{"curl"}, zap.NewNop())

	_, err := stage.Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to query package curl")
}

func TestSystemPackagesRun(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	stage := stages.NewSystemPackages(runner, []string{"curl", "python3-pip"}, zap.NewNop())

	require.NoError(t, stage.Run(context.Background()))
	require.Len(t, runner.calls, 2)
	assert.Equal(t, "sudo", runner.calls[0].name)
	assert.Equal(t, []string{"apt-get", "update"}, runner.calls[0].args)
	assert.Equal(t, "sudo", runner.calls[1].name)
	assert.Equal(t, []string{"apt-get", "install", "-y", "curl", "python3-pip"}, runner.calls[1].args)
}

func TestSystemPackagesRunUpdateFails(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		respond: func(_ string, _ ...string) (command.Result, error) {
			return command.Result{ExitCode: 100, Stderr: "could not resolve archive.ubuntu.com"}, nil
		},
	}

	stage := stages.NewSystemPackages(runner, []string{"curl"}, zap.NewNop())

	err := stage.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apt-get update failed")
	assert.Contains(t, err.Error(), "could not resolve")
	assert.Len(t, runner.calls, 1)
}

func TestSystemPackagesRunInstallFails(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		respond: func(_ string, args ...string) (command.Result, error) {
			if args[len(args)-1] == "update" {
				return command.Result{}, nil
			}

			return command.Result{ExitCode: 100, Stderr: "unable to locate package"}, nil
		},
	}

	stage := stages.NewSystemPackages(runner, []string{"curl"}, zap.NewNop())

	err := stage.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apt-get install failed")
}
