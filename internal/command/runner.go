// Package command executes shell commands on behalf of the provisioning
// stages. Stages depend on the Runner interface so tests can substitute a
// scripted fake.
package command

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Result represents the result of executing a shell command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner executes shell commands.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct {
	log *zap.Logger
}

// NewExecRunner creates a runner that logs every invocation.
func NewExecRunner(log *zap.Logger) *ExecRunner {
	return &ExecRunner{log: log}
}

// Run executes the command and captures its output. A non-zero exit code is
// reported through the Result, not as an error; errors are reserved for
// commands that could not run at all.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Result{}, errors.Wrapf(err, "unable to run %s", name)
		}
	}

	res := Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	r.log.Debug("command finished",
		zap.String("command", name),
		zap.Strings("args", args),
		zap.Int("exit_code", res.ExitCode),
		zap.Duration("elapsed", elapsed),
	)

	return res, nil
}

var _ Runner = (*ExecRunner)(nil)
