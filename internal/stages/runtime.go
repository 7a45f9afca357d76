package stages

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/go-provision/internal/command"
	"github.com/askiada/go-provision/pkg/pipeline"
)

const installScript = "curl -fsSL https://ollama.com/install.sh | sh"

// RuntimeInstall installs the model runtime binary through the vendor's
// install script.
type RuntimeInstall struct {
	pipeline.Base
	runner command.Runner
	bin    string
	log    *zap.Logger
}

// NewRuntimeInstall creates the runtime install stage.
func NewRuntimeInstall(runner command.Runner, bin string, log *zap.Logger) *RuntimeInstall {
	return &RuntimeInstall{
		Base:   pipeline.NewBase("runtime-install", "system-packages"),
		runner: runner,
		bin:    bin,
		log:    log,
	}
}

// Check reports satisfied when the runtime binary already answers.
func (s *RuntimeInstall) Check(ctx context.Context) (bool, error) {
	res, err := s.runner.Run(ctx, s.bin, "--version")
	if err != nil {
		// Not on the PATH yet.
		return false, nil
	}

	return res.Success(), nil
}

// Run downloads and executes the install script.
func (s *RuntimeInstall) Run(ctx context.Context) error {
	res, err := s.runner.Run(ctx, "sh", "-c", installScript)
	if err != nil {
		return errors.Wrap(err, "unable to run install script")
	}

	if !res.Success() {
		return errors.Errorf("install script failed: %s", strings.TrimSpace(res.Stderr))
	}

	s.log.Info("runtime installed", zap.String("bin", s.bin))

	return nil
}
