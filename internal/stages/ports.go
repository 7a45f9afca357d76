package stages

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/go-provision/internal/command"
	"github.com/askiada/go-provision/pkg/pipeline"
)

// PortExposure makes the application port publicly reachable on the host
// platform. Outside a codespace the stage is satisfied without doing
// anything; inside one, a missing codespace name degrades the run instead of
// failing it.
type PortExposure struct {
	pipeline.Base
	runner        command.Runner
	port          int
	enabled       bool
	codespaceName string
	log           *zap.Logger
}

// NewPortExposure creates the port visibility stage.
func NewPortExposure(runner command.Runner, port int, enabled bool, codespaceName string, log *zap.Logger) *PortExposure {
	return &PortExposure{
		Base:          pipeline.NewBase("port-exposure"),
		runner:        runner,
		port:          port,
		enabled:       enabled,
		codespaceName: codespaceName,
		log:           log,
	}
}

// Check reports the stage as satisfied when port exposure does not apply to
// the current environment.
func (s *PortExposure) Check(_ context.Context) (bool, error) {
	if !s.enabled {
		s.log.Debug("not running in a codespace, skipping port exposure")

		return true, nil
	}

	return false, nil
}

// Run flips the port visibility to public.
func (s *PortExposure) Run(ctx context.Context) error {
	if s.codespaceName == "" {
		s.log.Warn("codespace name is not set, port stays private", zap.Int("port", s.port))

		return errors.Wrap(pipeline.ErrDegraded, "codespace name is not set")
	}

	res, err := s.runner.Run(ctx, "gh", "codespace", "ports", "visibility", strconv.Itoa(s.port)+":public", "-c", s.codespaceName)
	if err != nil {
		return errors.Wrapf(err, "unable to expose port %d", s.port)
	}

	if !res.Success() {
		return errors.Errorf("unable to expose port %d: %s", s.port, res.Stderr)
	}

	s.log.Info("port exposed", zap.Int("port", s.port), zap.String("codespace", s.codespaceName))

	return nil
}
