package stages

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/go-provision/internal/command"
	"github.com/askiada/go-provision/pkg/pipeline"
)

// SystemPackages installs the apt packages the rest of the pipeline relies
// on.
type SystemPackages struct {
	pipeline.Base
	runner command.Runner
	pkgs   []string
	log    *zap.Logger
}

// NewSystemPackages creates the system package stage.
func NewSystemPackages(runner command.Runner, pkgs []string, log *zap.Logger) *SystemPackages {
	return &SystemPackages{
		Base:   pipeline.NewBase("system-packages"),
		runner: runner,
		pkgs:   pkgs,
		log:    log,
	}
}

// Check reports satisfied when every package is already installed.
func (s *SystemPackages) Check(ctx context.Context) (bool, error) {
	for _, pkg := range s.pkgs {
		res, err := s.runner.Run(ctx, "dpkg-query", "-W", "-f=${db:Status-Status}", pkg)
		if err != nil {
			return false, errors.Wrapf(err, "unable to query package %s", pkg)
		}

		// dpkg-query exits non-zero for unknown packages.
		if !res.Success() || !strings.Contains(res.Stdout, "installed") {
			return false, nil
		}
	}

	return true, nil
}

// Run refreshes the package index and installs the packages.
func (s *SystemPackages) Run(ctx context.Context) error {
	res, err := s.runner.Run(ctx, "sudo", "apt-get", "update")
	if err != nil {
		return errors.Wrap(err, "unable to update package index")
	}

	if !res.Success() {
		return errors.Errorf("apt-get update failed: %s", strings.TrimSpace(res.Stderr))
	}

	args := append([]string{"apt-get", "install", "-y"}, s.pkgs...)

	res, err = s.runner.Run(ctx, "sudo", args...)
	if err != nil {
		return errors.Wrap(err, "unable to install packages")
	}

	if !res.Success() {
		return errors.Errorf("apt-get install failed: %s", strings.TrimSpace(res.Stderr))
	}

	s.log.Info("system packages installed", zap.Strings("packages", s.pkgs))

	return nil
}
