package stages

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/go-provision/internal/command"
	"github.com/askiada/go-provision/pkg/pipeline"
)

// PythonRequirements installs the chat application's Python dependencies
// from a requirements file.
type PythonRequirements struct {
	pipeline.Base
	runner  command.Runner
	reqFile string
	log     *zap.Logger
}

// NewPythonRequirements creates the Python dependency stage.
func NewPythonRequirements(runner command.Runner, reqFile string, log *zap.Logger) *PythonRequirements {
	return &PythonRequirements{
		Base:    pipeline.NewBase("python-requirements", "system-packages"),
		runner:  runner,
		reqFile: reqFile,
		log:     log,
	}
}

// Check reports satisfied when every requirement already appears in the pip
// inventory.
func (s *PythonRequirements) Check(ctx context.Context) (bool, error) {
	required, err := s.requirements()
	if err != nil {
		// A missing requirements file is reported by Run, with a better
		// message than a failed check.
		return false, nil
	}

	if len(required) == 0 {
		return true, nil
	}

	res, err := s.runner.Run(ctx, "python3", "-m", "pip", "freeze")
	if err != nil || !res.Success() {
		return false, nil
	}

	installed := make(map[string]struct{})

	for _, line := range strings.Split(res.Stdout, "\n") {
		installed[normalizePackage(line)] = struct{}{}
	}

	for _, name := range required {
		if _, ok := installed[name]; !ok {
			return false, nil
		}
	}

	return true, nil
}

// Run installs the requirements file with pip.
func (s *PythonRequirements) Run(ctx context.Context) error {
	res, err := s.runner.Run(ctx, "python3", "-m", "pip", "install", "-r", s.reqFile)
	if err != nil {
		return errors.Wrapf(err, "unable to install requirements from %s", s.reqFile)
	}

	if !res.Success() {
		return errors.Errorf("pip install failed: %s", strings.TrimSpace(res.Stderr))
	}

	s.log.Info("python requirements installed", zap.String("file", s.reqFile))

	return nil
}

func (s *PythonRequirements) requirements() ([]string, error) {
	raw, err := os.ReadFile(s.reqFile)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", s.reqFile)
	}

	var names []string

	for _, line := range strings.Split(string(raw), "\n") {
		name := normalizePackage(line)
		if name == "" {
			continue
		}

		names = append(names, name)
	}

	return names, nil
}

// normalizePackage reduces a requirement or freeze line to a comparable
// package name: version specifiers, extras and environment markers are
// stripped, and the name is lowercased with underscores folded to dashes.
func normalizePackage(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return ""
	}

	if idx := strings.IndexAny(line, "=<>!~[; "); idx >= 0 {
		line = line[:idx]
	}

	return strings.ReplaceAll(strings.ToLower(line), "_", "-")
}
