// Package logging builds the zap logger used across the provisioning run:
// a human-readable console core plus a JSON run log created fresh at
// pipeline start and only ever appended to.
package logging

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger teeing the console and, when path is not empty, a
// fresh run log file. The returned close function flushes and releases the
// file.
func New(path string, debug bool) (*zap.Logger, func(), error) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stdout), level),
	}

	closeFn := func() {}

	if path != "" {
		file, err := os.Create(path)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "unable to create log file %s", path)
		}

		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		// The file core always records debug lines, whatever the console
		// verbosity: the run log is the audit trail.
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.Lock(file), zapcore.DebugLevel))

		closeFn = func() {
			_ = file.Close()
		}
	}

	logger := zap.New(zapcore.NewTee(cores...))

	return logger, func() {
		_ = logger.Sync()
		closeFn()
	}, nil
}
