package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/askiada/go-provision/internal/command"
	"github.com/askiada/go-provision/internal/config"
	"github.com/askiada/go-provision/internal/logging"
	"github.com/askiada/go-provision/internal/netutil"
	"github.com/askiada/go-provision/internal/runtime"
	"github.com/askiada/go-provision/internal/stages"
	"github.com/askiada/go-provision/internal/ui"
	"github.com/askiada/go-provision/pkg/pipeline"
	"github.com/askiada/go-provision/pkg/pipeline/drawer"
	"github.com/askiada/go-provision/pkg/pipeline/measure"
	"github.com/askiada/go-provision/pkg/pipeline/model"
)

type upOptions struct {
	configPath string
	graphFile  string
	logFile    string
	modelID    string
	skipPorts  bool
	debug      bool
}

// apply overlays the command-line flags on top of the loaded configuration.
func (o upOptions) apply(cfg *config.Config) {
	if o.logFile != "" {
		cfg.LogFile = o.logFile
	}

	if o.modelID != "" {
		cfg.ModelID = o.modelID
	}

	if o.skipPorts {
		cfg.Codespaces = false
	}
}

// Up returns the command that provisions the workspace.
//
// Optional flags:
//
//	--config, -c: Path to a YAML configuration file overlaying the defaults
//	--model:      Override the model to pull
//	--log-file:   Override the run log location
//	--skip-ports: Leave the application port private
//	--debug:      Verbose console output
//	--graph:      Write an SVG of the stage graph after the run
//
// Environment variables:
//
//	CODESPACES:     "true" enables the port exposure stage
//	CODESPACE_NAME: Name of the codespace hosting the run
//	MODEL_NAME:     Overrides the model to pull
func Up() *cobra.Command {
	var opts upOptions

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Provision the workspace",
		Long: `Provision the workspace end to end.

Stages run in dependency order and each one checks whether its outcome is
already in place before doing any work, so re-running after a partial
failure only repeats the stages that did not complete.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUp(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&opts.modelID, "model", "", "Model to pull (overrides the configured one)")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "Run log location (overrides the configured one)")
	cmd.Flags().BoolVar(&opts.skipPorts, "skip-ports", false, "Do not expose the application port")
	cmd.Flags().StringVar(&opts.graphFile, "graph", "", "Write the stage graph to this SVG file")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Verbose console output")

	return cmd
}

func runUp(ctx context.Context, opts upOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	opts.apply(&cfg)

	log, closeLog, err := logging.New(cfg.LogFile, opts.debug)
	if err != nil {
		return err
	}
	defer closeLog()

	msr := measure.NewDefaultMeasure()

	pipeOpts := []model.PipelineOption{
		ui.NewReporter(os.Stdout),
		measure.PipelineMeasure(msr),
	}
	if opts.graphFile != "" {
		pipeOpts = append(pipeOpts, drawer.PipelineDrawer(drawer.NewSVGDrawer(opts.graphFile)))
	}

	pipe, err := pipeline.New(pipeOpts...)
	if err != nil {
		return errors.Wrap(err, "unable to create pipeline")
	}

	err = addStages(pipe, cfg, log)
	if err != nil {
		return errors.Wrap(err, "unable to build pipeline")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = pipe.Run(ctx)
	logMetrics(log, msr)

	if err != nil {
		log.Error("provisioning failed", zap.Error(err))

		return err
	}

	log.Info("provisioning complete", zap.String("model", cfg.ModelID))

	return nil
}

// logMetrics writes the per-stage metrics into the run log, whatever the
// pipeline outcome.
func logMetrics(log *zap.Logger, msr measure.Measure) {
	for name, metric := range msr.AllMetrics() {
		if metric.Status() == "" {
			// The stage never reached a terminal status.
			continue
		}

		log.Debug("stage finished",
			zap.String("stage", name),
			zap.String("status", string(metric.Status())),
			zap.Int("attempts", metric.Attempts()),
			zap.Duration("avg_duration", metric.AVGDuration()),
		)
	}
}

func addStages(pipe *pipeline.Pipeline, cfg config.Config, log *zap.Logger) error {
	runner := command.NewExecRunner(log)
	client := runtime.NewClient(cfg.BaseURL())

	serve := func(ctx context.Context) (stages.Handle, error) {
		handle, err := runtime.Serve(ctx, cfg.OllamaBin, log)
		if err != nil {
			return nil, err
		}

		return handle, nil
	}
	probe := func(ctx context.Context) error {
		return netutil.WaitForHTTP(ctx, cfg.BaseURL(), cfg.ReadinessTimeout, cfg.PollInterval)
	}
	pullPolicy := model.RetryPolicy{Attempts: cfg.PullRetries, Delay: cfg.PullRetryDelay}

	all := []pipeline.Stage{
		stages.NewSystemPackages(runner, cfg.Packages, log),
		stages.NewPythonRequirements(runner, cfg.RequirementsFile, log),
		stages.NewRuntimeInstall(runner, cfg.OllamaBin, log),
		stages.NewModelPull(client, serve, probe, cfg.ModelID, pullPolicy, log),
		stages.NewPortExposure(runner, cfg.AppPort, cfg.Codespaces, cfg.CodespaceName, log),
	}

	for _, stage := range all {
		err := pipe.Add(stage)
		if err != nil {
			return err
		}
	}

	return nil
}
