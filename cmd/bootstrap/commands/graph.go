package commands

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/askiada/go-provision/internal/config"
	"github.com/askiada/go-provision/pkg/pipeline"
	"github.com/askiada/go-provision/pkg/pipeline/drawer"
	"github.com/askiada/go-provision/pkg/pipeline/model"
)

// Graph returns the command rendering the stage graph without running it.
func Graph() *cobra.Command {
	var (
		configPath string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the stage graph to an SVG file",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runGraph(configPath, output)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVarP(&output, "output", "o", "pipeline.svg", "Output SVG file")

	return cmd
}

func runGraph(configPath, output string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	pipe, err := pipeline.New()
	if err != nil {
		return errors.Wrap(err, "unable to create pipeline")
	}

	err = addStages(pipe, cfg, zap.NewNop())
	if err != nil {
		return errors.Wrap(err, "unable to build pipeline")
	}

	return drawStages(drawer.NewSVGDrawer(output), pipe.Stages())
}

func drawStages(drw drawer.Drawer, infos []*model.StageInfo) error {
	err := drw.AddStage(model.StartStage.Name)
	if err != nil {
		return err
	}

	parents := make(map[string]bool, len(infos))

	for _, info := range infos {
		err = drw.AddStage(info.Name)
		if err != nil {
			return err
		}

		if len(info.DependsOn) == 0 {
			err = drw.AddLink(model.StartStage.Name, info.Name)
			if err != nil {
				return err
			}
		}

		for _, dep := range info.DependsOn {
			parents[dep] = true

			err = drw.AddLink(dep, info.Name)
			if err != nil {
				return err
			}
		}
	}

	err = drw.AddStage(model.EndStage.Name)
	if err != nil {
		return err
	}

	for _, info := range infos {
		if parents[info.Name] {
			continue
		}

		err = drw.AddLink(info.Name, model.EndStage.Name)
		if err != nil {
			return err
		}
	}

	return drw.Draw()
}
