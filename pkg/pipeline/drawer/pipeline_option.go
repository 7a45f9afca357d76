package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-provision/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	// parents tracks every stage that another stage depends on, so the
	// stages nothing depends on can be linked to the end marker.
	parents map[string]struct{}
	stages  []string
}

func (pd *pipelineDrawer) New() error {
	err := pd.AddStage(model.StartStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add start stage to drawer")
	}

	err = pd.AddStage(model.EndStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add end stage to drawer")
	}

	return nil
}

func (pd *pipelineDrawer) PrepareStage(info *model.StageInfo) error {
	err := pd.AddStage(info.Name)
	if err != nil {
		return err
	}

	if len(info.DependsOn) == 0 {
		err := pd.AddLink(model.StartStage.Name, info.Name)
		if err != nil {
			return err
		}
	}

	for _, dep := range info.DependsOn {
		err := pd.AddLink(dep, info.Name)
		if err != nil {
			return err
		}

		pd.parents[dep] = struct{}{}
	}

	pd.stages = append(pd.stages, info.Name)

	return nil
}

func (pd *pipelineDrawer) OnStageStart(_ *model.StageInfo) error {
	return nil
}

func (pd *pipelineDrawer) OnStageDone(info *model.StageInfo, elapsed time.Duration) error {
	err := pd.SetStatus(info.Name, info.Status)
	if err != nil {
		return err
	}

	return pd.SetElapsed(info.Name, elapsed)
}

func (pd *pipelineDrawer) Finish(total time.Duration) error {
	for _, name := range pd.stages {
		if _, ok := pd.parents[name]; ok {
			continue
		}

		err := pd.AddLink(name, model.EndStage.Name)
		if err != nil {
			return err
		}
	}

	err := pd.SetElapsed(model.EndStage.Name, total)
	if err != nil {
		return errors.Wrap(err, "unable to set total time")
	}

	err = pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer attaches a drawer to a pipeline.
func PipelineDrawer(drw Drawer) model.PipelineOption {
	return &pipelineDrawer{
		Drawer:  drw,
		parents: map[string]struct{}{},
	}
}
