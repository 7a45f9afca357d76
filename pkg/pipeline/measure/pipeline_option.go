package measure

import (
	"time"

	"github.com/askiada/go-provision/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure
}

func (pm *pipelineMeasure) New() error {
	pm.AddMetric(model.StartStage.Name)
	pm.AddMetric(model.EndStage.Name)

	return nil
}

func (pm *pipelineMeasure) PrepareStage(info *model.StageInfo) error {
	pm.AddMetric(info.Name)

	return nil
}

func (pm *pipelineMeasure) OnStageStart(_ *model.StageInfo) error {
	return nil
}

func (pm *pipelineMeasure) OnStageDone(info *model.StageInfo, elapsed time.Duration) error {
	mt := pm.GetMetric(info.Name)
	mt.AddDuration(elapsed)
	mt.SetAttempts(info.Attempts)
	mt.SetStatus(info.Status)

	return nil
}

func (pm *pipelineMeasure) Finish(total time.Duration) error {
	pm.GetMetric(model.EndStage.Name).SetTotalDuration(total)

	return nil
}

// PipelineMeasure attaches a measure to a pipeline.
func PipelineMeasure(msr Measure) model.PipelineOption {
	return &pipelineMeasure{msr}
}
