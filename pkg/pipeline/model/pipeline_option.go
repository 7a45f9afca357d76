package model

import "time"

// PipelineOption defines the interface for pipeline observers. Options are
// attached when the pipeline is created and receive lifecycle callbacks for
// every stage.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error

	// PrepareStage runs when the stage is registered on the pipeline.
	PrepareStage(info *StageInfo) error

	// OnStageStart runs just before the stage's idempotency check.
	OnStageStart(info *StageInfo) error

	// OnStageDone runs after the stage reaches a terminal status.
	OnStageDone(info *StageInfo, elapsed time.Duration) error

	// Finish runs after the pipeline is finished, whatever the outcome.
	Finish(total time.Duration) error
}
