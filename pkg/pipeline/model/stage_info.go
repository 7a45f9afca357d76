package model

// Status is the lifecycle state of a stage.
type Status string

const (
	// StatusPending means the stage has not started yet.
	StatusPending Status = "pending"
	// StatusRunning means the stage action is executing.
	StatusRunning Status = "running"
	// StatusSatisfied means the stage action completed successfully.
	StatusSatisfied Status = "satisfied"
	// StatusSkipped means the idempotency check reported the stage goal
	// already holds, so the action was never invoked.
	StatusSkipped Status = "skipped"
	// StatusDegraded means the stage could not do its work but the failure
	// is non-fatal; the pipeline continues.
	StatusDegraded Status = "degraded"
	// StatusFailed means the stage exhausted its retry policy.
	StatusFailed Status = "failed"
)

// StageInfo describes a stage registered on a pipeline.
type StageInfo struct {
	Name      string
	DependsOn []string
	Status    Status
	Retry     RetryPolicy
	// Attempts is the number of times the action ran, including the
	// successful one. Zero when the stage was skipped.
	Attempts int
}

var (
	// StartStage brackets the pipeline graph before the first stage.
	StartStage = &StageInfo{Name: "start"}
	// EndStage brackets the pipeline graph after the last stage.
	EndStage = &StageInfo{Name: "end"}
)
