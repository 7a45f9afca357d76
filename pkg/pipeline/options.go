package pipeline

import "github.com/askiada/go-provision/pkg/pipeline/model"

// StageOption customises a stage when it is registered.
type StageOption func(info *model.StageInfo)

// WithRetry sets the retry policy applied to the stage action.
func WithRetry(policy model.RetryPolicy) StageOption {
	return func(info *model.StageInfo) {
		info.Retry = policy
	}
}

// WithDependsOn overrides the dependencies declared by the stage.
func WithDependsOn(names ...string) StageOption {
	return func(info *model.StageInfo) {
		info.DependsOn = names
	}
}
