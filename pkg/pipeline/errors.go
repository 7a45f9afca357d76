package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrPipelineMustBeSet is returned when a nil pipeline is used.
	ErrPipelineMustBeSet = errors.New("p must be set")
	// ErrStageMustBeSet is returned when a nil stage is registered.
	ErrStageMustBeSet = errors.New("stage must be set")
	// ErrUnknownDependency is returned when a stage depends on a stage
	// that has not been registered before it.
	ErrUnknownDependency = errors.New("unknown dependency")

	// ErrDegraded may be returned by a stage action to report a
	// non-fatal failure. The pipeline records the stage as degraded and
	// continues with the next stage.
	ErrDegraded = errors.New("stage degraded")
)

// StageFailure is the terminal outcome of a failed pipeline run. It carries
// the stage that aborted the run, how many attempts were made and the error
// of the last attempt.
type StageFailure struct {
	Stage    string
	Attempts int
	Err      error
}

func (f *StageFailure) Error() string {
	return fmt.Sprintf("stage %s failed after %d attempt(s): %v", f.Stage, f.Attempts, f.Err)
}

// Unwrap returns the error of the last attempt.
func (f *StageFailure) Unwrap() error { return f.Err }
