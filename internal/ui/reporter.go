package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/askiada/go-provision/pkg/pipeline/model"
)

// Reporter is a pipeline option printing one line per stage transition.
type Reporter struct {
	out io.Writer
}

// NewReporter creates a reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// New prints the run header.
func (r *Reporter) New() error {
	fmt.Fprintln(r.out, titleStyle.Render("provisioning environment"))

	return nil
}

// PrepareStage does nothing; stages are announced when they start.
func (r *Reporter) PrepareStage(_ *model.StageInfo) error {
	return nil
}

// OnStageStart announces the stage.
func (r *Reporter) OnStageStart(info *model.StageInfo) error {
	fmt.Fprintf(r.out, "%s %s\n", dimStyle.Render(runningMark), info.Name)

	return nil
}

// OnStageDone prints the stage outcome.
func (r *Reporter) OnStageDone(info *model.StageInfo, elapsed time.Duration) error {
	var mark string

	switch info.Status {
	case model.StatusSatisfied:
		mark = satisfiedStyle.Render(checkMark)
	case model.StatusSkipped:
		mark = dimStyle.Render(skippedMark)
	case model.StatusDegraded:
		mark = warningStyle.Render(warnMark)
	case model.StatusFailed:
		mark = failedStyle.Render(crossMark)
	default:
		mark = dimStyle.Render(runningMark)
	}

	fmt.Fprintf(r.out, "%s %s %s %s\n", mark, info.Name, string(info.Status), dimStyle.Render(elapsed.Round(time.Millisecond).String()))

	return nil
}

// Finish prints the run footer.
func (r *Reporter) Finish(total time.Duration) error {
	fmt.Fprintf(r.out, "%s\n", dimStyle.Render("done in "+total.Round(time.Millisecond).String()))

	return nil
}

var _ model.PipelineOption = (*Reporter)(nil)
