package pipeline

import (
	"context"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-provision/internal/store"
	"github.com/askiada/go-provision/pkg/pipeline/model"
)

type stageEntry struct {
	stage Stage
	info  *model.StageInfo
}

// Pipeline is an ordered sequence of provisioning stages.
type Pipeline struct {
	gra       graph.Graph[string, string]
	store     store.CustomStore[string, string]
	stages    []*stageEntry
	opts      []model.PipelineOption
	startTime time.Time
}

// New creates a new pipeline.
func New(opts ...model.PipelineOption) (*Pipeline, error) {
	st := store.NewMemoryStore[string, string]()
	pipe := &Pipeline{
		gra:   graph.NewWithStore(graph.StringHash, st, graph.Directed(), graph.PreventCycles()),
		store: st,
		opts:  opts,
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// Add registers a stage on the pipeline. Stages run in registration order; a
// stage that declares no dependency implicitly depends on the previously
// registered stage. Every declared dependency must already be registered.
func (p *Pipeline) Add(stage Stage, opts ...StageOption) error {
	if p == nil {
		return ErrPipelineMustBeSet
	}

	if stage == nil {
		return ErrStageMustBeSet
	}

	info := &model.StageInfo{
		Name:      stage.Name(),
		DependsOn: stage.DependsOn(),
		Status:    model.StatusPending,
		Retry:     model.DefaultRetry,
	}
	for _, opt := range opts {
		opt(info)
	}

	err := p.gra.AddVertex(info.Name, graph.VertexAttribute("status", string(model.StatusPending)))
	if err != nil {
		return errors.Wrapf(err, "unable to add stage %s", info.Name)
	}

	if len(info.DependsOn) == 0 && len(p.stages) > 0 {
		info.DependsOn = []string{p.stages[len(p.stages)-1].info.Name}
	}

	for _, dep := range info.DependsOn {
		if _, err := p.gra.Vertex(dep); err != nil {
			return errors.Wrapf(ErrUnknownDependency, "stage %s depends on %s", info.Name, dep)
		}

		err := p.gra.AddEdge(dep, info.Name)
		if err != nil {
			return errors.Wrapf(err, "unable to add edge from %s to %s", dep, info.Name)
		}
	}

	for _, opt := range p.opts {
		err := opt.PrepareStage(info)
		if err != nil {
			return errors.Wrap(err, "unable to prepare stage")
		}
	}

	p.stages = append(p.stages, &stageEntry{stage: stage, info: info})

	return nil
}

// Run executes every stage in order and waits for the pipeline to finish. It
// returns nil on full success or the first fatal failure as a *StageFailure.
// Cancelling the context aborts the run immediately.
func (p *Pipeline) Run(ctx context.Context) error {
	if p == nil {
		return ErrPipelineMustBeSet
	}

	p.startTime = time.Now()

	var failure *StageFailure

	for _, entry := range p.stages {
		if err := ctx.Err(); err != nil {
			failure = &StageFailure{Stage: entry.info.Name, Err: err}
			p.setStatus(entry.info, model.StatusFailed)
			// Observers still see a terminal status for the aborted stage.
			p.stageDone(entry.info, 0)

			break
		}

		failure = p.runStage(ctx, entry)
		if failure != nil {
			break
		}
	}

	err := p.finishRun()
	if err != nil && failure == nil {
		return err
	}

	if failure != nil {
		return failure
	}

	return nil
}

func (p *Pipeline) runStage(ctx context.Context, entry *stageEntry) *StageFailure {
	start := time.Now()

	for _, opt := range p.opts {
		if err := opt.OnStageStart(entry.info); err != nil {
			return &StageFailure{Stage: entry.info.Name, Err: errors.Wrap(err, "unable to run stage start option")}
		}
	}

	satisfied, err := entry.stage.Check(ctx)
	if err != nil {
		p.setStatus(entry.info, model.StatusFailed)
		p.stageDone(entry.info, time.Since(start))

		return &StageFailure{Stage: entry.info.Name, Err: errors.Wrap(err, "idempotency check")}
	}

	if satisfied {
		p.setStatus(entry.info, model.StatusSkipped)
		p.stageDone(entry.info, time.Since(start))

		return nil
	}

	p.setStatus(entry.info, model.StatusRunning)

	var degraded bool

	runErr := entry.info.Retry.Do(ctx, func(runCtx context.Context) error {
		entry.info.Attempts++

		actErr := entry.stage.Run(runCtx)
		if errors.Is(actErr, ErrDegraded) {
			degraded = true

			return nil
		}

		return actErr
	})

	switch {
	case runErr != nil:
		p.setStatus(entry.info, model.StatusFailed)
		p.stageDone(entry.info, time.Since(start))

		return &StageFailure{Stage: entry.info.Name, Attempts: entry.info.Attempts, Err: runErr}
	case degraded:
		p.setStatus(entry.info, model.StatusDegraded)
	default:
		p.setStatus(entry.info, model.StatusSatisfied)
	}

	p.stageDone(entry.info, time.Since(start))

	return nil
}

func (p *Pipeline) stageDone(info *model.StageInfo, elapsed time.Duration) {
	for _, opt := range p.opts {
		// Observer errors after the stage reached a terminal status must
		// not change the pipeline outcome.
		_ = opt.OnStageDone(info, elapsed)
	}
}

func (p *Pipeline) setStatus(info *model.StageInfo, status model.Status) {
	info.Status = status
	p.store.UpdateVertex(info.Name, func(props *graph.VertexProperties) {
		props.Attributes["status"] = string(status)
	})
}

func (p *Pipeline) finishRun() error {
	total := time.Since(p.startTime)

	for _, opt := range p.opts {
		err := opt.Finish(total)
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}

// Stages returns the registered stage descriptors in execution order.
func (p *Pipeline) Stages() []*model.StageInfo {
	infos := make([]*model.StageInfo, 0, len(p.stages))
	for _, entry := range p.stages {
		infos = append(infos, entry.info)
	}

	return infos
}
