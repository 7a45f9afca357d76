package stages

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/go-provision/pkg/pipeline"
	"github.com/askiada/go-provision/pkg/pipeline/model"
)

// Inventory is the part of the runtime client the model stage needs.
type Inventory interface {
	HasModel(ctx context.Context, name string) (bool, error)
	Pull(ctx context.Context, name string) error
}

// Handle is a running background service owned by the model stage.
type Handle interface {
	Stop() error
}

// ServeFunc spawns the background runtime process.
type ServeFunc func(ctx context.Context) (Handle, error)

// ProbeFunc blocks until the runtime accepts connections or its budget
// elapses.
type ProbeFunc func(ctx context.Context) error

// ModelPull ensures the target model is present in the local inventory. When
// it is not, the stage spawns the runtime in the background, waits for it to
// become ready, pulls the model under the stage's retry policy and reaps the
// background process on every exit path.
type ModelPull struct {
	pipeline.Base
	client  Inventory
	serve   ServeFunc
	probe   ProbeFunc
	policy  model.RetryPolicy
	modelID string
	log     *zap.Logger
}

// NewModelPull creates the model acquisition stage.
func NewModelPull(client Inventory, serve ServeFunc, probe ProbeFunc, modelID string, policy model.RetryPolicy, log *zap.Logger) *ModelPull {
	return &ModelPull{
		Base:    pipeline.NewBase("model-pull", "runtime-install"),
		client:  client,
		serve:   serve,
		probe:   probe,
		policy:  policy,
		modelID: modelID,
		log:     log,
	}
}

// Check queries the local inventory. An unreachable runtime reports the
// model as absent: the pull path spawns its own server.
func (s *ModelPull) Check(ctx context.Context) (bool, error) {
	ok, err := s.client.HasModel(ctx, s.modelID)
	if err != nil {
		s.log.Debug("model inventory unreachable", zap.Error(err))

		return false, nil
	}

	if ok {
		s.log.Info("model already present", zap.String("model", s.modelID))
	}

	return ok, nil
}

// Run spawns the runtime, waits for readiness and pulls the model.
func (s *ModelPull) Run(ctx context.Context) error {
	handle, err := s.serve(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to start runtime")
	}

	defer func() {
		if stopErr := handle.Stop(); stopErr != nil {
			s.log.Warn("unable to stop runtime", zap.Error(stopErr))
		}
	}()

	err = s.probe(ctx)
	if err != nil {
		return errors.Wrap(err, "runtime never became ready")
	}

	err = s.policy.Do(ctx, func(pullCtx context.Context) error {
		pullErr := s.client.Pull(pullCtx, s.modelID)
		if pullErr != nil {
			s.log.Warn("model pull attempt failed", zap.String("model", s.modelID), zap.Error(pullErr))
		}

		return pullErr
	})
	if err != nil {
		return errors.Wrapf(err, "unable to pull model %s", s.modelID)
	}

	s.log.Info("model pulled", zap.String("model", s.modelID))

	return nil
}
