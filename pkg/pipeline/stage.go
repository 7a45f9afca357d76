package pipeline

import "context"

// Stage is one ordered unit of provisioning work.
type Stage interface {
	// Name returns the stage identifier, unique within a pipeline.
	Name() string
	// DependsOn returns the names of the stages whose side effects this
	// stage relies on. An empty list means the stage depends on the
	// previously registered stage.
	DependsOn() []string
	// Check reports whether the stage goal already holds. When it returns
	// true the action is skipped.
	Check(ctx context.Context) (bool, error)
	// Run performs the stage action.
	Run(ctx context.Context) error
}

// Base provides the common parts of a Stage. Embed it in stages that only
// need a name, optional dependencies and the default "never satisfied"
// check.
type Base struct {
	name      string
	dependsOn []string
}

// NewBase creates a Base with the given name and dependencies.
func NewBase(name string, dependsOn ...string) Base {
	return Base{name: name, dependsOn: dependsOn}
}

// Name returns the stage name.
func (b Base) Name() string { return b.name }

// DependsOn returns the stage dependencies.
func (b Base) DependsOn() []string { return b.dependsOn }

// Check reports the stage as not satisfied, so the action always runs.
func (b Base) Check(_ context.Context) (bool, error) { return false, nil }
