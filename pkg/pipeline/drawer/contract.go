package drawer

import (
	"time"

	"github.com/askiada/go-provision/pkg/pipeline/model"
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStage adds a stage to the pipeline drawer.
	AddStage(name string) error
	// AddLink adds a link between a stage and one of its dependencies.
	AddLink(parentName, childName string) error
	// SetStatus colours a stage with its terminal status.
	SetStatus(name string, status model.Status) error
	// SetElapsed labels a stage with its execution time.
	SetElapsed(name string, elapsed time.Duration) error
	// Draw creates a file with the pipeline graph.
	Draw() error
}
