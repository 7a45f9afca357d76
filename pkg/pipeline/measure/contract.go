package measure

import (
	"time"

	"github.com/askiada/go-provision/pkg/pipeline/model"
)

// Measure collects metrics for every stage of a pipeline.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric collects the execution metrics of a single stage.
type Metric interface {
	AddDuration(elapsed time.Duration)
	SetAttempts(attempts int)
	SetStatus(status model.Status)
	Attempts() int
	Status() model.Status
	AVGDuration() time.Duration
	SetTotalDuration(total time.Duration)
	GetTotalDuration() time.Duration
}
