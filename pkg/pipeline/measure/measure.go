package measure

import (
	"sync"
)

// DefaultMeasure is an in-memory Measure implementation.
type DefaultMeasure struct {
	Stages map[string]Metric
}

// NewDefaultMeasure creates a new DefaultMeasure.
func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		Stages: make(map[string]Metric),
	}
}

// AddMetric registers a metric for a stage.
func (m *DefaultMeasure) AddMetric(name string) Metric {
	mt := &DefaultMetric{
		mu: &sync.Mutex{},
	}
	m.Stages[name] = mt

	return mt
}

// GetMetric returns the metric of a stage.
func (m *DefaultMeasure) GetMetric(name string) Metric {
	return m.Stages[name]
}

// AllMetrics returns the metrics of every stage.
func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	return m.Stages
}

var _ Measure = (*DefaultMeasure)(nil)
