package measure

import (
	"sync"
	"time"

	"github.com/askiada/go-provision/pkg/pipeline/model"
)

// DefaultMetric is an in-memory Metric implementation.
type DefaultMetric struct {
	mu           *sync.Mutex
	stageElapsed time.Duration
	total        int64
	attempts     int
	status       model.Status
	EndDuration  time.Duration
}

// AddDuration records the wall-clock time of one stage execution.
func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.total++
	mt.stageElapsed += elapsed
}

// SetAttempts records how many times the stage action ran.
func (mt *DefaultMetric) SetAttempts(attempts int) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.attempts = attempts
}

// Attempts returns the recorded attempt count.
func (mt *DefaultMetric) Attempts() int {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.attempts
}

// SetStatus records the terminal status of the stage.
func (mt *DefaultMetric) SetStatus(status model.Status) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.status = status
}

// Status returns the recorded terminal status.
func (mt *DefaultMetric) Status() model.Status {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.status
}

// AVGDuration returns the average duration of one stage execution.
func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.total == 0 {
		return time.Duration(0)
	}

	return round(time.Duration(float64(mt.stageElapsed) / float64(mt.total)))
}

// SetTotalDuration records the total pipeline duration at the time the stage
// finished.
func (mt *DefaultMetric) SetTotalDuration(total time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.EndDuration = total
}

// GetTotalDuration returns the recorded total duration.
func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.EndDuration
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Second:
		d = d.Round(time.Second)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond)
	case d > time.Minute:
		d = d.Round(time.Minute)
	case d > time.Hour:
		d = d.Round(time.Hour)
	}

	return d
}

var _ Metric = (*DefaultMetric)(nil)
