// Package metrics provides metrics collection and reporting for discovery
// runs. A single instance is shared by the worker pool and the HTTP API.
package metrics

import (
	"sync"
	"time"

	"github.com/jonesrussell/godiscover/internal/domain"
)

// Metrics holds the discovery run counters.
type Metrics struct {
	// RunsCompleted is the number of run results recorded.
	RunsCompleted int64
	// SourcesPaused is the number of runs that ended with an auto-pause.
	SourcesPaused int64
	// NewLinks is the total of newly stored links across runs.
	NewLinks int64
	// LastRunTime is the time of the last recorded run.
	LastRunTime time.Time
	// StartTime is when the metrics collection began.
	StartTime time.Time
	// outcomes counts runs per outcome label.
	outcomes map[domain.Outcome]int64
	// mu protects concurrent access to metrics.
	mu sync.Mutex
}

// Snapshot is a point-in-time copy of the counters, safe to serialize.
type Snapshot struct {
	StartTime     time.Time        `json:"start_time"`
	LastRunTime   time.Time        `json:"last_run_time"`
	RunsCompleted int64            `json:"runs_completed"`
	SourcesPaused int64            `json:"sources_paused"`
	NewLinks      int64            `json:"new_links"`
	Outcomes      map[string]int64 `json:"outcomes"`
}

// NewMetrics creates a new Metrics instance with default values.
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
		outcomes:  make(map[domain.Outcome]int64),
	}
}

// GetStartTime returns the time when metrics collection began.
func (m *Metrics) GetStartTime() time.Time {
	return m.StartTime
}

// RecordRun folds one run result into the counters.
func (m *Metrics) RecordRun(result *domain.RunResult) {
	if result == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.RunsCompleted++
	m.NewLinks += int64(result.Counts.New)
	m.outcomes[result.Outcome]++
	if result.Paused {
		m.SourcesPaused++
	}
	m.LastRunTime = time.Now()
}

// GetRunsCompleted returns the number of recorded runs.
func (m *Metrics) GetRunsCompleted() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.RunsCompleted
}

// GetNewLinks returns the total of newly stored links.
func (m *Metrics) GetNewLinks() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.NewLinks
}

// GetSourcesPaused returns how many runs ended with an auto-pause.
func (m *Metrics) GetSourcesPaused() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SourcesPaused
}

// GetOutcomeCount returns how many runs ended with the given outcome.
func (m *Metrics) GetOutcomeCount(outcome domain.Outcome) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[outcome]
}

// GetLastRunTime returns the time of the last recorded run.
func (m *Metrics) GetLastRunTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LastRunTime
}

// Snapshot returns a copy of the counters for reporting.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	outcomes := make(map[string]int64, len(m.outcomes))
	for outcome, count := range m.outcomes {
		outcomes[string(outcome)] = count
	}

	return Snapshot{
		StartTime:     m.StartTime,
		LastRunTime:   m.LastRunTime,
		RunsCompleted: m.RunsCompleted,
		SourcesPaused: m.SourcesPaused,
		NewLinks:      m.NewLinks,
		Outcomes:      outcomes,
	}
}

// ResetMetrics resets all counters to their initial values.
func (m *Metrics) ResetMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RunsCompleted = 0
	m.SourcesPaused = 0
	m.NewLinks = 0
	m.LastRunTime = time.Time{}
	m.outcomes = make(map[domain.Outcome]int64)
}
