package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonesrussell/godiscover/internal/coordination"
	"github.com/jonesrussell/godiscover/internal/domain"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/metrics"
)

// PoolState represents the current state of the pool.
type PoolState int32

const (
	// PoolStateStopped means the pool is not running.
	PoolStateStopped PoolState = iota

	// PoolStateRunning means the pool is accepting batches.
	PoolStateRunning

	// PoolStateDraining means the pool is shutting down gracefully.
	PoolStateDraining
)

// String returns the string representation of a pool state.
func (s PoolState) String() string {
	switch s {
	case PoolStateStopped:
		return "stopped"
	case PoolStateRunning:
		return "running"
	case PoolStateDraining:
		return "draining"
	default:
		return "unknown"
	}
}

// Processor runs discovery for a single source and reports what happened.
type Processor interface {
	Process(ctx context.Context, source *domain.Source) domain.RunResult
}

// BatchResult summarizes one batch of discovery runs.
type BatchResult struct {
	// Processed is the number of sources that completed a run.
	Processed int

	// Skipped is the number of sources dropped because a run for them was
	// already in flight in this process, another instance held their lock,
	// or the lock could not be acquired.
	Skipped int

	// NewLinks is the total number of newly discovered links in the batch.
	NewLinks int

	// Paused is the number of sources auto-paused during the batch.
	Paused int

	// Duration is the wall-clock time for the whole batch.
	Duration time.Duration

	// Results holds the per-source run results in completion order.
	Results []domain.RunResult
}

// Pool runs discovery for batches of sources with bounded concurrency.
// Each source in a batch is processed at most once, overlapping batches
// never run the same source twice in this process, and the per-source
// lock keeps other instances away while a run is in flight.
type Pool struct {
	config    Config
	processor Processor
	locker    coordination.SourceLocker
	metrics   *metrics.Metrics
	logger    logger.Interface
	state     atomic.Int32
	sem       chan struct{} // Semaphore for bounded concurrency
	wg        sync.WaitGroup
	stopCh    chan struct{}

	// inflight holds the IDs of sources currently being processed, across
	// all batches. RunBatch dedupes within one batch; this set is what
	// keeps a run-now batch off a source a sweep is still running.
	inflightMu sync.Mutex
	inflight   map[string]struct{}

	totalProcessed atomic.Int64
	totalSkipped   atomic.Int64
}

// NewPool creates a discovery pool. A nil locker falls back to
// NoOpLocker and a nil metrics collector gets a fresh one.
func NewPool(
	cfg Config,
	processor Processor,
	locker coordination.SourceLocker,
	m *metrics.Metrics,
	log logger.Interface,
) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if processor == nil {
		return nil, errors.New("processor cannot be nil")
	}
	if locker == nil {
		locker = coordination.NoOpLocker{}
	}
	if m == nil {
		m = metrics.NewMetrics()
	}

	p := &Pool{
		config:    cfg,
		processor: processor,
		locker:    locker,
		metrics:   m,
		logger:    log.WithComponent("worker_pool"),
		sem:       make(chan struct{}, cfg.WorkerCount),
		stopCh:    make(chan struct{}),
		inflight:  make(map[string]struct{}),
	}
	p.state.Store(int32(PoolStateStopped))

	return p, nil
}

// Start starts the pool.
func (p *Pool) Start() error {
	if !p.state.CompareAndSwap(int32(PoolStateStopped), int32(PoolStateRunning)) {
		return errors.New("pool is already running")
	}

	p.logger.Info("Discovery pool started",
		"worker_count", p.config.WorkerCount,
		"run_timeout", p.config.RunTimeout,
	)

	return nil
}

// Stop gracefully stops the pool, waiting for in-flight runs to finish.
func (p *Pool) Stop(ctx context.Context) error {
	if !p.state.CompareAndSwap(int32(PoolStateRunning), int32(PoolStateDraining)) {
		return errors.New("pool is not running")
	}

	p.logger.Info("Discovery pool draining")

	close(p.stopCh)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Discovery pool stopped gracefully")
	case <-ctx.Done():
		p.logger.Warn("Discovery pool stop cancelled")
	case <-time.After(p.config.DrainTimeout):
		p.logger.Warn("Discovery pool drain timeout exceeded")
	}

	p.state.Store(int32(PoolStateStopped))
	return nil
}

// RunBatch processes the given sources and blocks until the batch
// completes. Duplicate source IDs are dropped so a source is never
// processed twice in one batch, and a source another batch is still
// running is skipped rather than run concurrently.
func (p *Pool) RunBatch(ctx context.Context, sources []*domain.Source) (BatchResult, error) {
	if p.State() != PoolStateRunning {
		return BatchResult{}, errors.New("pool is not running")
	}

	batch := dedupeSources(sources)
	started := time.Now()

	p.logger.Debug("Starting discovery batch", "source_count", len(batch))

	var (
		mu     sync.Mutex
		result BatchResult
	)
	var batchWg sync.WaitGroup

	var dispatchErr error

dispatch:
	for _, source := range batch {
		select {
		case p.sem <- struct{}{}:
		case <-ctx.Done():
			dispatchErr = ctx.Err()
			break dispatch
		case <-p.stopCh:
			dispatchErr = errors.New("pool is stopping")
			break dispatch
		}

		p.wg.Add(1)
		batchWg.Add(1)

		go func(source *domain.Source) {
			defer func() {
				<-p.sem
				batchWg.Done()
				p.wg.Done()
			}()

			if !p.claimSource(source.ID) {
				p.logger.Debug("Source already running in this process, skipping",
					"source_id", source.ID,
					"source_name", source.Name,
				)
				p.totalSkipped.Add(1)
				mu.Lock()
				result.Skipped++
				mu.Unlock()
				return
			}
			defer p.releaseSource(source.ID)

			release, acquired, lockErr := p.locker.TryLockSource(ctx, source.ID)
			if lockErr != nil {
				p.logger.Error("Failed to acquire source lock",
					"source_id", source.ID,
					"source_name", source.Name,
					"error", lockErr,
				)
				p.totalSkipped.Add(1)
				mu.Lock()
				result.Skipped++
				mu.Unlock()
				return
			}
			if !acquired {
				p.logger.Debug("Source locked by another instance, skipping",
					"source_id", source.ID,
					"source_name", source.Name,
				)
				p.totalSkipped.Add(1)
				mu.Lock()
				result.Skipped++
				mu.Unlock()
				return
			}
			// Release with the batch context so a run timeout cannot
			// orphan the lock.
			defer release(ctx)

			runCtx, cancel := context.WithTimeout(ctx, p.config.RunTimeout)
			defer cancel()

			runResult := p.processor.Process(runCtx, source)

			p.metrics.RecordRun(&runResult)
			p.totalProcessed.Add(1)

			mu.Lock()
			result.Processed++
			result.NewLinks += runResult.Counts.New
			if runResult.Paused {
				result.Paused++
			}
			result.Results = append(result.Results, runResult)
			mu.Unlock()
		}(source)
	}

	batchWg.Wait()
	result.Duration = time.Since(started)

	p.logger.Info("Discovery batch completed",
		"processed", result.Processed,
		"skipped", result.Skipped,
		"new_links", result.NewLinks,
		"paused", result.Paused,
		"duration", result.Duration,
	)

	return result, dispatchErr
}

// claimSource marks a source as in flight. It reports false when another
// batch in this process is already running the source.
func (p *Pool) claimSource(id string) bool {
	p.inflightMu.Lock()
	defer p.inflightMu.Unlock()
	if _, ok := p.inflight[id]; ok {
		return false
	}
	p.inflight[id] = struct{}{}
	return true
}

// releaseSource clears a source's in-flight claim.
func (p *Pool) releaseSource(id string) {
	p.inflightMu.Lock()
	defer p.inflightMu.Unlock()
	delete(p.inflight, id)
}

// dedupeSources drops nil entries and repeated source IDs, keeping the
// first occurrence.
func dedupeSources(sources []*domain.Source) []*domain.Source {
	seen := make(map[string]struct{}, len(sources))
	out := make([]*domain.Source, 0, len(sources))
	for _, s := range sources {
		if s == nil {
			continue
		}
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}
	return out
}

// State returns the current pool state.
func (p *Pool) State() PoolState {
	return PoolState(p.state.Load())
}

// IsRunning returns true if the pool is accepting batches.
func (p *Pool) IsRunning() bool {
	return p.State() == PoolStateRunning
}

// PoolStats holds lifetime counters for the pool.
type PoolStats struct {
	State            PoolState
	WorkerCount      int
	SourcesProcessed int64
	SourcesSkipped   int64
}

// Stats returns pool statistics.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		State:            p.State(),
		WorkerCount:      p.config.WorkerCount,
		SourcesProcessed: p.totalProcessed.Load(),
		SourcesSkipped:   p.totalSkipped.Load(),
	}
}
