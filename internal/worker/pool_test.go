package worker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonesrussell/godiscover/internal/coordination"
	"github.com/jonesrussell/godiscover/internal/domain"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/metrics"
	"github.com/jonesrussell/godiscover/internal/worker"
)

// fakeProcessor records which sources it saw and how many ran at once.
type fakeProcessor struct {
	mu        sync.Mutex
	processed []string
	result    func(source *domain.Source) domain.RunResult
	block     chan struct{} // when non-nil, Process waits until closed
	current   atomic.Int32
	maxSeen   atomic.Int32
}

func (f *fakeProcessor) Process(_ context.Context, source *domain.Source) domain.RunResult {
	cur := f.current.Add(1)
	for {
		maxSeen := f.maxSeen.Load()
		if cur <= maxSeen || f.maxSeen.CompareAndSwap(maxSeen, cur) {
			break
		}
	}
	defer f.current.Add(-1)

	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	f.processed = append(f.processed, source.ID)
	f.mu.Unlock()

	if f.result != nil {
		return f.result(source)
	}
	return domain.RunResult{
		SourceID:   source.ID,
		SourceName: source.Name,
		Outcome:    domain.OutcomeNoArticles,
	}
}

func (f *fakeProcessor) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.processed))
	copy(out, f.processed)
	return out
}

// fakeLocker denies configured IDs and records acquisitions and releases.
type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	failing  map[string]bool
	acquired []string
	released []string
}

func (f *fakeLocker) TryLockSource(_ context.Context, sourceID string) (coordination.ReleaseFunc, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failing[sourceID] {
		return nil, false, errors.New("redis unavailable")
	}
	if f.held[sourceID] {
		return nil, false, nil
	}

	f.acquired = append(f.acquired, sourceID)
	return func(context.Context) {
		f.mu.Lock()
		f.released = append(f.released, sourceID)
		f.mu.Unlock()
	}, true, nil
}

func (f *fakeLocker) counts() (acquired, released int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.acquired), len(f.released)
}

func newTestPool(t *testing.T, cfg worker.Config, proc worker.Processor, locker coordination.SourceLocker) (*worker.Pool, *metrics.Metrics) {
	t.Helper()

	m := metrics.NewMetrics()
	pool, err := worker.NewPool(cfg, proc, locker, m, logger.NewNoOp())
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	if err := pool.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		if pool.IsRunning() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = pool.Stop(ctx)
		}
	})

	return pool, m
}

func testSources(ids ...string) []*domain.Source {
	out := make([]*domain.Source, 0, len(ids))
	for _, id := range ids {
		out = append(out, &domain.Source{
			ID:   id,
			Name: "Source " + id,
			URL:  "https://" + id + ".example.com",
		})
	}
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestDefaultConfig(t *testing.T) {
	cfg := worker.DefaultConfig()

	if cfg.WorkerCount != worker.DefaultWorkerCount {
		t.Errorf("WorkerCount = %d, want %d", cfg.WorkerCount, worker.DefaultWorkerCount)
	}
	if cfg.RunTimeout != worker.DefaultRunTimeout {
		t.Errorf("RunTimeout = %v, want %v", cfg.RunTimeout, worker.DefaultRunTimeout)
	}
	if cfg.DrainTimeout != worker.DefaultDrainTimeout {
		t.Errorf("DrainTimeout = %v, want %v", cfg.DrainTimeout, worker.DefaultDrainTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(cfg *worker.Config)
		wantErr bool
	}{
		{name: "default is valid", mutate: func(*worker.Config) {}, wantErr: false},
		{name: "zero workers", mutate: func(cfg *worker.Config) { cfg.WorkerCount = 0 }, wantErr: true},
		{name: "too many workers", mutate: func(cfg *worker.Config) { cfg.WorkerCount = worker.MaxWorkerCount + 1 }, wantErr: true},
		{name: "zero run timeout", mutate: func(cfg *worker.Config) { cfg.RunTimeout = 0 }, wantErr: true},
		{name: "negative drain timeout", mutate: func(cfg *worker.Config) { cfg.DrainTimeout = -time.Second }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := worker.DefaultConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewPool_RequiresProcessor(t *testing.T) {
	_, err := worker.NewPool(worker.DefaultConfig(), nil, nil, nil, logger.NewNoOp())
	if err == nil {
		t.Fatal("expected error for nil processor")
	}
}

func TestNewPool_RejectsInvalidConfig(t *testing.T) {
	cfg := worker.DefaultConfig()
	cfg.WorkerCount = 0

	_, err := worker.NewPool(cfg, &fakeProcessor{}, nil, nil, logger.NewNoOp())
	if err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestPool_StartStop(t *testing.T) {
	pool, err := worker.NewPool(worker.DefaultConfig(), &fakeProcessor{}, nil, nil, logger.NewNoOp())
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}

	if got := pool.State(); got != worker.PoolStateStopped {
		t.Errorf("State() = %v, want stopped", got)
	}

	if err := pool.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := pool.Start(); err == nil {
		t.Error("second Start() should fail")
	}
	if !pool.IsRunning() {
		t.Error("IsRunning() = false after Start")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := pool.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := pool.Stop(ctx); err == nil {
		t.Error("second Stop() should fail")
	}
	if got := pool.State(); got != worker.PoolStateStopped {
		t.Errorf("State() = %v, want stopped", got)
	}
}

func TestRunBatch_RequiresRunningPool(t *testing.T) {
	pool, err := worker.NewPool(worker.DefaultConfig(), &fakeProcessor{}, nil, nil, logger.NewNoOp())
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}

	if _, err := pool.RunBatch(context.Background(), testSources("a")); err == nil {
		t.Error("RunBatch() on a stopped pool should fail")
	}
}

func TestRunBatch_ProcessesEachSourceOnce(t *testing.T) {
	proc := &fakeProcessor{}
	pool, m := newTestPool(t, worker.DefaultConfig(), proc, nil)

	// "a" appears twice; only the first occurrence runs.
	result, err := pool.RunBatch(context.Background(), testSources("a", "b", "a", "c"))
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}

	if result.Processed != 3 {
		t.Errorf("Processed = %d, want 3", result.Processed)
	}
	if result.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", result.Skipped)
	}
	if len(result.Results) != 3 {
		t.Errorf("len(Results) = %d, want 3", len(result.Results))
	}

	counts := make(map[string]int)
	for _, id := range proc.seen() {
		counts[id]++
	}
	for _, id := range []string{"a", "b", "c"} {
		if counts[id] != 1 {
			t.Errorf("source %q processed %d times, want 1", id, counts[id])
		}
	}

	if got := m.GetRunsCompleted(); got != 3 {
		t.Errorf("GetRunsCompleted() = %d, want 3", got)
	}
}

func TestRunBatch_SkipsLockedSources(t *testing.T) {
	proc := &fakeProcessor{}
	locker := &fakeLocker{held: map[string]bool{"b": true}}
	pool, _ := newTestPool(t, worker.DefaultConfig(), proc, locker)

	result, err := pool.RunBatch(context.Background(), testSources("a", "b"))
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}

	if result.Processed != 1 {
		t.Errorf("Processed = %d, want 1", result.Processed)
	}
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
	for _, id := range proc.seen() {
		if id == "b" {
			t.Error("locked source was processed")
		}
	}
}

func TestRunBatch_LockErrorSkipsSource(t *testing.T) {
	proc := &fakeProcessor{}
	locker := &fakeLocker{failing: map[string]bool{"a": true}}
	pool, _ := newTestPool(t, worker.DefaultConfig(), proc, locker)

	result, err := pool.RunBatch(context.Background(), testSources("a", "b"))
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}

	if result.Processed != 1 {
		t.Errorf("Processed = %d, want 1", result.Processed)
	}
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
}

func TestRunBatch_ReleasesLocks(t *testing.T) {
	proc := &fakeProcessor{}
	locker := &fakeLocker{}
	pool, _ := newTestPool(t, worker.DefaultConfig(), proc, locker)

	if _, err := pool.RunBatch(context.Background(), testSources("a", "b", "c")); err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}

	acquired, released := locker.counts()
	if acquired != 3 {
		t.Errorf("acquired = %d, want 3", acquired)
	}
	if released != acquired {
		t.Errorf("released = %d, want %d", released, acquired)
	}
}

func TestRunBatch_BoundsConcurrency(t *testing.T) {
	proc := &fakeProcessor{}
	cfg := worker.DefaultConfig()
	cfg.WorkerCount = 2
	pool, _ := newTestPool(t, cfg, proc, nil)

	result, err := pool.RunBatch(context.Background(), testSources("a", "b", "c", "d", "e", "f"))
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}

	if result.Processed != 6 {
		t.Errorf("Processed = %d, want 6", result.Processed)
	}
	if maxSeen := proc.maxSeen.Load(); maxSeen > 2 {
		t.Errorf("max concurrent runs = %d, want at most 2", maxSeen)
	}
}

func TestRunBatch_OverlappingBatchesShareNoSource(t *testing.T) {
	unblock := make(chan struct{})
	proc := &fakeProcessor{block: unblock}
	pool, _ := newTestPool(t, worker.DefaultConfig(), proc, nil)

	sweepDone := make(chan worker.BatchResult, 1)
	go func() {
		result, _ := pool.RunBatch(context.Background(), testSources("a"))
		sweepDone <- result
	}()

	waitFor(t, func() bool { return proc.current.Load() == 1 })

	// A run-now batch for the same source lands while the sweep still
	// holds it. Without a distributed lock the pool itself must keep the
	// second batch off the source.
	runNow, err := pool.RunBatch(context.Background(), testSources("a"))
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}
	if runNow.Processed != 0 {
		t.Errorf("overlapping batch Processed = %d, want 0", runNow.Processed)
	}
	if runNow.Skipped != 1 {
		t.Errorf("overlapping batch Skipped = %d, want 1", runNow.Skipped)
	}

	close(unblock)
	sweep := <-sweepDone
	if sweep.Processed != 1 {
		t.Errorf("sweep Processed = %d, want 1", sweep.Processed)
	}

	if maxSeen := proc.maxSeen.Load(); maxSeen != 1 {
		t.Errorf("source ran on %d workers at once, want 1", maxSeen)
	}

	// Once the sweep's run finishes, the source is runnable again.
	again, err := pool.RunBatch(context.Background(), testSources("a"))
	if err != nil {
		t.Fatalf("RunBatch() after completion error = %v", err)
	}
	if again.Processed != 1 {
		t.Errorf("follow-up batch Processed = %d, want 1", again.Processed)
	}
}

func TestRunBatch_AggregatesRunResults(t *testing.T) {
	proc := &fakeProcessor{
		result: func(source *domain.Source) domain.RunResult {
			r := domain.RunResult{SourceID: source.ID, Outcome: domain.OutcomeNewArticles}
			r.Counts.New = 3
			if source.ID == "b" {
				r.Outcome = domain.OutcomeNoArticles
				r.Counts.New = 0
				r.Paused = true
			}
			return r
		},
	}
	pool, m := newTestPool(t, worker.DefaultConfig(), proc, nil)

	result, err := pool.RunBatch(context.Background(), testSources("a", "b"))
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}

	if result.NewLinks != 3 {
		t.Errorf("NewLinks = %d, want 3", result.NewLinks)
	}
	if result.Paused != 1 {
		t.Errorf("Paused = %d, want 1", result.Paused)
	}
	if got := m.GetNewLinks(); got != 3 {
		t.Errorf("GetNewLinks() = %d, want 3", got)
	}
	if got := m.GetSourcesPaused(); got != 1 {
		t.Errorf("GetSourcesPaused() = %d, want 1", got)
	}

	stats := pool.Stats()
	if stats.SourcesProcessed != 2 {
		t.Errorf("Stats().SourcesProcessed = %d, want 2", stats.SourcesProcessed)
	}
}

func TestStop_WaitsForInFlightRuns(t *testing.T) {
	unblock := make(chan struct{})
	proc := &fakeProcessor{block: unblock}
	cfg := worker.DefaultConfig()
	cfg.DrainTimeout = 5 * time.Second
	pool, _ := newTestPool(t, cfg, proc, nil)

	batchDone := make(chan worker.BatchResult, 1)
	go func() {
		result, _ := pool.RunBatch(context.Background(), testSources("a"))
		batchDone <- result
	}()

	waitFor(t, func() bool { return proc.current.Load() == 1 })

	stopDone := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		stopDone <- pool.Stop(ctx)
	}()

	select {
	case <-stopDone:
		t.Fatal("Stop returned while a run was still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(unblock)

	select {
	case err := <-stopDone:
		if err != nil {
			t.Fatalf("Stop() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after runs finished")
	}

	result := <-batchDone
	if result.Processed != 1 {
		t.Errorf("Processed = %d, want 1", result.Processed)
	}
}
