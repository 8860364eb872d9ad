// Package scheduler triggers recurring discovery sweeps on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/godiscover/internal/domain"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/worker"
)

// SourceLister loads the sources eligible for a sweep.
type SourceLister interface {
	ListActive(ctx context.Context) ([]*domain.Source, error)
}

// BatchRunner runs discovery across a batch of sources.
type BatchRunner interface {
	RunBatch(ctx context.Context, sources []*domain.Source) (worker.BatchResult, error)
}

// Scheduler owns a cron instance with a single entry: the discovery sweep.
// Overlapping sweeps are skipped rather than queued, so a slow sweep never
// stacks a second one behind it.
type Scheduler struct {
	schedule string
	sources  SourceLister
	runner   BatchRunner
	logger   logger.Interface
	cron     *cron.Cron
	entryID  cron.EntryID
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a scheduler for the given cron spec. The spec uses the
// standard 5-field format (minute hour day month weekday) and is parsed
// up front so a bad schedule fails at startup, not at first trigger.
func New(
	schedule string,
	sources SourceLister,
	runner BatchRunner,
	log logger.Interface,
) (*Scheduler, error) {
	if sources == nil {
		return nil, errors.New("source lister cannot be nil")
	}
	if runner == nil {
		return nil, errors.New("batch runner cannot be nil")
	}

	cronParser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := cronParser.Parse(schedule); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	cronLog := newCronLogger(log)
	c := cron.New(
		cron.WithParser(cronParser),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		schedule: schedule,
		sources:  sources,
		runner:   runner,
		logger:   log.WithComponent("scheduler"),
		cron:     c,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start registers the sweep and starts the cron loop.
func (s *Scheduler) Start() error {
	entryID, err := s.cron.AddFunc(s.schedule, s.runSweep)
	if err != nil {
		return fmt.Errorf("failed to schedule discovery sweep: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()

	s.logger.Info("Scheduler started",
		"schedule", s.schedule,
		"next_run", s.NextRun().Format(time.RFC3339),
	)

	return nil
}

// Stop cancels in-flight sweeps and waits for the cron loop to drain,
// up to the context deadline.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.Info("Scheduler stopping")

	s.cancel()

	cronCtx := s.cron.Stop()
	select {
	case <-cronCtx.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out with a sweep still running")
		return ctx.Err()
	}
}

// NextRun returns when the next sweep fires. Zero before Start.
func (s *Scheduler) NextRun() time.Time {
	return s.cron.Entry(s.entryID).Next
}

// cronLogger adapts logger.Interface to the cron logging contract so
// panic recoveries and overlap skips land in the structured log.
type cronLogger struct {
	log logger.Interface
}

func newCronLogger(log logger.Interface) cronLogger {
	return cronLogger{log: log.WithComponent("cron")}
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.log.Info(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.log.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}

// runSweep is the cron entry: list active sources and run the batch.
func (s *Scheduler) runSweep() {
	ctx := s.ctx

	sources, err := s.sources.ListActive(ctx)
	if err != nil {
		s.logger.Error("Failed to list sources for sweep", "error", err)
		return
	}
	if len(sources) == 0 {
		s.logger.Debug("No active sources, skipping sweep")
		return
	}

	s.logger.Info("Starting discovery sweep", "source_count", len(sources))

	result, err := s.runner.RunBatch(ctx, sources)
	if err != nil {
		s.logger.Error("Discovery sweep did not complete", "error", err)
	}

	s.logger.Info("Discovery sweep finished",
		"processed", result.Processed,
		"skipped", result.Skipped,
		"new_links", result.NewLinks,
		"paused", result.Paused,
		"duration", result.Duration,
		"next_run", s.NextRun().Format(time.RFC3339),
	)
}
