package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/godiscover/internal/domain"
	"github.com/jonesrussell/godiscover/internal/logger"
)

// Orchestrator drives one discovery run end to end: select methods,
// execute strategies, reconcile candidates, assess the run, and
// persist the resulting state. Process never returns an error and
// never panics; every failure mode collapses into a RunResult.
type Orchestrator struct {
	selector   *MethodSelector
	runner     *StrategyRunner
	reconciler *CandidateReconciler
	states     SourceStateStore
	links      LinkStore
	telemetry  Telemetry
	articles   ArticleCounter
	scope      HostScopeResolver
	logger     logger.Interface
}

// OrchestratorParams collects the orchestrator's collaborators.
type OrchestratorParams struct {
	Selector   *MethodSelector
	Runner     *StrategyRunner
	Reconciler *CandidateReconciler
	States     SourceStateStore
	Links      LinkStore
	Telemetry  Telemetry
	Articles   ArticleCounter
	Scope      HostScopeResolver
	Logger     logger.Interface
}

// NewOrchestrator assembles the pipeline. A nil scope resolver falls
// back to the source's declared domains.
func NewOrchestrator(p OrchestratorParams) *Orchestrator {
	scope := p.Scope
	if scope == nil {
		scope = DeclaredHostScope{}
	}
	return &Orchestrator{
		selector:   p.Selector,
		runner:     p.Runner,
		reconciler: p.Reconciler,
		states:     p.States,
		links:      p.Links,
		telemetry:  p.Telemetry,
		articles:   p.Articles,
		scope:      scope,
		logger:     p.Logger.WithComponent("orchestrator"),
	}
}

// Process runs discovery for one source. The caller must hold the
// source's mutual exclusion: two concurrent runs for the same source
// are not supported, though runs for different sources are.
func (o *Orchestrator) Process(ctx context.Context, source *domain.Source) domain.RunResult {
	started := time.Now()
	runID := uuid.New().String()
	log := o.logger.WithSource(source.ID, source.Name).With("run_id", runID)

	log.Info("Starting discovery run")

	result, err := o.guardedRun(ctx, source, runID, started, log)
	if err != nil {
		log.Error("Discovery run failed", "error", err)
		o.recordRunError(ctx, source, err, started)
		result = domain.RunResult{
			Outcome: domain.OutcomeUnknownError,
			Err:     err.Error(),
		}
	}

	result.RunID = runID
	result.SourceID = source.ID
	result.SourceName = source.Name
	result.StartedAt = started
	result.DurationMs = time.Since(started).Milliseconds()
	if result.MethodsAttempted == nil {
		result.MethodsAttempted = []domain.Method{}
	}

	log.Info("Discovery run complete",
		"outcome", string(result.Outcome),
		"found", result.Counts.Found,
		"new", result.Counts.New,
		"duplicate", result.Counts.Duplicate,
		"expired", result.Counts.Expired,
		"out_of_scope", result.Counts.OutOfScope,
		"stored", result.Counts.Stored,
		"paused", result.Paused,
		"duration_ms", result.DurationMs)

	return result
}

// guardedRun converts panics from anywhere in the pipeline into plain
// errors so Process can fold them into the result.
func (o *Orchestrator) guardedRun(
	ctx context.Context,
	source *domain.Source,
	runID string,
	started time.Time,
	log logger.Interface,
) (result domain.RunResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic during discovery run: %v", rec)
		}
	}()
	return o.run(ctx, source, runID, started, log)
}

func (o *Orchestrator) run(
	ctx context.Context,
	source *domain.Source,
	runID string,
	started time.Time,
	log logger.Interface,
) (domain.RunResult, error) {
	methods := o.selector.Select(ctx, source)

	existing, err := o.links.ExistingURLs(ctx, source.ID)
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("failed to load existing URLs: %w", err)
	}

	runOut := o.runner.Run(ctx, source, runID, methods)

	recOut := o.reconciler.Reconcile(ctx, ReconcileInput{
		Source:       source,
		RunID:        runID,
		Candidates:   runOut.Candidates,
		Existing:     existing,
		AllowedHosts: o.scope.AllowedHosts(source),
	})

	assessment := EvaluateRun(
		evaluationState(source.DiscoveryState, runOut.StateDelta),
		recOut.Counts,
		o.gatherEvidence(ctx, source, log),
	)

	delta := runOut.StateDelta.Merge(assessment.StateDelta)
	if !delta.IsZero() {
		if updateErr := o.states.UpdateState(ctx, source.ID, delta); updateErr != nil {
			return domain.RunResult{}, fmt.Errorf("failed to persist discovery state: %w", updateErr)
		}
	}

	if assessment.Pause {
		if pauseErr := o.states.Pause(ctx, source.ID, assessment.PauseReason); pauseErr != nil {
			return domain.RunResult{}, fmt.Errorf("failed to pause source: %w", pauseErr)
		}
		log.Warn("Source auto-paused", "reason", assessment.PauseReason)
	}

	if assessment.RecordFailure {
		o.recordEmptyRun(ctx, source, runOut, started, log)
	}

	return domain.RunResult{
		Outcome:          assessment.Outcome,
		MethodsAttempted: runOut.Attempted,
		Counts:           recOut.Counts,
		Paused:           assessment.Pause,
	}, nil
}

// evaluationState returns the source's state as the strategy phase left
// it, so the run assessment judges the post-run view rather than the
// snapshot loaded before the strategies executed.
func evaluationState(state domain.DiscoveryState, delta domain.StatePatch) domain.DiscoveryState {
	delta.ApplyTo(&state)
	return state
}

// gatherEvidence collects the context the state machine needs to judge
// an empty run. Lookup failures lean toward "the source has history"
// so flaky telemetry can never walk a working source into a pause.
func (o *Orchestrator) gatherEvidence(ctx context.Context, source *domain.Source, log logger.Interface) Evidence {
	evidence := Evidence{}

	hasData, err := o.telemetry.HasHistoricalData(ctx, source.ID)
	if err != nil {
		log.Warn("Failed to check telemetry history, assuming history exists", "error", err)
		evidence.HasHistoricalData = true
	} else {
		evidence.HasHistoricalData = hasData
	}

	count, err := o.articles.CountBySource(ctx, source.ID)
	if err != nil {
		log.Warn("Failed to count captured articles, assuming some exist", "error", err)
		evidence.ArticlesEverCaptured = true
	} else {
		evidence.ArticlesEverCaptured = count > 0
	}

	return evidence
}

func (o *Orchestrator) recordEmptyRun(
	ctx context.Context,
	source *domain.Source,
	runOut RunOutcome,
	started time.Time,
	log logger.Interface,
) {
	var method domain.Method
	if len(runOut.Attempted) > 0 {
		method = runOut.Attempted[0]
	}
	record := FailureRecord{
		SourceID:  source.ID,
		SiteURL:   source.URL,
		Method:    method,
		Message:   "no articles discovered",
		LatencyMs: time.Since(started).Milliseconds(),
	}
	if err := o.telemetry.RecordSiteFailure(ctx, record); err != nil {
		log.Warn("Failed to record empty-run failure", "error", err)
	}
}

func (o *Orchestrator) recordRunError(ctx context.Context, source *domain.Source, runErr error, started time.Time) {
	record := FailureRecord{
		SourceID:  source.ID,
		SiteURL:   source.URL,
		Message:   runErr.Error(),
		LatencyMs: time.Since(started).Milliseconds(),
	}
	if err := o.telemetry.RecordSiteFailure(ctx, record); err != nil {
		o.logger.Warn("Failed to record run error",
			"source_id", source.ID,
			"error", err)
	}
}
