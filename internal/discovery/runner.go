package discovery

import (
	"context"
	"time"

	"github.com/jonesrussell/godiscover/internal/domain"
	"github.com/jonesrussell/godiscover/internal/logger"
)

// DefaultArticleQuota caps how many candidates a run asks each
// strategy for.
const DefaultArticleQuota = 25

const hoursPerDay = 24

// RunOutcome aggregates everything the executed strategies produced:
// raw candidates across methods, the methods actually attempted, and
// the state changes earned along the way.
type RunOutcome struct {
	Candidates []domain.RawCandidate
	Attempted  []domain.Method
	StateDelta domain.StatePatch
}

// StrategyRunner executes the selected methods in order. A failing
// strategy never aborts the ones after it; each failure is logged and
// written to telemetry with its latency.
type StrategyRunner struct {
	strategies  map[domain.Method]Strategy
	telemetry   Telemetry
	retryWindow RetryWindowFn
	quota       int
	logger      logger.Interface
}

// NewStrategyRunner wires the registered strategies into a runner.
// A non-positive quota falls back to DefaultArticleQuota, and a nil
// retry window function falls back to DefaultRetryWindow.
func NewStrategyRunner(
	strategies []Strategy,
	telemetry Telemetry,
	retryWindow RetryWindowFn,
	quota int,
	log logger.Interface,
) *StrategyRunner {
	byMethod := make(map[domain.Method]Strategy, len(strategies))
	for _, strat := range strategies {
		byMethod[strat.Method()] = strat
	}
	if retryWindow == nil {
		retryWindow = DefaultRetryWindow
	}
	if quota <= 0 {
		quota = DefaultArticleQuota
	}
	return &StrategyRunner{
		strategies:  byMethod,
		telemetry:   telemetry,
		retryWindow: retryWindow,
		quota:       quota,
		logger:      log.WithComponent("strategy_runner"),
	}
}

// Run attempts the given methods in order and returns the combined
// outcome. The RSS method is skipped while the source sits inside its
// missing-feed retry window, and once RSS alone has produced at least
// half the quota the remaining slower methods are skipped.
func (r *StrategyRunner) Run(ctx context.Context, source *domain.Source, runID string, methods []domain.Method) RunOutcome {
	log := r.logger.WithSource(source.ID, source.Name).With("run_id", runID)
	var outcome RunOutcome

	for _, method := range methods {
		strat, ok := r.strategies[method]
		if !ok {
			log.Warn("No strategy registered for method", "method", method.String())
			continue
		}
		if method == domain.MethodRSS && r.withinRetryWindow(source, log) {
			continue
		}

		started := time.Now()
		result, err := strat.Discover(ctx, DiscoverRequest{Source: source, RunID: runID, Quota: r.quota})
		latency := time.Since(started)
		outcome.Attempted = append(outcome.Attempted, method)

		if err != nil {
			r.recordFailure(ctx, source, method, err, latency, log)
			if method == domain.MethodRSS {
				outcome.StateDelta = outcome.StateDelta.Merge(rssHardFailureDelta(err))
			}
			continue
		}

		found := len(result.Candidates)
		outcome.Candidates = append(outcome.Candidates, result.Candidates...)

		if recErr := r.telemetry.RecordMethodResult(ctx, source.ID, method, found); recErr != nil {
			log.Warn("Failed to record method result",
				"method", method.String(),
				"error", recErr)
		}

		if method == domain.MethodRSS {
			outcome.StateDelta = outcome.StateDelta.Merge(r.rssResultDelta(source, result, log))
		}
		if found > 0 {
			outcome.StateDelta = outcome.StateDelta.Merge(domain.StatePatch{
				LastSuccessfulMethod: domain.SetString(method.String()),
			})
		}

		log.Info("Strategy attempt complete",
			"method", method.String(),
			"candidates", found,
			"duration_ms", latency.Milliseconds())

		if method == domain.MethodRSS && found >= r.earlyExitThreshold() {
			log.Info("Feed met early-exit threshold, skipping remaining methods",
				"candidates", found,
				"threshold", r.earlyExitThreshold())
			break
		}
	}

	return outcome
}

// earlyExitThreshold is half the quota, rounded up.
func (r *StrategyRunner) earlyExitThreshold() int {
	return (r.quota + 1) / 2
}

// withinRetryWindow reports whether the source's feed is marked
// missing and the frequency-based cool-down has not yet elapsed.
func (r *StrategyRunner) withinRetryWindow(source *domain.Source, log logger.Interface) bool {
	if source.RSSMissingSince == nil {
		return false
	}
	windowDays := r.retryWindow(source.PublishFrequency)
	window := time.Duration(windowDays) * hoursPerDay * time.Hour
	if time.Since(*source.RSSMissingSince) >= window {
		return false
	}
	log.Info("Feed marked missing, skipping within retry window",
		"missing_since", source.RSSMissingSince.Format(time.RFC3339),
		"window_days", windowDays,
		"publish_frequency", source.PublishFrequency)
	return true
}

func (r *StrategyRunner) recordFailure(
	ctx context.Context,
	source *domain.Source,
	method domain.Method,
	err error,
	latency time.Duration,
	log logger.Interface,
) {
	log.Warn("Strategy attempt failed",
		"method", method.String(),
		"error", err,
		"duration_ms", latency.Milliseconds())

	record := FailureRecord{
		SourceID:  source.ID,
		SiteURL:   source.URL,
		Method:    method,
		Message:   err.Error(),
		LatencyMs: latency.Milliseconds(),
	}
	if recErr := r.telemetry.RecordSiteFailure(ctx, record); recErr != nil {
		log.Error("Failed to record site failure", "error", recErr)
	}
}

// rssResultDelta translates a clean RSS return into state changes.
// Candidates clear the whole failure slate. An empty result counts
// against the feed only when it cannot be blamed on the network.
func (r *StrategyRunner) rssResultDelta(source *domain.Source, result DiscoverResult, log logger.Interface) domain.StatePatch {
	if len(result.Candidates) > 0 {
		return domain.StatePatch{
			RSSMissingSince:        domain.ClearTime(),
			RSSLastFailedAt:        domain.ClearTime(),
			RSSConsecutiveFailures: domain.SetInt(0),
		}
	}

	if result.Summary.NetworkErrors > 0 {
		log.Debug("Empty feed result attributed to network errors, resetting failure counter",
			"feeds_attempted", result.Summary.FeedsAttempted,
			"network_errors", result.Summary.NetworkErrors)
		return domain.StatePatch{RSSConsecutiveFailures: domain.SetInt(0)}
	}

	return domain.StatePatch{
		RSSConsecutiveFailures: domain.SetInt(source.RSSConsecutiveFailures + 1),
	}
}

// rssHardFailureDelta classifies a hard RSS error. Transient failures
// only stamp rss_last_failed_at; anything else marks the feed missing,
// which engages the retry-window gate on subsequent runs.
func rssHardFailureDelta(err error) domain.StatePatch {
	now := time.Now()
	if IsTransient(err) {
		return domain.StatePatch{RSSLastFailedAt: domain.SetTime(now)}
	}
	return domain.StatePatch{RSSMissingSince: domain.SetTime(now)}
}
