package discovery

import (
	"github.com/jonesrussell/godiscover/internal/domain"
)

// CircuitBreakerThreshold is how many consecutive no-effective-methods
// runs a source gets before discovery stops attempting it and the
// source is auto-paused.
const CircuitBreakerThreshold = 3

// Evidence is the external context EvaluateRun needs to judge an empty
// run: whether telemetry has ever seen this source produce articles,
// and whether the article index holds anything for it. Both guard
// established sources against being penalized for a quiet day.
type Evidence struct {
	HasHistoricalData    bool
	ArticlesEverCaptured bool
}

// RunAssessment is the verdict on one completed run: the outcome
// label, the state changes it earns, and whether the source must be
// paused or a telemetry failure recorded.
type RunAssessment struct {
	Outcome       domain.Outcome
	StateDelta    domain.StatePatch
	Pause         bool
	PauseReason   string
	RecordFailure bool
}

// EvaluateRun is a pure function from (current state, run counts,
// evidence) to an assessment. It performs no I/O; the orchestrator
// applies the verdict. New articles reset the failure streak. A run
// that reconciled nothing at all records a telemetry failure and, for
// sources with no history of ever working, advances the streak toward
// the circuit breaker.
func EvaluateRun(state domain.DiscoveryState, counts domain.RunCounts, evidence Evidence) RunAssessment {
	assessment := RunAssessment{Outcome: classifyOutcome(counts)}

	if counts.New > 0 {
		if state.NoEffectiveMethodsConsecutive != 0 {
			assessment.StateDelta.NoEffectiveMethodsConsecutive = domain.SetInt(0)
		}
		return assessment
	}

	if counts.Total() > 0 {
		return assessment
	}

	assessment.RecordFailure = true

	if evidence.HasHistoricalData || evidence.ArticlesEverCaptured {
		return assessment
	}

	streak := state.NoEffectiveMethodsConsecutive + 1
	assessment.StateDelta.NoEffectiveMethodsConsecutive = domain.SetInt(streak)
	if streak >= CircuitBreakerThreshold {
		assessment.Pause = true
		assessment.PauseReason = domain.PauseReasonNoEffectiveMethods
	}

	return assessment
}

// classifyOutcome maps counts to an outcome label, most informative
// first. The final branch is only reachable when every candidate was
// out of scope, which points at a misconfigured host allowlist.
func classifyOutcome(counts domain.RunCounts) domain.Outcome {
	switch {
	case counts.New > 0:
		return domain.OutcomeNewArticles
	case counts.Duplicate > 0 && counts.Expired > 0:
		return domain.OutcomeMixedResults
	case counts.Duplicate > 0:
		return domain.OutcomeDuplicatesOnly
	case counts.Expired > 0:
		return domain.OutcomeExpiredOnly
	case counts.Total() == 0:
		return domain.OutcomeNoArticles
	default:
		return domain.OutcomeUnknownError
	}
}
