package domain

import "time"

// Outcome classifies a completed discovery run.
type Outcome string

const (
	// OutcomeNewArticles means at least one candidate was stored as new.
	OutcomeNewArticles Outcome = "NEW_ARTICLES_FOUND"
	// OutcomeMixedResults means duplicates and expired candidates were seen
	// but nothing new.
	OutcomeMixedResults Outcome = "MIXED_RESULTS"
	// OutcomeDuplicatesOnly means everything found was already known.
	OutcomeDuplicatesOnly Outcome = "DUPLICATES_ONLY"
	// OutcomeExpiredOnly means everything found was stale.
	OutcomeExpiredOnly Outcome = "EXPIRED_ONLY"
	// OutcomeNoArticles means no candidates survived to classification.
	OutcomeNoArticles Outcome = "NO_ARTICLES_FOUND"
	// OutcomeUnknownError means the run failed in a way the counts cannot
	// explain, or an unhandled error was recovered at the run boundary.
	OutcomeUnknownError Outcome = "UNKNOWN_ERROR"
)

// RunCounts holds the per-classification totals for one run.
type RunCounts struct {
	Found      int `json:"found"`
	New        int `json:"new"`
	Duplicate  int `json:"duplicate"`
	Expired    int `json:"expired"`
	OutOfScope int `json:"out_of_scope"`
	Stored     int `json:"stored"`
}

// Total returns the number of candidates that reached classification.
func (c RunCounts) Total() int {
	return c.New + c.Duplicate + c.Expired + c.OutOfScope
}

// RunResult is returned to the caller for every Process invocation. It is
// never persisted and Process never substitutes an error for it.
type RunResult struct {
	RunID            string    `json:"run_id"`
	SourceID         string    `json:"source_id"`
	SourceName       string    `json:"source_name"`
	Outcome          Outcome   `json:"outcome"`
	MethodsAttempted []Method  `json:"methods_attempted"`
	Counts           RunCounts `json:"counts"`
	Paused           bool      `json:"paused"`
	StartedAt        time.Time `json:"started_at"`
	DurationMs       int64     `json:"duration_ms"`
	Err              string    `json:"error,omitempty"`
}
