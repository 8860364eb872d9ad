package discovery

import (
	"context"
	"time"

	"github.com/jonesrussell/godiscover/internal/domain"
)

// DiscoverRequest carries everything a strategy needs for one attempt.
type DiscoverRequest struct {
	Source *domain.Source
	RunID  string
	Quota  int
}

// AttemptSummary reports what a feed-based strategy tried, so the
// runner can tell network-caused empty results from content-caused
// ones without the strategy raising an error.
type AttemptSummary struct {
	FeedsAttempted  int
	FeedsSuccessful int
	NetworkErrors   int
}

// DiscoverResult is the outcome of a single strategy attempt.
type DiscoverResult struct {
	Candidates []domain.RawCandidate
	Summary    AttemptSummary
}

// Strategy enumerates candidate article links for a source using one
// discovery method. Implementations must be safe for concurrent use
// across sources.
type Strategy interface {
	Method() domain.Method
	Discover(ctx context.Context, req DiscoverRequest) (DiscoverResult, error)
}

// FailureRecord is one failed discovery attempt written to telemetry.
type FailureRecord struct {
	SourceID  string
	SiteURL   string
	Method    domain.Method
	Message   string
	LatencyMs int64
}

// Telemetry is the effectiveness history consulted during method
// selection and written to after every attempt. Write failures are
// never fatal to a run.
type Telemetry interface {
	// HasHistoricalData reports whether any method has ever produced
	// articles for the source. It deliberately ignores failure events
	// so a string of failed runs cannot mask a brand-new source.
	HasHistoricalData(ctx context.Context, sourceID string) (bool, error)
	// EffectiveMethods returns method labels ordered most effective
	// first. An empty list means no usable history.
	EffectiveMethods(ctx context.Context, sourceID string) ([]string, error)
	RecordSiteFailure(ctx context.Context, record FailureRecord) error
	RecordMethodResult(ctx context.Context, sourceID string, method domain.Method, articlesFound int) error
}

// SourceStateStore persists per-source discovery state.
type SourceStateStore interface {
	GetState(ctx context.Context, sourceID string) (*domain.DiscoveryState, error)
	UpdateState(ctx context.Context, sourceID string, patch domain.StatePatch) error
	// Pause marks the source paused with a reason. Paused sources stay
	// paused until an operator resumes them.
	Pause(ctx context.Context, sourceID, reason string) error
}

// LinkStore persists discovered links and answers dedup lookups.
type LinkStore interface {
	// ExistingURLs returns the set of normalized URLs already stored
	// for the source.
	ExistingURLs(ctx context.Context, sourceID string) (map[string]struct{}, error)
	// Upsert stores a link, ignoring conflicts on (source_id, url).
	// It reports whether a new row was written.
	Upsert(ctx context.Context, link *domain.DiscoveredLink) (bool, error)
}

// ArticleCounter reports how many articles have ever been captured for
// a source. A zero count combined with empty telemetry is what lets
// the state machine penalize a source for an empty run.
type ArticleCounter interface {
	CountBySource(ctx context.Context, sourceID string) (int64, error)
}

// HostScopeResolver maps a source to the set of hosts its candidates
// may come from. An empty set means unrestricted.
type HostScopeResolver interface {
	AllowedHosts(source *domain.Source) map[string]struct{}
}

// RecencyPredicate decides whether a publish date is fresh enough to
// keep. Undated candidates never reach it.
type RecencyPredicate interface {
	IsRecent(t time.Time) bool
}

// RetryWindowFn returns how many days to keep skipping RSS attempts
// after the feed was found missing, given the source's publish
// frequency.
type RetryWindowFn func(publishFrequency string) int
