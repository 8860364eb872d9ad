package discovery_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jonesrussell/godiscover/internal/discovery"
	"github.com/jonesrussell/godiscover/internal/domain"
	"github.com/jonesrussell/godiscover/internal/logger"
	discoverymocks "github.com/jonesrussell/godiscover/testutils/mocks/discovery"
)

func timePtr(t time.Time) *time.Time { return &t }

func newStrategy(ctrl *gomock.Controller, method domain.Method) *discoverymocks.MockStrategy {
	strat := discoverymocks.NewMockStrategy(ctrl)
	strat.EXPECT().Method().Return(method).AnyTimes()
	return strat
}

func rawCandidates(method domain.Method, urls ...string) []domain.RawCandidate {
	out := make([]domain.RawCandidate, 0, len(urls))
	for _, u := range urls {
		out = append(out, domain.RawCandidate{URL: u, Method: method})
	}
	return out
}

func quietTelemetry(ctrl *gomock.Controller) *discoverymocks.MockTelemetry {
	telemetry := discoverymocks.NewMockTelemetry(ctrl)
	telemetry.EXPECT().RecordMethodResult(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).AnyTimes()
	telemetry.EXPECT().RecordSiteFailure(gomock.Any(), gomock.Any()).
		Return(nil).AnyTimes()
	return telemetry
}

func TestRunExecutesMethodsInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)

	rss := newStrategy(ctrl, domain.MethodRSS)
	rss.EXPECT().Discover(gomock.Any(), gomock.Any()).
		Return(discovery.DiscoverResult{
			Candidates: rawCandidates(domain.MethodRSS, "https://example.com/a"),
			Summary:    discovery.AttemptSummary{FeedsAttempted: 1, FeedsSuccessful: 1},
		}, nil)

	homepage := newStrategy(ctrl, domain.MethodHomepage)
	homepage.EXPECT().Discover(gomock.Any(), gomock.Any()).
		Return(discovery.DiscoverResult{
			Candidates: rawCandidates(domain.MethodHomepage, "https://example.com/b", "https://example.com/c"),
		}, nil)

	telemetry := discoverymocks.NewMockTelemetry(ctrl)
	telemetry.EXPECT().RecordMethodResult(gomock.Any(), "src-1", domain.MethodRSS, 1).Return(nil)
	telemetry.EXPECT().RecordMethodResult(gomock.Any(), "src-1", domain.MethodHomepage, 2).Return(nil)

	runner := discovery.NewStrategyRunner(
		[]discovery.Strategy{rss, homepage}, telemetry, nil, 0, logger.NewNoOp())

	outcome := runner.Run(context.Background(), testSource(), "run-1",
		[]domain.Method{domain.MethodRSS, domain.MethodHomepage})

	assert.Equal(t, []domain.Method{domain.MethodRSS, domain.MethodHomepage}, outcome.Attempted)
	assert.Len(t, outcome.Candidates, 3)

	require.True(t, outcome.StateDelta.LastSuccessfulMethod.Valid)
	require.NotNil(t, outcome.StateDelta.LastSuccessfulMethod.Str)
	assert.Equal(t, "homepage", *outcome.StateDelta.LastSuccessfulMethod.Str,
		"the later success wins the last-successful slot")

	require.True(t, outcome.StateDelta.RSSMissingSince.Valid)
	assert.Nil(t, outcome.StateDelta.RSSMissingSince.Time, "feed success clears the missing marker")
	require.True(t, outcome.StateDelta.RSSConsecutiveFailures.Valid)
	assert.Equal(t, 0, outcome.StateDelta.RSSConsecutiveFailures.Int)
}

func TestRunSkipsRSSWithinRetryWindow(t *testing.T) {
	ctrl := gomock.NewController(t)

	rss := newStrategy(ctrl, domain.MethodRSS)
	homepage := newStrategy(ctrl, domain.MethodHomepage)
	homepage.EXPECT().Discover(gomock.Any(), gomock.Any()).
		Return(discovery.DiscoverResult{}, nil)

	runner := discovery.NewStrategyRunner(
		[]discovery.Strategy{rss, homepage}, quietTelemetry(ctrl), nil, 0, logger.NewNoOp())

	source := testSource()
	source.PublishFrequency = "daily"
	source.RSSMissingSince = timePtr(time.Now().AddDate(0, 0, -10))

	outcome := runner.Run(context.Background(), source, "run-1",
		[]domain.Method{domain.MethodRSS, domain.MethodHomepage})

	assert.Equal(t, []domain.Method{domain.MethodHomepage}, outcome.Attempted,
		"rss stays gated for 30 days after going missing on a daily source")
}

func TestRunProbesRSSAfterRetryWindowExpires(t *testing.T) {
	ctrl := gomock.NewController(t)

	rss := newStrategy(ctrl, domain.MethodRSS)
	rss.EXPECT().Discover(gomock.Any(), gomock.Any()).
		Return(discovery.DiscoverResult{
			Candidates: rawCandidates(domain.MethodRSS, "https://example.com/a"),
		}, nil)

	runner := discovery.NewStrategyRunner(
		[]discovery.Strategy{rss}, quietTelemetry(ctrl), nil, 0, logger.NewNoOp())

	source := testSource()
	source.PublishFrequency = "daily"
	source.RSSMissingSince = timePtr(time.Now().AddDate(0, 0, -40))

	outcome := runner.Run(context.Background(), source, "run-1", []domain.Method{domain.MethodRSS})

	assert.Equal(t, []domain.Method{domain.MethodRSS}, outcome.Attempted)
	require.True(t, outcome.StateDelta.RSSMissingSince.Valid, "success must clear the stale missing marker")
	assert.Nil(t, outcome.StateDelta.RSSMissingSince.Time)
}

func TestRunRSSHardFailureClassification(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMissing bool
	}{
		{"transient network error stamps last-failed only", discovery.NewNetworkError("https://example.com/feed", errors.New("dial refused")), false},
		{"server error is transient", discovery.NewHTTPError("https://example.com/feed", 503), false},
		{"missing feed marks rss missing", discovery.NewHTTPError("https://example.com/feed", 404), true},
		{"malformed feed marks rss missing", discovery.NewParseError("https://example.com/feed", errors.New("bad xml")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			rss := newStrategy(ctrl, domain.MethodRSS)
			rss.EXPECT().Discover(gomock.Any(), gomock.Any()).Return(discovery.DiscoverResult{}, tt.err)

			var captured discovery.FailureRecord
			telemetry := discoverymocks.NewMockTelemetry(ctrl)
			telemetry.EXPECT().RecordSiteFailure(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, rec discovery.FailureRecord) error {
					captured = rec
					return nil
				})

			runner := discovery.NewStrategyRunner(
				[]discovery.Strategy{rss}, telemetry, nil, 0, logger.NewNoOp())

			outcome := runner.Run(context.Background(), testSource(), "run-1", []domain.Method{domain.MethodRSS})

			assert.Equal(t, []domain.Method{domain.MethodRSS}, outcome.Attempted)
			assert.Empty(t, outcome.Candidates)

			if tt.wantMissing {
				require.True(t, outcome.StateDelta.RSSMissingSince.Valid)
				require.NotNil(t, outcome.StateDelta.RSSMissingSince.Time)
				assert.False(t, outcome.StateDelta.RSSLastFailedAt.Valid)
			} else {
				require.True(t, outcome.StateDelta.RSSLastFailedAt.Valid)
				require.NotNil(t, outcome.StateDelta.RSSLastFailedAt.Time)
				assert.False(t, outcome.StateDelta.RSSMissingSince.Valid)
			}

			assert.Equal(t, "src-1", captured.SourceID)
			assert.Equal(t, domain.MethodRSS, captured.Method)
			assert.NotEmpty(t, captured.Message)
			assert.GreaterOrEqual(t, captured.LatencyMs, int64(0))
		})
	}
}

func TestRunRSSSoftFailureCounter(t *testing.T) {
	tests := []struct {
		name        string
		summary     discovery.AttemptSummary
		priorCount  int
		wantCounter int
	}{
		{"content-caused empty result increments", discovery.AttemptSummary{FeedsAttempted: 2}, 1, 2},
		{"no feeds found increments", discovery.AttemptSummary{}, 0, 1},
		{"network-caused empty result resets", discovery.AttemptSummary{FeedsAttempted: 2, NetworkErrors: 2}, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			rss := newStrategy(ctrl, domain.MethodRSS)
			rss.EXPECT().Discover(gomock.Any(), gomock.Any()).
				Return(discovery.DiscoverResult{Summary: tt.summary}, nil)

			runner := discovery.NewStrategyRunner(
				[]discovery.Strategy{rss}, quietTelemetry(ctrl), nil, 0, logger.NewNoOp())

			source := testSource()
			source.RSSConsecutiveFailures = tt.priorCount

			outcome := runner.Run(context.Background(), source, "run-1", []domain.Method{domain.MethodRSS})

			require.True(t, outcome.StateDelta.RSSConsecutiveFailures.Valid)
			assert.Equal(t, tt.wantCounter, outcome.StateDelta.RSSConsecutiveFailures.Int)
			assert.False(t, outcome.StateDelta.RSSMissingSince.Valid,
				"a soft failure never marks the feed missing")
			assert.False(t, outcome.StateDelta.LastSuccessfulMethod.Valid)
		})
	}
}

func TestRunEarlyExitAfterProductiveFeed(t *testing.T) {
	ctrl := gomock.NewController(t)

	rss := newStrategy(ctrl, domain.MethodRSS)
	rss.EXPECT().Discover(gomock.Any(), gomock.Any()).
		Return(discovery.DiscoverResult{
			Candidates: rawCandidates(domain.MethodRSS, "https://example.com/a", "https://example.com/b"),
		}, nil)

	// No Discover expectation: reaching the homepage strategy fails the test.
	homepage := newStrategy(ctrl, domain.MethodHomepage)

	runner := discovery.NewStrategyRunner(
		[]discovery.Strategy{rss, homepage}, quietTelemetry(ctrl), nil, 4, logger.NewNoOp())

	outcome := runner.Run(context.Background(), testSource(), "run-1",
		[]domain.Method{domain.MethodRSS, domain.MethodHomepage})

	assert.Equal(t, []domain.Method{domain.MethodRSS}, outcome.Attempted,
		"two candidates meet the ceil(4/2) threshold and skip slower methods")
	assert.Len(t, outcome.Candidates, 2)
}

func TestRunStrategyFailureDoesNotAbortRemaining(t *testing.T) {
	ctrl := gomock.NewController(t)

	rss := newStrategy(ctrl, domain.MethodRSS)
	rss.EXPECT().Discover(gomock.Any(), gomock.Any()).
		Return(discovery.DiscoverResult{}, discovery.NewHTTPError("https://example.com/feed", 404))

	homepage := newStrategy(ctrl, domain.MethodHomepage)
	homepage.EXPECT().Discover(gomock.Any(), gomock.Any()).
		Return(discovery.DiscoverResult{
			Candidates: rawCandidates(domain.MethodHomepage, "https://example.com/x"),
		}, nil)

	runner := discovery.NewStrategyRunner(
		[]discovery.Strategy{rss, homepage}, quietTelemetry(ctrl), nil, 0, logger.NewNoOp())

	outcome := runner.Run(context.Background(), testSource(), "run-1",
		[]domain.Method{domain.MethodRSS, domain.MethodHomepage})

	assert.Equal(t, []domain.Method{domain.MethodRSS, domain.MethodHomepage}, outcome.Attempted)
	assert.Len(t, outcome.Candidates, 1)

	require.True(t, outcome.StateDelta.LastSuccessfulMethod.Valid)
	assert.Equal(t, "homepage", *outcome.StateDelta.LastSuccessfulMethod.Str)
	require.True(t, outcome.StateDelta.RSSMissingSince.Valid)
	assert.NotNil(t, outcome.StateDelta.RSSMissingSince.Time)
}

func TestRunSkipsUnregisteredMethods(t *testing.T) {
	ctrl := gomock.NewController(t)

	rss := newStrategy(ctrl, domain.MethodRSS)
	rss.EXPECT().Discover(gomock.Any(), gomock.Any()).Return(discovery.DiscoverResult{}, nil)

	runner := discovery.NewStrategyRunner(
		[]discovery.Strategy{rss}, quietTelemetry(ctrl), nil, 0, logger.NewNoOp())

	outcome := runner.Run(context.Background(), testSource(), "run-1",
		[]domain.Method{domain.MethodHomepage, domain.MethodRSS})

	assert.Equal(t, []domain.Method{domain.MethodRSS}, outcome.Attempted)
}

func TestRunToleratesTelemetryWriteFailures(t *testing.T) {
	ctrl := gomock.NewController(t)

	rss := newStrategy(ctrl, domain.MethodRSS)
	rss.EXPECT().Discover(gomock.Any(), gomock.Any()).
		Return(discovery.DiscoverResult{
			Candidates: rawCandidates(domain.MethodRSS, "https://example.com/a"),
		}, nil)

	telemetry := discoverymocks.NewMockTelemetry(ctrl)
	telemetry.EXPECT().RecordMethodResult(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("telemetry db down"))

	runner := discovery.NewStrategyRunner(
		[]discovery.Strategy{rss}, telemetry, nil, 0, logger.NewNoOp())

	outcome := runner.Run(context.Background(), testSource(), "run-1", []domain.Method{domain.MethodRSS})

	assert.Len(t, outcome.Candidates, 1, "telemetry failures must not cost us candidates")
}
