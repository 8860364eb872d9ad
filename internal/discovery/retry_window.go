package discovery

import (
	"strings"

	"github.com/jonesrussell/godiscover/internal/domain"
)

// Retry windows in days, by publish frequency. Sources that publish
// rarely get a longer cool-down before RSS is probed again.
const (
	RetryWindowDaily   = 30
	RetryWindowWeekly  = 60
	RetryWindowDefault = 90
)

// DefaultRetryWindow maps a source's publish frequency to the number
// of days RSS attempts stay suppressed after the feed went missing.
// Unknown and monthly frequencies share the longest window.
func DefaultRetryWindow(publishFrequency string) int {
	return retryWindow(publishFrequency, RetryWindowDefault)
}

// RetryWindowWithFallback is DefaultRetryWindow with a configurable
// window for unknown publish frequencies. Non-positive days keeps the
// standard fallback.
func RetryWindowWithFallback(days int) RetryWindowFn {
	if days <= 0 {
		days = RetryWindowDefault
	}
	return func(publishFrequency string) int {
		return retryWindow(publishFrequency, days)
	}
}

func retryWindow(publishFrequency string, fallback int) int {
	switch strings.ToLower(strings.TrimSpace(publishFrequency)) {
	case domain.PublishFrequencyDaily:
		return RetryWindowDaily
	case domain.PublishFrequencyWeekly:
		return RetryWindowWeekly
	default:
		return fallback
	}
}
