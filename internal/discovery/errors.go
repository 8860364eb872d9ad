// Package discovery implements the adaptive discovery pipeline: method
// selection, strategy execution, candidate reconciliation, and the
// failure state machine that pauses sources which never produce articles.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// ErrCannotEnumerate is returned by strategies that can only judge URLs
// handed to them and cannot produce candidates on their own.
var ErrCannotEnumerate = errors.New("strategy cannot enumerate candidates")

// ErrorKind categorizes strategy failures for state-machine decisions.
type ErrorKind string

const (
	// ErrorKindNetwork covers connection, DNS, and timeout failures.
	ErrorKindNetwork ErrorKind = "network"
	// ErrorKindHTTP covers non-2xx responses from the upstream site.
	ErrorKindHTTP ErrorKind = "http"
	// ErrorKindParse covers malformed feeds and documents.
	ErrorKindParse ErrorKind = "parse"
)

// StrategyError is a classified failure from a discovery strategy.
// The kind and status code drive the transient/permanent split that
// decides whether an RSS failure sets rss_missing_since or only
// rss_last_failed_at.
type StrategyError struct {
	Kind       ErrorKind
	StatusCode int
	URL        string
	Cause      error
}

func (e *StrategyError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (HTTP %d) for %s: %v", e.Kind, e.StatusCode, e.URL, e.Cause)
	}
	return fmt.Sprintf("%s error for %s: %v", e.Kind, e.URL, e.Cause)
}

func (e *StrategyError) Unwrap() error {
	return e.Cause
}

// Transient reports whether the failure is likely to clear on its own.
// Network failures, rate limiting, and server errors are transient;
// parse failures and client errors like 404 and 410 are permanent.
func (e *StrategyError) Transient() bool {
	switch e.Kind {
	case ErrorKindNetwork:
		return true
	case ErrorKindHTTP:
		return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}

// NewNetworkError classifies a transport-level failure.
func NewNetworkError(url string, cause error) *StrategyError {
	return &StrategyError{Kind: ErrorKindNetwork, URL: url, Cause: cause}
}

// NewHTTPError classifies a non-2xx response.
func NewHTTPError(url string, statusCode int) *StrategyError {
	return &StrategyError{
		Kind:       ErrorKindHTTP,
		StatusCode: statusCode,
		URL:        url,
		Cause:      fmt.Errorf("unexpected status %d", statusCode),
	}
}

// NewParseError classifies a malformed document or feed.
func NewParseError(url string, cause error) *StrategyError {
	return &StrategyError{Kind: ErrorKindParse, URL: url, Cause: cause}
}

// IsTransient reports whether err represents a failure that is likely
// temporary. Classified strategy errors answer for themselves; raw
// errors are inspected for the usual network failure shapes.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var stratErr *StrategyError
	if errors.As(err, &stratErr) {
		return stratErr.Transient()
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var opErr *net.OpError
	return errors.As(err, &opErr)
}
