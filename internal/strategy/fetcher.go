// Package strategy implements the concrete discovery methods: feed
// polling, homepage link harvesting, and the URL classifier.
package strategy

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonesrussell/godiscover/internal/discovery"
)

const (
	// DefaultUserAgent identifies the crawler to upstream sites.
	DefaultUserAgent = "godiscover/1.0 (+https://github.com/jonesrussell/godiscover)"

	// DefaultRequestTimeout bounds a single fetch.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultRequestsPerSecond is the politeness ceiling shared by all
	// strategies using one fetcher.
	DefaultRequestsPerSecond = 2.0

	// maxBodyBytes caps how much of a response is read. News pages and
	// feeds beyond this size are truncated rather than rejected.
	maxBodyBytes = 10 << 20
)

// FetchResponse is a completed HTTP GET.
type FetchResponse struct {
	StatusCode int
	Body       string
}

// Fetcher is a rate-limited HTTP client shared by the discovery
// strategies. Transport failures come back as classified network
// errors; non-2xx statuses are returned in the response for the
// caller to judge.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewFetcher creates a fetcher. Non-positive arguments fall back to
// the package defaults.
func NewFetcher(timeout time.Duration, requestsPerSecond float64, userAgent string) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = DefaultRequestsPerSecond
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	burst := int(math.Ceil(requestsPerSecond))
	if burst < 1 {
		burst = 1
	}

	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		userAgent: userAgent,
	}
}

// Get performs a rate-limited GET. The error, when non-nil, is always
// a classified *discovery.StrategyError.
func (f *Fetcher) Get(ctx context.Context, url string) (*FetchResponse, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, discovery.NewNetworkError(url, fmt.Errorf("rate limiter: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, discovery.NewParseError(url, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, discovery.NewNetworkError(url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, discovery.NewNetworkError(url, fmt.Errorf("read body: %w", err))
	}

	return &FetchResponse{
		StatusCode: resp.StatusCode,
		Body:       string(raw),
	}, nil
}
