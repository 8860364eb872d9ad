package domain

// RawCandidate is a link produced by a discovery strategy during a single
// run. It lives only for the duration of that run; the reconciler decides
// whether it becomes a DiscoveredLink.
type RawCandidate struct {
	// URL as reported by the strategy. May be relative to the source
	// homepage; the reconciler resolves and normalizes it.
	URL string `json:"url"`

	// Title as reported by the strategy, if any.
	Title string `json:"title,omitempty"`

	// PublishedAt is the raw upstream date string. Upstream formats are
	// heterogeneous; parsing is deferred to the recency check.
	PublishedAt string `json:"published_at,omitempty"`

	// Method is the strategy that produced the candidate.
	Method Method `json:"method"`

	// Metadata carries strategy-specific extras (feed URL, link text, ...).
	Metadata map[string]any `json:"metadata,omitempty"`
}
