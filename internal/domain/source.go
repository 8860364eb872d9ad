// Package domain provides domain models used across the application.
package domain

import (
	"time"

	"github.com/lib/pq"
)

// Publish frequency labels carried on the discovery state blob. Written by the
// source ingestion pipeline; read here to size the RSS retry window.
const (
	PublishFrequencyDaily   = "daily"
	PublishFrequencyWeekly  = "weekly"
	PublishFrequencyMonthly = "monthly"
)

// PauseReasonNoEffectiveMethods is the fixed reason recorded when the circuit
// breaker pauses a source after repeated unproductive runs.
const PauseReasonNoEffectiveMethods = "auto-paused: no effective discovery methods"

// PauseReasonManual is recorded when an operator pauses a source without
// giving a reason.
const PauseReasonManual = "paused by operator"

// Source represents a registered news source with its homepage, scope hints,
// and the per-source discovery state mutated after each run.
type Source struct {
	// Identity
	ID   string `db:"id"   json:"id"`
	Name string `db:"name" json:"name"`
	URL  string `db:"url"  json:"url"`

	// Scope
	AllowedDomains pq.StringArray `db:"allowed_domains" json:"allowed_domains"`

	// Lifecycle
	Enabled bool `db:"enabled" json:"enabled"`

	DiscoveryState

	// Timestamps
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DiscoveryState is the per-source adaptive state blob. Timestamps follow
// last-event-wins semantics and are cleared to NULL on success.
type DiscoveryState struct {
	LastSuccessfulMethod          *string    `db:"last_successful_method"           json:"last_successful_method,omitempty"`
	RSSMissingSince               *time.Time `db:"rss_missing_since"                json:"rss_missing_since,omitempty"`
	RSSLastFailedAt               *time.Time `db:"rss_last_failed_at"               json:"rss_last_failed_at,omitempty"`
	RSSConsecutiveFailures        int        `db:"rss_consecutive_failures"         json:"rss_consecutive_failures"`
	NoEffectiveMethodsConsecutive int        `db:"no_effective_methods_consecutive" json:"no_effective_methods_consecutive"`
	PublishFrequency              string     `db:"publish_frequency"                json:"publish_frequency"`
	Paused                        bool       `db:"paused"                           json:"paused"`
	PausedReason                  *string    `db:"paused_reason"                    json:"paused_reason,omitempty"`
	PausedAt                      *time.Time `db:"paused_at"                        json:"paused_at,omitempty"`
}

// CircuitOpen reports whether the failure streak has reached the threshold
// that stops automatic discovery for this source.
func (s *DiscoveryState) CircuitOpen(threshold int) bool {
	return s.NoEffectiveMethodsConsecutive >= threshold
}
