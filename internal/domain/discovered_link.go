package domain

import (
	"time"
)

// DiscoveredLink status constants. Links are created as "discovered" and
// advanced by downstream pipeline stages, never by this service.
const (
	LinkStatusDiscovered = "discovered"
)

// DiscoveredLink is a persisted article candidate that survived
// reconciliation. URL is absolute and normalized; (source_id, url) is unique.
type DiscoveredLink struct {
	// Identity
	ID         string `db:"id"          json:"id"`
	SourceID   string `db:"source_id"   json:"source_id"`
	SourceName string `db:"source_name" json:"source_name"`
	URL        string `db:"url"         json:"url"`

	// Discovery
	Method      Method     `db:"method"       json:"method"`
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`
	Status      string     `db:"status"       json:"status"`
	Metadata    JSONBMap   `db:"metadata"     json:"metadata,omitempty"`

	// Timestamps
	DiscoveredAt time.Time `db:"discovered_at" json:"discovered_at"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"    json:"updated_at"`
}
