package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/godiscover/internal/domain"
)

// discoveredLinkSelectColumns lists columns for SELECT queries on
// discovered_links.
const discoveredLinkSelectColumns = `id, source_id, source_name, url, method,
	published_at, status, metadata, discovered_at, created_at, updated_at`

// DiscoveredLinkRepository handles database operations for discovered links.
type DiscoveredLinkRepository struct {
	db *sqlx.DB
}

// NewDiscoveredLinkRepository creates a new discovered link repository.
func NewDiscoveredLinkRepository(db *sqlx.DB) *DiscoveredLinkRepository {
	return &DiscoveredLinkRepository{db: db}
}

// ExistingURLs returns the set of URLs already stored for a source. URLs are
// stored normalized, so the set can be matched directly against normalized
// candidates.
func (r *DiscoveredLinkRepository) ExistingURLs(ctx context.Context, sourceID string) (map[string]struct{}, error) {
	query := `SELECT url FROM discovered_links WHERE source_id = $1`

	var urls []string
	if err := r.db.SelectContext(ctx, &urls, query, sourceID); err != nil {
		return nil, fmt.Errorf("failed to load existing urls: %w", err)
	}

	existing := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		existing[u] = struct{}{}
	}

	return existing, nil
}

// Upsert stores a discovered link, ignoring conflicts on (source_id, url).
// Reports whether a new row was written; false means another run already
// stored the same URL.
func (r *DiscoveredLinkRepository) Upsert(ctx context.Context, link *domain.DiscoveredLink) (bool, error) {
	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	if link.DiscoveredAt.IsZero() {
		link.DiscoveredAt = time.Now()
	}
	if link.Status == "" {
		link.Status = domain.LinkStatusDiscovered
	}

	query := `
		INSERT INTO discovered_links (id, source_id, source_name, url, method,
		                              published_at, status, metadata, discovered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (source_id, url) DO NOTHING
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		link.ID,
		link.SourceID,
		link.SourceName,
		link.URL,
		link.Method,
		link.PublishedAt,
		link.Status,
		link.Metadata,
		link.DiscoveredAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert discovered link: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// ListBySource returns the most recently discovered links for a source.
func (r *DiscoveredLinkRepository) ListBySource(ctx context.Context, sourceID string, limit int) ([]*domain.DiscoveredLink, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + discoveredLinkSelectColumns + `
		FROM discovered_links
		WHERE source_id = $1
		ORDER BY discovered_at DESC
		LIMIT $2
	`

	var links []*domain.DiscoveredLink
	if err := r.db.SelectContext(ctx, &links, query, sourceID, limit); err != nil {
		return nil, fmt.Errorf("failed to list discovered links: %w", err)
	}

	if links == nil {
		links = []*domain.DiscoveredLink{}
	}

	return links, nil
}

// CountBySource returns how many links have been stored for a source.
func (r *DiscoveredLinkRepository) CountBySource(ctx context.Context, sourceID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM discovered_links WHERE source_id = $1`

	if err := r.db.GetContext(ctx, &count, query, sourceID); err != nil {
		return 0, fmt.Errorf("failed to count discovered links: %w", err)
	}

	return count, nil
}
