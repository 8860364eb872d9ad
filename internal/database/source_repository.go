package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/godiscover/internal/domain"
)

// sourceSelectColumns lists columns for SELECT queries on sources.
const sourceSelectColumns = `id, name, url, allowed_domains, enabled,
	last_successful_method, rss_missing_since, rss_last_failed_at,
	rss_consecutive_failures, no_effective_methods_consecutive,
	publish_frequency, paused, paused_reason, paused_at, created_at, updated_at`

// discoveryStateColumns lists only the per-source adaptive state columns.
const discoveryStateColumns = `last_successful_method, rss_missing_since,
	rss_last_failed_at, rss_consecutive_failures,
	no_effective_methods_consecutive, publish_frequency, paused, paused_reason,
	paused_at`

// ErrSourceNotFound is returned when no source matches the given ID or name.
var ErrSourceNotFound = errors.New("source not found")

// SourceRepository handles database operations for the source registry and
// its per-source discovery state.
type SourceRepository struct {
	db *sqlx.DB
}

// NewSourceRepository creates a new source repository.
func NewSourceRepository(db *sqlx.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// GetByID retrieves a source by its ID.
func (r *SourceRepository) GetByID(ctx context.Context, id string) (*domain.Source, error) {
	var source domain.Source
	query := `SELECT ` + sourceSelectColumns + ` FROM sources WHERE id = $1`

	if err := r.db.GetContext(ctx, &source, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, id)
		}
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	return &source, nil
}

// GetByName retrieves a source by its unique name.
func (r *SourceRepository) GetByName(ctx context.Context, name string) (*domain.Source, error) {
	var source domain.Source
	query := `SELECT ` + sourceSelectColumns + ` FROM sources WHERE name = $1`

	if err := r.db.GetContext(ctx, &source, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, name)
		}
		return nil, fmt.Errorf("failed to get source by name: %w", err)
	}

	return &source, nil
}

// List returns all registered sources ordered by name.
func (r *SourceRepository) List(ctx context.Context) ([]*domain.Source, error) {
	query := `SELECT ` + sourceSelectColumns + ` FROM sources ORDER BY name`

	var sources []*domain.Source
	if err := r.db.SelectContext(ctx, &sources, query); err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	if sources == nil {
		sources = []*domain.Source{}
	}

	return sources, nil
}

// ListActive returns enabled, unpaused sources ordered by name. These are the
// sources a discovery batch processes.
func (r *SourceRepository) ListActive(ctx context.Context) ([]*domain.Source, error) {
	query := `
		SELECT ` + sourceSelectColumns + `
		FROM sources
		WHERE enabled = TRUE AND paused = FALSE
		ORDER BY name
	`

	var sources []*domain.Source
	if err := r.db.SelectContext(ctx, &sources, query); err != nil {
		return nil, fmt.Errorf("failed to list active sources: %w", err)
	}

	if sources == nil {
		sources = []*domain.Source{}
	}

	return sources, nil
}

// GetState returns only the discovery state blob for a source.
func (r *SourceRepository) GetState(ctx context.Context, sourceID string) (*domain.DiscoveryState, error) {
	var state domain.DiscoveryState
	query := `SELECT ` + discoveryStateColumns + ` FROM sources WHERE id = $1`

	if err := r.db.GetContext(ctx, &state, query, sourceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, sourceID)
		}
		return nil, fmt.Errorf("failed to get discovery state: %w", err)
	}

	return &state, nil
}

// UpdateState applies a partial state patch. Only fields marked valid touch
// their columns; nil values inside valid fields write NULL. A zero patch is a
// no-op.
func (r *SourceRepository) UpdateState(ctx context.Context, sourceID string, patch domain.StatePatch) error {
	sets := []string{}
	args := []any{sourceID}
	argIndex := 2

	appendSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if patch.LastSuccessfulMethod.Valid {
		appendSet("last_successful_method", patch.LastSuccessfulMethod.Str)
	}
	if patch.RSSMissingSince.Valid {
		appendSet("rss_missing_since", patch.RSSMissingSince.Time)
	}
	if patch.RSSLastFailedAt.Valid {
		appendSet("rss_last_failed_at", patch.RSSLastFailedAt.Time)
	}
	if patch.RSSConsecutiveFailures.Valid {
		appendSet("rss_consecutive_failures", patch.RSSConsecutiveFailures.Int)
	}
	if patch.NoEffectiveMethodsConsecutive.Valid {
		appendSet("no_effective_methods_consecutive", patch.NoEffectiveMethodsConsecutive.Int)
	}

	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		`UPDATE sources SET %s, updated_at = NOW() WHERE id = $1`,
		strings.Join(sets, ", "),
	)

	result, err := r.db.ExecContext(ctx, query, args...)
	return execRequireRows(result, err, fmt.Errorf("%w: %s", ErrSourceNotFound, sourceID))
}

// Pause marks a source paused with a reason. Paused sources are skipped by
// batch discovery until an operator resumes them.
func (r *SourceRepository) Pause(ctx context.Context, sourceID, reason string) error {
	query := `
		UPDATE sources
		SET paused = TRUE, paused_reason = $2, paused_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, sourceID, reason)
	return execRequireRows(result, err, fmt.Errorf("%w: %s", ErrSourceNotFound, sourceID))
}

// Resume clears the pause flag and resets the failure streak so the circuit
// breaker starts from a clean slate.
func (r *SourceRepository) Resume(ctx context.Context, sourceID string) error {
	query := `
		UPDATE sources
		SET paused = FALSE, paused_reason = NULL, paused_at = NULL,
			no_effective_methods_consecutive = 0, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, sourceID)
	return execRequireRows(result, err, fmt.Errorf("%w: %s", ErrSourceNotFound, sourceID))
}

// Upsert inserts a source or refreshes its registration fields, keyed on the
// unique name. Discovery state columns are never touched here: a re-synced
// source keeps its adaptive history. Reports whether a new row was created
// and fills in the canonical ID.
func (r *SourceRepository) Upsert(ctx context.Context, source *domain.Source) (bool, error) {
	if source.ID == "" {
		source.ID = uuid.New().String()
	}

	query := `
		INSERT INTO sources (id, name, url, allowed_domains, enabled, publish_frequency)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO UPDATE SET
			url = EXCLUDED.url,
			allowed_domains = EXCLUDED.allowed_domains,
			enabled = EXCLUDED.enabled,
			publish_frequency = EXCLUDED.publish_frequency,
			updated_at = NOW()
		RETURNING id, (created_at = updated_at) AS inserted
	`

	var inserted bool
	err := r.db.QueryRowContext(
		ctx,
		query,
		source.ID,
		source.Name,
		source.URL,
		source.AllowedDomains,
		source.Enabled,
		source.PublishFrequency,
	).Scan(&source.ID, &inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert source: %w", err)
	}

	return inserted, nil
}
