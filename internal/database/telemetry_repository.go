package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/godiscover/internal/discovery"
	"github.com/jonesrussell/godiscover/internal/domain"
)

// MethodEffectiveness is one aggregate row of per-source, per-method history.
type MethodEffectiveness struct {
	SourceID      string     `db:"source_id"       json:"source_id"`
	Method        string     `db:"method"          json:"method"`
	Attempts      int64      `db:"attempts"        json:"attempts"`
	ArticlesFound int64      `db:"articles_found"  json:"articles_found"`
	LastUsedAt    time.Time  `db:"last_used_at"    json:"last_used_at"`
	LastSuccessAt *time.Time `db:"last_success_at" json:"last_success_at,omitempty"`
}

// SiteFailure is one recorded failed discovery attempt.
type SiteFailure struct {
	ID        string    `db:"id"         json:"id"`
	SourceID  string    `db:"source_id"  json:"source_id"`
	SiteURL   string    `db:"site_url"   json:"site_url"`
	Method    string    `db:"method"     json:"method"`
	Message   string    `db:"message"    json:"message"`
	LatencyMs int64     `db:"latency_ms" json:"latency_ms"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TelemetryRepository handles database operations for discovery telemetry:
// the method effectiveness aggregates consulted during method selection and
// the site failure log written after failed attempts.
type TelemetryRepository struct {
	db *sqlx.DB
}

// NewTelemetryRepository creates a new telemetry repository.
func NewTelemetryRepository(db *sqlx.DB) *TelemetryRepository {
	return &TelemetryRepository{db: db}
}

// HasHistoricalData reports whether any method has ever produced articles for
// the source. Failure rows do not count: a streak of failed runs must not
// look like history.
func (r *TelemetryRepository) HasHistoricalData(ctx context.Context, sourceID string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM method_effectiveness
			WHERE source_id = $1 AND articles_found > 0
		)
	`

	if err := r.db.GetContext(ctx, &exists, query, sourceID); err != nil {
		return false, fmt.Errorf("failed to check telemetry history: %w", err)
	}

	return exists, nil
}

// EffectiveMethods returns method labels that have produced articles for the
// source, most productive first.
func (r *TelemetryRepository) EffectiveMethods(ctx context.Context, sourceID string) ([]string, error) {
	query := `
		SELECT method FROM method_effectiveness
		WHERE source_id = $1 AND articles_found > 0
		ORDER BY articles_found DESC, last_success_at DESC NULLS LAST
	`

	var methods []string
	if err := r.db.SelectContext(ctx, &methods, query, sourceID); err != nil {
		return nil, fmt.Errorf("failed to list effective methods: %w", err)
	}

	return methods, nil
}

// RecordMethodResult folds one attempt into the per-method aggregate.
func (r *TelemetryRepository) RecordMethodResult(ctx context.Context, sourceID string, method domain.Method, articlesFound int) error {
	query := `
		INSERT INTO method_effectiveness (source_id, method, attempts, articles_found, last_used_at, last_success_at)
		VALUES ($1, $2, 1, $3, NOW(), CASE WHEN $3 > 0 THEN NOW() END)
		ON CONFLICT (source_id, method) DO UPDATE SET
			attempts = method_effectiveness.attempts + 1,
			articles_found = method_effectiveness.articles_found + EXCLUDED.articles_found,
			last_used_at = NOW(),
			last_success_at = CASE
				WHEN EXCLUDED.articles_found > 0 THEN NOW()
				ELSE method_effectiveness.last_success_at
			END
	`

	if _, err := r.db.ExecContext(ctx, query, sourceID, method, articlesFound); err != nil {
		return fmt.Errorf("failed to record method result: %w", err)
	}

	return nil
}

// RecordSiteFailure appends one failed attempt to the site failure log.
func (r *TelemetryRepository) RecordSiteFailure(ctx context.Context, record discovery.FailureRecord) error {
	query := `
		INSERT INTO site_failures (id, source_id, site_url, method, message, latency_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		uuid.New().String(),
		record.SourceID,
		record.SiteURL,
		record.Method,
		record.Message,
		record.LatencyMs,
	)
	if err != nil {
		return fmt.Errorf("failed to record site failure: %w", err)
	}

	return nil
}

// EffectivenessBySource returns the per-method aggregates for a source,
// including methods that have never succeeded.
func (r *TelemetryRepository) EffectivenessBySource(ctx context.Context, sourceID string) ([]*MethodEffectiveness, error) {
	query := `
		SELECT source_id, method, attempts, articles_found, last_used_at, last_success_at
		FROM method_effectiveness
		WHERE source_id = $1
		ORDER BY articles_found DESC, method
	`

	var rows []*MethodEffectiveness
	if err := r.db.SelectContext(ctx, &rows, query, sourceID); err != nil {
		return nil, fmt.Errorf("failed to list method effectiveness: %w", err)
	}

	if rows == nil {
		rows = []*MethodEffectiveness{}
	}

	return rows, nil
}

// RecentFailures returns the latest failure log entries for a source.
func (r *TelemetryRepository) RecentFailures(ctx context.Context, sourceID string, limit int) ([]*SiteFailure, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, source_id, site_url, method, message, latency_ms, created_at
		FROM site_failures
		WHERE source_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	var failures []*SiteFailure
	if err := r.db.SelectContext(ctx, &failures, query, sourceID, limit); err != nil {
		return nil, fmt.Errorf("failed to list site failures: %w", err)
	}

	if failures == nil {
		failures = []*SiteFailure{}
	}

	return failures, nil
}
