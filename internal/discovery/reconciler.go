package discovery

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/godiscover/internal/dates"
	"github.com/jonesrussell/godiscover/internal/domain"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/urlnorm"
)

// ReconcileInput is one batch of raw candidates plus the context they
// are judged against. Existing holds normalized URLs already stored
// for the source and is extended in place as new links are written, so
// a caller processing several batches keeps deduplication exact.
type ReconcileInput struct {
	Source       *domain.Source
	RunID        string
	Candidates   []domain.RawCandidate
	Existing     map[string]struct{}
	AllowedHosts map[string]struct{}
}

// ReconcileResult reports the classification counts and the links that
// were actually written.
type ReconcileResult struct {
	Counts domain.RunCounts
	Stored []*domain.DiscoveredLink
}

// CandidateReconciler deduplicates, classifies, and stores raw
// candidates. Classification is strictly ordered: out-of-scope first,
// then duplicate, then expired, and only what remains is new.
type CandidateReconciler struct {
	links   LinkStore
	recency RecencyPredicate
	logger  logger.Interface
}

// NewCandidateReconciler creates a reconciler writing through the
// given link store.
func NewCandidateReconciler(links LinkStore, recency RecencyPredicate, log logger.Interface) *CandidateReconciler {
	return &CandidateReconciler{
		links:   links,
		recency: recency,
		logger:  log.WithComponent("reconciler"),
	}
}

type normalizedCandidate struct {
	raw        domain.RawCandidate
	normalized string
	normErr    error
}

// Reconcile processes one batch. Storage failures for individual
// candidates are logged and skipped; they never abort the batch.
func (r *CandidateReconciler) Reconcile(ctx context.Context, in ReconcileInput) ReconcileResult {
	log := r.logger.WithSource(in.Source.ID, in.Source.Name).With("run_id", in.RunID)

	result := ReconcileResult{}
	result.Counts.Found = len(in.Candidates)

	for _, cand := range r.dedupe(in) {
		if cand.normErr != nil {
			result.Counts.OutOfScope++
			log.Debug("Dropping candidate with unusable URL",
				"url", cand.raw.URL,
				"error", cand.normErr)
			continue
		}

		if !r.inScope(cand.normalized, in.AllowedHosts) {
			result.Counts.OutOfScope++
			log.Debug("Dropping out-of-scope candidate", "url", cand.normalized)
			continue
		}

		if _, exists := in.Existing[cand.normalized]; exists {
			result.Counts.Duplicate++
			continue
		}

		publishedAt := r.parsePublishDate(cand.raw.PublishedAt)
		if publishedAt != nil && !r.recency.IsRecent(*publishedAt) {
			result.Counts.Expired++
			log.Debug("Dropping expired candidate",
				"url", cand.normalized,
				"published_at", publishedAt.Format(time.RFC3339))
			continue
		}

		result.Counts.New++

		link := r.buildLink(in, cand, publishedAt)
		inserted, err := r.links.Upsert(ctx, link)
		if err != nil {
			log.Error("Failed to store discovered link",
				"url", cand.normalized,
				"error", err)
			continue
		}
		in.Existing[cand.normalized] = struct{}{}
		if inserted {
			result.Counts.Stored++
			result.Stored = append(result.Stored, link)
		}
	}

	return result
}

// dedupe normalizes every candidate and drops later occurrences of the
// same normalized URL. Candidates that cannot be normalized are kept
// so classification can count them out of scope.
func (r *CandidateReconciler) dedupe(in ReconcileInput) []normalizedCandidate {
	out := make([]normalizedCandidate, 0, len(in.Candidates))
	seen := make(map[string]struct{}, len(in.Candidates))

	for _, raw := range in.Candidates {
		normalized, err := urlnorm.ResolveAndNormalize(in.Source.URL, raw.URL)
		if err != nil {
			out = append(out, normalizedCandidate{raw: raw, normErr: err})
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalizedCandidate{raw: raw, normalized: normalized})
	}

	return out
}

func (r *CandidateReconciler) inScope(normalized string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	host, err := urlnorm.Host(normalized)
	if err != nil {
		return false
	}
	_, ok := allowed[host]
	return ok
}

// parsePublishDate returns nil for missing or unparseable dates, so
// undated candidates are never expired.
func (r *CandidateReconciler) parsePublishDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	parsed, err := dates.Parse(raw)
	if err != nil {
		return nil
	}
	return &parsed
}

func (r *CandidateReconciler) buildLink(in ReconcileInput, cand normalizedCandidate, publishedAt *time.Time) *domain.DiscoveredLink {
	meta := domain.JSONBMap{"run_id": in.RunID}
	for k, v := range cand.raw.Metadata {
		meta[k] = v
	}
	if cand.raw.Title != "" {
		meta["title"] = cand.raw.Title
	}
	if publishedAt == nil && cand.raw.PublishedAt != "" {
		meta["published_at_raw"] = cand.raw.PublishedAt
	}

	return &domain.DiscoveredLink{
		ID:           uuid.New().String(),
		SourceID:     in.Source.ID,
		SourceName:   in.Source.Name,
		URL:          cand.normalized,
		Method:       cand.raw.Method,
		PublishedAt:  publishedAt,
		Status:       domain.LinkStatusDiscovered,
		Metadata:     meta,
		DiscoveredAt: time.Now(),
	}
}
