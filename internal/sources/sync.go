package sources

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/jonesrussell/godiscover/internal/domain"
	"github.com/jonesrussell/godiscover/internal/logger"
)

// SourceStore is the registry operation sync needs.
type SourceStore interface {
	Upsert(ctx context.Context, source *domain.Source) (bool, error)
}

// SyncResult summarizes one sync pass.
type SyncResult struct {
	Created int
	Updated int
	Failed  int
}

// Syncer pushes seed-file definitions into the source registry.
type Syncer struct {
	loader *Loader
	store  SourceStore
	logger logger.Interface
}

// NewSyncer creates a Syncer reading from the given seed file.
func NewSyncer(configPath string, store SourceStore, log logger.Interface) *Syncer {
	return &Syncer{
		loader: NewLoader(configPath),
		store:  store,
		logger: log.WithComponent("source_sync"),
	}
}

// Sync upserts every valid seed definition. Existing sources are matched by
// name and updated in place; their discovery state is untouched. Per-source
// storage errors do not stop the pass, but a pass with failures reports an
// error so operators see a nonzero exit.
func (s *Syncer) Sync(ctx context.Context) (SyncResult, error) {
	configs, err := s.loader.LoadSources()
	if err != nil {
		return SyncResult{}, err
	}

	var result SyncResult
	for i := range configs {
		cfg := &configs[i]

		source := &domain.Source{
			Name:           cfg.Name,
			URL:            cfg.URL,
			AllowedDomains: pq.StringArray(cfg.AllowedDomains),
			Enabled:        cfg.IsEnabled(),
		}
		source.PublishFrequency = cfg.PublishFrequency

		inserted, upsertErr := s.store.Upsert(ctx, source)
		if upsertErr != nil {
			result.Failed++
			s.logger.Error("Failed to sync source",
				"source_name", cfg.Name,
				"error", upsertErr,
			)
			continue
		}

		if inserted {
			result.Created++
		} else {
			result.Updated++
		}
		s.logger.Debug("Synced source",
			"source_name", cfg.Name,
			"source_id", source.ID,
			"created", inserted,
		)
	}

	s.logger.Info("Source sync complete",
		"created", result.Created,
		"updated", result.Updated,
		"failed", result.Failed,
	)

	if result.Failed > 0 {
		return result, fmt.Errorf("%d of %d sources failed to sync", result.Failed, len(configs))
	}

	return result, nil
}
