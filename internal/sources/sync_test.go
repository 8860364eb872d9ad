package sources_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jonesrussell/godiscover/internal/domain"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/sources"
)

// fakeStore records upserts and scripts their results by source name.
type fakeStore struct {
	upserts  []*domain.Source
	existing map[string]bool
	failing  map[string]bool
}

func (f *fakeStore) Upsert(_ context.Context, source *domain.Source) (bool, error) {
	if f.failing[source.Name] {
		return false, errors.New("connection refused")
	}
	f.upserts = append(f.upserts, source)
	if source.ID == "" {
		source.ID = "id-" + source.Name
	}
	return !f.existing[source.Name], nil
}

func TestSyncer_Sync(t *testing.T) {
	path := writeSeedFile(t, `
sources:
  - name: Example News
    url: https://example.com
    allowed_domains:
      - example.com
    publish_frequency: daily
  - name: Other Daily
    url: https://other.example
`)

	store := &fakeStore{existing: map[string]bool{"Other Daily": true}}
	syncer := sources.NewSyncer(path, store, logger.NewNoOp())

	result, err := syncer.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if result.Created != 1 || result.Updated != 1 || result.Failed != 0 {
		t.Errorf("expected 1 created / 1 updated / 0 failed, got %+v", result)
	}
	if len(store.upserts) != 2 {
		t.Fatalf("expected 2 upserts, got %d", len(store.upserts))
	}

	first := store.upserts[0]
	if first.Name != "Example News" {
		t.Errorf("expected Example News first, got %s", first.Name)
	}
	if len(first.AllowedDomains) != 1 || first.AllowedDomains[0] != "example.com" {
		t.Errorf("unexpected allowed domains: %v", first.AllowedDomains)
	}
	if !first.Enabled {
		t.Error("expected enabled to default to true")
	}
	if first.PublishFrequency != domain.PublishFrequencyDaily {
		t.Errorf("expected daily frequency, got %s", first.PublishFrequency)
	}
}

func TestSyncer_ReportsFailures(t *testing.T) {
	path := writeSeedFile(t, `
sources:
  - name: Example News
    url: https://example.com
  - name: Broken Source
    url: https://broken.example
`)

	store := &fakeStore{failing: map[string]bool{"Broken Source": true}}
	syncer := sources.NewSyncer(path, store, logger.NewNoOp())

	result, err := syncer.Sync(context.Background())
	if err == nil {
		t.Fatal("expected error when a source fails to sync")
	}

	if result.Created != 1 {
		t.Errorf("expected the healthy source to sync, got %+v", result)
	}
	if result.Failed != 1 {
		t.Errorf("expected 1 failure, got %+v", result)
	}
}

func TestSyncer_PropagatesSeedErrors(t *testing.T) {
	path := writeSeedFile(t, "sources: [unclosed")

	store := &fakeStore{}
	syncer := sources.NewSyncer(path, store, logger.NewNoOp())

	if _, err := syncer.Sync(context.Background()); err == nil {
		t.Fatal("expected error for malformed seed file")
	}
	if len(store.upserts) != 0 {
		t.Errorf("expected no upserts on seed error, got %d", len(store.upserts))
	}
}
