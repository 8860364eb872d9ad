package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/godiscover/internal/api"
	"github.com/jonesrussell/godiscover/internal/database"
	"github.com/jonesrussell/godiscover/internal/domain"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/metrics"
	"github.com/jonesrussell/godiscover/internal/worker"
)

// mockSourceStore serves sources from a fixed slice and records mutations.
type mockSourceStore struct {
	sources []*domain.Source
	paused  map[string]string
	resumed []string
}

func (m *mockSourceStore) List(context.Context) ([]*domain.Source, error) {
	return m.sources, nil
}

func (m *mockSourceStore) ListActive(context.Context) ([]*domain.Source, error) {
	var out []*domain.Source
	for _, s := range m.sources {
		if s.Enabled && !s.Paused {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSourceStore) GetByID(_ context.Context, id string) (*domain.Source, error) {
	for _, s := range m.sources {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", database.ErrSourceNotFound, id)
}

func (m *mockSourceStore) Pause(_ context.Context, sourceID, reason string) error {
	if m.paused == nil {
		m.paused = make(map[string]string)
	}
	m.paused[sourceID] = reason
	return nil
}

func (m *mockSourceStore) Resume(_ context.Context, sourceID string) error {
	m.resumed = append(m.resumed, sourceID)
	return nil
}

type mockTelemetryStore struct {
	effectiveness []*database.MethodEffectiveness
	failures      []*database.SiteFailure
}

func (m *mockTelemetryStore) EffectivenessBySource(context.Context, string) ([]*database.MethodEffectiveness, error) {
	return m.effectiveness, nil
}

func (m *mockTelemetryStore) RecentFailures(context.Context, string, int) ([]*database.SiteFailure, error) {
	return m.failures, nil
}

type mockLinkStore struct {
	links []*domain.DiscoveredLink
}

func (m *mockLinkStore) ListBySource(_ context.Context, _ string, limit int) ([]*domain.DiscoveredLink, error) {
	if limit < len(m.links) {
		return m.links[:limit], nil
	}
	return m.links, nil
}

func (m *mockLinkStore) CountBySource(context.Context, string) (int64, error) {
	return int64(len(m.links)), nil
}

// mockRunner records batches and signals each run on the ran channel.
type mockRunner struct {
	mu      sync.Mutex
	batches [][]*domain.Source
	ran     chan struct{}
}

func (m *mockRunner) RunBatch(_ context.Context, sources []*domain.Source) (worker.BatchResult, error) {
	m.mu.Lock()
	m.batches = append(m.batches, sources)
	m.mu.Unlock()

	if m.ran != nil {
		select {
		case m.ran <- struct{}{}:
		default:
		}
	}
	return worker.BatchResult{Processed: len(sources)}, nil
}

func testSource(id, name string) *domain.Source {
	return &domain.Source{
		ID:      id,
		Name:    name,
		URL:     "https://" + id + ".example.com",
		Enabled: true,
	}
}

func newHandlerParams(store api.SourceStore, runner api.BatchRunner) api.RouterParams {
	return api.RouterParams{
		Logger:    logger.NewNoOp(),
		Sources:   store,
		Telemetry: &mockTelemetryStore{},
		Links:     &mockLinkStore{},
		Metrics:   metrics.NewMetrics(),
		Runner:    runner,
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestSourcesHandler_ListSources(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	store := &mockSourceStore{sources: []*domain.Source{
		testSource("source-1", "Example News"),
		testSource("source-2", "Other News"),
	}}
	store.sources[1].Paused = true

	handler := api.NewSourcesHandler(newHandlerParams(store, nil))
	router.GET("/api/v1/sources", handler.ListSources)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sources", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if total, _ := body["total"].(float64); total != 2 {
		t.Errorf("total = %v, want 2", body["total"])
	}

	// active=true hides the paused source.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/sources?active=true", http.NoBody)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	body = decodeBody(t, w)
	if total, _ := body["total"].(float64); total != 1 {
		t.Errorf("active total = %v, want 1", body["total"])
	}
}

func TestSourcesHandler_GetSource_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := api.NewSourcesHandler(newHandlerParams(&mockSourceStore{}, nil))
	router.GET("/api/v1/sources/:id", handler.GetSource)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sources/missing", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSourcesHandler_GetSourceState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	source := testSource("source-1", "Example News")
	source.RSSConsecutiveFailures = 2
	store := &mockSourceStore{sources: []*domain.Source{source}}

	params := newHandlerParams(store, nil)
	params.Telemetry = &mockTelemetryStore{
		effectiveness: []*database.MethodEffectiveness{
			{SourceID: "source-1", Method: "rss", Attempts: 4, ArticlesFound: 12},
		},
	}

	handler := api.NewSourcesHandler(params)
	router.GET("/api/v1/sources/:id/state", handler.GetSourceState)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sources/source-1/state", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	state, _ := body["state"].(map[string]any)
	if state == nil {
		t.Fatalf("missing state in response: %v", body)
	}
	if failures, _ := state["rss_consecutive_failures"].(float64); failures != 2 {
		t.Errorf("rss_consecutive_failures = %v, want 2", state["rss_consecutive_failures"])
	}
	methods, _ := body["method_effectiveness"].([]any)
	if len(methods) != 1 {
		t.Errorf("method_effectiveness length = %d, want 1", len(methods))
	}
}

func TestSourcesHandler_PauseSource(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	store := &mockSourceStore{sources: []*domain.Source{testSource("source-1", "Example News")}}
	handler := api.NewSourcesHandler(newHandlerParams(store, nil))
	router.POST("/api/v1/sources/:id/pause", handler.PauseSource)

	body := `{"reason":"site rebuild in progress"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sources/source-1/pause", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := store.paused["source-1"]; got != "site rebuild in progress" {
		t.Errorf("recorded reason = %q, want the request reason", got)
	}
}

func TestSourcesHandler_PauseSource_DefaultReason(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	store := &mockSourceStore{sources: []*domain.Source{testSource("source-1", "Example News")}}
	handler := api.NewSourcesHandler(newHandlerParams(store, nil))
	router.POST("/api/v1/sources/:id/pause", handler.PauseSource)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sources/source-1/pause", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := store.paused["source-1"]; got != domain.PauseReasonManual {
		t.Errorf("recorded reason = %q, want %q", got, domain.PauseReasonManual)
	}
}

func TestSourcesHandler_ResumeSource(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	source := testSource("source-1", "Example News")
	source.Paused = true
	store := &mockSourceStore{sources: []*domain.Source{source}}

	handler := api.NewSourcesHandler(newHandlerParams(store, nil))
	router.POST("/api/v1/sources/:id/resume", handler.ResumeSource)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sources/source-1/resume", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(store.resumed) != 1 || store.resumed[0] != "source-1" {
		t.Errorf("resumed = %v, want [source-1]", store.resumed)
	}
}

func TestSourcesHandler_DiscoverSource(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	store := &mockSourceStore{sources: []*domain.Source{testSource("source-1", "Example News")}}
	runner := &mockRunner{ran: make(chan struct{}, 1)}

	handler := api.NewSourcesHandler(newHandlerParams(store, runner))
	router.POST("/api/v1/sources/:id/discover", handler.DiscoverSource)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sources/source-1/discover", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", w.Code, w.Body.String())
	}

	// The run happens in the background after the response.
	select {
	case <-runner.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("runner was not invoked")
	}

	runner.mu.Lock()
	defer runner.mu.Unlock()
	if len(runner.batches) != 1 || len(runner.batches[0]) != 1 {
		t.Fatalf("batches = %v, want one single-source batch", runner.batches)
	}
	if runner.batches[0][0].ID != "source-1" {
		t.Errorf("ran source %q, want source-1", runner.batches[0][0].ID)
	}
}

func TestSourcesHandler_DiscoverSource_PausedConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	source := testSource("source-1", "Example News")
	source.Paused = true
	store := &mockSourceStore{sources: []*domain.Source{source}}
	runner := &mockRunner{}

	handler := api.NewSourcesHandler(newHandlerParams(store, runner))
	router.POST("/api/v1/sources/:id/discover", handler.DiscoverSource)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sources/source-1/discover", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}

	runner.mu.Lock()
	defer runner.mu.Unlock()
	if len(runner.batches) != 0 {
		t.Error("runner must not run for a paused source")
	}
}

func TestSourcesHandler_DiscoverSource_NoRunner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	store := &mockSourceStore{sources: []*domain.Source{testSource("source-1", "Example News")}}
	handler := api.NewSourcesHandler(newHandlerParams(store, nil))
	router.POST("/api/v1/sources/:id/discover", handler.DiscoverSource)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sources/source-1/discover", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRouter_HealthAndSummary(t *testing.T) {
	m := metrics.NewMetrics()
	m.RecordRun(&domain.RunResult{Outcome: domain.OutcomeNewArticles, Counts: domain.RunCounts{New: 5}})

	params := newHandlerParams(&mockSourceStore{}, nil)
	params.Metrics = m

	router := api.SetupRouter(params)

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/runs/summary", http.NoBody)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("summary status = %d, want 200", w.Code)
	}

	body := decodeBody(t, w)
	summary, _ := body["summary"].(map[string]any)
	if summary == nil {
		t.Fatalf("missing summary in response: %v", body)
	}
	if runs, _ := summary["runs_completed"].(float64); runs != 1 {
		t.Errorf("runs_completed = %v, want 1", summary["runs_completed"])
	}
	if links, _ := summary["new_links"].(float64); links != 5 {
		t.Errorf("new_links = %v, want 5", summary["new_links"])
	}
}
