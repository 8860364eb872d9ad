package articleindex_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/godiscover/internal/articleindex"
	"github.com/jonesrussell/godiscover/internal/logger"
)

// mockTransport implements http.RoundTripper for mocking Elasticsearch responses
type mockTransport struct {
	RoundTripFn func(req *http.Request) (*http.Response, error)
}

func (t *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.RoundTripFn(req)
}

func esResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     http.Header{"X-Elastic-Product": []string{"Elasticsearch"}},
	}
}

func newMockCounter(t *testing.T, fn func(req *http.Request) (*http.Response, error)) *articleindex.Counter {
	t.Helper()

	client, err := es.NewClient(es.Config{
		Transport: &mockTransport{RoundTripFn: fn},
	})
	require.NoError(t, err)

	return articleindex.NewCounter(client, "articles", logger.NewNoOp())
}

func TestCounter_CountBySource(t *testing.T) {
	var requestedPath string
	var requestBody []byte

	counter := newMockCounter(t, func(req *http.Request) (*http.Response, error) {
		requestedPath = req.URL.Path
		if req.Body != nil {
			requestBody, _ = io.ReadAll(req.Body)
		}
		return esResponse(http.StatusOK, `{"count": 12}`), nil
	})

	count, err := counter.CountBySource(context.Background(), "source-uuid-1")
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)

	assert.Equal(t, "/articles/_count", requestedPath)
	assert.Contains(t, string(requestBody), "source_id.keyword")
	assert.Contains(t, string(requestBody), "source-uuid-1")
}

func TestCounter_MissingIndexCountsAsZero(t *testing.T) {
	counter := newMockCounter(t, func(_ *http.Request) (*http.Response, error) {
		return esResponse(
			http.StatusNotFound,
			`{"error":{"type":"index_not_found_exception"}}`,
		), nil
	})

	count, err := counter.CountBySource(context.Background(), "source-uuid-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCounter_ServerError(t *testing.T) {
	counter := newMockCounter(t, func(_ *http.Request) (*http.Response, error) {
		return esResponse(
			http.StatusInternalServerError,
			`{"error":{"type":"search_phase_execution_exception"}}`,
		), nil
	})

	_, err := counter.CountBySource(context.Background(), "source-uuid-1")
	require.Error(t, err)
}

func TestNoOpCounter(t *testing.T) {
	count, err := articleindex.NoOpCounter{}.CountBySource(context.Background(), "source-uuid-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}
