package articleindex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/jonesrussell/godiscover/internal/logger"
)

// Counter counts captured articles per source. Article documents carry a
// source_id field; the term filter targets its keyword subfield, matching
// how the dynamic mapping indexes string fields.
type Counter struct {
	client *es.Client
	index  string
	logger logger.Interface
}

// NewCounter creates a counter over the given article index.
func NewCounter(client *es.Client, index string, log logger.Interface) *Counter {
	return &Counter{
		client: client,
		index:  index,
		logger: log.WithComponent("article_index"),
	}
}

// CountBySource returns how many articles the index holds for a source.
// A missing index counts as zero: fresh deployments have no article index
// until the capture pipeline writes the first document.
func (c *Counter) CountBySource(ctx context.Context, sourceID string) (int64, error) {
	if c.client == nil {
		return 0, errors.New("elasticsearch client is not initialized")
	}

	query := map[string]any{
		"query": map[string]any{
			"term": map[string]any{
				"source_id.keyword": sourceID,
			},
		},
	}

	body, err := json.Marshal(query)
	if err != nil {
		return 0, fmt.Errorf("error marshaling count query: %w", err)
	}

	res, err := c.client.Count(
		c.client.Count.WithContext(ctx),
		c.client.Count.WithIndex(c.index),
		c.client.Count.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return 0, fmt.Errorf("error executing count: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		c.logger.Debug("Article index does not exist yet", "index", c.index)
		return 0, nil
	}
	if res.IsError() {
		return 0, fmt.Errorf("count error: %s", res.String())
	}

	var result map[string]any
	if decodeErr := json.NewDecoder(res.Body).Decode(&result); decodeErr != nil {
		return 0, fmt.Errorf("error decoding count response: %w", decodeErr)
	}

	count, ok := result["count"].(float64)
	if !ok {
		return 0, errors.New("invalid response format: count not found")
	}

	return int64(count), nil
}

// NoOpCounter is used when the article index is disabled. Every source
// reads as having zero captured articles, so only discovery telemetry
// shields sources from the empty-run penalty.
type NoOpCounter struct{}

// CountBySource always reports zero.
func (NoOpCounter) CountBySource(_ context.Context, _ string) (int64, error) {
	return 0, nil
}
