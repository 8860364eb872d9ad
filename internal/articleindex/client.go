// Package articleindex queries the shared article index for per-source
// counts. The index is written by the downstream capture pipeline; this
// service only reads it, and only to decide whether a source has ever
// produced articles.
package articleindex

import (
	"fmt"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/jonesrussell/godiscover/internal/config/elasticsearch"
	"github.com/jonesrussell/godiscover/internal/logger"
)

// NewClient creates an Elasticsearch client from config and verifies the
// connection with a ping.
func NewClient(cfg *elasticsearch.Config, log logger.Interface) (*es.Client, error) {
	if len(cfg.Addresses) > 0 {
		log.Debug("Connecting to Elasticsearch", "addresses", cfg.Addresses)
	}

	clientConfig := es.Config{
		Addresses: cfg.Addresses,
	}

	if cfg.APIKey != "" {
		clientConfig.APIKey = cfg.APIKey
	} else if cfg.Username != "" && cfg.Password != "" {
		clientConfig.Username = cfg.Username
		clientConfig.Password = cfg.Password
	}

	client, err := es.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	res, err := client.Ping()
	if err != nil {
		return nil, fmt.Errorf("failed to ping Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error pinging Elasticsearch: %s", res.String())
	}

	return client, nil
}
