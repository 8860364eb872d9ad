// Package elasticsearch provides Elasticsearch configuration management.
package elasticsearch

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Default configuration values
const (
	DefaultAddresses    = "http://127.0.0.1:9200"
	DefaultArticleIndex = "articles"
)

// Config represents Elasticsearch configuration settings. The article index
// is read-only from this service's perspective: it is queried for per-source
// article counts, never written.
type Config struct {
	// Enabled turns the article-count collaborator on. When false the
	// service treats every source as having an unknown article history.
	Enabled bool `yaml:"enabled" env:"ELASTICSEARCH_ENABLED"`
	// Addresses is a list of Elasticsearch node addresses
	Addresses []string `yaml:"addresses" env:"ELASTICSEARCH_ADDRESSES"`
	// Username is the username for authentication
	Username string `yaml:"username" env:"ELASTICSEARCH_USERNAME"`
	// Password is the password for authentication
	Password string `yaml:"password" env:"ELASTICSEARCH_PASSWORD"`
	// APIKey is the base64 encoded API key for authentication
	APIKey string `yaml:"api_key" env:"ELASTICSEARCH_API_KEY"`
	// ArticleIndex is the index holding captured articles
	ArticleIndex string `yaml:"article_index" env:"ELASTICSEARCH_ARTICLE_INDEX"`
}

// LoadFromViper loads Elasticsearch configuration from Viper and environment
// variables. Environment variables take precedence over Viper configuration.
func LoadFromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Enabled:      v.GetBool("elasticsearch.enabled"),
		Addresses:    v.GetStringSlice("elasticsearch.addresses"),
		Username:     v.GetString("elasticsearch.username"),
		Password:     v.GetString("elasticsearch.password"),
		APIKey:       v.GetString("elasticsearch.api_key"),
		ArticleIndex: v.GetString("elasticsearch.article_index"),
	}

	if val := os.Getenv("ELASTICSEARCH_ENABLED"); val != "" {
		cfg.Enabled = val == "true" || val == "1"
	}
	// Support both ELASTICSEARCH_HOSTS and ELASTICSEARCH_ADDRESSES.
	if val := os.Getenv("ELASTICSEARCH_ADDRESSES"); val != "" {
		cfg.Addresses = ParseAddressesFromString(val)
	} else if val := os.Getenv("ELASTICSEARCH_HOSTS"); val != "" {
		cfg.Addresses = ParseAddressesFromString(val)
	}
	if val := os.Getenv("ELASTICSEARCH_USERNAME"); val != "" {
		cfg.Username = val
	}
	if val := os.Getenv("ELASTICSEARCH_PASSWORD"); val != "" {
		cfg.Password = val
	}
	if val := os.Getenv("ELASTICSEARCH_API_KEY"); val != "" {
		cfg.APIKey = val
	}
	if val := os.Getenv("ELASTICSEARCH_ARTICLE_INDEX"); val != "" {
		cfg.ArticleIndex = val
	}

	if len(cfg.Addresses) == 0 {
		cfg.Addresses = []string{DefaultAddresses}
	}
	if cfg.ArticleIndex == "" {
		cfg.ArticleIndex = DefaultArticleIndex
	}

	return cfg
}

// ParseAddressesFromString parses comma-separated addresses from a string.
func ParseAddressesFromString(addrStr string) []string {
	addresses := strings.Split(addrStr, ",")
	filtered := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}
	return filtered
}
