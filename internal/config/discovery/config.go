// Package discovery provides configuration for the discovery orchestrator
// and its strategies.
package discovery

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values
const (
	DefaultArticleQuota      = 25
	DefaultRecencyWindowDays = 30
	DefaultRetryWindowDays   = 90
	DefaultWorkerCount       = 4
	DefaultSchedule          = "0 */6 * * *"
	DefaultSourcesFile       = "sources.yml"
	DefaultUserAgent         = "godiscover/1.0 (+https://github.com/jonesrussell/godiscover)"
	DefaultRequestTimeout    = 30 * time.Second
	DefaultRequestsPerSec    = 2.0
	DefaultMaxHomepageLinks  = 200
)

// Config represents discovery configuration settings.
type Config struct {
	// ArticleQuota is the per-source per-run article target. A primary
	// strategy yielding at least half of it skips the remaining strategies.
	ArticleQuota int `yaml:"article_quota" env:"DISCOVERY_ARTICLE_QUOTA"`
	// RecencyWindowDays bounds how old a dated candidate may be before it is
	// classified expired.
	RecencyWindowDays int `yaml:"recency_window_days" env:"DISCOVERY_RECENCY_WINDOW_DAYS"`
	// RetryWindowDays is the fallback RSS retry window for sources whose
	// publish frequency is unknown.
	RetryWindowDays int `yaml:"retry_window_days" env:"DISCOVERY_RETRY_WINDOW_DAYS"`
	// WorkerCount is the batch worker pool size.
	WorkerCount int `yaml:"worker_count" env:"DISCOVERY_WORKER_COUNT"`
	// Schedule is the cron spec for recurring batch runs.
	Schedule string `yaml:"schedule" env:"DISCOVERY_SCHEDULE"`
	// SourcesFile is the YAML seed file synced into the source registry.
	SourcesFile string `yaml:"sources_file" env:"DISCOVERY_SOURCES_FILE"`
	// UserAgent identifies strategy HTTP requests.
	UserAgent string `yaml:"user_agent" env:"DISCOVERY_USER_AGENT"`
	// RequestTimeout bounds each strategy HTTP request.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"DISCOVERY_REQUEST_TIMEOUT"`
	// RequestsPerSecond rate-limits strategy fetches.
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"DISCOVERY_REQUESTS_PER_SECOND"`
	// MaxHomepageLinks caps how many links the homepage strategy collects.
	MaxHomepageLinks int `yaml:"max_homepage_links" env:"DISCOVERY_MAX_HOMEPAGE_LINKS"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.ArticleQuota <= 0 {
		return errors.New("article quota must be positive")
	}
	if c.RecencyWindowDays <= 0 {
		return errors.New("recency window must be positive")
	}
	if c.WorkerCount <= 0 {
		return errors.New("worker count must be positive")
	}
	return nil
}

// LoadFromViper loads discovery configuration from Viper and environment
// variables. Environment variables take precedence over Viper configuration.
func LoadFromViper(v *viper.Viper) *Config {
	cfg := &Config{
		ArticleQuota:      v.GetInt("discovery.article_quota"),
		RecencyWindowDays: v.GetInt("discovery.recency_window_days"),
		RetryWindowDays:   v.GetInt("discovery.retry_window_days"),
		WorkerCount:       v.GetInt("discovery.worker_count"),
		Schedule:          v.GetString("discovery.schedule"),
		SourcesFile:       v.GetString("discovery.sources_file"),
		UserAgent:         v.GetString("discovery.user_agent"),
		RequestTimeout:    v.GetDuration("discovery.request_timeout"),
		RequestsPerSecond: v.GetFloat64("discovery.requests_per_second"),
		MaxHomepageLinks:  v.GetInt("discovery.max_homepage_links"),
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if val := envInt("DISCOVERY_ARTICLE_QUOTA"); val != nil {
		cfg.ArticleQuota = *val
	}
	if val := envInt("DISCOVERY_RECENCY_WINDOW_DAYS"); val != nil {
		cfg.RecencyWindowDays = *val
	}
	if val := envInt("DISCOVERY_RETRY_WINDOW_DAYS"); val != nil {
		cfg.RetryWindowDays = *val
	}
	if val := envInt("DISCOVERY_WORKER_COUNT"); val != nil {
		cfg.WorkerCount = *val
	}
	if val := os.Getenv("DISCOVERY_SCHEDULE"); val != "" {
		cfg.Schedule = val
	}
	if val := os.Getenv("DISCOVERY_SOURCES_FILE"); val != "" {
		cfg.SourcesFile = val
	}
	if val := os.Getenv("DISCOVERY_USER_AGENT"); val != "" {
		cfg.UserAgent = val
	}
	if val := os.Getenv("DISCOVERY_REQUEST_TIMEOUT"); val != "" {
		if timeout, err := time.ParseDuration(val); err == nil {
			cfg.RequestTimeout = timeout
		}
	}
	if val := os.Getenv("DISCOVERY_REQUESTS_PER_SECOND"); val != "" {
		if rps, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.RequestsPerSecond = rps
		}
	}
	if val := envInt("DISCOVERY_MAX_HOMEPAGE_LINKS"); val != nil {
		cfg.MaxHomepageLinks = *val
	}
}

func applyDefaults(cfg *Config) {
	if cfg.ArticleQuota <= 0 {
		cfg.ArticleQuota = DefaultArticleQuota
	}
	if cfg.RecencyWindowDays <= 0 {
		cfg.RecencyWindowDays = DefaultRecencyWindowDays
	}
	if cfg.RetryWindowDays <= 0 {
		cfg.RetryWindowDays = DefaultRetryWindowDays
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.SourcesFile == "" {
		cfg.SourcesFile = DefaultSourcesFile
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSec
	}
	if cfg.MaxHomepageLinks <= 0 {
		cfg.MaxHomepageLinks = DefaultMaxHomepageLinks
	}
}

func envInt(key string) *int {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return nil
	}
	return &n
}
