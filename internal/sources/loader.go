// Package sources loads source definitions from a seed file and syncs them
// into the registry.
package sources

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/godiscover/internal/domain"
)

var (
	// ErrNoSources indicates no sources were found in the seed file
	ErrNoSources = errors.New("no sources found in configuration")
	// ErrMissingRequiredField indicates a required field is missing
	ErrMissingRequiredField = errors.New("missing required field")
)

// Config represents a source definition loaded from the seed file.
type Config struct {
	Name             string   `mapstructure:"name"`
	URL              string   `mapstructure:"url"`
	AllowedDomains   []string `mapstructure:"allowed_domains"`
	PublishFrequency string   `mapstructure:"publish_frequency"`
	// Enabled defaults to true when absent from the file.
	Enabled *bool `mapstructure:"enabled"`
}

// IsEnabled resolves the enabled flag with its default.
func (c *Config) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// sourcesFile represents the structure of a sources YAML file.
type sourcesFile struct {
	Sources []map[string]any `yaml:"sources"`
}

// Loader handles loading and validating source definitions.
type Loader struct {
	configPath string
}

// NewLoader creates a new Loader instance.
func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath}
}

// LoadSources loads and validates all sources from the seed file.
func (l *Loader) LoadSources() ([]Config, error) {
	raw, err := l.loadRawSources()
	if err != nil {
		return nil, fmt.Errorf("failed to load raw sources: %w", err)
	}

	configs := make([]Config, 0, len(raw))
	for _, src := range raw {
		cfg, convertErr := l.convertToConfig(src)
		if convertErr != nil {
			continue
		}
		if validateErr := l.validateConfig(&cfg); validateErr != nil {
			continue
		}
		configs = append(configs, cfg)
	}

	if len(configs) == 0 {
		return nil, ErrNoSources
	}

	return configs, nil
}

// loadRawSources loads the raw source data from the seed file.
func (l *Loader) loadRawSources() ([]map[string]any, error) {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return file.Sources, nil
}

// convertToConfig converts a raw source map to a Config struct.
func (l *Loader) convertToConfig(src map[string]any) (Config, error) {
	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return Config{}, fmt.Errorf("failed to create decoder: %w", err)
	}

	if decodeErr := decoder.Decode(src); decodeErr != nil {
		return Config{}, fmt.Errorf("failed to decode source: %w", decodeErr)
	}

	return cfg, nil
}

// validateConfig validates a source definition.
func (l *Loader) validateConfig(cfg *Config) error {
	if cfg.Name == "" {
		return fmt.Errorf("%w: name", ErrMissingRequiredField)
	}
	if cfg.URL == "" {
		return fmt.Errorf("%w: url", ErrMissingRequiredField)
	}
	if err := l.validateURL(cfg.URL); err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if err := l.validatePublishFrequency(cfg); err != nil {
		return fmt.Errorf("invalid publish_frequency: %w", err)
	}
	return nil
}

// validateURL validates the URL format.
func (l *Loader) validateURL(urlStr string) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must be a valid HTTP(S) URL")
	}
	return nil
}

// validatePublishFrequency validates and normalizes the frequency label.
func (l *Loader) validatePublishFrequency(cfg *Config) error {
	cfg.PublishFrequency = strings.ToLower(strings.TrimSpace(cfg.PublishFrequency))
	switch cfg.PublishFrequency {
	case "", domain.PublishFrequencyDaily, domain.PublishFrequencyWeekly, domain.PublishFrequencyMonthly:
		return nil
	default:
		return fmt.Errorf("unknown frequency %q", cfg.PublishFrequency)
	}
}
