// Package config provides configuration management for the application.
// It handles loading, validation, and access to configuration values from
// YAML files and environment variables, with environment taking precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jonesrussell/godiscover/internal/config/app"
	dbconfig "github.com/jonesrussell/godiscover/internal/config/database"
	"github.com/jonesrussell/godiscover/internal/config/discovery"
	"github.com/jonesrussell/godiscover/internal/config/elasticsearch"
	"github.com/jonesrussell/godiscover/internal/config/logging"
	redisconfig "github.com/jonesrussell/godiscover/internal/config/redis"
	"github.com/jonesrussell/godiscover/internal/config/server"
)

// Config represents the application configuration.
type Config struct {
	// App holds application-level configuration
	App *app.Config `yaml:"app"`
	// Logging holds logging configuration
	Logging *logging.Config `yaml:"logging"`
	// Database holds database configuration
	Database *dbconfig.Config `yaml:"database"`
	// Elasticsearch holds Elasticsearch configuration
	Elasticsearch *elasticsearch.Config `yaml:"elasticsearch"`
	// Redis holds Redis configuration
	Redis *redisconfig.Config `yaml:"redis"`
	// Discovery holds discovery orchestrator configuration
	Discovery *discovery.Config `yaml:"discovery"`
	// Server holds HTTP server configuration
	Server *server.Config `yaml:"server"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Discovery.Validate(); err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	return nil
}

// Load reads configuration from an optional YAML file, a .env file, and the
// environment. A missing config file is not an error; environment variables
// and defaults then carry the whole configuration.
func Load(cfgFile string) (*Config, error) {
	// Load .env first so its values are visible as environment variables
	// when the per-section loaders resolve precedence.
	_ = godotenv.Load()

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// Only an explicitly requested file is required to exist.
		if cfgFile != "" {
			return nil, fmt.Errorf("read config file %s: %w", cfgFile, err)
		}
	}

	cfg := &Config{
		App:           app.LoadFromViper(v),
		Logging:       logging.LoadFromViper(v),
		Database:      dbconfig.LoadFromViper(v),
		Elasticsearch: elasticsearch.LoadFromViper(v),
		Redis:         redisconfig.LoadFromViper(v),
		Discovery:     discovery.LoadFromViper(v),
		Server:        server.LoadFromViper(v),
	}

	if cfg.App.Environment == "development" {
		cfg.Logging.Development = true
		if cfg.Logging.Encoding == logging.DefaultEncoding {
			cfg.Logging.Encoding = "console"
		}
	}
	if cfg.App.Debug {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
