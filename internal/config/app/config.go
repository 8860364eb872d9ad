// Package app provides application-level configuration.
package app

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultName        = "godiscover"
	DefaultVersion     = "1.0.0"
	DefaultEnvironment = "production"
)

// Config represents application-specific configuration settings.
type Config struct {
	// Name is the name of the application
	Name string `yaml:"name"`
	// Version is the version of the application
	Version string `yaml:"version"`
	// Environment is the application environment (development, staging, production)
	Environment string `yaml:"environment"`
	// Debug indicates whether debug mode is enabled
	Debug bool `yaml:"debug"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return errors.New("environment must be specified")
	}

	switch c.Environment {
	case "development", "staging", "production":
		// Valid environment
	default:
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	if c.Name == "" {
		return errors.New("application name must be specified")
	}

	return nil
}

// LoadFromViper loads application configuration from Viper and environment
// variables. Environment variables take precedence over Viper configuration.
func LoadFromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Name:        v.GetString("app.name"),
		Version:     v.GetString("app.version"),
		Environment: v.GetString("app.environment"),
		Debug:       v.GetBool("app.debug"),
	}

	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}

	return cfg
}
