// Package logging provides logging configuration management.
package logging

import (
	"os"

	"github.com/spf13/viper"
)

// Default configuration values
const (
	DefaultLevel    = "info"
	DefaultEncoding = "json"
)

// Config holds logging-specific configuration settings.
type Config struct {
	// Level is the logging level (debug, info, warn, error)
	Level string `yaml:"level" env:"LOG_LEVEL"`
	// Encoding is the log encoding format (json, console)
	Encoding string `yaml:"encoding" env:"LOG_FORMAT"`
	// Development enables development mode (colors, readable timestamps)
	Development bool `yaml:"development"`
}

// LoadFromViper loads logging configuration from Viper and environment
// variables. Environment variables take precedence over Viper configuration.
func LoadFromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Level:       v.GetString("logging.level"),
		Encoding:    v.GetString("logging.encoding"),
		Development: v.GetBool("logging.development"),
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		cfg.Encoding = val
	}

	if cfg.Level == "" {
		cfg.Level = DefaultLevel
	}
	if cfg.Encoding == "" {
		cfg.Encoding = DefaultEncoding
	}

	return cfg
}
