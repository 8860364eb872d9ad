package bootstrap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonesrussell/godiscover/internal/config"
	"github.com/jonesrussell/godiscover/internal/logger"
)

var (
	// errLoggerRequired is returned when CommandDeps.Logger is nil.
	errLoggerRequired = errors.New("logger is required")
	// errConfigRequired is returned when CommandDeps.Config is nil.
	errConfigRequired = errors.New("config is required")
)

// CommandDeps holds the dependencies every command starts from.
type CommandDeps struct {
	Logger logger.Interface
	Config *config.Config
}

// NewCommandDeps creates CommandDeps by loading config and creating the
// logger. An empty cfgFile falls back to the default search paths.
func NewCommandDeps(cfgFile string) (*CommandDeps, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := CreateLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	// Add service name to all log entries.
	log = log.With("service", "godiscover")

	deps := &CommandDeps{
		Logger: log,
		Config: cfg,
	}

	if validateErr := deps.Validate(); validateErr != nil {
		return nil, fmt.Errorf("validate deps: %w", validateErr)
	}

	return deps, nil
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config) (logger.Interface, error) {
	loggingCfg := cfg.Logging

	level := strings.ToLower(loggingCfg.Level)
	if level == "" {
		level = string(logger.DefaultLevel)
	}

	return logger.New(&logger.Config{
		Level:       logger.Level(level),
		Development: loggingCfg.Development,
		Encoding:    loggingCfg.Encoding,
	})
}

// Validate ensures all required dependencies are present.
func (d *CommandDeps) Validate() error {
	if d.Logger == nil {
		return errLoggerRequired
	}
	if d.Config == nil {
		return errConfigRequired
	}
	return nil
}
