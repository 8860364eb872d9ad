// Package worker provides a bounded pool for running discovery across a
// batch of sources.
package worker

import (
	"errors"
	"time"
)

const (
	// DefaultWorkerCount is the default number of concurrent discovery runs.
	DefaultWorkerCount = 4

	// DefaultRunTimeout is the default timeout for a single source run.
	DefaultRunTimeout = 10 * time.Minute

	// DefaultDrainTimeout is the default timeout for graceful shutdown.
	DefaultDrainTimeout = 30 * time.Second

	// MinWorkerCount is the minimum allowed worker count.
	MinWorkerCount = 1

	// MaxWorkerCount is the maximum allowed worker count.
	MaxWorkerCount = 32
)

// Config holds configuration for the discovery pool.
type Config struct {
	// WorkerCount is the number of sources processed concurrently.
	WorkerCount int

	// RunTimeout bounds a single source's discovery run.
	RunTimeout time.Duration

	// DrainTimeout is the maximum time to wait for in-flight runs during shutdown.
	DrainTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		WorkerCount:  DefaultWorkerCount,
		RunTimeout:   DefaultRunTimeout,
		DrainTimeout: DefaultDrainTimeout,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.WorkerCount < MinWorkerCount {
		return errors.New("worker count must be at least 1")
	}
	if c.WorkerCount > MaxWorkerCount {
		return errors.New("worker count cannot exceed 32")
	}
	if c.RunTimeout <= 0 {
		return errors.New("run timeout must be positive")
	}
	if c.DrainTimeout <= 0 {
		return errors.New("drain timeout must be positive")
	}
	return nil
}
