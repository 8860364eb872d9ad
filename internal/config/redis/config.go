// Package redis provides Redis configuration management.
package redis

import (
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values
const (
	DefaultAddr    = "localhost:6379"
	DefaultDB      = 0
	DefaultLockTTL = 5 * time.Minute
)

// Config represents Redis configuration settings. Redis backs the optional
// per-source distributed lock for multi-instance deployments.
type Config struct {
	// Enabled turns distributed locking on. Single-instance deployments can
	// leave it off; the worker pool serializes runs per source within one
	// process, including across overlapping batches.
	Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED"`
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
	// LockTTL bounds how long a crashed worker can hold a source lock.
	// Live runs renew the lock, so the TTL may be shorter than a run.
	LockTTL time.Duration `yaml:"lock_ttl" env:"REDIS_LOCK_TTL"`
}

// LoadFromViper loads Redis configuration from Viper and environment
// variables. Environment variables take precedence over Viper configuration.
func LoadFromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Enabled:  v.GetBool("redis.enabled"),
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
		LockTTL:  v.GetDuration("redis.lock_ttl"),
	}

	if val := os.Getenv("REDIS_ENABLED"); val != "" {
		cfg.Enabled = val == "true" || val == "1"
	}
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		cfg.Addr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		cfg.Password = val
	}
	if val := os.Getenv("REDIS_DB"); val != "" {
		if db, err := strconv.Atoi(val); err == nil {
			cfg.DB = db
		}
	}
	if val := os.Getenv("REDIS_LOCK_TTL"); val != "" {
		if ttl, err := time.ParseDuration(val); err == nil {
			cfg.LockTTL = ttl
		}
	}

	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = DefaultLockTTL
	}

	return cfg
}
