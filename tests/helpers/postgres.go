// Package helpers provides testing utilities for integration tests.
package helpers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jonesrussell/godiscover/internal/database"
)

const (
	// DefaultPostgresStartupTimeout is the default timeout for PostgreSQL to start.
	DefaultPostgresStartupTimeout = 60 * time.Second

	// Test database credentials. Containers are throwaway, so these are fixed.
	postgresTestUser     = "discover"
	postgresTestPassword = "discover"
	postgresTestDBName   = "discover_test"
)

// PostgresContainer manages a test PostgreSQL instance.
type PostgresContainer struct {
	Container testcontainers.Container
	Host      string
	Port      string
}

// StartPostgres starts a PostgreSQL container for testing.
// It returns a container instance that should be stopped with Stop().
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	pgContainer, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(postgresTestDBName),
		postgres.WithUsername(postgresTestUser),
		postgres.WithPassword(postgresTestPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(DefaultPostgresStartupTimeout),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start PostgreSQL container: %w", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	mappedPort, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	return &PostgresContainer{
		Container: pgContainer,
		Host:      host,
		Port:      mappedPort.Port(),
	}, nil
}

// Stop stops and removes the PostgreSQL container.
func (p *PostgresContainer) Stop(ctx context.Context) error {
	if p.Container == nil {
		return nil
	}
	return p.Container.Terminate(ctx)
}

// Config returns a database config pointing at the container.
func (p *PostgresContainer) Config() database.Config {
	return database.Config{
		Host:     p.Host,
		Port:     p.Port,
		User:     postgresTestUser,
		Password: postgresTestPassword,
		DBName:   postgresTestDBName,
		SSLMode:  "disable",
	}
}

// RunMigrations applies every SQL file under migrations/ in name order.
func RunMigrations(db *sqlx.DB) error {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		return fmt.Errorf("failed to locate migrations directory")
	}

	migrationsDir := filepath.Join(filepath.Dir(thisFile), "..", "..", "migrations")
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no migrations found in %s", migrationsDir)
	}

	for _, file := range files {
		contents, readErr := os.ReadFile(file)
		if readErr != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, readErr)
		}
		if _, execErr := db.Exec(string(contents)); execErr != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, execErr)
		}
	}

	return nil
}
