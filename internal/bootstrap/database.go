package bootstrap

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/godiscover/internal/config"
	dbconfig "github.com/jonesrussell/godiscover/internal/config/database"
	"github.com/jonesrussell/godiscover/internal/database"
)

// DatabaseComponents holds the database connection and all repositories.
type DatabaseComponents struct {
	DB        *sqlx.DB
	Sources   *database.SourceRepository
	Links     *database.DiscoveredLinkRepository
	Telemetry *database.TelemetryRepository
}

// SetupDatabase connects to PostgreSQL and creates all repositories.
func SetupDatabase(cfg *config.Config) (*DatabaseComponents, error) {
	db, err := database.NewPostgresConnection(databaseConfig(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DatabaseComponents{
		DB:        db,
		Sources:   database.NewSourceRepository(db),
		Links:     database.NewDiscoveredLinkRepository(db),
		Telemetry: database.NewTelemetryRepository(db),
	}, nil
}

// databaseConfig converts the config section into the connection config.
func databaseConfig(cfg *dbconfig.Config) database.Config {
	return database.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		DBName:   cfg.DBName,
		SSLMode:  cfg.SSLMode,
	}
}
