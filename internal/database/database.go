// Package database opens the storage backend the food catalog lives in.
//
// Two drivers are supported:
//   - postgres: a pgx connection pool (pgxpool) with query tracing through
//     pgx tracelog and, when the agent is running, New Relic (nrpgx5).
//     The schema is managed by tern migrations embedded in the binary.
//   - sqlite: a pure Go SQLite database (modernc.org/sqlite) behind
//     database/sql. The schema is applied when the file is opened.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/deppfellow/foodreggie/internal/config"
	loggerConfig "github.com/deppfellow/foodreggie/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Database holds whichever connection the configured driver produced.
// Exactly one of Pool and SQLite is non-nil.
type Database struct {
	Driver string
	Pool   *pgxpool.Pool
	SQLite *sql.DB
	log    *zerolog.Logger
}

// DatabasePingTimeout is how long startup waits for the first ping.
const DatabasePingTimeout = 10 * time.Second

// New connects to the database selected by cfg.Database.Driver.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := newPostgresPool(cfg, logger, loggerService)
		if err != nil {
			return nil, err
		}
		db := &Database{Driver: config.DriverPostgres, Pool: pool, log: logger}
		if err := db.pingOnStartup(); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info().Msg("connected to the database")
		return db, nil

	case config.DriverSQLite:
		sqlDB, err := OpenSQLite(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("path", cfg.Database.Path).Msg("opened sqlite database")
		return &Database{Driver: config.DriverSQLite, SQLite: sqlDB, log: logger}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func (db *Database) pingOnStartup() error {
	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (db *Database) Ping(ctx context.Context) error {
	switch {
	case db.Pool != nil:
		return db.Pool.Ping(ctx)
	case db.SQLite != nil:
		return db.SQLite.PingContext(ctx)
	default:
		return fmt.Errorf("database is not open")
	}
}

// Close releases the underlying connections.
func (db *Database) Close() error {
	if db.log != nil {
		db.log.Info().Str("driver", db.Driver).Msg("closing database connection")
	}
	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.SQLite != nil {
		return db.SQLite.Close()
	}
	return nil
}
