package postgres

import (
	"fmt"
	"time"

	"core-banking-ledger/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// poolConfig builds a pgxpool.Config from the application's DatabaseConfig,
// wiring the same knobs the teacher's postgres.Config exposed (max/idle
// conns, conn lifetime, idle time, health check period) off the shared
// config.DatabaseConfig instead of a package-local duplicate.
func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password, cfg.SSLMode,
	)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.MaxIdleConns)

	if d, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
		poolCfg.MaxConnLifetime = d
	}
	if d, err := time.ParseDuration(cfg.ConnMaxIdleTime); err == nil {
		poolCfg.MaxConnIdleTime = d
	}
	if d, err := time.ParseDuration(cfg.HealthCheckPeriod); err == nil {
		poolCfg.HealthCheckPeriod = d
	}

	return poolCfg, nil
}
