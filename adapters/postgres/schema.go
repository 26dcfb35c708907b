package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"factorgate/internal/errors"
)

// schema holds the tables the monitor reads. Writes happen upstream in the
// ingestion and research pipelines; the monitor only needs them to exist.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS factors (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'research',
		activated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS factor_performance (
		factor_id TEXT NOT NULL REFERENCES factors(id),
		date DATE NOT NULL,
		ic DOUBLE PRECISION NOT NULL,
		icir DOUBLE PRECISION NOT NULL DEFAULT 0,
		sharpe DOUBLE PRECISION,
		weight DOUBLE PRECISION NOT NULL DEFAULT 0,
		signal_count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (factor_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS factor_correlations (
		factor_a TEXT NOT NULL,
		factor_b TEXT NOT NULL,
		correlation DOUBLE PRECISION NOT NULL,
		computed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (factor_a, factor_b)
	)`,
	`CREATE TABLE IF NOT EXISTS market_returns (
		date DATE PRIMARY KEY,
		daily_return DOUBLE PRECISION NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_factor_performance_date
		ON factor_performance (factor_id, date DESC)`,
}

// EnsureSchema creates the monitoring tables if they do not exist
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to ensure schema")
		}
	}
	return nil
}
