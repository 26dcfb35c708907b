package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"factorgate/internal/errors"
	"factorgate/ports"
)

// MarketDataRepository implements ports.MarketDataProvider from a table of
// ingested daily market returns.
type MarketDataRepository struct {
	db *sqlx.DB
}

// NewMarketDataRepository creates a PostgreSQL market-returns provider
func NewMarketDataRepository(db *sqlx.DB) *MarketDataRepository {
	return &MarketDataRepository{db: db}
}

var _ ports.MarketDataProvider = (*MarketDataRepository)(nil)

// GetMarketReturns returns up to days of daily returns, most-recent-first
func (r *MarketDataRepository) GetMarketReturns(ctx context.Context, days int) ([]float64, error) {
	var returns []float64
	err := r.db.SelectContext(ctx, &returns, `
		SELECT daily_return
		FROM market_returns
		ORDER BY date DESC
		LIMIT $1`, days)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query market returns")
	}
	return returns, nil
}
