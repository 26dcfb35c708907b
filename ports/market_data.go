package ports

import "context"

// MarketDataProvider supplies broad market returns for the crowding check.
// Optional collaborator: a nil provider disables the check.
type MarketDataProvider interface {
	// GetMarketReturns returns up to days of daily market returns, ordered
	// most-recent-first
	GetMarketReturns(ctx context.Context, days int) ([]float64, error)
}
