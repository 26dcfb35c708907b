package ports

import (
	"context"

	"factorgate/domain/core"
	"factorgate/domain/decay"
)

// FactorRepository provides read access to the factor population and its
// performance history. Implemented by the storage layer.
type FactorRepository interface {
	// FindActiveFactors returns every factor currently deployed
	FindActiveFactors(ctx context.Context) ([]core.Factor, error)

	// GetPerformanceHistory returns up to days of daily performance records
	// for a factor, ordered most-recent-first
	GetPerformanceHistory(ctx context.Context, factorID core.FactorID, days int) ([]core.PerformanceRecord, error)

	// GetCorrelationMatrix returns the precomputed pairwise factor
	// correlation matrix; missing pairs read as zero correlation
	GetCorrelationMatrix(ctx context.Context) (decay.CorrelationMatrix, error)
}
