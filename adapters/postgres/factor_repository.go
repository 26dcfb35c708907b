// Package postgres implements the storage ports against PostgreSQL.
package postgres

import (
	"context"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"factorgate/domain/core"
	"factorgate/domain/decay"
	"factorgate/internal/errors"
	"factorgate/ports"
)

// FactorRepository implements ports.FactorRepository for PostgreSQL
type FactorRepository struct {
	db *sqlx.DB
}

// NewFactorRepository creates a PostgreSQL factor repository
func NewFactorRepository(db *sqlx.DB) *FactorRepository {
	return &FactorRepository{db: db}
}

var _ ports.FactorRepository = (*FactorRepository)(nil)

type factorRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Status      string    `db:"status"`
	ActivatedAt time.Time `db:"activated_at"`
}

type performanceRow struct {
	Date        time.Time `db:"date"`
	IC          float64   `db:"ic"`
	ICIR        float64   `db:"icir"`
	Sharpe      *float64  `db:"sharpe"`
	Weight      float64   `db:"weight"`
	SignalCount int       `db:"signal_count"`
}

// FindActiveFactors returns every factor in active status
func (r *FactorRepository) FindActiveFactors(ctx context.Context) ([]core.Factor, error) {
	var rows []factorRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, name, status, activated_at
		FROM factors
		WHERE status = $1
		ORDER BY id`, string(core.StatusActive))
	if err != nil {
		return nil, errors.Wrap(err, "failed to query active factors")
	}

	factors := make([]core.Factor, len(rows))
	for i, row := range rows {
		id, err := core.ParseFactorID(row.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "factors table holds invalid id %q", row.ID)
		}
		factors[i] = core.Factor{
			ID:          id,
			Name:        row.Name,
			Status:      core.FactorStatus(row.Status),
			ActivatedAt: core.NewTimestamp(row.ActivatedAt),
		}
	}
	return factors, nil
}

// GetPerformanceHistory returns up to days of records, most-recent-first
func (r *FactorRepository) GetPerformanceHistory(ctx context.Context, factorID core.FactorID, days int) ([]core.PerformanceRecord, error) {
	var rows []performanceRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT date, ic, icir, sharpe, weight, signal_count
		FROM factor_performance
		WHERE factor_id = $1
		ORDER BY date DESC
		LIMIT $2`, factorID.String(), days)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query performance history for %s", factorID)
	}

	records := make([]core.PerformanceRecord, len(rows))
	for i, row := range rows {
		records[i] = core.PerformanceRecord{
			Date:        row.Date,
			IC:          row.IC,
			ICIR:        row.ICIR,
			Sharpe:      row.Sharpe,
			Weight:      row.Weight,
			SignalCount: row.SignalCount,
		}
	}
	return records, nil
}

// GetCorrelationMatrix assembles the pairwise matrix from its row storage
func (r *FactorRepository) GetCorrelationMatrix(ctx context.Context) (decay.CorrelationMatrix, error) {
	var rows []struct {
		FactorA     string  `db:"factor_a"`
		FactorB     string  `db:"factor_b"`
		Correlation float64 `db:"correlation"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT factor_a, factor_b, correlation
		FROM factor_correlations`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query correlation matrix")
	}

	matrix := decay.CorrelationMatrix{}
	for _, row := range rows {
		matrix.Set(core.FactorID(row.FactorA), core.FactorID(row.FactorB), row.Correlation)
	}
	return matrix, nil
}

// GetPerformanceHistories prefetches history for many factors concurrently.
// The monitor itself stays sequential; this helper exists for orchestration
// code that wants to warm caches or export reports without serializing on
// the database round-trips.
func (r *FactorRepository) GetPerformanceHistories(ctx context.Context, factorIDs []core.FactorID, days int) (map[core.FactorID][]core.PerformanceRecord, error) {
	out := make(map[core.FactorID][]core.PerformanceRecord, len(factorIDs))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, id := range factorIDs {
		id := id
		g.Go(func() error {
			records, err := r.GetPerformanceHistory(ctx, id, days)
			if err != nil {
				return err
			}
			mu.Lock()
			out[id] = records
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
