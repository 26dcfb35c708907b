// Package ic measures the predictive power of trading signals via the
// information coefficient: the rank correlation between a signal and the
// forward return it tries to anticipate.
package ic

import (
	"math"

	"factorgate/domain/stats"
	"factorgate/internal/errors"
)

// Calculator computes cross-sectional and rolling information coefficients.
// It holds only configuration and is safe for concurrent use.
type Calculator struct {
	cfg Config
}

// NewCalculator creates an IC calculator, filling zero config fields with
// defaults.
func NewCalculator(cfg Config) *Calculator {
	def := DefaultConfig()
	if cfg.Window == 0 {
		cfg.Window = def.Window
	}
	if cfg.MinValidPairs == 0 {
		cfg.MinValidPairs = def.MinValidPairs
	}
	if len(cfg.Horizons) == 0 {
		cfg.Horizons = def.Horizons
	}
	return &Calculator{cfg: cfg}
}

// CrossSectionalIC computes the Spearman correlation between signals and
// their forward returns, pairing values index-wise and dropping any pair
// where either side is NaN. Fewer than two surviving pairs yields an IC of
// zero; validity additionally requires MinValidPairs survivors.
func (c *Calculator) CrossSectionalIC(signals, forwardReturns []float64) (Value, error) {
	if len(signals) != len(forwardReturns) {
		return Value{}, errors.Newf(errors.CodeValidationError,
			"signals and forward returns length mismatch: %d vs %d",
			len(signals), len(forwardReturns))
	}

	validSignals := make([]float64, 0, len(signals))
	validReturns := make([]float64, 0, len(signals))
	for i := range signals {
		if math.IsNaN(signals[i]) || math.IsNaN(forwardReturns[i]) {
			continue
		}
		validSignals = append(validSignals, signals[i])
		validReturns = append(validReturns, forwardReturns[i])
	}

	n := len(validSignals)
	value := Value{
		NObservations: n,
		IsValid:       n >= c.cfg.MinValidPairs,
	}
	if n < 2 {
		return value, nil
	}
	value.IC = stats.SpearmanCorrelation(validSignals, validReturns)
	return value, nil
}

// TimeSeriesIC slides a fixed window across a paired signal/return series,
// producing one Value per window endpoint.
func (c *Calculator) TimeSeriesIC(signals, returns []float64) ([]Value, error) {
	if len(signals) != len(returns) {
		return nil, errors.Newf(errors.CodeValidationError,
			"signals and returns length mismatch: %d vs %d", len(signals), len(returns))
	}
	if len(signals) < c.cfg.Window {
		return []Value{}, nil
	}

	values := make([]Value, 0, len(signals)-c.cfg.Window+1)
	for end := c.cfg.Window; end <= len(signals); end++ {
		v, err := c.CrossSectionalIC(signals[end-c.cfg.Window:end], returns[end-c.cfg.Window:end])
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// CalculateICStats aggregates an IC series over its valid entries. An empty
// or all-invalid series yields a zeroed, weak, failed result.
func (c *Calculator) CalculateICStats(values []Value) Stats {
	ics := make([]float64, 0, len(values))
	positive := 0
	for _, v := range values {
		if !v.IsValid {
			continue
		}
		ics = append(ics, v.IC)
		if v.IC > 0 {
			positive++
		}
	}

	result := Stats{
		NObservations:      len(values),
		NValidObservations: len(ics),
		Interpretation:     Weak,
	}
	if len(ics) == 0 {
		return result
	}

	result.Mean = stats.Mean(ics)
	result.Std = stats.SampleStd(ics)
	if result.Std > 1e-15 {
		result.ICIR = result.Mean / result.Std
	}
	result.HitRate = float64(positive) / float64(len(ics))
	result.Interpretation = interpretStats(result)
	result.Passed = result.Mean >= 0.02 && result.Std <= 0.03 && result.ICIR >= 0.5
	return result
}

func interpretStats(s Stats) Interpretation {
	switch {
	case s.Mean > 0.05 && s.Std < 0.05 && s.ICIR > 0.5:
		return Strong
	case s.Mean > 0.02 && s.ICIR > 0.3:
		return Moderate
	default:
		return Weak
	}
}
