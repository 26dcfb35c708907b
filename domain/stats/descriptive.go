package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultAnnualizationFactor is the trading-day count used to annualize
// daily Sharpe ratios.
const DefaultAnnualizationFactor = 252.0

// epsilon below which a standard deviation is treated as zero to avoid
// division blow-up
const varianceEpsilon = 1e-15

// Mean returns the arithmetic mean, 0 for empty input
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// SampleStd returns the sample standard deviation (n-1 divisor).
// 0 for fewer than two observations.
func SampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// PopulationStd returns the population standard deviation (n divisor).
// 0 for empty input.
func PopulationStd(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	mean := stat.Mean(values, nil)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n))
}

// Sharpe computes the annualized Sharpe ratio of a daily return series using
// the sample standard deviation (n-1 divisor). Returns 0 for empty or
// single-element input, and 0 when the deviation is numerically zero.
func Sharpe(returns []float64, annualizationFactor float64) float64 {
	return sharpeWith(returns, annualizationFactor, SampleStd)
}

// SharpePopulation is Sharpe with the population standard deviation
// (n divisor). The CSCV overfitting procedure uses this variant so that
// short per-combination legs are scored on the same divisor as the original
// research pipeline; everything else uses Sharpe.
func SharpePopulation(returns []float64, annualizationFactor float64) float64 {
	return sharpeWith(returns, annualizationFactor, PopulationStd)
}

func sharpeWith(returns []float64, annualizationFactor float64, std func([]float64) float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	sd := std(returns)
	if sd < varianceEpsilon {
		return 0
	}
	return Mean(returns) / sd * math.Sqrt(annualizationFactor)
}
