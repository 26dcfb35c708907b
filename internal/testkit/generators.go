// Package testkit provides deterministic synthetic market-data fixtures.
// Every generator takes an explicit seed so tests are reproducible.
package testkit

import (
	"math"
	"math/rand"
	"time"

	"factorgate/domain/core"
)

// GenerateReturns produces a synthetic daily return series drawn from a
// normal distribution via the Box-Muller transform.
func GenerateReturns(n int, mean, std float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + std*boxMuller(rng)
	}
	return out
}

// GenerateSignals produces a synthetic standard-normal signal series.
func GenerateSignals(n int, seed int64) []float64 {
	return GenerateReturns(n, 0, 1, seed)
}

// GenerateCorrelatedReturns produces a return series correlated with base at
// approximately the given rho, with residual noise of the given std.
func GenerateCorrelatedReturns(base []float64, rho, noiseStd float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, len(base))
	residual := math.Sqrt(1 - rho*rho)
	for i, b := range base {
		out[i] = rho*b + residual*noiseStd*boxMuller(rng)
	}
	return out
}

// GeneratePerformanceHistory builds n daily performance records ordered
// most-recent-first, matching the repository contract. The IC series is
// centered on meanIC with Gaussian noise.
func GeneratePerformanceHistory(n int, meanIC, icStd float64, seed int64) []core.PerformanceRecord {
	rng := rand.New(rand.NewSource(seed))
	records := make([]core.PerformanceRecord, n)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	for i := range records {
		ic := meanIC + icStd*boxMuller(rng)
		sharpe := ic * 10
		records[i] = core.PerformanceRecord{
			Date:        day.AddDate(0, 0, -i),
			IC:          ic,
			ICIR:        ic / math.Max(icStd, 1e-9),
			Sharpe:      &sharpe,
			Weight:      0.1,
			SignalCount: 50,
		}
	}
	return records
}

// boxMuller draws one standard normal variate from the given source
func boxMuller(rng *rand.Rand) float64 {
	u1 := rng.Float64()
	for u1 == 0 {
		u1 = rng.Float64()
	}
	u2 := rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
