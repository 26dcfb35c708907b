package ic

import (
	"factorgate/domain/stats"
	"factorgate/internal/errors"
)

// AnalyzeICDecay measures predictive power across forward horizons.
// signals2D and returns2D are period-major rectangular matrices
// (signals2D[t][asset]); for each horizon h the forward return of an asset
// at time t is the sum of its returns over the next h periods. The IC at a
// horizon is the mean of the valid cross-sectional ICs across time steps.
func (c *Calculator) AnalyzeICDecay(signals2D, returns2D [][]float64) (*DecayResult, error) {
	if err := validateMatrices(signals2D, returns2D); err != nil {
		return nil, err
	}

	periods := len(signals2D)
	result := &DecayResult{
		ICByHorizon: make(map[int]float64, len(c.cfg.Horizons)),
		Horizons:    append([]int(nil), c.cfg.Horizons...),
	}

	for _, h := range c.cfg.Horizons {
		ics := make([]float64, 0, periods)
		for t := 0; t+h < periods; t++ {
			forward := accumulateForward(returns2D, t, h)
			v, err := c.CrossSectionalIC(signals2D[t], forward)
			if err != nil {
				return nil, err
			}
			if v.IsValid {
				ics = append(ics, v.IC)
			}
		}
		result.ICByHorizon[h] = stats.Mean(ics)
	}

	optimalIdx := 0
	for i, h := range result.Horizons {
		if result.ICByHorizon[h] > result.ICByHorizon[result.Horizons[optimalIdx]] {
			optimalIdx = i
		}
	}
	result.OptimalHorizon = result.Horizons[optimalIdx]
	result.OptimalIC = result.ICByHorizon[result.OptimalHorizon]
	result.HalfLife = halfLife(result.Horizons, result.ICByHorizon, optimalIdx)

	return result, nil
}

// halfLife linearly interpolates the horizon at which IC first falls through
// half of the optimal IC, scanning outward from the optimal horizon. Returns
// nil when the optimal IC is non-positive or no crossing exists.
func halfLife(horizons []int, icByHorizon map[int]float64, optimalIdx int) *float64 {
	optimalIC := icByHorizon[horizons[optimalIdx]]
	if optimalIC <= 0 {
		return nil
	}
	target := optimalIC / 2

	for i := optimalIdx; i < len(horizons)-1; i++ {
		hi, lo := icByHorizon[horizons[i]], icByHorizon[horizons[i+1]]
		if hi >= target && lo < target {
			span := float64(horizons[i+1] - horizons[i])
			hl := float64(horizons[i]) + span*(hi-target)/(hi-lo)
			return &hl
		}
	}
	return nil
}

// accumulateForward sums each asset's returns over periods t+1..t+h
func accumulateForward(returns2D [][]float64, t, h int) []float64 {
	forward := make([]float64, len(returns2D[t]))
	for j := 1; j <= h; j++ {
		for a, r := range returns2D[t+j] {
			forward[a] += r
		}
	}
	return forward
}

func validateMatrices(signals2D, returns2D [][]float64) error {
	if len(signals2D) != len(returns2D) {
		return errors.Newf(errors.CodeValidationError,
			"signals and returns period count mismatch: %d vs %d",
			len(signals2D), len(returns2D))
	}
	if len(signals2D) == 0 {
		return errors.InsufficientData("empty signal matrix")
	}
	width := len(signals2D[0])
	for t := range signals2D {
		if len(signals2D[t]) != width || len(returns2D[t]) != width {
			return errors.Newf(errors.CodeValidationError,
				"ragged matrix at period %d: expected %d assets", t, width)
		}
	}
	return nil
}
