package ic

// AnalyzeIC runs the full IC analysis of a factor: one cross-sectional IC
// per period using 1-period forward returns, aggregate statistics, and
// (when withDecay is set) multi-horizon decay analysis.
func (c *Calculator) AnalyzeIC(signals2D, returns2D [][]float64, withDecay bool) (*AnalysisResult, error) {
	if err := validateMatrices(signals2D, returns2D); err != nil {
		return nil, err
	}

	series := make([]Value, 0, len(signals2D)-1)
	for t := 0; t+1 < len(signals2D); t++ {
		v, err := c.CrossSectionalIC(signals2D[t], returns2D[t+1])
		if err != nil {
			return nil, err
		}
		series = append(series, v)
	}

	result := &AnalysisResult{
		ICSeries: series,
		Stats:    c.CalculateICStats(series),
	}

	if withDecay {
		decay, err := c.AnalyzeICDecay(signals2D, returns2D)
		if err != nil {
			return nil, err
		}
		result.Decay = decay
	}
	return result, nil
}
