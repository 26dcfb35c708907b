package overfit

import (
	"factorgate/domain/stats"
	"factorgate/internal/errors"
)

// Calculator runs Combinatorially Symmetric Cross-Validation over a paired
// (returns, signals) series to estimate the Probability of Backtest
// Overfitting. It holds only configuration; every method is safe for
// concurrent use.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a PBO calculator, filling zero config fields with
// defaults.
func NewCalculator(cfg Config) *Calculator {
	def := DefaultConfig()
	if cfg.NSplits == 0 {
		cfg.NSplits = def.NSplits
	}
	if cfg.MinSplitObservations == 0 {
		cfg.MinSplitObservations = def.MinSplitObservations
	}
	if cfg.AnnualizationFactor == 0 {
		cfg.AnnualizationFactor = def.AnnualizationFactor
	}
	return &Calculator{cfg: cfg}
}

// ComputePBO estimates the probability of backtest overfitting via CSCV.
//
// The series is partitioned into NSplits contiguous equal-length blocks
// (the remainder after floor division is discarded). For every choice of
// NSplits/2 blocks as the training set, the complementary blocks form the
// test set; the strategy return for each observation is return*sign(signal),
// and a combination underperforms when its out-of-sample Sharpe falls below
// its in-sample Sharpe. PBO is the fraction of underperforming combinations.
//
// Sharpe ratios here use the population (n) divisor; see stats.SharpePopulation.
func (c *Calculator) ComputePBO(returns, signals []float64) (*Result, error) {
	if len(returns) != len(signals) {
		return nil, errors.Newf(errors.CodeValidationError,
			"returns and signals length mismatch: %d vs %d", len(returns), len(signals))
	}
	if c.cfg.NSplits < 2 || c.cfg.NSplits%2 != 0 {
		return nil, errors.Newf(errors.CodeValidationError,
			"nSplits must be a positive even number, got %d", c.cfg.NSplits)
	}

	splitSize := len(returns) / c.cfg.NSplits
	if splitSize < c.cfg.MinSplitObservations {
		return nil, errors.Newf(errors.CodeInsufficientData,
			"split size %d below minimum %d (need at least %d observations for %d splits)",
			splitSize, c.cfg.MinSplitObservations,
			c.cfg.MinSplitObservations*c.cfg.NSplits, c.cfg.NSplits)
	}

	// Strategy returns over the truncated series; a zero signal contributes
	// a zero return, it is not dropped from the sample.
	n := splitSize * c.cfg.NSplits
	strategy := make([]float64, n)
	for i := 0; i < n; i++ {
		strategy[i] = returns[i] * sign(signals[i])
	}

	trainSets := stats.Combinations(c.cfg.NSplits, c.cfg.NSplits/2)

	combos := make([]CombinationResult, 0, len(trainSets))
	isSharpes := make([]float64, 0, len(trainSets))
	oosSharpes := make([]float64, 0, len(trainSets))
	underperformed := 0

	for _, train := range trainSets {
		test := stats.Complement(c.cfg.NSplits, train)

		isSharpe := stats.SharpePopulation(gatherBlocks(strategy, train, splitSize), c.cfg.AnnualizationFactor)
		oosSharpe := stats.SharpePopulation(gatherBlocks(strategy, test, splitSize), c.cfg.AnnualizationFactor)

		under := oosSharpe < isSharpe
		if under {
			underperformed++
		}
		isSharpes = append(isSharpes, isSharpe)
		oosSharpes = append(oosSharpes, oosSharpe)
		combos = append(combos, CombinationResult{
			TrainBlocks:       train,
			TestBlocks:        test,
			InSampleSharpe:    isSharpe,
			OutOfSampleSharpe: oosSharpe,
			Underperformed:    under,
		})
	}

	meanIS := stats.Mean(isSharpes)
	meanOOS := stats.Mean(oosSharpes)
	degradation := 0.0
	if meanIS != 0 {
		degradation = 1 - meanOOS/meanIS
	}

	pbo := float64(underperformed) / float64(len(trainSets))
	result := &Result{
		PBO:                   pbo,
		NCombinations:         len(trainSets),
		NUnderperformed:       underperformed,
		MeanInSampleSharpe:    meanIS,
		StdInSampleSharpe:     stats.SampleStd(isSharpes),
		MeanOutOfSampleSharpe: meanOOS,
		StdOutOfSampleSharpe:  stats.SampleStd(oosSharpes),
		Degradation:           degradation,
		Interpretation:        interpret(pbo),
		Passed:                pbo < 0.5,
	}
	if c.cfg.KeepCombinations {
		result.Combinations = combos
	}
	return result, nil
}

// gatherBlocks concatenates the observations of the given block indices
func gatherBlocks(series []float64, blocks []int, splitSize int) []float64 {
	out := make([]float64, 0, len(blocks)*splitSize)
	for _, b := range blocks {
		out = append(out, series[b*splitSize:(b+1)*splitSize]...)
	}
	return out
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
