package overfit

// Interpretation classifies the overfitting risk implied by a PBO estimate
type Interpretation string

const (
	LowRisk      Interpretation = "low_risk"
	ModerateRisk Interpretation = "moderate_risk"
	HighRisk     Interpretation = "high_risk"
)

// Config holds the CSCV parameters. NSplits controls combinatorial cost:
// the procedure evaluates C(NSplits, NSplits/2) train/test partitions, so
// callers should keep it even and small (<=12 recommended).
type Config struct {
	NSplits              int
	MinSplitObservations int
	AnnualizationFactor  float64
	// KeepCombinations retains per-combination detail for diagnostics
	KeepCombinations bool
}

// DefaultConfig returns the standard CSCV parameters: 8 splits (70
// combinations), 25 observations per split minimum, daily annualization.
func DefaultConfig() Config {
	return Config{
		NSplits:              8,
		MinSplitObservations: 25,
		AnnualizationFactor:  252,
	}
}

// CombinationResult is the outcome of a single CSCV train/test partition.
// TrainBlocks and TestBlocks are complementary, disjoint block-index sets.
type CombinationResult struct {
	TrainBlocks       []int   `json:"train_blocks"`
	TestBlocks        []int   `json:"test_blocks"`
	InSampleSharpe    float64 `json:"in_sample_sharpe"`
	OutOfSampleSharpe float64 `json:"out_of_sample_sharpe"`
	Underperformed    bool    `json:"underperformed"`
}

// Result is the PBO estimate with summary statistics across all CSCV
// combinations. Combinations is populated only when Config.KeepCombinations
// is set.
type Result struct {
	PBO                   float64             `json:"pbo"`
	NCombinations         int                 `json:"n_combinations"`
	NUnderperformed       int                 `json:"n_underperformed"`
	MeanInSampleSharpe    float64             `json:"mean_in_sample_sharpe"`
	StdInSampleSharpe     float64             `json:"std_in_sample_sharpe"`
	MeanOutOfSampleSharpe float64             `json:"mean_out_of_sample_sharpe"`
	StdOutOfSampleSharpe  float64             `json:"std_out_of_sample_sharpe"`
	Degradation           float64             `json:"degradation"`
	Interpretation        Interpretation      `json:"interpretation"`
	Passed                bool                `json:"passed"`
	Combinations          []CombinationResult `json:"combinations,omitempty"`
}

func interpret(pbo float64) Interpretation {
	switch {
	case pbo < 0.3:
		return LowRisk
	case pbo < 0.5:
		return ModerateRisk
	default:
		return HighRisk
	}
}
