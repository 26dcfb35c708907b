package ic

// Interpretation classifies the predictive strength of an IC series
type Interpretation string

const (
	Strong   Interpretation = "strong"
	Moderate Interpretation = "moderate"
	Weak     Interpretation = "weak"
)

// Config holds IC calculator parameters
type Config struct {
	// Window is the rolling window length for time-series IC
	Window int
	// MinValidPairs is the number of valid (non-NaN) pairs required before a
	// cross-sectional IC is considered statistically usable
	MinValidPairs int
	// Horizons are the forward-return horizons (in periods) examined by
	// decay analysis
	Horizons []int
}

// DefaultConfig returns the standard IC parameters: 60-observation rolling
// window, 10 valid pairs minimum, horizons out to a quarter.
func DefaultConfig() Config {
	return Config{
		Window:        60,
		MinValidPairs: 10,
		Horizons:      []int{1, 5, 10, 21, 63},
	}
}

// Value is a single cross-sectional information coefficient
type Value struct {
	IC            float64 `json:"ic"`
	NObservations int     `json:"n_observations"`
	IsValid       bool    `json:"is_valid"`
}

// Stats aggregates an IC series
type Stats struct {
	Mean               float64        `json:"mean"`
	Std                float64        `json:"std"`
	ICIR               float64        `json:"icir"`
	HitRate            float64        `json:"hit_rate"`
	NObservations      int            `json:"n_observations"`
	NValidObservations int            `json:"n_valid_observations"`
	Interpretation     Interpretation `json:"interpretation"`
	Passed             bool           `json:"passed"`
}

// DecayResult describes how predictive power falls off with horizon.
// HalfLife is nil when the optimal IC is non-positive or the series never
// crosses half of it.
type DecayResult struct {
	ICByHorizon    map[int]float64 `json:"ic_by_horizon"`
	Horizons       []int           `json:"horizons"`
	OptimalHorizon int             `json:"optimal_horizon"`
	OptimalIC      float64         `json:"optimal_ic"`
	HalfLife       *float64        `json:"half_life,omitempty"`
}

// AnalysisResult is the full IC analysis of a factor
type AnalysisResult struct {
	ICSeries []Value      `json:"ic_series"`
	Stats    Stats        `json:"stats"`
	Decay    *DecayResult `json:"decay,omitempty"`
}
