package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Ranks converts values to 1-indexed ranks, averaging ties: each group of
// equal values receives the mean of the ranks it would have occupied.
func Ranks(values []float64) []float64 {
	n := len(values)
	if n == 0 {
		return []float64{}
	}

	type pair struct {
		value float64
		index int
	}

	pairs := make([]pair, n)
	for i, val := range values {
		pairs[i] = pair{value: val, index: i}
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].value < pairs[j].value
	})

	ranks := make([]float64, n)
	i := 0
	for i < n {
		j := i + 1
		for j < n && pairs[j].value == pairs[i].value {
			j++
		}
		groupSize := j - i
		avgRank := float64(i+1) + float64(groupSize-1)/2.0
		for k := i; k < j; k++ {
			ranks[pairs[k].index] = avgRank
		}
		i = j
	}

	return ranks
}

// PearsonCorrelation computes the Pearson correlation coefficient.
// Returns 0 for fewer than two observations or when either side has
// numerically zero variance.
func PearsonCorrelation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	if stat.Variance(x, nil) < varianceEpsilon || stat.Variance(y, nil) < varianceEpsilon {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	// Clamp against floating-point drift
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// SpearmanCorrelation computes the rank correlation coefficient as the
// Pearson correlation of tie-averaged ranks.
func SpearmanCorrelation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	return PearsonCorrelation(Ranks(x), Ranks(y))
}
