package stats

import "math"

// NCR computes the binomial coefficient C(n, k).
// Returns 0 when k < 0 or k > n. Computed iteratively with the symmetric
// form k' = min(k, n-k) to keep intermediate products small, rounded to the
// nearest integer to absorb floating-point drift.
func NCR(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1.0
	for i := 0; i < k; i++ {
		result = result * float64(n-i) / float64(i+1)
	}
	return int(math.Round(result))
}

// Combinations enumerates all k-subsets of {0..n-1} in lexicographic order.
// len(Combinations(n, k)) == NCR(n, k) for all valid inputs.
func Combinations(n, k int) [][]int {
	if k < 0 || k > n {
		return nil
	}
	result := make([][]int, 0, NCR(n, k))
	current := make([]int, 0, k)

	var backtrack func(start int)
	backtrack = func(start int) {
		if len(current) == k {
			combo := make([]int, k)
			copy(combo, current)
			result = append(result, combo)
			return
		}
		// Prune branches that cannot reach length k
		for i := start; i <= n-(k-len(current)); i++ {
			current = append(current, i)
			backtrack(i + 1)
			current = current[:len(current)-1]
		}
	}
	backtrack(0)

	return result
}

// Complement returns the elements of {0..n-1} not present in subset.
// subset must be sorted ascending, as produced by Combinations.
func Complement(n int, subset []int) []int {
	out := make([]int, 0, n-len(subset))
	j := 0
	for i := 0; i < n; i++ {
		if j < len(subset) && subset[j] == i {
			j++
			continue
		}
		out = append(out, i)
	}
	return out
}
