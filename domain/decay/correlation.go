package decay

import "factorgate/domain/core"

// CorrelationMatrix is a symmetric pairwise factor-correlation lookup.
// Missing entries read as zero correlation.
type CorrelationMatrix map[core.FactorID]map[core.FactorID]float64

// Get returns the correlation between two factors, trying both key orders.
// Absent pairs and self-lookups of unknown factors yield 0.
func (m CorrelationMatrix) Get(a, b core.FactorID) float64 {
	if row, ok := m[a]; ok {
		if v, ok := row[b]; ok {
			return v
		}
	}
	if row, ok := m[b]; ok {
		if v, ok := row[a]; ok {
			return v
		}
	}
	return 0
}

// Set stores a correlation symmetrically
func (m CorrelationMatrix) Set(a, b core.FactorID, corr float64) {
	if m[a] == nil {
		m[a] = make(map[core.FactorID]float64)
	}
	if m[b] == nil {
		m[b] = make(map[core.FactorID]float64)
	}
	m[a][b] = corr
	m[b][a] = corr
}
