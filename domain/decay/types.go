// Package decay defines the alert and result types produced by rolling
// factor-health monitoring.
package decay

import (
	"time"

	"factorgate/domain/core"
)

// AlertType names the decay condition that fired
type AlertType string

const (
	AlertICDecay          AlertType = "IC_DECAY"
	AlertSharpeDecay      AlertType = "SHARPE_DECAY"
	AlertCrowding         AlertType = "CROWDING"
	AlertCorrelationSpike AlertType = "CORRELATION_SPIKE"
)

// Severity grades an alert
type Severity string

const (
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// Alert is a single triggered decay condition. PeakValue, DecayRate and
// RelatedFactorID are populated only where the alert type makes them
// meaningful.
type Alert struct {
	ID              core.AlertID   `json:"id"`
	FactorID        core.FactorID  `json:"factor_id"`
	Type            AlertType      `json:"alert_type"`
	Severity        Severity       `json:"severity"`
	CurrentValue    float64        `json:"current_value"`
	Threshold       float64        `json:"threshold"`
	PeakValue       *float64       `json:"peak_value,omitempty"`
	DecayRate       *float64       `json:"decay_rate,omitempty"`
	RelatedFactorID *core.FactorID `json:"related_factor_id,omitempty"`
	Recommendation  string         `json:"recommendation"`
	TriggeredAt     core.Timestamp `json:"triggered_at"`
}

// CorrelatedPair is an unordered factor pair whose correlation breached the
// spike threshold
type CorrelatedPair struct {
	FactorA     core.FactorID `json:"factor_a"`
	FactorB     core.FactorID `json:"factor_b"`
	Correlation float64       `json:"correlation"`
}

// DailyCheckResult aggregates one monitoring run. It is assembled once per
// invocation and not retained by the service.
type DailyCheckResult struct {
	RunID           core.RunID       `json:"run_id"`
	FactorsChecked  int              `json:"factors_checked"`
	DecayingFactors []core.FactorID  `json:"decaying_factors"`
	CrowdedFactors  []core.FactorID  `json:"crowded_factors"`
	CorrelatedPairs []CorrelatedPair `json:"correlated_pairs"`
	Alerts          []Alert          `json:"alerts"`
	StartedAt       core.Timestamp   `json:"started_at"`
	Duration        time.Duration    `json:"duration"`
}

// Thresholds configures the monitoring checks. Zero values are replaced by
// defaults via DefaultThresholds.
type Thresholds struct {
	// ICDecayWindowDays of history the IC check averages over
	ICDecayWindowDays int
	// ICDecayThreshold: decaying when recent mean IC falls below this
	// fraction of the peak
	ICDecayThreshold float64
	// ICDecayCriticalFraction of peak below which severity escalates
	ICDecayCriticalFraction float64

	SharpeDecayWindowDays int
	SharpeDecayThreshold  float64

	// CorrelationLookbackDays for the crowding check against market returns
	CorrelationLookbackDays int
	// MinCorrelationPoints of valid history required on each side before a
	// crowding correlation is computed; fewer is treated as zero correlation
	MinCorrelationPoints int
	CrowdingThreshold    float64
	CrowdingCritical     float64

	CorrelationSpikeThreshold float64
}

// DefaultThresholds returns the standard monitoring thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		ICDecayWindowDays:         20,
		ICDecayThreshold:          0.5,
		ICDecayCriticalFraction:   0.3,
		SharpeDecayWindowDays:     10,
		SharpeDecayThreshold:      0.5,
		CorrelationLookbackDays:   60,
		MinCorrelationPoints:      20,
		CrowdingThreshold:         0.8,
		CrowdingCritical:          0.9,
		CorrelationSpikeThreshold: 0.7,
	}
}
