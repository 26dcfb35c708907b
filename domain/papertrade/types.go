package papertrade

import (
	"time"

	"factorgate/domain/core"
)

// Status is the evaluation state of a paper-trading trial. Transitions are
// recomputed fresh on every evaluation, never persisted.
type Status string

const (
	StatusInProgress       Status = "in_progress"
	StatusInsufficientData Status = "insufficient_data"
	StatusPassed           Status = "passed"
	StatusFailed           Status = "failed"
)

// Config holds evaluation tolerances
type Config struct {
	// MinimumDays of trading before a verdict is attempted
	MinimumDays int
	// SharpeTolerance is the minimum acceptable realized/backtested Sharpe ratio
	SharpeTolerance float64
	// MaxDrawdownMultiplier caps realized drawdown relative to backtest
	MaxDrawdownMultiplier float64
	AnnualizationFactor   float64
}

// DefaultConfig returns the standard paper-trading tolerances: 30 trading
// days, realized Sharpe at least 70% of backtest, drawdown at most 2x.
func DefaultConfig() Config {
	return Config{
		MinimumDays:           30,
		SharpeTolerance:       0.7,
		MaxDrawdownMultiplier: 2.0,
		AnnualizationFactor:   252,
	}
}

// BacktestedMetrics are the research-phase expectations a trial is held to
type BacktestedMetrics struct {
	Sharpe      float64 `json:"sharpe"`
	MaxDrawdown float64 `json:"max_drawdown"`
	ICMean      float64 `json:"ic_mean"`
	ICIR        float64 `json:"icir"`
}

// RealizedMetrics are computed from the trial's signal/outcome records
type RealizedMetrics struct {
	Sharpe              float64 `json:"sharpe"`
	MaxDrawdown         float64 `json:"max_drawdown"`
	ICMean              float64 `json:"ic_mean"`
	ICIR                float64 `json:"icir"`
	TotalSignals        int     `json:"total_signals"`
	SignalsWithOutcomes int     `json:"signals_with_outcomes"`
	HitRate             float64 `json:"hit_rate"`
	AvgDailyTurnover    float64 `json:"avg_daily_turnover"`
}

// SignalRecord is one emitted paper-trading signal. Outcome is the realized
// forward return once known, nil until then.
type SignalRecord struct {
	Date    time.Time `json:"date"`
	Symbol  string    `json:"symbol"`
	Signal  float64   `json:"signal"`
	Outcome *float64  `json:"outcome,omitempty"`
}

// Result is the full paper-trading evaluation
type Result struct {
	FactorID        core.FactorID     `json:"factor_id"`
	StartDate       time.Time         `json:"start_date"`
	EndDate         time.Time         `json:"end_date"`
	DaysTraded      int               `json:"days_traded"`
	Backtested      BacktestedMetrics `json:"backtested"`
	Realized        RealizedMetrics   `json:"realized"`
	SharpeRatio     float64           `json:"sharpe_ratio"`
	DrawdownRatio   float64           `json:"drawdown_ratio"`
	Status          Status            `json:"status"`
	Passed          bool              `json:"passed"`
	FailureReason   string            `json:"failure_reason,omitempty"`
	Recommendations []string          `json:"recommendations"`
}

// Action is the operational follow-up a paper-trading result implies
type Action string

const (
	ActionPromote  Action = "promote"
	ActionContinue Action = "continue"
	ActionReview   Action = "review"
	ActionRetire   Action = "retire"
)

// Confidence grades how settled an action recommendation is
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ActionRecommendation maps an evaluation to the promotion pipeline's next move
type ActionRecommendation struct {
	Action     Action     `json:"action"`
	Confidence Confidence `json:"confidence"`
	Rationale  string     `json:"rationale"`
}
