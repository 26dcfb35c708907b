// Package papertrade decides whether a factor's live paper-trading record
// lives up to its backtested expectations.
package papertrade

import (
	"fmt"
	"strings"
	"time"

	"factorgate/domain/core"
	"factorgate/internal/errors"
)

// Evaluator compares realized paper-trading performance against backtested
// expectations. It holds only configuration and is safe for concurrent use.
type Evaluator struct {
	cfg Config
}

// NewEvaluator creates an evaluator, filling zero config fields with defaults
func NewEvaluator(cfg Config) *Evaluator {
	def := DefaultConfig()
	if cfg.MinimumDays == 0 {
		cfg.MinimumDays = def.MinimumDays
	}
	if cfg.SharpeTolerance == 0 {
		cfg.SharpeTolerance = def.SharpeTolerance
	}
	if cfg.MaxDrawdownMultiplier == 0 {
		cfg.MaxDrawdownMultiplier = def.MaxDrawdownMultiplier
	}
	if cfg.AnnualizationFactor == 0 {
		cfg.AnnualizationFactor = def.AnnualizationFactor
	}
	return &Evaluator{cfg: cfg}
}

// Evaluate runs the paper-trading state machine:
//
//	in_progress -> {insufficient_data | passed | failed}
//
// A trial stays in_progress until MinimumDays trading days have elapsed,
// becomes insufficient_data when too few signals have resolved outcomes, and
// otherwise passes when the realized Sharpe holds at least SharpeTolerance
// of the backtest and the realized drawdown stays within
// MaxDrawdownMultiplier of it.
func (e *Evaluator) Evaluate(factorID core.FactorID, backtested BacktestedMetrics, records []SignalRecord, startDate, endDate time.Time) (*Result, error) {
	if core.ID(factorID).IsEmpty() {
		return nil, errors.New(errors.CodeValidationError, "factor ID is required")
	}
	if endDate.Before(startDate) {
		return nil, errors.Newf(errors.CodeValidationError,
			"end date %s before start date %s",
			endDate.Format("2006-01-02"), startDate.Format("2006-01-02"))
	}

	result := &Result{
		FactorID:   factorID,
		StartDate:  startDate,
		EndDate:    endDate,
		DaysTraded: core.TradingDaysBetween(startDate, endDate),
		Backtested: backtested,
		Realized:   ComputeRealizedMetrics(records, e.cfg.AnnualizationFactor),
	}

	if result.DaysTraded < e.cfg.MinimumDays {
		remaining := e.cfg.MinimumDays - result.DaysTraded
		result.Status = StatusInProgress
		result.Recommendations = []string{
			fmt.Sprintf("continue paper trading for %d more trading days", remaining),
		}
		return result, nil
	}

	if result.Realized.SignalsWithOutcomes < e.cfg.MinimumDays {
		result.Status = StatusInsufficientData
		result.Recommendations = []string{
			fmt.Sprintf("only %d signals have resolved outcomes (need %d); verify outcome ingestion before judging",
				result.Realized.SignalsWithOutcomes, e.cfg.MinimumDays),
		}
		return result, nil
	}

	if backtested.Sharpe != 0 {
		result.SharpeRatio = result.Realized.Sharpe / backtested.Sharpe
	}
	if backtested.MaxDrawdown > 0 {
		result.DrawdownRatio = result.Realized.MaxDrawdown / backtested.MaxDrawdown
	}

	sharpeOK := result.SharpeRatio >= e.cfg.SharpeTolerance
	drawdownOK := result.DrawdownRatio <= e.cfg.MaxDrawdownMultiplier

	if sharpeOK && drawdownOK {
		result.Status = StatusPassed
		result.Passed = true
		result.Recommendations = []string{"performance holds up against backtest; eligible for promotion"}
		return result, nil
	}

	result.Status = StatusFailed
	var reasons []string
	if !sharpeOK {
		reasons = append(reasons, fmt.Sprintf(
			"Sharpe ratio %.3f below tolerance %.2f (realized %.3f vs backtested %.3f)",
			result.SharpeRatio, e.cfg.SharpeTolerance,
			result.Realized.Sharpe, backtested.Sharpe))
		result.Recommendations = append(result.Recommendations,
			"investigate execution slippage and signal latency against the backtest assumptions")
	}
	if !drawdownOK {
		reasons = append(reasons, fmt.Sprintf(
			"drawdown ratio %.3f exceeds multiplier %.2f (realized %.4f vs backtested %.4f)",
			result.DrawdownRatio, e.cfg.MaxDrawdownMultiplier,
			result.Realized.MaxDrawdown, backtested.MaxDrawdown))
		result.Recommendations = append(result.Recommendations,
			"review position sizing; realized risk exceeds what the backtest priced in")
	}
	result.FailureReason = strings.Join(reasons, "; ")
	return result, nil
}

// DetermineAction maps an evaluation to the promotion pipeline's next move.
// A failed trial that came close on both checks is flagged for human review
// instead of automatic retirement.
func DetermineAction(result *Result) ActionRecommendation {
	switch result.Status {
	case StatusPassed:
		return ActionRecommendation{
			Action:     ActionPromote,
			Confidence: ConfidenceHigh,
			Rationale:  "realized performance within tolerance of backtest",
		}
	case StatusInProgress:
		return ActionRecommendation{
			Action:     ActionContinue,
			Confidence: ConfidenceHigh,
			Rationale:  "minimum trading-day requirement not yet met",
		}
	case StatusInsufficientData:
		return ActionRecommendation{
			Action:     ActionContinue,
			Confidence: ConfidenceLow,
			Rationale:  "too few resolved outcomes to judge; keep trading and verify outcome feed",
		}
	default:
		if result.SharpeRatio >= 0.6 && result.DrawdownRatio <= 2.5 {
			return ActionRecommendation{
				Action:     ActionReview,
				Confidence: ConfidenceMedium,
				Rationale:  "failed tolerances but within review band; manual judgment warranted",
			}
		}
		return ActionRecommendation{
			Action:     ActionRetire,
			Confidence: ConfidenceHigh,
			Rationale:  "realized performance far from backtested expectations",
		}
	}
}
