package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"factorgate/domain/core"
	"factorgate/domain/ic"
	"factorgate/domain/overfit"
	"factorgate/domain/papertrade"
)

// PromotionService runs the full promotion gate over a candidate factor:
// backtest-overfitting (PBO), information-coefficient quality, and the
// paper-trading comparison. The verdict feeds the upstream promotion
// pipeline.
type PromotionService struct {
	pbo       *overfit.Calculator
	ic        *ic.Calculator
	evaluator *papertrade.Evaluator
	logger    zerolog.Logger
}

// NewPromotionService wires the three gate calculators
func NewPromotionService(pbo *overfit.Calculator, icCalc *ic.Calculator, evaluator *papertrade.Evaluator, logger zerolog.Logger) *PromotionService {
	return &PromotionService{
		pbo:       pbo,
		ic:        icCalc,
		evaluator: evaluator,
		logger:    logger,
	}
}

// PromotionRequest carries everything the gates need: the backtest series
// for CSCV, the cross-sectional panel for IC analysis, and the paper-trading
// trial record.
type PromotionRequest struct {
	FactorID   core.FactorID
	Returns    []float64
	Signals    []float64
	Signals2D  [][]float64
	Returns2D  [][]float64
	Backtested papertrade.BacktestedMetrics
	Records    []papertrade.SignalRecord
	PaperStart time.Time
	PaperEnd   time.Time
}

// GateResult is one gate's pass/fail with a human-readable detail
type GateResult struct {
	Gate   string `json:"gate"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// PromotionVerdict is the combined gate outcome for a candidate
type PromotionVerdict struct {
	FactorID     core.FactorID                   `json:"factor_id"`
	Eligible     bool                            `json:"eligible"`
	Gates        []GateResult                    `json:"gates"`
	PBO          *overfit.Result                 `json:"pbo"`
	IC           *ic.AnalysisResult              `json:"ic"`
	PaperTrading *papertrade.Result              `json:"paper_trading"`
	Action       papertrade.ActionRecommendation `json:"action"`
	EvaluatedAt  core.Timestamp                  `json:"evaluated_at"`
}

// EvaluateCandidate runs all three gates. Gate computation is pure; any
// error is an input-validation problem surfaced to the caller.
func (s *PromotionService) EvaluateCandidate(ctx context.Context, req PromotionRequest) (*PromotionVerdict, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pboResult, err := s.pbo.ComputePBO(req.Returns, req.Signals)
	if err != nil {
		return nil, fmt.Errorf("PBO gate failed to run: %w", err)
	}

	icResult, err := s.ic.AnalyzeIC(req.Signals2D, req.Returns2D, true)
	if err != nil {
		return nil, fmt.Errorf("IC gate failed to run: %w", err)
	}

	paperResult, err := s.evaluator.Evaluate(req.FactorID, req.Backtested, req.Records, req.PaperStart, req.PaperEnd)
	if err != nil {
		return nil, fmt.Errorf("paper-trading gate failed to run: %w", err)
	}

	verdict := &PromotionVerdict{
		FactorID:     req.FactorID,
		PBO:          pboResult,
		IC:           icResult,
		PaperTrading: paperResult,
		Gates: []GateResult{
			{
				Gate:   "overfitting",
				Passed: pboResult.Passed,
				Detail: fmt.Sprintf("PBO %.3f (%s)", pboResult.PBO, pboResult.Interpretation),
			},
			{
				Gate:   "information_coefficient",
				Passed: icResult.Stats.Passed,
				Detail: fmt.Sprintf("mean IC %.4f, ICIR %.3f (%s)", icResult.Stats.Mean, icResult.Stats.ICIR, icResult.Stats.Interpretation),
			},
			{
				Gate:   "paper_trading",
				Passed: paperResult.Passed,
				Detail: fmt.Sprintf("status %s", paperResult.Status),
			},
		},
		Action:      papertrade.DetermineAction(paperResult),
		EvaluatedAt: core.Now(),
	}

	verdict.Eligible = true
	for _, gate := range verdict.Gates {
		if !gate.Passed {
			verdict.Eligible = false
			break
		}
	}

	s.logger.Info().
		Str("factor_id", req.FactorID.String()).
		Bool("eligible", verdict.Eligible).
		Float64("pbo", pboResult.PBO).
		Float64("mean_ic", icResult.Stats.Mean).
		Str("paper_status", string(paperResult.Status)).
		Msg("promotion gates evaluated")

	return verdict, nil
}
