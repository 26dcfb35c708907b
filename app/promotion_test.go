package app

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factorgate/domain/ic"
	"factorgate/domain/overfit"
	"factorgate/domain/papertrade"
	"factorgate/internal/testkit"
)

func newPromotionService() *PromotionService {
	return NewPromotionService(
		overfit.NewCalculator(overfit.DefaultConfig()),
		ic.NewCalculator(ic.DefaultConfig()),
		papertrade.NewEvaluator(papertrade.DefaultConfig()),
		zerolog.Nop(),
	)
}

// strongPanel builds a cross-sectional panel whose signals cleanly rank the
// next period's returns.
func strongPanel(periods, assets int, seed int64) (signals, returns [][]float64) {
	rng := rand.New(rand.NewSource(seed))
	signals = make([][]float64, periods)
	returns = make([][]float64, periods)
	for t := range signals {
		signals[t] = make([]float64, assets)
		returns[t] = make([]float64, assets)
		for a := range signals[t] {
			signals[t][a] = rng.NormFloat64()
		}
	}
	for t := 1; t < periods; t++ {
		for a := 0; a < assets; a++ {
			returns[t][a] = 0.9*signals[t-1][a] + 0.1*rng.NormFloat64()
		}
	}
	return signals, returns
}

func tradingDays(n int) []time.Time {
	out := make([]time.Time, 0, n)
	d := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	for len(out) < n {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			out = append(out, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return out
}

func passingRequest(t *testing.T) PromotionRequest {
	t.Helper()

	// Identical contiguous blocks keep every CSCV partition symmetric
	block := testkit.GenerateReturns(25, 0.001, 0.01, 9)
	returns := make([]float64, 0, 200)
	for i := 0; i < 8; i++ {
		returns = append(returns, block...)
	}
	signals := append([]float64(nil), returns...)

	signals2D, returns2D := strongPanel(50, 40, 10)

	days := tradingDays(45)
	records := make([]papertrade.SignalRecord, len(days))
	for i, day := range days {
		outcome := 0.01 + 0.001*float64(i%3)
		records[i] = papertrade.SignalRecord{Date: day, Symbol: "AAPL", Signal: 1, Outcome: &outcome}
	}

	return PromotionRequest{
		FactorID:   "candidate-1",
		Returns:    returns,
		Signals:    signals,
		Signals2D:  signals2D,
		Returns2D:  returns2D,
		Backtested: papertrade.BacktestedMetrics{Sharpe: 1.0, MaxDrawdown: 0.1},
		Records:    records,
		PaperStart: days[0],
		PaperEnd:   days[len(days)-1],
	}
}

func TestEvaluateCandidate_AllGatesPass(t *testing.T) {
	svc := newPromotionService()

	verdict, err := svc.EvaluateCandidate(context.Background(), passingRequest(t))
	require.NoError(t, err)

	assert.True(t, verdict.Eligible)
	require.Len(t, verdict.Gates, 3)
	for _, gate := range verdict.Gates {
		assert.True(t, gate.Passed, "gate %s", gate.Gate)
	}
	assert.Equal(t, papertrade.ActionPromote, verdict.Action.Action)
	require.NotNil(t, verdict.IC.Decay)
	assert.Equal(t, 1, verdict.IC.Decay.OptimalHorizon)
}

func TestEvaluateCandidate_WeakICFailsGate(t *testing.T) {
	svc := newPromotionService()
	req := passingRequest(t)

	// Replace the panel with pure noise: no predictive power
	rng := rand.New(rand.NewSource(11))
	for tt := range req.Returns2D {
		for a := range req.Returns2D[tt] {
			req.Returns2D[tt][a] = rng.NormFloat64()
		}
	}

	verdict, err := svc.EvaluateCandidate(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, verdict.Eligible)
	var icGate *GateResult
	for i := range verdict.Gates {
		if verdict.Gates[i].Gate == "information_coefficient" {
			icGate = &verdict.Gates[i]
		}
	}
	require.NotNil(t, icGate)
	assert.False(t, icGate.Passed)
}

func TestEvaluateCandidate_PropagatesInputErrors(t *testing.T) {
	svc := newPromotionService()
	req := passingRequest(t)
	req.Signals = req.Signals[:10]

	_, err := svc.EvaluateCandidate(context.Background(), req)
	require.Error(t, err)
}
