package app

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"factorgate/domain/core"
	"factorgate/domain/decay"
	"factorgate/domain/stats"
	"factorgate/internal/errors"
	"factorgate/ports"
)

// DecayMonitorService runs the rolling health checks over the active factor
// population: IC decay, Sharpe decay, market crowding and factor-factor
// correlation spikes. It holds configuration and injected collaborators
// only; each RunDailyCheck assembles a fresh result.
type DecayMonitorService struct {
	factors    ports.FactorRepository
	market     ports.MarketDataProvider
	alerts     ports.AlertSink
	thresholds decay.Thresholds
	logger     zerolog.Logger
}

// NewDecayMonitorService creates a monitor over the given repository.
// Market data and alert dispatch are optional; see WithMarketData and
// WithAlertSink.
func NewDecayMonitorService(factors ports.FactorRepository, thresholds decay.Thresholds, logger zerolog.Logger) *DecayMonitorService {
	def := decay.DefaultThresholds()
	if thresholds.ICDecayWindowDays == 0 {
		thresholds.ICDecayWindowDays = def.ICDecayWindowDays
	}
	if thresholds.ICDecayThreshold == 0 {
		thresholds.ICDecayThreshold = def.ICDecayThreshold
	}
	if thresholds.ICDecayCriticalFraction == 0 {
		thresholds.ICDecayCriticalFraction = def.ICDecayCriticalFraction
	}
	if thresholds.SharpeDecayWindowDays == 0 {
		thresholds.SharpeDecayWindowDays = def.SharpeDecayWindowDays
	}
	if thresholds.SharpeDecayThreshold == 0 {
		thresholds.SharpeDecayThreshold = def.SharpeDecayThreshold
	}
	if thresholds.CorrelationLookbackDays == 0 {
		thresholds.CorrelationLookbackDays = def.CorrelationLookbackDays
	}
	if thresholds.MinCorrelationPoints == 0 {
		thresholds.MinCorrelationPoints = def.MinCorrelationPoints
	}
	if thresholds.CrowdingThreshold == 0 {
		thresholds.CrowdingThreshold = def.CrowdingThreshold
	}
	if thresholds.CrowdingCritical == 0 {
		thresholds.CrowdingCritical = def.CrowdingCritical
	}
	if thresholds.CorrelationSpikeThreshold == 0 {
		thresholds.CorrelationSpikeThreshold = def.CorrelationSpikeThreshold
	}
	return &DecayMonitorService{
		factors:    factors,
		thresholds: thresholds,
		logger:     logger,
	}
}

// WithMarketData enables the crowding check
func (s *DecayMonitorService) WithMarketData(provider ports.MarketDataProvider) *DecayMonitorService {
	s.market = provider
	return s
}

// WithAlertSink enables alert dispatch
func (s *DecayMonitorService) WithAlertSink(sink ports.AlertSink) *DecayMonitorService {
	s.alerts = sink
	return s
}

// RunDailyCheck evaluates every active factor. A failure checking one factor
// never aborts the others: per-factor errors are logged and that check is
// skipped. Alerts are dispatched to the sink one at a time, best-effort.
func (s *DecayMonitorService) RunDailyCheck(ctx context.Context) (*decay.DailyCheckResult, error) {
	started := time.Now()

	factors, err := s.factors.FindActiveFactors(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load active factors")
	}

	result := &decay.DailyCheckResult{
		RunID:          core.NewRunID(),
		FactorsChecked: len(factors),
		StartedAt:      core.NewTimestamp(started),
	}

	decaying := make(map[core.FactorID]bool)
	crowded := make(map[core.FactorID]bool)

	for _, factor := range factors {
		if alert := s.checkICDecay(ctx, factor); alert != nil {
			decaying[factor.ID] = true
			result.Alerts = append(result.Alerts, *alert)
		}
		if alert := s.checkSharpeDecay(ctx, factor); alert != nil {
			decaying[factor.ID] = true
			result.Alerts = append(result.Alerts, *alert)
		}
		if alert := s.checkCrowding(ctx, factor); alert != nil {
			crowded[factor.ID] = true
			result.Alerts = append(result.Alerts, *alert)
		}
	}

	pairs, pairAlerts := s.checkCorrelationSpikes(ctx, factors)
	result.CorrelatedPairs = pairs
	result.Alerts = append(result.Alerts, pairAlerts...)

	for id := range decaying {
		result.DecayingFactors = append(result.DecayingFactors, id)
	}
	for id := range crowded {
		result.CrowdedFactors = append(result.CrowdedFactors, id)
	}

	s.dispatch(ctx, result.Alerts)

	result.Duration = time.Since(started)
	s.logger.Info().
		Int("factors_checked", result.FactorsChecked).
		Int("alerts", len(result.Alerts)).
		Int("decaying", len(result.DecayingFactors)).
		Int("crowded", len(result.CrowdedFactors)).
		Dur("duration", result.Duration).
		Msg("daily decay check complete")

	return result, nil
}

// checkICDecay flags factors whose recent mean IC has fallen below a
// fraction of its peak over the window. Shorter history skips the check.
func (s *DecayMonitorService) checkICDecay(ctx context.Context, factor core.Factor) *decay.Alert {
	window := s.thresholds.ICDecayWindowDays
	history, err := s.factors.GetPerformanceHistory(ctx, factor.ID, window)
	if err != nil {
		s.logger.Warn().Err(err).Str("factor_id", factor.ID.String()).
			Msg("IC decay check skipped: history unavailable")
		return nil
	}
	if len(history) < window {
		return nil
	}

	ics := make([]float64, window)
	peak := math.Inf(-1)
	for i := 0; i < window; i++ {
		ics[i] = history[i].IC
		if ics[i] > peak {
			peak = ics[i]
		}
	}
	if peak <= 0 {
		// A factor that never had positive IC is a selection problem, not
		// decay; leave it to the promotion gate.
		return nil
	}

	recent := stats.Mean(ics)
	if recent >= peak*s.thresholds.ICDecayThreshold {
		return nil
	}

	severity := decay.SeverityWarning
	if recent < peak*s.thresholds.ICDecayCriticalFraction {
		severity = decay.SeverityCritical
	}
	decayRate := 1 - recent/peak
	return &decay.Alert{
		ID:             core.NewAlertID(),
		FactorID:       factor.ID,
		Type:           decay.AlertICDecay,
		Severity:       severity,
		CurrentValue:   recent,
		Threshold:      peak * s.thresholds.ICDecayThreshold,
		PeakValue:      &peak,
		DecayRate:      &decayRate,
		Recommendation: "IC has decayed from peak; reduce weight and schedule revalidation",
		TriggeredAt:    core.Now(),
	}
}

// checkSharpeDecay flags factors whose mean Sharpe over the window dropped
// below the absolute threshold. Records without a Sharpe are ignored.
func (s *DecayMonitorService) checkSharpeDecay(ctx context.Context, factor core.Factor) *decay.Alert {
	window := s.thresholds.SharpeDecayWindowDays
	history, err := s.factors.GetPerformanceHistory(ctx, factor.ID, window)
	if err != nil {
		s.logger.Warn().Err(err).Str("factor_id", factor.ID.String()).
			Msg("Sharpe decay check skipped: history unavailable")
		return nil
	}
	if len(history) < window {
		return nil
	}

	sharpes := make([]float64, 0, window)
	for i := 0; i < window; i++ {
		if history[i].Sharpe != nil {
			sharpes = append(sharpes, *history[i].Sharpe)
		}
	}
	if len(sharpes) == 0 {
		return nil
	}

	meanSharpe := stats.Mean(sharpes)
	if meanSharpe >= s.thresholds.SharpeDecayThreshold {
		return nil
	}

	severity := decay.SeverityWarning
	if meanSharpe < 0 {
		severity = decay.SeverityCritical
	}
	return &decay.Alert{
		ID:             core.NewAlertID(),
		FactorID:       factor.ID,
		Type:           decay.AlertSharpeDecay,
		Severity:       severity,
		CurrentValue:   meanSharpe,
		Threshold:      s.thresholds.SharpeDecayThreshold,
		Recommendation: "rolling Sharpe below threshold; review execution and consider de-weighting",
		TriggeredAt:    core.Now(),
	}
}

// checkCrowding correlates the factor's IC series against market returns.
// Any failure obtaining data is swallowed: the check is skipped, not failed.
func (s *DecayMonitorService) checkCrowding(ctx context.Context, factor core.Factor) *decay.Alert {
	if s.market == nil {
		return nil
	}
	lookback := s.thresholds.CorrelationLookbackDays

	history, err := s.factors.GetPerformanceHistory(ctx, factor.ID, lookback)
	if err != nil {
		s.logger.Debug().Err(err).Str("factor_id", factor.ID.String()).
			Msg("crowding check skipped: history unavailable")
		return nil
	}
	marketReturns, err := s.market.GetMarketReturns(ctx, lookback)
	if err != nil {
		s.logger.Debug().Err(err).Str("factor_id", factor.ID.String()).
			Msg("crowding check skipped: market data unavailable")
		return nil
	}

	n := len(history)
	if len(marketReturns) < n {
		n = len(marketReturns)
	}
	// Both series are most-recent-first, so truncation keeps them aligned
	corr := 0.0
	if n >= s.thresholds.MinCorrelationPoints {
		ics := make([]float64, n)
		for i := 0; i < n; i++ {
			ics[i] = history[i].IC
		}
		corr = stats.PearsonCorrelation(ics, marketReturns[:n])
	}

	if math.Abs(corr) <= s.thresholds.CrowdingThreshold {
		return nil
	}

	severity := decay.SeverityWarning
	if math.Abs(corr) > s.thresholds.CrowdingCritical {
		severity = decay.SeverityCritical
	}
	return &decay.Alert{
		ID:             core.NewAlertID(),
		FactorID:       factor.ID,
		Type:           decay.AlertCrowding,
		Severity:       severity,
		CurrentValue:   corr,
		Threshold:      s.thresholds.CrowdingThreshold,
		Recommendation: "factor tracks broad market returns; edge may be commoditized",
		TriggeredAt:    core.Now(),
	}
}

// checkCorrelationSpikes scans every unordered pair of active factors
// against the precomputed correlation matrix. A matrix fetch failure skips
// the whole scan but never fails the run.
func (s *DecayMonitorService) checkCorrelationSpikes(ctx context.Context, factors []core.Factor) ([]decay.CorrelatedPair, []decay.Alert) {
	matrix, err := s.factors.GetCorrelationMatrix(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("correlation spike scan skipped: matrix unavailable")
		return nil, nil
	}

	var pairs []decay.CorrelatedPair
	var alerts []decay.Alert
	for i := 0; i < len(factors); i++ {
		for j := i + 1; j < len(factors); j++ {
			a, b := factors[i].ID, factors[j].ID
			corr := matrix.Get(a, b)
			if math.Abs(corr) <= s.thresholds.CorrelationSpikeThreshold {
				continue
			}
			pairs = append(pairs, decay.CorrelatedPair{FactorA: a, FactorB: b, Correlation: corr})
			related := b
			alerts = append(alerts, decay.Alert{
				ID:              core.NewAlertID(),
				FactorID:        a,
				Type:            decay.AlertCorrelationSpike,
				Severity:        decay.SeverityWarning,
				CurrentValue:    corr,
				Threshold:       s.thresholds.CorrelationSpikeThreshold,
				RelatedFactorID: &related,
				Recommendation:  "factor pair correlation spiked; portfolio holds redundant exposure",
				TriggeredAt:     core.Now(),
			})
		}
	}
	return pairs, alerts
}

// dispatch sends alerts to the sink one at a time. Send failures are logged
// and dropped; delivery guarantees are the sink's concern.
func (s *DecayMonitorService) dispatch(ctx context.Context, alerts []decay.Alert) {
	if s.alerts == nil {
		return
	}
	for _, alert := range alerts {
		if err := s.alerts.Send(ctx, alert); err != nil {
			s.logger.Warn().Err(err).
				Str("factor_id", alert.FactorID.String()).
				Str("alert_type", string(alert.Type)).
				Msg("alert dispatch failed")
		}
	}
}
