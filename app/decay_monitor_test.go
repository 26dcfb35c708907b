package app

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"factorgate/domain/core"
	"factorgate/domain/decay"
	"factorgate/internal/testkit"
)

// Mock implementations for the collaborator ports

type MockFactorRepository struct {
	mock.Mock
}

func (m *MockFactorRepository) FindActiveFactors(ctx context.Context) ([]core.Factor, error) {
	args := m.Called(ctx)
	return args.Get(0).([]core.Factor), args.Error(1)
}

func (m *MockFactorRepository) GetPerformanceHistory(ctx context.Context, factorID core.FactorID, days int) ([]core.PerformanceRecord, error) {
	args := m.Called(ctx, factorID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	history := args.Get(0).([]core.PerformanceRecord)
	if len(history) > days {
		history = history[:days]
	}
	return history, args.Error(1)
}

func (m *MockFactorRepository) GetCorrelationMatrix(ctx context.Context) (decay.CorrelationMatrix, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(decay.CorrelationMatrix), args.Error(1)
}

type MockMarketDataProvider struct {
	mock.Mock
}

func (m *MockMarketDataProvider) GetMarketReturns(ctx context.Context, days int) ([]float64, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

type MockAlertSink struct {
	mock.Mock
	sent []decay.Alert
}

func (m *MockAlertSink) Send(ctx context.Context, alert decay.Alert) error {
	m.sent = append(m.sent, alert)
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func activeFactor(id string) core.Factor {
	return core.Factor{ID: core.FactorID(id), Name: id, Status: core.StatusActive}
}

// decayedICHistory builds 20 most-recent-first records averaging 0.02 with a
// single 0.10 peak, no Sharpe values.
func decayedICHistory() []core.PerformanceRecord {
	history := testkit.GeneratePerformanceHistory(20, 0, 0, 1)
	fill := (0.02*20 - 0.10) / 19
	for i := range history {
		history[i].IC = fill
		history[i].Sharpe = nil
	}
	history[19].IC = 0.10
	return history
}

func healthyHistory(n int) []core.PerformanceRecord {
	history := testkit.GeneratePerformanceHistory(n, 0.06, 0.005, 2)
	for i := range history {
		sharpe := 1.2
		history[i].Sharpe = &sharpe
	}
	return history
}

func TestRunDailyCheck_ICDecayCritical(t *testing.T) {
	repo := &MockFactorRepository{}
	repo.On("FindActiveFactors", mock.Anything).Return([]core.Factor{activeFactor("momentum-1")}, nil)
	repo.On("GetPerformanceHistory", mock.Anything, core.FactorID("momentum-1"), mock.Anything).
		Return(decayedICHistory(), nil)
	repo.On("GetCorrelationMatrix", mock.Anything).Return(decay.CorrelationMatrix{}, nil)

	svc := NewDecayMonitorService(repo, decay.Thresholds{}, zerolog.Nop())
	result, err := svc.RunDailyCheck(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Alerts, 1)
	alert := result.Alerts[0]
	assert.Equal(t, decay.AlertICDecay, alert.Type)
	// Recent mean 0.02 is under 30% of the 0.10 peak
	assert.Equal(t, decay.SeverityCritical, alert.Severity)
	assert.InDelta(t, 0.02, alert.CurrentValue, 1e-9)
	require.NotNil(t, alert.PeakValue)
	assert.InDelta(t, 0.10, *alert.PeakValue, 1e-9)
	assert.Equal(t, []core.FactorID{"momentum-1"}, result.DecayingFactors)
}

func TestRunDailyCheck_SharpeDecay(t *testing.T) {
	history := testkit.GeneratePerformanceHistory(20, 0.06, 0.001, 3)
	for i := range history {
		sharpe := -0.2
		history[i].Sharpe = &sharpe
	}

	repo := &MockFactorRepository{}
	repo.On("FindActiveFactors", mock.Anything).Return([]core.Factor{activeFactor("value-1")}, nil)
	repo.On("GetPerformanceHistory", mock.Anything, core.FactorID("value-1"), mock.Anything).
		Return(history, nil)
	repo.On("GetCorrelationMatrix", mock.Anything).Return(decay.CorrelationMatrix{}, nil)

	svc := NewDecayMonitorService(repo, decay.Thresholds{}, zerolog.Nop())
	result, err := svc.RunDailyCheck(context.Background())
	require.NoError(t, err)

	var sharpeAlerts []decay.Alert
	for _, a := range result.Alerts {
		if a.Type == decay.AlertSharpeDecay {
			sharpeAlerts = append(sharpeAlerts, a)
		}
	}
	require.Len(t, sharpeAlerts, 1)
	assert.Equal(t, decay.SeverityCritical, sharpeAlerts[0].Severity)
	assert.InDelta(t, -0.2, sharpeAlerts[0].CurrentValue, 1e-9)
}

func TestRunDailyCheck_ShortHistorySkipsChecks(t *testing.T) {
	repo := &MockFactorRepository{}
	repo.On("FindActiveFactors", mock.Anything).Return([]core.Factor{activeFactor("fresh-1")}, nil)
	repo.On("GetPerformanceHistory", mock.Anything, core.FactorID("fresh-1"), mock.Anything).
		Return(healthyHistory(5), nil)
	repo.On("GetCorrelationMatrix", mock.Anything).Return(decay.CorrelationMatrix{}, nil)

	svc := NewDecayMonitorService(repo, decay.Thresholds{}, zerolog.Nop())
	result, err := svc.RunDailyCheck(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Alerts)
	assert.Equal(t, 1, result.FactorsChecked)
}

func TestRunDailyCheck_PerFactorIsolation(t *testing.T) {
	repo := &MockFactorRepository{}
	repo.On("FindActiveFactors", mock.Anything).
		Return([]core.Factor{activeFactor("broken-1"), activeFactor("momentum-1")}, nil)
	repo.On("GetPerformanceHistory", mock.Anything, core.FactorID("broken-1"), mock.Anything).
		Return(nil, errors.New("history table unavailable"))
	repo.On("GetPerformanceHistory", mock.Anything, core.FactorID("momentum-1"), mock.Anything).
		Return(decayedICHistory(), nil)
	repo.On("GetCorrelationMatrix", mock.Anything).Return(decay.CorrelationMatrix{}, nil)

	svc := NewDecayMonitorService(repo, decay.Thresholds{}, zerolog.Nop())
	result, err := svc.RunDailyCheck(context.Background())
	require.NoError(t, err)

	// The broken factor is skipped, the healthy one still alerts
	require.Len(t, result.Alerts, 1)
	assert.Equal(t, core.FactorID("momentum-1"), result.Alerts[0].FactorID)
	assert.Equal(t, 2, result.FactorsChecked)
}

func TestRunDailyCheck_CrowdingUsesMarketData(t *testing.T) {
	history := healthyHistory(60)
	marketReturns := make([]float64, 60)
	for i := range marketReturns {
		// Market returns proportional to the factor's IC series: correlation 1
		marketReturns[i] = history[i].IC * 2
	}

	repo := &MockFactorRepository{}
	repo.On("FindActiveFactors", mock.Anything).Return([]core.Factor{activeFactor("carry-1")}, nil)
	repo.On("GetPerformanceHistory", mock.Anything, core.FactorID("carry-1"), mock.Anything).
		Return(history, nil)
	repo.On("GetCorrelationMatrix", mock.Anything).Return(decay.CorrelationMatrix{}, nil)

	market := &MockMarketDataProvider{}
	market.On("GetMarketReturns", mock.Anything, 60).Return(marketReturns, nil)

	svc := NewDecayMonitorService(repo, decay.Thresholds{}, zerolog.Nop()).WithMarketData(market)
	result, err := svc.RunDailyCheck(context.Background())
	require.NoError(t, err)

	var crowding []decay.Alert
	for _, a := range result.Alerts {
		if a.Type == decay.AlertCrowding {
			crowding = append(crowding, a)
		}
	}
	require.Len(t, crowding, 1)
	assert.Equal(t, decay.SeverityCritical, crowding[0].Severity)
	assert.Equal(t, []core.FactorID{"carry-1"}, result.CrowdedFactors)
}

func TestRunDailyCheck_MarketDataFailureIsSwallowed(t *testing.T) {
	repo := &MockFactorRepository{}
	repo.On("FindActiveFactors", mock.Anything).Return([]core.Factor{activeFactor("carry-1")}, nil)
	repo.On("GetPerformanceHistory", mock.Anything, core.FactorID("carry-1"), mock.Anything).
		Return(healthyHistory(60), nil)
	repo.On("GetCorrelationMatrix", mock.Anything).Return(decay.CorrelationMatrix{}, nil)

	market := &MockMarketDataProvider{}
	market.On("GetMarketReturns", mock.Anything, mock.Anything).
		Return(nil, errors.New("vendor outage"))

	svc := NewDecayMonitorService(repo, decay.Thresholds{}, zerolog.Nop()).WithMarketData(market)
	result, err := svc.RunDailyCheck(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.CrowdedFactors)
}

func TestRunDailyCheck_CorrelationSpikes(t *testing.T) {
	matrix := decay.CorrelationMatrix{}
	matrix.Set("momentum-1", "momentum-2", 0.85)
	matrix.Set("momentum-1", "value-1", 0.1)

	repo := &MockFactorRepository{}
	repo.On("FindActiveFactors", mock.Anything).
		Return([]core.Factor{activeFactor("momentum-1"), activeFactor("momentum-2"), activeFactor("value-1")}, nil)
	repo.On("GetPerformanceHistory", mock.Anything, mock.Anything, mock.Anything).
		Return(healthyHistory(5), nil)
	repo.On("GetCorrelationMatrix", mock.Anything).Return(matrix, nil)

	svc := NewDecayMonitorService(repo, decay.Thresholds{}, zerolog.Nop())
	result, err := svc.RunDailyCheck(context.Background())
	require.NoError(t, err)

	require.Len(t, result.CorrelatedPairs, 1)
	pair := result.CorrelatedPairs[0]
	assert.Equal(t, core.FactorID("momentum-1"), pair.FactorA)
	assert.Equal(t, core.FactorID("momentum-2"), pair.FactorB)
	assert.InDelta(t, 0.85, pair.Correlation, 1e-12)
	require.Len(t, result.Alerts, 1)
	assert.Equal(t, decay.AlertCorrelationSpike, result.Alerts[0].Type)
}

func TestRunDailyCheck_DispatchesToSink(t *testing.T) {
	repo := &MockFactorRepository{}
	repo.On("FindActiveFactors", mock.Anything).Return([]core.Factor{activeFactor("momentum-1")}, nil)
	repo.On("GetPerformanceHistory", mock.Anything, core.FactorID("momentum-1"), mock.Anything).
		Return(decayedICHistory(), nil)
	repo.On("GetCorrelationMatrix", mock.Anything).Return(decay.CorrelationMatrix{}, nil)

	sink := &MockAlertSink{}
	sink.On("Send", mock.Anything, mock.Anything).Return(errors.New("webhook down"))

	svc := NewDecayMonitorService(repo, decay.Thresholds{}, zerolog.Nop()).WithAlertSink(sink)
	result, err := svc.RunDailyCheck(context.Background())

	// Sink failures never fail the run
	require.NoError(t, err)
	require.Len(t, result.Alerts, 1)
	assert.Len(t, sink.sent, 1)
	assert.Equal(t, decay.AlertICDecay, sink.sent[0].Type)
}

func TestRunDailyCheck_RepositoryFailure(t *testing.T) {
	repo := &MockFactorRepository{}
	repo.On("FindActiveFactors", mock.Anything).
		Return([]core.Factor(nil), errors.New("connection refused"))

	svc := NewDecayMonitorService(repo, decay.Thresholds{}, zerolog.Nop())
	_, err := svc.RunDailyCheck(context.Background())
	require.Error(t, err)
}
