package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"factorgate/domain/core"
	"factorgate/domain/decay"
)

func sampleResult(t *testing.T) *decay.DailyCheckResult {
	t.Helper()
	factorA := core.FactorID(core.NewID())
	factorB := core.FactorID(core.NewID())
	peak := 0.10
	return &decay.DailyCheckResult{
		RunID:           core.NewRunID(),
		FactorsChecked:  3,
		DecayingFactors: []core.FactorID{factorA},
		CorrelatedPairs: []decay.CorrelatedPair{
			{FactorA: factorA, FactorB: factorB, Correlation: 0.85},
		},
		Alerts: []decay.Alert{
			{
				ID:             core.NewAlertID(),
				FactorID:       factorA,
				Type:           decay.AlertICDecay,
				Severity:       decay.SeverityCritical,
				CurrentValue:   0.02,
				Threshold:      0.05,
				PeakValue:      &peak,
				Recommendation: "IC has decayed from peak; reduce weight and schedule revalidation",
				TriggeredAt:    core.Now(),
			},
		},
		StartedAt: core.Now(),
		Duration:  1500 * time.Millisecond,
	}
}

func TestMarkdownIncludesSummaryAndAlerts(t *testing.T) {
	result := sampleResult(t)

	md := Markdown(result)

	assert.Contains(t, md, "# Daily Factor Health Check")
	assert.Contains(t, md, result.RunID.String())
	assert.Contains(t, md, "| Factors checked | 3 |")
	assert.Contains(t, md, "| Alerts raised | 1 |")
	assert.Contains(t, md, "IC_DECAY")
	assert.Contains(t, md, "CRITICAL")
	assert.Contains(t, md, "0.850")
}

func TestMarkdownOmitsEmptySections(t *testing.T) {
	result := &decay.DailyCheckResult{
		RunID:     core.NewRunID(),
		StartedAt: core.Now(),
	}

	md := Markdown(result)

	assert.NotContains(t, md, "## Alerts")
	assert.NotContains(t, md, "## Correlated Pairs")
}

func TestHTMLRendersTables(t *testing.T) {
	result := sampleResult(t)

	out := string(HTML(result))

	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "IC_DECAY")
}
