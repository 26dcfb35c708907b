package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"factorgate/domain/core"
)

func TestWriteWorkbookSheets(t *testing.T) {
	result := sampleResult(t)
	factorID := result.Alerts[0].FactorID
	sharpe := 0.9
	histories := map[core.FactorID][]core.PerformanceRecord{
		factorID: {
			{Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), IC: 0.021, ICIR: 0.4, Sharpe: &sharpe, Weight: 0.1, SignalCount: 50},
			{Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), IC: 0.018, ICIR: 0.35, Weight: 0.1, SignalCount: 48},
		},
	}
	path := filepath.Join(t.TempDir(), "daily_check.xlsx")

	require.NoError(t, WriteWorkbook(result, histories, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Alerts", "History"}, f.GetSheetList())

	checked, err := f.GetCellValue("Summary", "B4")
	require.NoError(t, err)
	assert.Equal(t, "3", checked)

	alertType, err := f.GetCellValue("Alerts", "B2")
	require.NoError(t, err)
	assert.Equal(t, "IC_DECAY", alertType)

	historyFactor, err := f.GetCellValue("History", "A2")
	require.NoError(t, err)
	assert.Equal(t, factorID.String(), historyFactor)

	// Records without a Sharpe leave the cell blank
	blankSharpe, err := f.GetCellValue("History", "E3")
	require.NoError(t, err)
	assert.Equal(t, "", blankSharpe)
}

func TestWriteWorkbookWithoutHistories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daily_check.xlsx")

	require.NoError(t, WriteWorkbook(sampleResult(t), nil, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Alerts"}, f.GetSheetList())
}
