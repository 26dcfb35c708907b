package report

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"factorgate/domain/core"
	"factorgate/domain/decay"
	"factorgate/internal/errors"
)

// WriteWorkbook exports a daily-check result as an Excel workbook: a summary
// sheet, an alerts sheet, and a history sheet when per-factor performance
// records are supplied.
func WriteWorkbook(result *decay.DailyCheckResult, histories map[core.FactorID][]core.PerformanceRecord, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return errors.Wrap(err, "failed to create summary sheet")
	}

	summary := [][]interface{}{
		{"Run ID", result.RunID.String()},
		{"Started", result.StartedAt.Time().Format("2006-01-02 15:04:05")},
		{"Duration", result.Duration.String()},
		{"Factors checked", result.FactorsChecked},
		{"Alerts raised", len(result.Alerts)},
		{"Decaying factors", len(result.DecayingFactors)},
		{"Crowded factors", len(result.CrowdedFactors)},
		{"Correlated pairs", len(result.CorrelatedPairs)},
	}
	for i, row := range summary {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return errors.Wrap(err, "failed to write summary row")
		}
	}

	const alertSheet = "Alerts"
	if _, err := f.NewSheet(alertSheet); err != nil {
		return errors.Wrap(err, "failed to create alerts sheet")
	}
	header := []interface{}{"Factor", "Type", "Severity", "Current", "Threshold", "Peak", "Related Factor", "Recommendation", "Triggered At"}
	if err := f.SetSheetRow(alertSheet, "A1", &header); err != nil {
		return errors.Wrap(err, "failed to write alert header")
	}
	for i, a := range result.Alerts {
		peak := ""
		if a.PeakValue != nil {
			peak = fmt.Sprintf("%.4f", *a.PeakValue)
		}
		related := ""
		if a.RelatedFactorID != nil {
			related = a.RelatedFactorID.String()
		}
		row := []interface{}{
			a.FactorID.String(),
			string(a.Type),
			string(a.Severity),
			a.CurrentValue,
			a.Threshold,
			peak,
			related,
			a.Recommendation,
			a.TriggeredAt.Time().Format("2006-01-02 15:04:05"),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(alertSheet, cell, &row); err != nil {
			return errors.Wrap(err, "failed to write alert row")
		}
	}

	if len(histories) > 0 {
		if err := writeHistorySheet(f, histories); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save workbook to %s", path)
	}
	return nil
}

// writeHistorySheet lists the recent performance records of flagged factors,
// one row per factor-day, factors in sorted order for stable output
func writeHistorySheet(f *excelize.File, histories map[core.FactorID][]core.PerformanceRecord) error {
	const historySheet = "History"
	if _, err := f.NewSheet(historySheet); err != nil {
		return errors.Wrap(err, "failed to create history sheet")
	}
	header := []interface{}{"Factor", "Date", "IC", "ICIR", "Sharpe", "Weight", "Signal Count"}
	if err := f.SetSheetRow(historySheet, "A1", &header); err != nil {
		return errors.Wrap(err, "failed to write history header")
	}

	ids := make([]core.FactorID, 0, len(histories))
	for id := range histories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rowNum := 2
	for _, id := range ids {
		for _, record := range histories[id] {
			sharpe := ""
			if record.Sharpe != nil {
				sharpe = fmt.Sprintf("%.4f", *record.Sharpe)
			}
			row := []interface{}{
				id.String(),
				record.Date.Format("2006-01-02"),
				record.IC,
				record.ICIR,
				sharpe,
				record.Weight,
				record.SignalCount,
			}
			cell := fmt.Sprintf("A%d", rowNum)
			if err := f.SetSheetRow(historySheet, cell, &row); err != nil {
				return errors.Wrap(err, "failed to write history row")
			}
			rowNum++
		}
	}
	return nil
}
