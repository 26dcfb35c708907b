package papertrade

import (
	"sort"
	"time"

	mstats "github.com/montanaflynn/stats"

	"factorgate/domain/stats"
)

// ComputeRealizedMetrics derives trial metrics from signal/outcome records.
// Records without an outcome count toward TotalSignals only. The daily
// strategy return is the mean of sign(signal)*outcome across that day's
// resolved records; IC is the per-day rank correlation between signals and
// outcomes.
func ComputeRealizedMetrics(records []SignalRecord, annualizationFactor float64) RealizedMetrics {
	m := RealizedMetrics{TotalSignals: len(records)}

	byDay := make(map[time.Time][]SignalRecord)
	for _, rec := range records {
		if rec.Outcome == nil {
			continue
		}
		m.SignalsWithOutcomes++
		day := rec.Date.Truncate(24 * time.Hour)
		byDay[day] = append(byDay[day], rec)
	}
	if m.SignalsWithOutcomes == 0 {
		return m
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	dailyReturns := make([]float64, 0, len(days))
	dailyICs := make([]float64, 0, len(days))
	hits, resolved := 0, 0

	for _, day := range days {
		recs := byDay[day]
		signals := make([]float64, len(recs))
		outcomes := make([]float64, len(recs))
		var pnl float64
		for i, rec := range recs {
			signals[i] = rec.Signal
			outcomes[i] = *rec.Outcome
			pnl += signOf(rec.Signal) * *rec.Outcome
			if signOf(rec.Signal)**rec.Outcome > 0 {
				hits++
			}
			resolved++
		}
		dailyReturns = append(dailyReturns, pnl/float64(len(recs)))
		if len(recs) >= 2 {
			dailyICs = append(dailyICs, stats.SpearmanCorrelation(signals, outcomes))
		}
	}

	m.Sharpe = stats.Sharpe(dailyReturns, annualizationFactor)
	m.MaxDrawdown = maxDrawdown(dailyReturns)
	m.HitRate = float64(hits) / float64(resolved)
	m.ICMean = stats.Mean(dailyICs)
	if std := stats.SampleStd(dailyICs); std > 1e-15 {
		m.ICIR = m.ICMean / std
	}
	m.AvgDailyTurnover = averageTurnover(days, byDay)

	return m
}

// maxDrawdown is the largest peak-to-trough fall of the cumulative return
// path, reported as a non-negative number.
func maxDrawdown(dailyReturns []float64) float64 {
	cumulative, err := mstats.CumulativeSum(dailyReturns)
	if err != nil {
		return 0
	}
	peak, worst := 0.0, 0.0
	for _, c := range cumulative {
		if c > peak {
			peak = c
		}
		if dd := peak - c; dd > worst {
			worst = dd
		}
	}
	return worst
}

// averageTurnover measures position churn as the mean fraction of symbols
// whose signal sign flips between consecutive trading days.
func averageTurnover(days []time.Time, byDay map[time.Time][]SignalRecord) float64 {
	if len(days) < 2 {
		return 0
	}
	flips := make([]float64, 0, len(days)-1)
	prev := signsBySymbol(byDay[days[0]])
	for _, day := range days[1:] {
		current := signsBySymbol(byDay[day])
		changed, compared := 0, 0
		for symbol, s := range current {
			p, ok := prev[symbol]
			if !ok {
				continue
			}
			compared++
			if s != p {
				changed++
			}
		}
		if compared > 0 {
			flips = append(flips, float64(changed)/float64(compared))
		}
		prev = current
	}
	return stats.Mean(flips)
}

func signsBySymbol(recs []SignalRecord) map[string]float64 {
	out := make(map[string]float64, len(recs))
	for _, rec := range recs {
		out[rec.Symbol] = signOf(rec.Signal)
	}
	return out
}

func signOf(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
