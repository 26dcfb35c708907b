package overfit

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// eulerMascheroni appears in the expected-maximum approximation for
// independent Gaussian trials.
const eulerMascheroni = 0.5772156649015329

// tradingYear is the floor for any minimum backtest length, in days.
const tradingYear = 252

// MinimumBacktestLength returns a lower bound on the number of daily
// observations needed before a strategy selected as the best of nTrials
// independent trials can credibly claim targetSharpe, following the
// Bailey et al. minimum backtest length approximation. The expected maximum
// Sharpe of N zero-skill trials grows like
//
//	E[max] ~ (1-gamma)*Z(1-1/N) + gamma*Z(1-1/(N*e))
//
// with Z the standard normal quantile; the bound is the number of days at
// which targetSharpe clears that noise ceiling. Never less than one trading
// year.
func MinimumBacktestLength(nTrials int, targetSharpe float64) int {
	if nTrials < 2 || targetSharpe <= 0 {
		return tradingYear
	}

	norm := distuv.UnitNormal
	n := float64(nTrials)
	expectedMax := (1-eulerMascheroni)*norm.Quantile(1-1/n) +
		eulerMascheroni*norm.Quantile(1-1/(n*math.E))

	// Convert annualized target Sharpe to the daily scale the noise bound
	// lives on: days = (E[max] / dailySharpe)^2.
	dailySharpe := targetSharpe / math.Sqrt(tradingYear)
	required := int(math.Ceil(math.Pow(expectedMax/dailySharpe, 2)))
	if required < tradingYear {
		return tradingYear
	}
	return required
}
