package journal

import (
	"math"

	"trade-journal/internal/models"
)

// ComputeStats derives the summary statistics over the closed trades in
// the collection in a single pass. Empty and all-open inputs yield a
// well-defined zero result, never an error.
func ComputeStats(trades []models.Trade, cfg Config) models.AdvancedStats {
	closed := closedTrades(trades)

	var stats models.AdvancedStats
	stats.TotalClosed = len(closed)
	if len(closed) == 0 {
		return stats
	}

	var rMultiples []float64
	for i := range closed {
		t := &closed[i]
		pnl := t.RealizedPnL()

		if pnl > 0 {
			stats.Wins++
			stats.GrossProfit += pnl
			if pnl > stats.LargestWin {
				stats.LargestWin = pnl
			}
		} else {
			stats.Losses++
			stats.GrossLoss += pnl
			if pnl < stats.LargestLoss {
				stats.LargestLoss = pnl
			}
		}

		if t.PlannedRisk != nil && *t.PlannedRisk > 0 {
			rMultiples = append(rMultiples, pnl/(*t.PlannedRisk))
		}
	}

	stats.WinRate = float64(stats.Wins) / float64(stats.TotalClosed) * 100
	if stats.Wins > 0 {
		stats.AvgWin = stats.GrossProfit / float64(stats.Wins)
	}
	if stats.Losses > 0 {
		stats.AvgLoss = stats.GrossLoss / float64(stats.Losses)
	}

	stats.ProfitFactor = profitFactor(stats.Wins, stats.GrossProfit, stats.GrossLoss)
	stats.Expectancy = expectancy(closed, rMultiples, stats.AvgLoss)
	stats.SharpeRatio = sharpeRatio(BuildDailyPnL(closed, cfg.location()), cfg.TradingPeriodsPerYear)
	stats.Kelly = kellyInputs(stats)

	return stats
}

// profitFactor is sumOfWins / |sumOfLosses| with two sentinels: +Inf when
// there are wins and zero losses, 0 when there are no wins.
func profitFactor(wins int, grossProfit, grossLoss float64) float64 {
	if wins == 0 {
		return 0
	}
	if grossLoss == 0 {
		return math.Inf(1)
	}
	return grossProfit / math.Abs(grossLoss)
}

// expectancy is expressed in R-multiples: the average of pnl/plannedRisk
// when any trade records a planned risk, else average pnl normalized by
// the average loss magnitude as a proxy.
func expectancy(closed []models.Trade, rMultiples []float64, avgLoss float64) float64 {
	if len(rMultiples) > 0 {
		var sum float64
		for _, r := range rMultiples {
			sum += r
		}
		return sum / float64(len(rMultiples))
	}

	lossMag := math.Abs(avgLoss)
	if lossMag == 0 {
		return 0
	}
	var total float64
	for i := range closed {
		total += closed[i].RealizedPnL()
	}
	return total / float64(len(closed)) / lossMag
}

// sharpeRatio annualizes mean(dailyReturns)/stddev(dailyReturns) using
// the population standard deviation. Flat returns give 0, not an error.
func sharpeRatio(daily []models.DailyPnl, periodsPerYear float64) float64 {
	if len(daily) < 2 {
		return 0
	}

	var mean float64
	for _, d := range daily {
		mean += d.PnL
	}
	mean /= float64(len(daily))

	var variance float64
	for _, d := range daily {
		diff := d.PnL - mean
		variance += diff * diff
	}
	variance /= float64(len(daily))

	stdDev := math.Sqrt(variance)
	if stdDev == 0 {
		return 0
	}
	return mean / stdDev * math.Sqrt(periodsPerYear)
}

// kellyInputs derives the full-Kelly fraction from win probability and
// the win/loss ratio. Defined is false when avgWinRR <= 0; the caller
// surfaces that as "N/A".
func kellyInputs(stats models.AdvancedStats) models.KellyInputs {
	k := models.KellyInputs{
		WinProbability: stats.WinRate / 100,
	}
	lossMag := math.Abs(stats.AvgLoss)
	if lossMag > 0 {
		k.AvgWinRR = stats.AvgWin / lossMag
	}
	if k.AvgWinRR <= 0 {
		return k
	}
	k.Defined = true
	k.FullKelly = (k.WinProbability*k.AvgWinRR - (1 - k.WinProbability)) / k.AvgWinRR
	return k
}
