package journal

import (
	"sort"
	"time"

	"trade-journal/internal/models"
)

// BuildDailyPnL aggregates closed trades into one row per calendar date
// (in loc) containing at least one close, ordered by date ascending.
// The aggregation conserves total P&L: sum(rows.PnL) == sum(closed.PnL).
func BuildDailyPnL(trades []models.Trade, loc *time.Location) []models.DailyPnl {
	if loc == nil {
		loc = time.UTC
	}

	byDate := make(map[time.Time]*models.DailyPnl)
	for i := range trades {
		t := &trades[i]
		if !t.Closed() {
			continue
		}
		closed := t.ClosedAt.In(loc)
		date := time.Date(closed.Year(), closed.Month(), closed.Day(), 0, 0, 0, 0, loc)

		row, ok := byDate[date]
		if !ok {
			row = &models.DailyPnl{Date: date}
			byDate[date] = row
		}
		row.PnL += t.RealizedPnL()
		row.TradeCount++
	}

	rows := make([]models.DailyPnl, 0, len(byDate))
	for _, row := range byDate {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows
}

// ComputeDrawdown walks the daily P&L series in date order, building a
// running cumulative equity and tracking peak-to-trough drawdown.
// MaxDrawdownDuration counts the consecutive days the curve stayed below
// the peak that produced the max drawdown; it resets the day a new peak
// is set. Empty input yields all zeros.
func ComputeDrawdown(daily []models.DailyPnl) models.DrawdownStats {
	var stats models.DrawdownStats
	if len(daily) == 0 {
		return stats
	}

	var equity, peak float64
	var daysBelowPeak int
	var inMaxEpisode bool

	for _, d := range daily {
		equity += d.PnL

		if equity >= peak {
			peak = equity
			daysBelowPeak = 0
			inMaxEpisode = false
			continue
		}

		daysBelowPeak++
		drawdown := peak - equity
		if drawdown > stats.MaxDrawdown {
			stats.MaxDrawdown = drawdown
			// The duration follows the episode containing the max, so a
			// deeper episode supersedes an earlier, longer one.
			stats.MaxDrawdownDuration = daysBelowPeak
			inMaxEpisode = true
		} else if inMaxEpisode && daysBelowPeak > stats.MaxDrawdownDuration {
			stats.MaxDrawdownDuration = daysBelowPeak
		}
	}

	stats.CurrentDrawdown = peak - equity
	return stats
}

// ComputeStreaks operates at trade granularity: closed trades in
// chronological close order, a counter incrementing on same-sign
// outcomes (pnl > 0 win, pnl <= 0 loss) and resetting on sign change.
// Current reflects the trailing run ending at the most recent trade.
func ComputeStreaks(trades []models.Trade) models.StreakStats {
	closed := closedTrades(trades)
	sort.Slice(closed, func(i, j int) bool { return closed[i].ClosedAt.Before(*closed[j].ClosedAt) })

	stats := models.StreakStats{Current: models.Streak{Type: models.StreakNone}}

	var run models.Streak
	for i := range closed {
		outcome := models.StreakLoss
		if closed[i].RealizedPnL() > 0 {
			outcome = models.StreakWin
		}

		if outcome == run.Type {
			run.Count++
		} else {
			run = models.Streak{Type: outcome, Count: 1}
		}

		switch run.Type {
		case models.StreakWin:
			if run.Count > stats.BestWinStreak {
				stats.BestWinStreak = run.Count
			}
		case models.StreakLoss:
			if run.Count > stats.WorstLoseStreak {
				stats.WorstLoseStreak = run.Count
			}
		}
	}

	if run.Count > 0 {
		stats.Current = run
	}
	return stats
}
