package journal

import (
	"sort"

	"trade-journal/internal/models"
)

// AnalyzeExits derives per-trade holding time and P&L-per-hour for every
// closed trade, in chronological close order. A close preceding its open
// is never silently corrected: the row is kept and carries a
// negative_duration flag so the caller can warn the user.
func AnalyzeExits(trades []models.Trade, cfg Config) []models.TradeExitAnalysis {
	minHold := cfg.MinHoldHours
	if minHold <= 0 {
		minHold = DefaultConfig().MinHoldHours
	}

	closed := closedTrades(trades)
	sort.Slice(closed, func(i, j int) bool { return closed[i].ClosedAt.Before(*closed[j].ClosedAt) })

	out := make([]models.TradeExitAnalysis, 0, len(closed))
	for i := range closed {
		t := &closed[i]
		holdHours := t.HoldDuration().Hours()

		row := models.TradeExitAnalysis{
			TradeID:   t.ID,
			Symbol:    t.Symbol,
			PnL:       t.RealizedPnL(),
			IsWin:     t.IsWin(),
			HoldHours: holdHours,
		}
		if holdHours < 0 {
			row.Flags = append(row.Flags, models.Flag{
				Code:    models.FlagNegativeDuration,
				TradeID: t.ID,
				Symbol:  t.Symbol,
				Detail:  "close timestamp precedes open timestamp",
			})
		}

		divisor := holdHours
		if divisor < minHold {
			divisor = minHold
		}
		row.PnLPerHour = row.PnL / divisor

		out = append(out, row)
	}
	return out
}

// ComputeEfficiencyTiers groups exit-quality rows into the configured
// named tiers by P&L-per-hour threshold. Every configured tier is
// reported, including empty ones.
func ComputeEfficiencyTiers(exits []models.TradeExitAnalysis, cfg Config) []models.EfficiencyTierStats {
	tiers := cfg.EfficiencyTiers
	if len(tiers) == 0 {
		tiers = DefaultConfig().EfficiencyTiers
	}

	stats := make([]models.EfficiencyTierStats, len(tiers))
	for i, tier := range tiers {
		stats[i].Tier = tier.Name
	}

	for _, row := range exits {
		idx := efficiencyTierIndex(tiers, row.PnLPerHour)
		s := &stats[idx]
		s.Count++
		s.AvgHoldHours += row.HoldHours
		s.AvgPnL += row.PnL
		s.AvgPnLPerHour += row.PnLPerHour
	}

	for i := range stats {
		if stats[i].Count == 0 {
			continue
		}
		n := float64(stats[i].Count)
		stats[i].AvgHoldHours /= n
		stats[i].AvgPnL /= n
		stats[i].AvgPnLPerHour /= n
	}
	return stats
}

// efficiencyTierIndex returns the first tier whose Min the value meets;
// the table is ordered by descending Min with a catch-all last row.
func efficiencyTierIndex(tiers []EfficiencyTier, pnlPerHour float64) int {
	for i, tier := range tiers {
		if pnlPerHour >= tier.Min {
			return i
		}
	}
	return len(tiers) - 1
}
