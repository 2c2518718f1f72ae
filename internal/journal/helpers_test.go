package journal

import (
	"time"

	"trade-journal/internal/models"
)

// closedAt builds a closed trade with a provided P&L, opened two hours
// before the close.
func closedAt(id string, at time.Time, pnl float64) models.Trade {
	return closedBetween(id, at.Add(-2*time.Hour), at, pnl)
}

func closedBetween(id string, opened, closed time.Time, pnl float64) models.Trade {
	exit := 100.0
	return models.Trade{
		ID:         id,
		Symbol:     "AAPL",
		Side:       models.SideLong,
		EntryPrice: 100,
		ExitPrice:  &exit,
		Quantity:   1,
		OpenedAt:   opened,
		ClosedAt:   &closed,
		PnL:        models.ProvidedPnL(pnl),
	}
}

func openTrade(id string, opened time.Time) models.Trade {
	return models.Trade{
		ID:         id,
		Symbol:     "AAPL",
		Side:       models.SideLong,
		EntryPrice: 100,
		Quantity:   1,
		OpenedAt:   opened,
	}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(s string) *string     { return &s }

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 15, 0, 0, 0, time.UTC)
}
