package journal

import (
	"math"
	"testing"
	"time"

	"trade-journal/internal/models"
)

func TestAnalyzeExitsBasics(t *testing.T) {
	opened := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		closedBetween("t1", opened, opened.Add(4*time.Hour), 100),
		openTrade("open", opened),
	}

	exits := AnalyzeExits(trades, DefaultConfig())
	if len(exits) != 1 {
		t.Fatalf("expected 1 row, got %d", len(exits))
	}

	row := exits[0]
	if row.HoldHours != 4 {
		t.Errorf("hold hours = %v, want 4", row.HoldHours)
	}
	if row.PnLPerHour != 25 {
		t.Errorf("pnl per hour = %v, want 25", row.PnLPerHour)
	}
	if !row.IsWin || len(row.Flags) != 0 {
		t.Errorf("row = %+v, want clean win", row)
	}
}

func TestAnalyzeExitsMinHoldFloor(t *testing.T) {
	opened := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	// A ten-second scalp: the divisor floors at one minute instead of
	// exploding the ratio.
	trades := []models.Trade{closedBetween("scalp", opened, opened.Add(10*time.Second), 10)}

	exits := AnalyzeExits(trades, DefaultConfig())
	want := 10 / (1.0 / 60.0)
	if math.Abs(exits[0].PnLPerHour-want) > 1e-9 {
		t.Errorf("pnl per hour = %v, want %v (floored divisor)", exits[0].PnLPerHour, want)
	}
}

func TestAnalyzeExitsNegativeDurationFlag(t *testing.T) {
	opened := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	trades := []models.Trade{closedBetween("bad", opened, opened.Add(-2*time.Hour), 50)}

	exits := AnalyzeExits(trades, DefaultConfig())
	row := exits[0]
	if row.HoldHours != -2 {
		t.Errorf("hold hours = %v, want -2 preserved", row.HoldHours)
	}
	if len(row.Flags) != 1 || row.Flags[0].Code != models.FlagNegativeDuration {
		t.Fatalf("flags = %+v, want one negative_duration flag", row.Flags)
	}
	// The divisor still floors, so the ratio stays finite and positive-signed.
	want := 50 / (1.0 / 60.0)
	if math.Abs(row.PnLPerHour-want) > 1e-9 {
		t.Errorf("pnl per hour = %v, want %v", row.PnLPerHour, want)
	}
}

func TestAnalyzeExitsChronologicalOrder(t *testing.T) {
	trades := []models.Trade{
		closedAt("late", day(5), 1),
		closedAt("early", day(2), 1),
	}
	exits := AnalyzeExits(trades, DefaultConfig())
	if exits[0].TradeID != "early" || exits[1].TradeID != "late" {
		t.Errorf("rows out of close order: %s, %s", exits[0].TradeID, exits[1].TradeID)
	}
}

func TestComputeEfficiencyTiers(t *testing.T) {
	opened := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		closedBetween("high", opened, opened.Add(time.Hour), 80),     // 80/h
		closedBetween("moderate", opened, opened.Add(time.Hour), 20), // 20/h
		closedBetween("low", opened, opened.Add(time.Hour), 5),       // 5/h
		closedBetween("negative", opened, opened.Add(time.Hour), -30),
	}

	cfg := DefaultConfig()
	tiers := ComputeEfficiencyTiers(AnalyzeExits(trades, cfg), cfg)

	if len(tiers) != 4 {
		t.Fatalf("tier rows = %d, want 4", len(tiers))
	}
	for _, tier := range tiers {
		if tier.Count != 1 {
			t.Errorf("tier %s count = %d, want 1", tier.Tier, tier.Count)
		}
	}
	if tiers[0].Tier != "high" || tiers[0].AvgPnLPerHour != 80 {
		t.Errorf("high tier = %+v", tiers[0])
	}
	if tiers[3].Tier != "negative" || tiers[3].AvgPnL != -30 {
		t.Errorf("negative tier = %+v", tiers[3])
	}
}

func TestComputeEfficiencyTiersBoundaries(t *testing.T) {
	opened := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		closedBetween("exactly50", opened, opened.Add(time.Hour), 50),
		closedBetween("exactly0", opened, opened.Add(time.Hour), 0),
	}

	cfg := DefaultConfig()
	tiers := ComputeEfficiencyTiers(AnalyzeExits(trades, cfg), cfg)

	byName := map[string]models.EfficiencyTierStats{}
	for _, tier := range tiers {
		byName[tier.Tier] = tier
	}
	if byName["high"].Count != 1 {
		t.Errorf("50/h belongs in high (floor inclusive), got %+v", byName)
	}
	if byName["low"].Count != 1 {
		t.Errorf("0/h belongs in low, got %+v", byName)
	}
}

func TestComputeEfficiencyTiersEmptyInput(t *testing.T) {
	tiers := ComputeEfficiencyTiers(nil, DefaultConfig())
	if len(tiers) != 4 {
		t.Fatalf("tier rows = %d, want every configured tier reported", len(tiers))
	}
	for _, tier := range tiers {
		if tier.Count != 0 || tier.AvgPnL != 0 {
			t.Errorf("empty tier %s = %+v", tier.Tier, tier)
		}
	}
}
