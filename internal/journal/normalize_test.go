package journal

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"trade-journal/internal/models"
)

func validRaw() models.RawTrade {
	return models.RawTrade{
		ID:         "t1",
		Symbol:     "AAPL",
		Side:       models.SideLong,
		EntryPrice: 100,
		ExitPrice:  floatPtr(110),
		Quantity:   10,
		Fees:       5,
		OpenTime:   "2026-03-02T14:30:00Z",
		CloseTime:  strPtr("2026-03-02T16:30:00Z"),
	}
}

func TestNormalizeDerivesPnL(t *testing.T) {
	trades, rejected := Normalize([]models.RawTrade{validRaw()})

	if len(rejected) != 0 {
		t.Fatalf("expected no rejections, got %v", rejected)
	}
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}

	tr := trades[0]
	if !tr.Closed() {
		t.Fatal("trade should be closed")
	}
	// (110-100)*10 - 5
	if got := tr.RealizedPnL(); got != 95 {
		t.Errorf("derived pnl = %v, want 95", got)
	}
	if tr.PnL.Source != models.PnLDerived {
		t.Errorf("pnl source = %v, want DERIVED", tr.PnL.Source)
	}
	if !tr.IsWin() {
		t.Error("trade with pnl 95 should be a win")
	}
}

func TestNormalizeProvidedPnLIsAuthoritative(t *testing.T) {
	raw := validRaw()
	raw.PnL = floatPtr(-40)

	trades, _ := Normalize([]models.RawTrade{raw})
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	if got := trades[0].RealizedPnL(); got != -40 {
		t.Errorf("pnl = %v, want the provided -40 over the derivable 95", got)
	}
	if trades[0].PnL.Source != models.PnLProvided {
		t.Errorf("pnl source = %v, want PROVIDED", trades[0].PnL.Source)
	}
}

func TestNormalizeShortSide(t *testing.T) {
	raw := validRaw()
	raw.Side = models.SideShort

	trades, _ := Normalize([]models.RawTrade{raw})
	// (110-100)*10*(-1) - 5
	if got := trades[0].RealizedPnL(); got != -105 {
		t.Errorf("short pnl = %v, want -105", got)
	}
}

func TestNormalizeDefaultsSideToLong(t *testing.T) {
	raw := validRaw()
	raw.Side = ""

	trades, _ := Normalize([]models.RawTrade{raw})
	if trades[0].Side != models.SideLong {
		t.Errorf("side = %q, want LONG default", trades[0].Side)
	}
}

func TestNormalizeRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.RawTrade)
	}{
		{"zero entry price", func(r *models.RawTrade) { r.EntryPrice = 0 }},
		{"negative entry price", func(r *models.RawTrade) { r.EntryPrice = -5 }},
		{"zero quantity", func(r *models.RawTrade) { r.Quantity = 0 }},
		{"bad open timestamp", func(r *models.RawTrade) { r.OpenTime = "yesterday" }},
		{"bad close timestamp", func(r *models.RawTrade) { r.CloseTime = strPtr("soon") }},
		{"exit price without close time", func(r *models.RawTrade) { r.CloseTime = nil }},
		{"close time without exit price", func(r *models.RawTrade) { r.ExitPrice = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mutate(&raw)

			trades, rejected := Normalize([]models.RawTrade{raw})
			if len(trades) != 0 {
				t.Errorf("expected rejection, got trade %+v", trades[0])
			}
			if len(rejected) != 1 {
				t.Fatalf("expected 1 rejection, got %d", len(rejected))
			}
			if rejected[0].ID != "t1" || rejected[0].Index != 0 {
				t.Errorf("rejection context = %+v", rejected[0])
			}
		})
	}
}

func TestNormalizeBadRecordDoesNotBlockBatch(t *testing.T) {
	bad := validRaw()
	bad.ID = "bad"
	bad.EntryPrice = 0

	good := validRaw()
	good.ID = "good"

	trades, rejected := Normalize([]models.RawTrade{bad, good})
	if len(trades) != 1 || trades[0].ID != "good" {
		t.Fatalf("expected only the good trade, got %+v", trades)
	}
	if len(rejected) != 1 || rejected[0].ID != "bad" {
		t.Fatalf("expected only the bad rejection, got %+v", rejected)
	}
}

func TestNormalizeOpenTradeHasNoPnL(t *testing.T) {
	raw := validRaw()
	raw.ExitPrice = nil
	raw.CloseTime = nil

	trades, _ := Normalize([]models.RawTrade{raw})
	if trades[0].Closed() {
		t.Fatal("trade should be open")
	}
	if trades[0].PnL != nil {
		t.Errorf("open trade pnl = %+v, want nil", trades[0].PnL)
	}
}

func TestNormalizeKeepsNegativeDuration(t *testing.T) {
	raw := validRaw()
	raw.OpenTime = "2026-03-02T16:30:00Z"
	raw.CloseTime = strPtr("2026-03-02T14:30:00Z")

	trades, rejected := Normalize([]models.RawTrade{raw})
	if len(rejected) != 0 {
		t.Fatalf("inconsistent timestamps must not reject, got %v", rejected)
	}
	if trades[0].HoldDuration() >= 0 {
		t.Errorf("hold duration = %v, want negative", trades[0].HoldDuration())
	}
}

// Every accepted trade partitions into accepted + rejected exactly, and
// derived P&L follows the direction-signed formula.
func TestNormalizeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("derived pnl matches the signed formula", prop.ForAll(
		func(entry, exit, qty, fees float64, short bool) bool {
			raw := validRaw()
			raw.EntryPrice = entry
			raw.ExitPrice = &exit
			raw.Quantity = qty
			raw.Fees = fees
			if short {
				raw.Side = models.SideShort
			}

			trades, rejected := Normalize([]models.RawTrade{raw})
			if len(rejected) != 0 {
				return false
			}

			sign := 1.0
			if short {
				sign = -1
			}
			want := (exit-entry)*qty*sign - fees
			return math.Abs(trades[0].RealizedPnL()-want) < 1e-9
		},
		gen.Float64Range(0.01, 1e6),
		gen.Float64Range(0.01, 1e6),
		gen.Float64Range(0.01, 1e4),
		gen.Float64Range(0, 1e3),
		gen.Bool(),
	))

	properties.Property("accepted plus rejected equals input size", prop.ForAll(
		func(entries []float64) bool {
			raw := make([]models.RawTrade, len(entries))
			for i, e := range entries {
				r := validRaw()
				r.EntryPrice = e // may be <= 0, forcing a rejection
				raw[i] = r
			}
			trades, rejected := Normalize(raw)
			return len(trades)+len(rejected) == len(raw)
		},
		gen.SliceOf(gen.Float64Range(-10, 10)),
	))

	properties.TestingRun(t)
}
