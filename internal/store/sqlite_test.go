package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"trade-journal/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func fullRawTrade() models.RawTrade {
	exit := 110.0
	pnl := 95.0
	risk := 50.0
	conf := 8
	score := 7
	closeTime := "2026-03-02T16:30:00Z"
	return models.RawTrade{
		ID:     "t1",
		Symbol: "AAPL",
		Side:   models.SideLong,
		Instrument: models.Instrument{
			AssetClass: "option",
			Attributes: map[string]string{"strike": "180", "expiry": "2026-04-17"},
		},
		EntryPrice:   100,
		ExitPrice:    &exit,
		Quantity:     10,
		Fees:         5,
		PnL:          &pnl,
		OpenTime:     "2026-03-02T14:30:00Z",
		CloseTime:    &closeTime,
		PlannedRisk:  &risk,
		Emotion:      "calm",
		Confidence:   &conf,
		ProcessScore: &score,
		SetupType:    "breakout",
		Checklist:    &models.Checklist{DefinedRisk: true, SetupConfirmed: true, SizedWithinPlan: true, ExitPlanned: true},
		Tags:         []string{"earnings", "gap"},
	}
}

func TestSaveAndGetTradeRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := fullRawTrade()
	if err := s.SaveTrade(ctx, &want); err != nil {
		t.Fatalf("saving: %v", err)
	}

	got, err := s.GetTrades(ctx, TradeFilter{})
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(got))
	}

	tr := got[0]
	if tr.ID != want.ID || tr.Symbol != want.Symbol || tr.Side != want.Side {
		t.Errorf("identity fields = %s/%s/%s", tr.ID, tr.Symbol, tr.Side)
	}
	if tr.EntryPrice != 100 || *tr.ExitPrice != 110 || tr.Quantity != 10 || tr.Fees != 5 {
		t.Errorf("price fields differ: %+v", tr)
	}
	if *tr.PnL != 95 || *tr.PlannedRisk != 50 {
		t.Errorf("pnl/risk = %v/%v", *tr.PnL, *tr.PlannedRisk)
	}
	if tr.OpenTime != want.OpenTime || *tr.CloseTime != *want.CloseTime {
		t.Errorf("timestamps = %s/%s", tr.OpenTime, *tr.CloseTime)
	}
	if tr.Emotion != "calm" || *tr.Confidence != 8 || *tr.ProcessScore != 7 || tr.SetupType != "breakout" {
		t.Errorf("behavioral fields differ: %+v", tr)
	}
	if tr.Checklist == nil || !tr.Checklist.Passed() {
		t.Errorf("checklist = %+v", tr.Checklist)
	}
	if tr.Instrument.AssetClass != "option" || tr.Instrument.Attributes["strike"] != "180" {
		t.Errorf("instrument = %+v", tr.Instrument)
	}
	if len(tr.Tags) != 2 || tr.Tags[0] != "earnings" {
		t.Errorf("tags = %v", tr.Tags)
	}
}

func TestSaveTradeOpenPosition(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	open := models.RawTrade{
		ID:         "open1",
		Symbol:     "TSLA",
		EntryPrice: 200,
		Quantity:   5,
		OpenTime:   "2026-03-02T14:30:00Z",
	}
	if err := s.SaveTrade(ctx, &open); err != nil {
		t.Fatalf("saving: %v", err)
	}

	got, err := s.GetTrades(ctx, TradeFilter{})
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	tr := got[0]
	if tr.ExitPrice != nil || tr.CloseTime != nil || tr.PnL != nil {
		t.Errorf("open trade has closed fields: %+v", tr)
	}
	if tr.Checklist != nil || tr.Confidence != nil {
		t.Errorf("absent optionals must stay nil: %+v", tr)
	}
}

func TestSaveTradeReplacesByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := fullRawTrade()
	if err := s.SaveTrade(ctx, &first); err != nil {
		t.Fatal(err)
	}
	updated := fullRawTrade()
	updated.Emotion = "greed"
	if err := s.SaveTrade(ctx, &updated); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetTrades(ctx, TradeFilter{})
	if len(got) != 1 {
		t.Fatalf("expected upsert, got %d rows", len(got))
	}
	if got[0].Emotion != "greed" {
		t.Errorf("emotion = %s, want the updated value", got[0].Emotion)
	}
}

func TestSaveTradeNormalizesOffsetsToUTC(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// 23:00+05:30 is 17:30 UTC — earlier than 20:00 UTC, although the
	// raw strings would sort the other way around.
	offset := models.RawTrade{ID: "offset", Symbol: "INFY", EntryPrice: 10, Quantity: 1,
		OpenTime: "2026-02-05T23:00:00+05:30"}
	utc := models.RawTrade{ID: "utc", Symbol: "INFY", EntryPrice: 10, Quantity: 1,
		OpenTime: "2026-02-05T20:00:00Z"}
	for _, tr := range []models.RawTrade{utc, offset} {
		trade := tr
		if err := s.SaveTrade(ctx, &trade); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.GetTrades(ctx, TradeFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if all[0].ID != "offset" || all[1].ID != "utc" {
		t.Errorf("open-time order = %s, %s; want offset first (17:30 UTC)", all[0].ID, all[1].ID)
	}
	if all[0].OpenTime != "2026-02-05T17:30:00Z" {
		t.Errorf("stored open time = %s, want the UTC rendering", all[0].OpenTime)
	}

	// A range starting 18:00 UTC must exclude the 17:30 UTC record even
	// though its raw string compared greater.
	late, err := s.GetTrades(ctx, TradeFilter{
		StartDate: time.Date(2026, time.February, 5, 18, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(late) != 1 || late[0].ID != "utc" {
		t.Errorf("range result = %+v, want only the 20:00 UTC record", late)
	}
}

func TestGetTradesFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mk := func(id, symbol, openTime string) models.RawTrade {
		return models.RawTrade{ID: id, Symbol: symbol, EntryPrice: 10, Quantity: 1, OpenTime: openTime}
	}
	for _, tr := range []models.RawTrade{
		mk("a", "AAPL", "2026-01-05T10:00:00Z"),
		mk("b", "AAPL", "2026-02-05T10:00:00Z"),
		mk("c", "TSLA", "2026-02-06T10:00:00Z"),
	} {
		trade := tr
		if err := s.SaveTrade(ctx, &trade); err != nil {
			t.Fatal(err)
		}
	}

	bySymbol, err := s.GetTrades(ctx, TradeFilter{Symbol: "AAPL"})
	if err != nil {
		t.Fatal(err)
	}
	if len(bySymbol) != 2 {
		t.Errorf("symbol filter returned %d rows, want 2", len(bySymbol))
	}

	feb := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	byRange, err := s.GetTrades(ctx, TradeFilter{StartDate: feb, EndDate: mar})
	if err != nil {
		t.Fatal(err)
	}
	if len(byRange) != 2 {
		t.Errorf("range filter returned %d rows, want 2", len(byRange))
	}
	if byRange[0].ID != "b" || byRange[1].ID != "c" {
		t.Errorf("range rows out of open-time order: %s, %s", byRange[0].ID, byRange[1].ID)
	}

	limited, err := s.GetTrades(ctx, TradeFilter{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].ID != "a" {
		t.Errorf("limit returned %+v, want the earliest open", limited)
	}
}
