package journal

import (
	"time"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/models"
)

// RejectedRecord describes a raw trade the normalizer refused, with
// enough context for the caller to warn the user. One bad record never
// blocks the batch.
type RejectedRecord struct {
	Index  int
	ID     string
	Reason string
}

// Normalize validates and defaults a batch of raw trade records into the
// canonical shape used by every other component. Invalid records are
// dropped into the rejection list and processing continues.
func Normalize(raw []models.RawTrade) ([]models.Trade, []RejectedRecord) {
	trades := make([]models.Trade, 0, len(raw))
	var rejected []RejectedRecord

	for i, r := range raw {
		t, err := normalizeOne(r)
		if err != nil {
			rejected = append(rejected, RejectedRecord{Index: i, ID: r.ID, Reason: err.Error()})
			continue
		}
		trades = append(trades, t)
	}

	return trades, rejected
}

func normalizeOne(r models.RawTrade) (models.Trade, error) {
	if r.EntryPrice <= 0 {
		return models.Trade{}, apperrors.NewValidationError("entry_price", r.EntryPrice, "must be positive")
	}
	if r.Quantity <= 0 {
		return models.Trade{}, apperrors.NewValidationError("quantity", r.Quantity, "must be positive")
	}

	openedAt, err := time.Parse(time.RFC3339, r.OpenTime)
	if err != nil {
		return models.Trade{}, apperrors.NewValidationError("open_time", r.OpenTime, "not an RFC 3339 timestamp")
	}

	// Closed state is atomic: exit price and close time arrive together
	// or not at all.
	if (r.ExitPrice == nil) != (r.CloseTime == nil) {
		return models.Trade{}, apperrors.NewValidationError("close", r.ID, "exit price and close timestamp must both be set or both be empty")
	}

	t := models.Trade{
		ID:           r.ID,
		Symbol:       r.Symbol,
		Side:         r.Side,
		Instrument:   r.Instrument,
		EntryPrice:   r.EntryPrice,
		ExitPrice:    r.ExitPrice,
		Quantity:     r.Quantity,
		Fees:         r.Fees,
		OpenedAt:     openedAt,
		PlannedRisk:  r.PlannedRisk,
		Emotion:      r.Emotion,
		Confidence:   r.Confidence,
		ProcessScore: r.ProcessScore,
		SetupType:    r.SetupType,
		Checklist:    r.Checklist,
		Tags:         r.Tags,
	}
	if t.Side == "" {
		t.Side = models.SideLong
	}

	if r.CloseTime != nil {
		closedAt, err := time.Parse(time.RFC3339, *r.CloseTime)
		if err != nil {
			return models.Trade{}, apperrors.NewValidationError("close_time", *r.CloseTime, "not an RFC 3339 timestamp")
		}
		t.ClosedAt = &closedAt

		// A provided P&L is authoritative; otherwise derive it. A close
		// preceding its open stays parseable here and is surfaced as a
		// data-quality flag by the exit-quality analyzer.
		if r.PnL != nil {
			t.PnL = models.ProvidedPnL(*r.PnL)
		} else {
			t.PnL = models.DerivedPnL(derivePnL(&t))
		}
	}

	return t, nil
}

// derivePnL computes (exit-entry)*quantity*directionSign - fees.
func derivePnL(t *models.Trade) float64 {
	return (*t.ExitPrice-t.EntryPrice)*t.Quantity*t.Side.DirectionSign() - t.Fees
}

// closedTrades filters the collection down to closed positions, which
// are the only ones that contribute to win/loss, drawdown, exit-quality
// and tax computations.
func closedTrades(trades []models.Trade) []models.Trade {
	out := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Closed() {
			out = append(out, t)
		}
	}
	return out
}
