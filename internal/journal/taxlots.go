package journal

import (
	"fmt"
	"sort"
	"time"

	"trade-journal/internal/models"
)

// Each trade record is decomposed into an opening event and, when the
// position has been exited, a closing event. Matching pairs closing
// quantity against the oldest still-open opening quantity of the same
// symbol (FIFO), slicing across opens when needed. A trade's fees are
// realized with its close and prorated across the slices of that close.

type openLot struct {
	tradeID   string
	at        time.Time
	price     float64
	remaining float64
}

type closeEvent struct {
	tradeID string
	at      time.Time
	price   float64
	qty     float64
	fees    float64
}

// MatchTaxLots runs FIFO matching over the whole collection and returns
// the realized lots in close-date order. Closing quantity with no prior
// open quantity available (a missing transfer-in, or a short this
// component does not model) produces an unmatched_close flag for the
// residual; matching continues with the covered portion.
func MatchTaxLots(trades []models.Trade, cfg Config) ([]models.TaxLot, []models.Flag) {
	longTermDays := cfg.LongTermHoldingDays
	if longTermDays <= 0 {
		longTermDays = DefaultConfig().LongTermHoldingDays
	}
	longTerm := time.Duration(longTermDays) * 24 * time.Hour

	opensBySymbol := make(map[string][]openLot)
	closesBySymbol := make(map[string][]closeEvent)
	for i := range trades {
		t := &trades[i]
		opensBySymbol[t.Symbol] = append(opensBySymbol[t.Symbol], openLot{
			tradeID:   t.ID,
			at:        t.OpenedAt,
			price:     t.EntryPrice,
			remaining: t.Quantity,
		})
		if t.Closed() {
			closesBySymbol[t.Symbol] = append(closesBySymbol[t.Symbol], closeEvent{
				tradeID: t.ID,
				at:      *t.ClosedAt,
				price:   *t.ExitPrice,
				qty:     t.Quantity,
				fees:    t.Fees,
			})
		}
	}

	symbols := make([]string, 0, len(opensBySymbol))
	for sym := range opensBySymbol {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var lots []models.TaxLot
	var flags []models.Flag

	for _, sym := range symbols {
		opens := opensBySymbol[sym]
		closes := closesBySymbol[sym]
		sort.Slice(opens, func(i, j int) bool { return opens[i].at.Before(opens[j].at) })
		sort.Slice(closes, func(i, j int) bool { return closes[i].at.Before(closes[j].at) })

		next := 0 // oldest open lot with remaining quantity
		for _, c := range closes {
			need := c.qty
			for need > 0 && next < len(opens) {
				lot := &opens[next]
				if lot.remaining == 0 {
					next++
					continue
				}
				// Only opens chronologically before the close qualify.
				if lot.at.After(c.at) {
					break
				}

				slice := need
				if lot.remaining < slice {
					slice = lot.remaining
				}

				costBasis := lot.price * slice
				proceeds := c.price * slice
				proratedFees := c.fees * slice / c.qty

				lots = append(lots, models.TaxLot{
					Symbol:       sym,
					Quantity:     slice,
					CostBasis:    costBasis,
					Proceeds:     proceeds,
					RealizedGain: proceeds - costBasis - proratedFees,
					IsLongTerm:   c.at.Sub(lot.at) > longTerm,
					OpenDate:     lot.at,
					CloseDate:    c.at,
				})

				lot.remaining -= slice
				need -= slice
				if lot.remaining == 0 {
					next++
				}
			}

			if need > 0 {
				flags = append(flags, models.Flag{
					Code:    models.FlagUnmatchedClose,
					TradeID: c.tradeID,
					Symbol:  sym,
					Detail:  fmt.Sprintf("no prior open quantity for %v of %v closed units", need, c.qty),
				})
			}
		}
	}

	sort.SliceStable(lots, func(i, j int) bool { return lots[i].CloseDate.Before(lots[j].CloseDate) })
	return lots, flags
}

// BuildTaxReport aggregates the lots whose close date falls in the given
// calendar year (in the display timezone) into a period report, split by
// short- and long-term holding. Flags from closes in that year ride
// along; the engine never decides user-facing messaging.
func BuildTaxReport(trades []models.Trade, year int, cfg Config) models.TaxReport {
	loc := cfg.location()
	lots, flags := MatchTaxLots(trades, cfg)

	report := models.TaxReport{Year: year}

	closeYears := make(map[string]int)
	for i := range trades {
		t := &trades[i]
		if t.Closed() {
			closeYears[t.ID] = t.ClosedAt.In(loc).Year()
		}
	}

	for _, lot := range lots {
		if lot.CloseDate.In(loc).Year() != year {
			continue
		}
		report.Lots = append(report.Lots, lot)
		report.NetGainLoss += lot.RealizedGain
		if lot.IsLongTerm {
			report.LongTermGain += lot.RealizedGain
		} else {
			report.ShortTermGain += lot.RealizedGain
		}
	}

	for _, f := range flags {
		if closeYears[f.TradeID] == year {
			report.Flags = append(report.Flags, f)
		}
	}

	return report
}
