package journal

import (
	"time"

	"trade-journal/internal/models"
)

// ComputeTimeBuckets bins closed trades by hour-of-day of the close
// timestamp and by weekday of the open timestamp, both in the display
// timezone. All 24 hours and all 7 weekdays are always present so a
// caller can render "no data" distinctly from "data equals zero".
func ComputeTimeBuckets(trades []models.Trade, cfg Config) models.TimeBuckets {
	loc := cfg.location()

	hours := make([]models.HourBucket, 24)
	for h := range hours {
		hours[h].Hour = h
	}
	weekdays := make([]models.WeekdayBucket, 7)
	for d := range weekdays {
		weekdays[d].Weekday = time.Weekday(d)
	}

	for i := range trades {
		t := &trades[i]
		if !t.Closed() {
			continue
		}
		pnl := t.RealizedPnL()

		h := t.ClosedAt.In(loc).Hour()
		addToBucket(&hours[h].Bucket, pnl)

		d := int(t.OpenedAt.In(loc).Weekday())
		addToBucket(&weekdays[d].Bucket, pnl)
	}

	for i := range hours {
		finalizeBucket(&hours[i].Bucket)
	}
	for i := range weekdays {
		finalizeBucket(&weekdays[i].Bucket)
	}

	return models.TimeBuckets{ByHour: hours, ByWeekday: weekdays}
}

// ComputeExitBuckets splits closed trades by same-calendar-day vs
// overnight close and by holding-duration tier. The tier boundaries come
// from the configuration table, not from the algorithm.
func ComputeExitBuckets(trades []models.Trade, cfg Config) models.ExitBuckets {
	loc := cfg.location()
	tiers := cfg.HoldTiers
	if len(tiers) == 0 {
		tiers = DefaultConfig().HoldTiers
	}

	out := models.ExitBuckets{ByHoldTier: make([]models.HoldTierBucket, len(tiers))}
	for i, tier := range tiers {
		out.ByHoldTier[i].Tier = tier.Name
	}

	for i := range trades {
		t := &trades[i]
		if !t.Closed() {
			continue
		}
		pnl := t.RealizedPnL()

		if sameCalendarDay(t.OpenedAt.In(loc), t.ClosedAt.In(loc)) {
			addToBucket(&out.SameDay, pnl)
		} else {
			addToBucket(&out.Overnight, pnl)
		}

		idx := holdTierIndex(tiers, t.HoldDuration())
		addToBucket(&out.ByHoldTier[idx].Bucket, pnl)
	}

	finalizeBucket(&out.SameDay)
	finalizeBucket(&out.Overnight)
	for i := range out.ByHoldTier {
		finalizeBucket(&out.ByHoldTier[i].Bucket)
	}

	return out
}

// holdTierIndex returns the first tier whose upper bound covers the
// duration; the open-ended tier (Max == 0) catches the rest.
func holdTierIndex(tiers []HoldTier, d time.Duration) int {
	for i, tier := range tiers {
		if tier.Max == 0 {
			return i
		}
		if d < tier.Max {
			return i
		}
	}
	return len(tiers) - 1
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func addToBucket(b *models.Bucket, pnl float64) {
	b.Count++
	b.PnL += pnl
	if pnl > 0 {
		b.Wins++
	}
}

func finalizeBucket(b *models.Bucket) {
	if b.Count > 0 {
		b.WinRate = float64(b.Wins) / float64(b.Count) * 100
	}
}
