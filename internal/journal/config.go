// Package journal implements the analytics core of the trading journal:
// pure, read-only transforms from a collection of trade records to
// derived report structures. Nothing in this package performs I/O, logs,
// or holds shared mutable state; repeated calls with identical input
// produce identical output.
package journal

import (
	"math"
	"time"
)

// EfficiencyTier is one row of the P&L-per-hour classification table.
// Tiers are evaluated top-down; a trade lands in the first tier whose
// Min it meets, so the table must be ordered by descending Min and end
// with a catch-all.
type EfficiencyTier struct {
	Name string
	Min  float64
}

// HoldTier is one row of the holding-duration classification table,
// ordered ascending. Max == 0 marks the open-ended final tier.
type HoldTier struct {
	Name string
	Max  time.Duration
}

// TiltConfig tunes the behavioral-signal detectors.
type TiltConfig struct {
	// ReentryWindow is how long after a losing close re-entries are
	// counted toward the revenge pattern.
	ReentryWindow time.Duration
	// ReentryCount is the number of opens inside the window that trips
	// the revenge signal.
	ReentryCount int
	// OversizeMultiple flags entries whose notional exceeds this multiple
	// of the trailing average, when armed by a preceding loss.
	OversizeMultiple float64
	// TrailingWindow is how many prior entries the trailing average spans.
	TrailingWindow int
}

// Config carries every tunable the engine needs. All values are explicit
// caller-supplied parameters; there are no hidden globals.
type Config struct {
	// Timezone is the trader's display timezone used for hour/day
	// bucketing and calendar-date aggregation.
	Timezone *time.Location
	// TradingPeriodsPerYear annualizes the Sharpe ratio.
	TradingPeriodsPerYear float64
	// LongTermHoldingDays is the short/long-term tax boundary; a lot is
	// long-term when held strictly longer than this many days.
	LongTermHoldingDays int
	// MinHoldHours floors the divisor of pnl-per-hour so sub-minute
	// trades do not blow up the ratio.
	MinHoldHours float64

	EfficiencyTiers []EfficiencyTier
	HoldTiers       []HoldTier
	Tilt            TiltConfig
}

// DefaultConfig returns the product-default configuration: UTC display,
// 252 trading days, 365-day tax boundary, one-minute hold floor and the
// default tier tables.
func DefaultConfig() Config {
	return Config{
		Timezone:              time.UTC,
		TradingPeriodsPerYear: 252,
		LongTermHoldingDays:   365,
		MinHoldHours:          1.0 / 60.0,
		EfficiencyTiers: []EfficiencyTier{
			{Name: "high", Min: 50},
			{Name: "moderate", Min: 10},
			{Name: "low", Min: 0},
			{Name: "negative", Min: math.Inf(-1)},
		},
		HoldTiers: []HoldTier{
			{Name: "<1h", Max: time.Hour},
			{Name: "1-4h", Max: 4 * time.Hour},
			{Name: "4-24h", Max: 24 * time.Hour},
			{Name: "1-3d", Max: 72 * time.Hour},
			{Name: ">3d", Max: 0},
		},
		Tilt: TiltConfig{
			ReentryWindow:    time.Hour,
			ReentryCount:     3,
			OversizeMultiple: 2,
			TrailingWindow:   5,
		},
	}
}

func (c Config) location() *time.Location {
	if c.Timezone == nil {
		return time.UTC
	}
	return c.Timezone
}
