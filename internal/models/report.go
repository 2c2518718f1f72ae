package models

import "time"

// DailyPnl is one row of the daily P&L series: a calendar date (midnight
// in the display timezone) with the summed realized P&L and the number of
// trades closed that day. Rows exist only for dates with at least one
// closed trade.
type DailyPnl struct {
	Date       time.Time
	PnL        float64
	TradeCount int
}

// KellyInputs exposes the Kelly-sizing derivation. When Defined is false
// the ratio is meaningless (avgWinRR <= 0) and callers render "N/A".
type KellyInputs struct {
	WinProbability float64
	AvgWinRR       float64
	FullKelly      float64
	Defined        bool
}

// AdvancedStats is the single-pass summary over closed trades.
// ProfitFactor uses two documented sentinels: +Inf when there are wins
// and no losses, 0 when there are no wins. AvgWin and LargestWin stay 0
// when the period has no winning trade, AvgLoss and LargestLoss stay 0
// when it has no losing trade; a winless period never reports its
// least-negative loss as a "win".
type AdvancedStats struct {
	TotalClosed int
	Wins        int
	Losses      int

	WinRate     float64 // percent, 0..100
	AvgWin      float64
	AvgLoss     float64
	LargestWin  float64
	LargestLoss float64

	GrossProfit  float64
	GrossLoss    float64
	ProfitFactor float64

	Expectancy  float64 // R-multiples
	SharpeRatio float64

	Kelly KellyInputs
}

// DrawdownStats describes the peak-to-trough behaviour of the equity
// curve built from the daily P&L series.
type DrawdownStats struct {
	MaxDrawdown float64
	// MaxDrawdownDuration is the number of consecutive days the curve
	// stayed below the peak that produced the max drawdown.
	MaxDrawdownDuration int
	CurrentDrawdown     float64
}

// StreakType labels a run of same-outcome trades.
type StreakType string

const (
	StreakNone StreakType = "none"
	StreakWin  StreakType = "win"
	StreakLoss StreakType = "loss"
)

// Streak is a run of consecutive same-outcome trades.
type Streak struct {
	Type  StreakType
	Count int
}

// StreakStats holds the best and worst runs plus the trailing run ending
// at the most recent closed trade.
type StreakStats struct {
	BestWinStreak   int
	WorstLoseStreak int
	Current         Streak
}

// Bucket is one bin of a distribution: trade count, summed P&L and the
// win rate within the bin. A Count of 0 renders as "no data", distinct
// from data that sums to zero.
type Bucket struct {
	Count   int
	PnL     float64
	Wins    int
	WinRate float64 // percent
}

// HourBucket bins closed trades by the hour of their close timestamp.
type HourBucket struct {
	Hour int
	Bucket
}

// WeekdayBucket bins closed trades by the weekday of their open timestamp.
type WeekdayBucket struct {
	Weekday time.Weekday
	Bucket
}

// TimeBuckets always enumerates all 24 hours and all 7 weekdays.
type TimeBuckets struct {
	ByHour    []HourBucket
	ByWeekday []WeekdayBucket
}

// HoldTierBucket bins exits by holding-duration tier.
type HoldTierBucket struct {
	Tier string
	Bucket
}

// ExitBuckets is the exit-specific view: same-calendar-day closes vs
// overnight closes, plus the holding-duration tier distribution.
type ExitBuckets struct {
	SameDay    Bucket
	Overnight  Bucket
	ByHoldTier []HoldTierBucket
}

// FlagCode identifies a data-quality condition.
type FlagCode string

const (
	// FlagNegativeDuration marks a trade whose close precedes its open.
	FlagNegativeDuration FlagCode = "negative_duration"
	// FlagUnmatchedClose marks closing quantity with no prior open
	// quantity available, e.g. a missing transfer-in or a short position.
	FlagUnmatchedClose FlagCode = "unmatched_close"
)

// Flag is a data-quality annotation attached to an otherwise valid
// result. Flags bubble up unmodified; the caller decides messaging.
type Flag struct {
	Code    FlagCode
	TradeID string
	Symbol  string
	Detail  string
}

// TradeExitAnalysis is the per-trade exit-quality row, derived 1:1 from
// a closed trade.
type TradeExitAnalysis struct {
	TradeID    string
	Symbol     string
	PnL        float64
	IsWin      bool
	HoldHours  float64
	PnLPerHour float64
	Flags      []Flag
}

// EfficiencyTierStats aggregates exit-quality rows per named tier.
type EfficiencyTierStats struct {
	Tier          string
	Count         int
	AvgHoldHours  float64
	AvgPnL        float64
	AvgPnLPerHour float64
}

// TaxLot is a closing event's matched slice against one FIFO-ordered
// opening lot of the same symbol.
type TaxLot struct {
	Symbol       string
	Quantity     float64
	CostBasis    float64
	Proceeds     float64
	RealizedGain float64
	IsLongTerm   bool
	OpenDate     time.Time
	CloseDate    time.Time
}

// TaxReport sums realized gains for one calendar year, split by holding
// period.
type TaxReport struct {
	Year          int
	NetGainLoss   float64
	ShortTermGain float64
	LongTermGain  float64
	Lots          []TaxLot
	Flags         []Flag
}

// EmotionGroup aggregates trades by self-reported emotion.
type EmotionGroup struct {
	Emotion string
	Count   int
	PnL     float64
}

// Suggestion is the coaching message selected for a weekly report.
type Suggestion struct {
	Code    string
	Message string
}

// WeeklyReport is the aggregate over one ISO week. It owns no state of
// its own and is rebuilt per week key on request.
type WeeklyReport struct {
	Year  int
	Week  int
	Start time.Time
	End   time.Time

	TradeCount int
	TotalPnL   float64

	Stats           AdvancedStats
	Drawdown        DrawdownStats
	Streaks         StreakStats
	TimeBuckets     TimeBuckets
	Exits           []TradeExitAnalysis
	EfficiencyTiers []EfficiencyTierStats

	BestTrade         *Trade
	WorstTrade        *Trade
	BestProcessTrade  *Trade
	WorstProcessTrade *Trade

	EmotionBreakdown []EmotionGroup
	RuleCompliance   *float64 // percent; nil when no trade records a checklist
	AvgProcessScore  *float64

	Suggestion Suggestion
}

// TiltType labels a behavioral warning pattern.
type TiltType string

const (
	// TiltRevengeEntries flags a burst of re-entries shortly after a loss.
	TiltRevengeEntries TiltType = "revenge_entries"
	// TiltOversizedEntry flags a position sized well above the trailing
	// average right after a loss.
	TiltOversizedEntry TiltType = "oversized_entry"
)

// TiltSignal is a heuristic flag for emotionally-driven behaviour.
// Signals are exposed separately and never folded into the weekly report.
type TiltSignal struct {
	Type     TiltType
	At       time.Time
	TradeIDs []string
	Detail   string
}
