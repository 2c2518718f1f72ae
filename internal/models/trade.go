// Package models defines the value objects shared by the journal engine.
package models

import "time"

// Side represents the direction of a position.
type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// DirectionSign returns +1 for long positions and -1 for short positions.
func (s Side) DirectionSign() float64 {
	if s == SideShort {
		return -1
	}
	return 1
}

// PnLSource records where a realized P&L figure came from.
type PnLSource string

const (
	// PnLProvided means the figure was reported by the broker or importer
	// and is authoritative.
	PnLProvided PnLSource = "PROVIDED"
	// PnLDerived means the figure was computed from entry, exit, quantity
	// and fees during normalization.
	PnLDerived PnLSource = "DERIVED"
)

// PnL couples a realized P&L amount with its provenance so downstream
// code never re-derives a value that was already supplied.
type PnL struct {
	Amount float64
	Source PnLSource
}

// ProvidedPnL wraps a broker-reported P&L amount.
func ProvidedPnL(amount float64) *PnL {
	return &PnL{Amount: amount, Source: PnLProvided}
}

// DerivedPnL wraps a P&L amount computed during normalization.
func DerivedPnL(amount float64) *PnL {
	return &PnL{Amount: amount, Source: PnLDerived}
}

// Instrument carries asset-class specific attributes (option strike,
// chain, expiry and the like). The engine passes these through untouched.
type Instrument struct {
	AssetClass string
	Attributes map[string]string
}

// Checklist is the trader's pre-trade rule checklist. The fields are
// enumerated explicitly so compliance computation never depends on
// string-key guessing.
type Checklist struct {
	DefinedRisk     bool
	SetupConfirmed  bool
	SizedWithinPlan bool
	ExitPlanned     bool
	// OnPlan is the trader's self-reported "I followed my plan" override.
	OnPlan bool
}

// Passed reports whether the checklist counts as compliant: either every
// item is true or the trader marked the trade on-plan.
func (c Checklist) Passed() bool {
	if c.OnPlan {
		return true
	}
	return c.DefinedRisk && c.SetupConfirmed && c.SizedWithinPlan && c.ExitPlanned
}

// RawTrade is the wire-shaped record handed over by the persistence
// layer. Timestamps are RFC 3339 strings and every optional field is a
// pointer; the normalizer turns this into a canonical Trade or rejects it.
type RawTrade struct {
	ID         string
	Symbol     string
	Side       Side
	Instrument Instrument

	EntryPrice float64
	ExitPrice  *float64
	Quantity   float64
	Fees       float64
	PnL        *float64

	OpenTime  string
	CloseTime *string

	PlannedRisk  *float64
	Emotion      string
	Confidence   *int
	ProcessScore *int
	SetupType    string
	Checklist    *Checklist
	Tags         []string
}

// Trade is the canonical, normalized position record. It is immutable:
// the engine reads it, never writes it. A trade is closed iff ExitPrice
// and ClosedAt are both non-nil; PnL is guaranteed non-nil for closed
// trades after normalization.
type Trade struct {
	ID         string
	Symbol     string
	Side       Side
	Instrument Instrument

	EntryPrice float64
	ExitPrice  *float64
	Quantity   float64
	Fees       float64
	PnL        *PnL

	OpenedAt time.Time
	ClosedAt *time.Time

	PlannedRisk  *float64
	Emotion      string
	Confidence   *int
	ProcessScore *int
	SetupType    string
	Checklist    *Checklist
	Tags         []string
}

// Closed reports whether the position has been exited.
func (t *Trade) Closed() bool {
	return t.ExitPrice != nil && t.ClosedAt != nil
}

// RealizedPnL returns the realized P&L amount, 0 for open trades.
func (t *Trade) RealizedPnL() float64 {
	if t.PnL == nil {
		return 0
	}
	return t.PnL.Amount
}

// IsWin reports whether the trade closed with a positive P&L.
// Break-even trades count as losses.
func (t *Trade) IsWin() bool {
	return t.Closed() && t.RealizedPnL() > 0
}

// Notional returns the entry-side position size in currency terms.
func (t *Trade) Notional() float64 {
	return t.EntryPrice * t.Quantity
}

// HoldDuration returns how long the position was held. It can be
// negative for internally inconsistent records; callers flag that
// condition rather than correcting it.
func (t *Trade) HoldDuration() time.Duration {
	if t.ClosedAt == nil {
		return 0
	}
	return t.ClosedAt.Sub(t.OpenedAt)
}
