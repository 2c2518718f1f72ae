// Package store provides persistence for raw trade records.
//
// The analytics engine consumes the snapshot returned by GetTrades
// wholesale per call; there is no pagination or streaming at this
// boundary.
package store

import (
	"context"
	"time"

	"trade-journal/internal/models"
)

// TradeStore defines the persistence interface the engine's callers use
// to obtain raw trade records.
type TradeStore interface {
	SaveTrade(ctx context.Context, trade *models.RawTrade) error
	GetTrades(ctx context.Context, filter TradeFilter) ([]models.RawTrade, error)
	Close() error
}

// TradeFilter represents filters for querying trades. Zero-valued fields
// are ignored.
type TradeFilter struct {
	Symbol    string
	StartDate time.Time // filters on open time
	EndDate   time.Time
	Limit     int
}
